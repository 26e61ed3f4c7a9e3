package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"schoolhub/backend/internal/shared"
	"schoolhub/backend/internal/validation"
)

// Service owns the back-office admin principals, stored in their own
// collection with username and email each globally unique.
type Service struct {
	db        *mongo.Database
	config    *shared.ServiceConfig
	adminsCol *mongo.Collection
}

// CreateRequest carries the fields for a new admin account.
type CreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewService creates a new admin Service instance.
func NewService(db *mongo.Database, config *shared.ServiceConfig) *Service {
	return &Service{
		db:        db,
		config:    config,
		adminsCol: db.Collection(shared.AdminsCollection),
	}
}

// CreateAdmin registers a new admin. Username and email are trimmed before
// the uniqueness check; the role is always "admin" regardless of input.
func (s *Service) CreateAdmin(ctx context.Context, req *CreateRequest) (*shared.Admin, error) {
	if req.Password != "" && len(req.Password) < 8 {
		return nil, shared.NewValidationError("password", "must be at least 8 characters")
	}

	var hash string
	if req.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.Security.BCryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to process password: %w", err)
		}
		hash = string(h)
	}

	a := &shared.Admin{
		ID:           shared.GenerateID("adm_usr"),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         shared.RoleAdmin,
		CreatedAt:    time.Now(),
	}

	if err := validation.Admin(a); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.adminsCol.InsertOne(queryCtx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, shared.DuplicateKeyError("username or email")
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	a.PasswordHash = ""
	return a, nil
}

// Authenticate verifies an admin's password. The comparison never exposes
// the plaintext or the stored hash to callers.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*shared.Admin, error) {
	if username == "" || password == "" {
		return nil, shared.NewValidationError("credentials", "username and password are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a shared.Admin
	err := s.adminsCol.FindOne(queryCtx, bson.M{"username": strings.TrimSpace(username)}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: invalid credentials", shared.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", shared.ErrUnauthenticated)
	}

	a.PasswordHash = ""
	return &a, nil
}

// GetByID returns one admin with credentials excluded.
func (s *Service) GetByID(ctx context.Context, id string) (*shared.Admin, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var a shared.Admin
	err := s.adminsCol.FindOne(queryCtx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: admin %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	a.PasswordHash = ""
	return &a, nil
}
