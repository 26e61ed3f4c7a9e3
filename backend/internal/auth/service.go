package auth

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"schoolhub/backend/internal/shared"
	"schoolhub/backend/internal/validation"
)

// Service owns user credentials and the signed token lifecycle.
type Service struct {
	db       *mongo.Database
	config   *shared.ServiceConfig
	usersCol *mongo.Collection
}

// Claims carries the principal's identity inside a signed token. The role
// embedded here is authoritative for the token's lifetime; it is not
// re-read from storage on each request.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignupRequest mirrors the expected JSON input for /auth/signup.
type SignupRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,bdphone"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// NewService creates a new auth Service instance.
func NewService(db *mongo.Database, config *shared.ServiceConfig) *Service {
	return &Service{
		db:       db,
		config:   config,
		usersCol: db.Collection(shared.UsersCollection),
	}
}

// Signup registers a new user, hashes the password, and issues a token.
func (s *Service) Signup(ctx context.Context, req *SignupRequest) (*shared.User, string, error) {
	if err := validation.Struct(req); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.Security.BCryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to process password: %w", err)
	}

	now := time.Now()
	user := &shared.User{
		ID:           shared.GenerateID("usr"),
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         shared.RoleStudent,
		Avatar:       shared.DefaultAvatar,
		CreatedAt:    now,
	}

	if err := validation.User(user); err != nil {
		return nil, "", err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.usersCol.InsertOne(queryCtx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", shared.DuplicateKeyError("email")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, _, err := s.IssueToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// Signin authenticates a user by email and password. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Signin(ctx context.Context, email, password string) (*shared.User, string, error) {
	if email == "" || password == "" {
		return nil, "", shared.NewValidationError("credentials", "email and password are required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	user, err := s.findByEmailWithCredentials(queryCtx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", fmt.Errorf("%w: invalid credentials", shared.ErrUnauthenticated)
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if user.HasExternalIdentity() && user.PasswordHash == "" {
		return nil, "", fmt.Errorf("%w: account uses external sign-in", shared.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: invalid credentials", shared.ErrUnauthenticated)
	}

	token, _, err := s.IssueToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

// ForgotPassword records a reset request for an existing account. The reset
// token is delivered out-of-band; this service only persists it.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return shared.NewValidationError("email", "is required")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))

	resetToken := shared.GenerateID("rst")
	expires := time.Now().Add(1 * time.Hour)

	result, err := s.usersCol.UpdateOne(queryCtx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{
			"reset_token":         resetToken,
			"reset_token_expires": expires,
			"updated_at":          time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to record reset request: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: no account for that email", shared.ErrNotFound)
	}

	log.Printf("Password reset requested for %s (token expires %s)", email, expires.Format(time.RFC3339))
	return nil
}

// ============================================================================
// Token Issuer
// ============================================================================

// IssueToken binds {id, email, role} into a signed, expiring token.
func (s *Service) IssueToken(userID, email, role string) (string, time.Time, error) {
	expirationTime := time.Now().Add(time.Duration(s.config.Security.JWTExpirationHours) * time.Hour)

	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        shared.GenerateID("jti"),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "schoolhub",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Security.JWTSecret))

	return tokenString, expirationTime, err
}

// VerifyToken validates the signature and expiry of a bearer token and
// returns its claims. Any failure maps to ErrUnauthenticated.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token missing", shared.ErrUnauthenticated)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Security.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", shared.ErrUnauthenticated)
	}

	return claims, nil
}

// ============================================================================
// Internal Helpers
// ============================================================================

// findByEmailWithCredentials is the explicit "include credentials" read
// path. Every other read of the users collection excludes password_hash.
func (s *Service) findByEmailWithCredentials(ctx context.Context, email string) (*shared.User, error) {
	var user shared.User
	err := s.usersCol.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExcludeCredentials is the projection applied on default user reads.
func ExcludeCredentials() *options.FindOneOptions {
	return options.FindOne().SetProjection(bson.M{"password_hash": 0, "reset_token": 0, "reset_token_expires": 0})
}
