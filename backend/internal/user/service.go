package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"schoolhub/backend/internal/auth"
	"schoolhub/backend/internal/shared"
	"schoolhub/backend/internal/validation"
)

// Service owns user profile reads and mutations.
type Service struct {
	db       *mongo.Database
	config   *shared.ServiceConfig
	usersCol *mongo.Collection
}

// ProfileUpdate lists the fields a user may change through the generic
// profile endpoint. Sensitive fields (role, password, googleId) have no
// entry here, so attempts to set them decode to nothing and are dropped
// without failing the request.
type ProfileUpdate struct {
	FullName    *string    `json:"fullName"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	Address     *string    `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      *string    `json:"gender"`
	BloodGroup  *string    `json:"bloodGroup"`
	Nationality *string    `json:"nationality"`
	Avatar      *string    `json:"avatar"`
	StudentID   *string    `json:"studentId"`
}

// NewService creates a new user Service instance.
func NewService(db *mongo.Database, config *shared.ServiceConfig) *Service {
	return &Service{
		db:       db,
		config:   config,
		usersCol: db.Collection(shared.UsersCollection),
	}
}

// GetProfile returns a user by id with credentials excluded.
func (s *Service) GetProfile(ctx context.Context, userID string) (*shared.User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user shared.User
	err := s.usersCol.FindOne(queryCtx, bson.M{"_id": userID}, auth.ExcludeCredentials()).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &user, nil
}

// UpdateProfile applies the allowed subset of fields and returns the
// refreshed profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd *ProfileUpdate) (*shared.User, error) {
	set := bson.M{}

	if upd.FullName != nil && strings.TrimSpace(*upd.FullName) != "" {
		set["full_name"] = strings.TrimSpace(*upd.FullName)
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if !validation.IsValidEmail(email) {
			return nil, shared.NewValidationError("email", "must be a valid email address")
		}
		set["email"] = email
	}
	if upd.Phone != nil {
		phone := strings.TrimSpace(*upd.Phone)
		if !validation.IsValidBDPhone(phone) {
			return nil, shared.NewValidationError("phone", "must be a valid Bangladeshi mobile number")
		}
		set["phone"] = phone
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.DateOfBirth != nil {
		set["date_of_birth"] = *upd.DateOfBirth
	}
	if upd.Gender != nil {
		set["gender"] = *upd.Gender
	}
	if upd.BloodGroup != nil {
		set["blood_group"] = *upd.BloodGroup
	}
	if upd.Nationality != nil {
		set["nationality"] = *upd.Nationality
	}
	if upd.Avatar != nil {
		set["avatar"] = *upd.Avatar
	}
	if upd.StudentID != nil {
		set["student_id"] = *upd.StudentID
	}

	// A request carrying only protected fields is a deliberate no-op: it
	// still succeeds and returns the unchanged profile.
	if len(set) == 0 {
		return s.GetProfile(ctx, userID)
	}

	set["updated_at"] = time.Now()

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.usersCol.UpdateOne(queryCtx, bson.M{"_id": userID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, shared.DuplicateKeyError("email")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, userID)
	}

	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the old password on the credentials read path
// and replaces the stored hash.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return shared.NewValidationError("password", "old and new passwords are required")
	}
	if len(newPassword) < 8 {
		return shared.NewValidationError("newPassword", "must be at least 8 characters")
	}
	if oldPassword == newPassword {
		return shared.NewValidationError("newPassword", "must differ from the old password")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user shared.User
	err := s.usersCol.FindOne(queryCtx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: user %s", shared.ErrNotFound, userID)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: incorrect old password", shared.ErrForbidden)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.config.Security.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to process password: %w", err)
	}

	_, err = s.usersCol.UpdateOne(queryCtx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"password_hash": string(newHash),
			"updated_at":    time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
