package admission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"schoolhub/backend/internal/shared"
	"schoolhub/backend/internal/validation"
)

// Service owns the admission application lifecycle:
// Pending (initial) -> Approved | Rejected (terminal, admin-only).
type Service struct {
	db            *mongo.Database
	admissionsCol *mongo.Collection
}

// CreateRequest mirrors the expected JSON input for POST /admissions.
type CreateRequest struct {
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
	Gender      string     `json:"gender"`
	Nationality string     `json:"nationality"`

	SSCBoard string  `json:"sscBoard"`
	SSCRoll  string  `json:"sscRoll"`
	SSCRegNo string  `json:"sscRegNo"`
	SSCYear  string  `json:"sscYear"`
	SSCGPA   float64 `json:"sscGPA"`
	HSCBoard string  `json:"hscBoard"`
	HSCRoll  string  `json:"hscRoll"`
	HSCRegNo string  `json:"hscRegNo"`
	HSCYear  string  `json:"hscYear"`
	HSCGPA   float64 `json:"hscGPA"`

	SelectedUniversity string `json:"selectedUniversity"`
	SelectedProgram    string `json:"selectedProgram"`

	AdmissionFee float64 `json:"admissionFee"`
	TotalFee     float64 `json:"totalFee"`
}

// NewService creates a new admission Service instance.
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:            db,
		admissionsCol: db.Collection(shared.AdmissionsCollection),
	}
}

// NewAdmission constructs a fully populated application from a request,
// applying every creation default before the record is validated.
func NewAdmission(userID string, req *CreateRequest, now time.Time) *shared.Admission {
	a := &shared.Admission{
		ID:            shared.GenerateID("adm"),
		UserID:        userID,
		ApplicationID: shared.GenerateApplicationID(now),

		FullName:    strings.TrimSpace(req.FullName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       strings.TrimSpace(req.Phone),
		Address:     req.Address,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Nationality: req.Nationality,

		SSCBoard: req.SSCBoard,
		SSCRoll:  req.SSCRoll,
		SSCRegNo: req.SSCRegNo,
		SSCYear:  req.SSCYear,
		SSCGPA:   req.SSCGPA,
		HSCBoard: req.HSCBoard,
		HSCRoll:  req.HSCRoll,
		HSCRegNo: req.HSCRegNo,
		HSCYear:  req.HSCYear,
		HSCGPA:   req.HSCGPA,

		SelectedUniversity: strings.TrimSpace(req.SelectedUniversity),
		SelectedProgram:    strings.TrimSpace(req.SelectedProgram),

		ServiceFee:   shared.DefaultServiceFee,
		AdmissionFee: req.AdmissionFee,
		TotalFee:     req.TotalFee,

		Status:        shared.AdmissionStatusPending,
		PaymentStatus: shared.PaymentStatusCompleted,
		AdminRemarks:  "",

		CreatedAt: now,
	}

	if a.Nationality == "" {
		a.Nationality = shared.DefaultNationality
	}
	if a.AdmissionFee == 0 {
		a.AdmissionFee = shared.DefaultAdmissionFee
	}

	return a
}

// Create validates and persists a new application for the given user.
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*shared.Admission, error) {
	a := NewAdmission(userID, req, time.Now())

	if err := validation.Admission(a); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.admissionsCol.InsertOne(queryCtx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, shared.DuplicateKeyError("applicationId")
		}
		return nil, fmt.Errorf("failed to create admission: %w", err)
	}

	return a, nil
}

// ListAll returns every application, newest first.
func (s *Service) ListAll(ctx context.Context) ([]shared.Admission, error) {
	return s.list(ctx, bson.M{})
}

// ListByUser returns the applications owned by one user, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]shared.Admission, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

// GetByID returns a single application.
func (s *Service) GetByID(ctx context.Context, id string) (*shared.Admission, error) {
	var a shared.Admission
	err := shared.FindOneWithTimeout(ctx, s.admissionsCol, bson.M{"_id": id}, &a, 5*time.Second)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: admission %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load admission: %w", err)
	}

	return &a, nil
}

// UpdateStatus moves an application out of Pending. Approving records the
// approver and timestamp; remarks are writable in any state but only
// touched when the caller supplies them.
func (s *Service) UpdateStatus(ctx context.Context, admissionID, adminID, status string, remarks *string) (*shared.Admission, error) {
	if !shared.IsValidAdmissionStatus(status) {
		return nil, shared.NewValidationError("status", "must be one of Pending, Approved, Rejected")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	current, err := s.GetByID(queryCtx, admissionID)
	if err != nil {
		return nil, err
	}

	if !current.IsPending() && status != current.Status {
		return nil, shared.NewValidationError("status", fmt.Sprintf("application already %s", strings.ToLower(current.Status)))
	}

	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if remarks != nil {
		set["admin_remarks"] = *remarks
	}
	if status == shared.AdmissionStatusApproved {
		set["approved_by"] = adminID
		set["approved_at"] = time.Now()
	}

	_, err = s.admissionsCol.UpdateOne(queryCtx, bson.M{"_id": admissionID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update admission status: %w", err)
	}

	return s.GetByID(queryCtx, admissionID)
}

func (s *Service) list(ctx context.Context, filter bson.M) ([]shared.Admission, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := shared.BuildFindOptions(0, "created_at", -1)

	cursor, err := s.admissionsCol.Find(queryCtx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query admissions: %w", err)
	}
	defer cursor.Close(queryCtx)

	admissions := []shared.Admission{}
	if err := cursor.All(queryCtx, &admissions); err != nil {
		return nil, fmt.Errorf("failed to decode admissions: %w", err)
	}

	return admissions, nil
}
