package result

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

// Service owns the result ledger: plain CRUD with the score-range
// invariant enforced on create and update.
type Service struct {
	db         *mongo.Database
	resultsCol *mongo.Collection
}

// CreateRequest mirrors the expected JSON input for POST /results.
type CreateRequest struct {
	StudentID string  `json:"studentId"`
	Subject   string  `json:"subject"`
	Score     float64 `json:"score"`
	Semester  string  `json:"semester"`
	Year      int32   `json:"year"`
}

// UpdateRequest carries a partial result update (score correction and the
// like). Absent fields are left unchanged.
type UpdateRequest struct {
	Subject  *string  `json:"subject"`
	Score    *float64 `json:"score"`
	Semester *string  `json:"semester"`
	Year     *int32   `json:"year"`
}

// NewService creates a new result Service instance.
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:         db,
		resultsCol: db.Collection(shared.ResultsCollection),
	}
}

// Create validates and persists a new result.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*shared.Result, error) {
	r := &shared.Result{
		ID:        shared.GenerateID("res"),
		StudentID: strings.TrimSpace(req.StudentID),
		Subject:   strings.TrimSpace(req.Subject),
		Score:     req.Score,
		Semester:  strings.TrimSpace(req.Semester),
		Year:      req.Year,
		CreatedAt: time.Now(),
	}

	if err := validation.Result(r); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.resultsCol.InsertOne(queryCtx, r); err != nil {
		return nil, fmt.Errorf("failed to create result: %w", err)
	}

	return r, nil
}

// GetByID returns one result. Students may only read their own record;
// admins may read any.
func (s *Service) GetByID(ctx context.Context, id string, requesterID, requesterRole string) (*shared.Result, error) {
	var r shared.Result
	err := shared.FindOneWithTimeout(ctx, s.resultsCol, bson.M{"_id": id}, &r, 5*time.Second)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: result %s", shared.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load result: %w", err)
	}

	if requesterRole != shared.RoleAdmin && r.StudentID != requesterID {
		return nil, fmt.Errorf("%w: not your result", shared.ErrForbidden)
	}

	return &r, nil
}

// Update applies a partial correction, re-checking the score range.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*shared.Result, error) {
	set := bson.M{}

	if req.Subject != nil {
		if strings.TrimSpace(*req.Subject) == "" {
			return nil, shared.NewValidationError("subject", "is required")
		}
		set["subject"] = strings.TrimSpace(*req.Subject)
	}
	if req.Score != nil {
		if !shared.IsValidScore(*req.Score) {
			return nil, shared.NewValidationError("score", "must be between 0 and 100")
		}
		set["score"] = *req.Score
	}
	if req.Semester != nil {
		if strings.TrimSpace(*req.Semester) == "" {
			return nil, shared.NewValidationError("semester", "is required")
		}
		set["semester"] = strings.TrimSpace(*req.Semester)
	}
	if req.Year != nil {
		if *req.Year == 0 {
			return nil, shared.NewValidationError("year", "is required")
		}
		set["year"] = *req.Year
	}

	if len(set) == 0 {
		return nil, shared.NewValidationError("payload", "no updatable fields provided")
	}

	set["updated_at"] = time.Now()

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.resultsCol.UpdateOne(queryCtx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update result: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: result %s", shared.ErrNotFound, id)
	}

	var r shared.Result
	if err := s.resultsCol.FindOne(queryCtx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to reload result: %w", err)
	}

	return &r, nil
}

// Delete removes a result permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.resultsCol.DeleteOne(queryCtx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: result %s", shared.ErrNotFound, id)
	}

	return nil
}

// ListAll returns every result, newest first.
func (s *Service) ListAll(ctx context.Context) ([]shared.Result, error) {
	return s.list(ctx, bson.M{})
}

// ListByStudent returns one student's results, newest first.
func (s *Service) ListByStudent(ctx context.Context, studentID string) ([]shared.Result, error) {
	return s.list(ctx, bson.M{"student_id": studentID})
}

func (s *Service) list(ctx context.Context, filter bson.M) ([]shared.Result, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	findOptions := shared.BuildFindOptions(0, "created_at", -1)

	cursor, err := s.resultsCol.Find(queryCtx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer cursor.Close(queryCtx)

	results := []shared.Result{}
	if err := cursor.All(queryCtx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	return results, nil
}
