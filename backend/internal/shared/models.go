// ============================================================================
// backend/internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a registered account (student, teacher, parent, or admin).
type User struct {
	ID           string    `bson:"_id" json:"id"`
	FullName     string    `bson:"full_name" json:"fullName"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`                 // student, teacher, parent, admin
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`

	// External identity (Google sign-in). When GoogleID is set the account
	// has no local password and no phone requirement.
	GoogleID     string `bson:"google_id,omitempty" json:"googleId,omitempty"`
	AuthProvider string `bson:"auth_provider,omitempty" json:"authProvider,omitempty"`

	// Password reset state (token emailed out-of-band)
	ResetToken        string     `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExpires *time.Time `bson:"reset_token_expires,omitempty" json:"-"`

	// Profile fields
	Address     string     `bson:"address,omitempty" json:"address,omitempty"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Gender      string     `bson:"gender,omitempty" json:"gender,omitempty"`
	BloodGroup  string     `bson:"blood_group,omitempty" json:"bloodGroup,omitempty"`
	Nationality string     `bson:"nationality,omitempty" json:"nationality,omitempty"`
	Avatar      string     `bson:"avatar" json:"avatar"`
	StudentID   string     `bson:"student_id,omitempty" json:"studentId,omitempty"`
}

// HasExternalIdentity reports whether the account authenticates through an
// external provider instead of a local password.
func (u *User) HasExternalIdentity() bool {
	return u.GoogleID != ""
}

// Admin represents a back-office principal, stored separately from users.
type Admin struct {
	ID           string    `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
	Role         string    `bson:"role" json:"role"` // always "admin"
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ============================================================================
// Admission Models
// ============================================================================

// Admission represents a university admission application.
type Admission struct {
	ID            string `bson:"_id" json:"id"`
	UserID        string `bson:"user_id" json:"userId"`
	ApplicationID string `bson:"application_id" json:"applicationId"`

	// Applicant details
	FullName    string     `bson:"full_name" json:"fullName"`
	Email       string     `bson:"email" json:"email"`
	Phone       string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string     `bson:"address,omitempty" json:"address,omitempty"`
	DateOfBirth *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Gender      string     `bson:"gender,omitempty" json:"gender,omitempty"` // Male, Female, Other
	Nationality string     `bson:"nationality" json:"nationality"`

	// Academic history (secondary / higher secondary)
	SSCBoard string  `bson:"ssc_board,omitempty" json:"sscBoard,omitempty"`
	SSCRoll  string  `bson:"ssc_roll,omitempty" json:"sscRoll,omitempty"`
	SSCRegNo string  `bson:"ssc_reg_no,omitempty" json:"sscRegNo,omitempty"`
	SSCYear  string  `bson:"ssc_year,omitempty" json:"sscYear,omitempty"`
	SSCGPA   float64 `bson:"ssc_gpa,omitempty" json:"sscGPA,omitempty"`
	HSCBoard string  `bson:"hsc_board,omitempty" json:"hscBoard,omitempty"`
	HSCRoll  string  `bson:"hsc_roll,omitempty" json:"hscRoll,omitempty"`
	HSCRegNo string  `bson:"hsc_reg_no,omitempty" json:"hscRegNo,omitempty"`
	HSCYear  string  `bson:"hsc_year,omitempty" json:"hscYear,omitempty"`
	HSCGPA   float64 `bson:"hsc_gpa,omitempty" json:"hscGPA,omitempty"`

	// Program selection
	SelectedUniversity string `bson:"selected_university" json:"selectedUniversity"`
	SelectedProgram    string `bson:"selected_program" json:"selectedProgram"`

	// Fees
	ServiceFee   float64 `bson:"service_fee" json:"serviceFee"`
	AdmissionFee float64 `bson:"admission_fee" json:"admissionFee"`
	TotalFee     float64 `bson:"total_fee" json:"totalFee"`

	// Workflow state
	Status        string     `bson:"status" json:"status"`                 // Pending, Approved, Rejected
	PaymentStatus string     `bson:"payment_status" json:"paymentStatus"`  // Pending, Completed, Failed
	AdminRemarks  string     `bson:"admin_remarks" json:"adminRemarks"`
	ApprovedBy    string     `bson:"approved_by,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time `bson:"approved_at,omitempty" json:"approvedAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// IsPending reports whether the application is still awaiting a decision.
func (a *Admission) IsPending() bool {
	return a.Status == AdmissionStatusPending
}

// ============================================================================
// Result Models
// ============================================================================

// Result represents an academic score for one subject in one semester.
type Result struct {
	ID        string    `bson:"_id" json:"id"`
	StudentID string    `bson:"student_id" json:"studentId"`
	Subject   string    `bson:"subject" json:"subject"`
	Score     float64   `bson:"score" json:"score"` // inclusive range [0,100]
	Semester  string    `bson:"semester" json:"semester"`
	Year      int32     `bson:"year" json:"year"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updatedAt,omitempty"`
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// User roles
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
	RoleAdmin   = "admin"

	// Admission statuses
	AdmissionStatusPending  = "Pending"
	AdmissionStatusApproved = "Approved"
	AdmissionStatusRejected = "Rejected"

	// Payment statuses
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"

	// Genders (admission forms)
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"

	// Score bounds for results
	MinScore = 0.0
	MaxScore = 100.0

	// Defaults applied at record construction
	DefaultAvatar       = "/assets/images/default-avatar.png"
	DefaultNationality  = "Bangladeshi"
	DefaultServiceFee   = 100.0
	DefaultAdmissionFee = 0.0
)

// IsValidRole checks if a user role is a member of the role enum.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleParent, RoleAdmin:
		return true
	}
	return false
}

// IsValidAdmissionStatus checks if a status is a member of the status enum.
func IsValidAdmissionStatus(status string) bool {
	switch status {
	case AdmissionStatusPending, AdmissionStatusApproved, AdmissionStatusRejected:
		return true
	}
	return false
}

// IsValidPaymentStatus checks if a payment status is a member of its enum.
func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return true
	}
	return false
}

// IsValidGender checks if a gender value is a member of the gender enum.
func IsValidGender(gender string) bool {
	switch gender {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// IsValidScore checks the inclusive [0,100] score range.
func IsValidScore(score float64) bool {
	return score >= MinScore && score <= MaxScore
}

// ============================================================================
// ID Generation Helpers
// ============================================================================

// GenerateID generates a unique ID with a type prefix.
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// GenerateApplicationID generates an externally visible admission
// application ID, e.g. "APP2026-1a2b3c4d".
func GenerateApplicationID(now time.Time) string {
	return fmt.Sprintf("APP%d-%s", now.Year(), uuid.NewString()[:8])
}
