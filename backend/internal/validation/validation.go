// ============================================================================
// backend/internal/validation/validation.go
// Record validation: field presence, format, enum membership, numeric range
// ============================================================================

package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"schoolhub/backend/internal/shared"
)

// BDPhoneRE matches Bangladeshi mobile numbers in local (01XXXXXXXXX) and
// international (+880XXXXXXXXXX, 880XXXXXXXXXX) forms.
var BDPhoneRE = regexp.MustCompile(`^(?:\+8801|8801|01)[3-9][0-9]{8}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
		return BDPhoneRE.MatchString(fl.Field().String())
	})
	return v
}

// Struct runs struct-tag validation on a request payload and converts
// violations into the shared field-error shape. Returns nil when valid.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.NewValidationError("payload", "invalid request payload")
	}

	out := &shared.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, shared.FieldError{
			Field:   fieldName(fe),
			Message: messageFor(fe),
		})
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "payload"
	}
	// JSON-style field names: lower the first rune (FullName -> fullName)
	return strings.ToLower(name[:1]) + name[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "bdphone":
		return "must be a valid Bangladeshi mobile number"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param()[:1]) + fe.Param()[1:]
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// IsValidEmail reports whether the value passes the validator's standard
// email grammar.
func IsValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// IsValidBDPhone reports whether the value is an accepted Bangladeshi
// mobile number form.
func IsValidBDPhone(phone string) bool {
	return BDPhoneRE.MatchString(phone)
}

// ============================================================================
// Record Validators
// ============================================================================
// Each validator takes a fully constructed (defaults applied) record and
// returns nil or a *shared.ValidationError listing every violation.

// User validates a user record before persistence.
func User(u *shared.User) error {
	ve := &shared.ValidationError{}

	requireString(ve, "fullName", u.FullName)
	requireString(ve, "email", u.Email)

	if u.Email != "" && !IsValidEmail(u.Email) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	// Phone is required unless the account uses an external identity; a
	// password is likewise only required for local accounts.
	if !u.HasExternalIdentity() {
		if strings.TrimSpace(u.Phone) == "" {
			ve.Fields = append(ve.Fields, shared.FieldError{Field: "phone", Message: "is required"})
		}
		if u.PasswordHash == "" {
			ve.Fields = append(ve.Fields, shared.FieldError{Field: "password", Message: "is required"})
		}
	}

	if u.Phone != "" && !IsValidBDPhone(u.Phone) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "phone", Message: "must be a valid Bangladeshi mobile number"})
	}

	if !shared.IsValidRole(u.Role) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "role", Message: "must be one of student, teacher, parent, admin"})
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Admin validates an admin record before persistence.
func Admin(a *shared.Admin) error {
	ve := &shared.ValidationError{}

	requireString(ve, "username", a.Username)
	requireString(ve, "email", a.Email)

	if a.Email != "" && !IsValidEmail(a.Email) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if a.PasswordHash == "" {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "password", Message: "is required"})
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Admission validates an admission record before persistence.
func Admission(a *shared.Admission) error {
	ve := &shared.ValidationError{}

	requireString(ve, "userId", a.UserID)
	requireString(ve, "applicationId", a.ApplicationID)
	requireString(ve, "fullName", a.FullName)
	requireString(ve, "email", a.Email)
	requireString(ve, "selectedUniversity", a.SelectedUniversity)
	requireString(ve, "selectedProgram", a.SelectedProgram)

	if a.Email != "" && !IsValidEmail(a.Email) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if a.TotalFee <= 0 {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "totalFee", Message: "is required"})
	}

	if a.Gender != "" && !shared.IsValidGender(a.Gender) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "gender", Message: "must be one of Male, Female, Other"})
	}

	if !shared.IsValidAdmissionStatus(a.Status) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "status", Message: "must be one of Pending, Approved, Rejected"})
	}

	if !shared.IsValidPaymentStatus(a.PaymentStatus) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "paymentStatus", Message: "must be one of Pending, Completed, Failed"})
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// Result validates a result record before persistence. Out-of-range scores
// fail with a range violation rather than being clamped.
func Result(r *shared.Result) error {
	ve := &shared.ValidationError{}

	requireString(ve, "studentId", r.StudentID)
	requireString(ve, "subject", r.Subject)
	requireString(ve, "semester", r.Semester)

	if r.Year == 0 {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "year", Message: "is required"})
	}

	if !shared.IsValidScore(r.Score) {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: "score", Message: "must be between 0 and 100"})
	}

	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func requireString(ve *shared.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		ve.Fields = append(ve.Fields, shared.FieldError{Field: field, Message: "is required"})
	}
}
