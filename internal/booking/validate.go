package booking

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the calendar-date form accepted for the reservation
// date. The date is part of the uniqueness key, so it is normalized
// here once and compared as an exact value everywhere else.
const dateLayout = "2006-01-02"

// FieldError describes a single invalid reservation field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field errors for a rejected
// reservation. It replaces the declarative model validations of
// typical ORMs with an explicit function so the rules hold no matter
// how the store is configured.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validate checks the reservation parameters and returns a
// ValidationError listing every problem, or nil when the parameters
// are acceptable.
func (p CreateParams) validate() *ValidationError {
	var fields []FieldError
	if p.UserID == 0 {
		fields = append(fields, FieldError{Field: "user_id", Message: "required"})
	}
	if p.ScheduleID == 0 {
		fields = append(fields, FieldError{Field: "schedule_id", Message: "required"})
	}
	if p.SheetID == 0 {
		fields = append(fields, FieldError{Field: "sheet_id", Message: "required"})
	}
	if err := validateDate(p.Date); err != nil {
		fields = append(fields, FieldError{Field: "date", Message: err.Error()})
	}
	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "required"})
	}
	if email := strings.TrimSpace(p.Email); email == "" {
		fields = append(fields, FieldError{Field: "email", Message: "required"})
	} else if !strings.Contains(email, "@") {
		fields = append(fields, FieldError{Field: "email", Message: "invalid"})
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// validateDate requires a non-empty calendar date in 2006-01-02 form.
func validateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return fmt.Errorf("required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("must be a calendar date in %s form", dateLayout)
	}
	return nil
}
