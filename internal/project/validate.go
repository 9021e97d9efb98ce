package project

import (
	"errors"
	"strings"

	"github.com/twiced-technology-gmbh/projtrack/internal/clierr"
	"github.com/twiced-technology-gmbh/projtrack/internal/date"
)

// ErrInvalid is the cause of every validation error returned by this package.
var ErrInvalid = errors.New("invalid input")

// ParseStatus converts user input such as "in-progress" into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if err := ValidateStatus(st); err != nil {
		return "", err
	}
	return st, nil
}

// ValidateStatus checks that a status is one of Statuses.
func ValidateStatus(st Status) error {
	for _, s := range Statuses {
		if s == st {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", st).
		WithDetails(map[string]any{
			"status":  st,
			"allowed": Statuses,
		}).
		WithCause(ErrInvalid)
}

// ParsePriority converts user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if err := ValidatePriority(p); err != nil {
		return "", err
	}
	return p, nil
}

// ValidatePriority checks that a priority is one of Priorities.
func ValidatePriority(p Priority) error {
	for _, allowed := range Priorities {
		if allowed == p {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", p).
		WithDetails(map[string]any{
			"priority": p,
			"allowed":  Priorities,
		}).
		WithCause(ErrInvalid)
}

// RequireField fails when value is blank.
func RequireField(field, value string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return clierr.Newf(clierr.ValidationFailed, "%s is required", field).
		WithDetails(map[string]any{"field": field}).
		WithCause(ErrInvalid)
}

// RequireDate fails when d is the zero date.
func RequireDate(field string, d date.Date) error {
	if !d.IsZero() {
		return nil
	}
	return clierr.Newf(clierr.ValidationFailed, "%s is required", field).
		WithDetails(map[string]any{"field": field}).
		WithCause(ErrInvalid)
}

// InvalidDate returns a CLI error for unparsable date input.
func InvalidDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		}).
		WithCause(ErrInvalid)
}

// ValidateDateRange checks that a project does not end before it starts.
func ValidateDateRange(start, due date.Date) error {
	if start.IsZero() || due.IsZero() || !due.Before(start.Time) {
		return nil
	}
	return clierr.New(clierr.InvalidDateRange, "Due date must be after start date").
		WithDetails(map[string]any{
			"start_date": start.String(),
			"due_date":   due.String(),
		}).
		WithCause(ErrInvalid)
}

// Validate checks a new project's required fields and priority.
func (f ProjectForm) Validate() error {
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"description", f.Description},
		{"owner", f.Owner},
	} {
		if err := RequireField(field.name, field.value); err != nil {
			return err
		}
	}
	if err := ValidatePriority(f.Priority); err != nil {
		return err
	}
	if err := RequireDate("start date", f.StartDate); err != nil {
		return err
	}
	return RequireDate("due date", f.DueDate)
}

// Validate checks the fields a patch sets.
func (p ProjectPatch) Validate() error {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"name", p.Name},
		{"description", p.Description},
		{"owner", p.Owner},
	} {
		if field.value == nil {
			continue
		}
		if err := RequireField(field.name, *field.value); err != nil {
			return err
		}
	}
	if p.Priority != nil {
		if err := ValidatePriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.StartDate != nil {
		if err := RequireDate("start date", *p.StartDate); err != nil {
			return err
		}
	}
	if p.DueDate != nil {
		return RequireDate("due date", *p.DueDate)
	}
	return nil
}

// Validate checks a new task's required fields.
func (f TaskForm) Validate() error {
	if err := RequireField("task name", f.Name); err != nil {
		return err
	}
	return RequireDate("due date", f.DueDate)
}

// Validate checks the fields a patch sets.
func (p TaskPatch) Validate() error {
	if p.Name != nil {
		if err := RequireField("task name", *p.Name); err != nil {
			return err
		}
	}
	if p.DueDate != nil {
		return RequireDate("due date", *p.DueDate)
	}
	return nil
}
