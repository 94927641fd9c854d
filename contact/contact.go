// Package contact validates and delivers messages sent through the site's contact form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrInvalidForm = errors.New("contact: invalid form")
	ErrSubmit      = errors.New("contact: submission failed")
)

var (
	emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9,10}$`)
)

var strict = bluemonday.StrictPolicy()

type Form struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Phone   string `form:"phone" json:"phone"`
	Message string `form:"message" json:"message"`
}

// Error keys, resolved against the i18n bundle by the caller.
const (
	KeyNameRequired    = "contact.error.name_required"
	KeyEmailRequired   = "contact.error.email_required"
	KeyEmailInvalid    = "contact.error.email_invalid"
	KeyPhoneRequired   = "contact.error.phone_required"
	KeyPhoneInvalid    = "contact.error.phone_invalid"
	KeyMessageRequired = "contact.error.message_required"
)

// FieldErrors maps a form field name to the message key of its first failing rule.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := slices.Sorted(maps.Keys(e))
	return fmt.Sprintf("%s: %s", ErrInvalidForm, strings.Join(fields, ", "))
}

func (e FieldErrors) Is(target error) bool { return target == ErrInvalidForm }

// Normalize trims whitespace and strips any markup from the free text fields.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(strict.Sanitize(f.Name)),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Message: strings.TrimSpace(strict.Sanitize(f.Message)),
	}
}

// Validate returns FieldErrors (which matches ErrInvalidForm) when any field fails.
func (f Form) Validate() error {
	errs := FieldErrors{}
	if f.Name == "" {
		errs["name"] = KeyNameRequired
	}
	switch {
	case f.Email == "":
		errs["email"] = KeyEmailRequired
	case !emailPattern.MatchString(f.Email):
		errs["email"] = KeyEmailInvalid
	}
	switch {
	case f.Phone == "":
		errs["phone"] = KeyPhoneRequired
	case !phonePattern.MatchString(f.Phone):
		errs["phone"] = KeyPhoneInvalid
	}
	if f.Message == "" {
		errs["message"] = KeyMessageRequired
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type Submitter interface {
	Submit(ctx context.Context, f Form) error
}

// SimulatedSubmitter accepts every form after Delay without any network call.
type SimulatedSubmitter struct {
	Delay time.Duration
}

func (s SimulatedSubmitter) Submit(ctx context.Context, f Form) error {
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrSubmit, ctx.Err())
	case <-t.C:
	}
	slog.Info("contact form submitted", "name", f.Name, "email", f.Email, "phone", f.Phone, "length", len(f.Message))
	return nil
}
