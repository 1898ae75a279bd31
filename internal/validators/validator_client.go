package validators

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-vault-client/models"
)

// ClientValidator implements Validator for the inputs the vault client
// sends to the server: vault item drafts, login credentials and
// registration profiles.
//
// Unlike a fail-fast check, it reports every failing field at once so the
// UI can mark all of them. It returns a *FieldErrors on failure.
type ClientValidator struct{}

// NewClientValidator constructs a ClientValidator and returns it as the
// Validator interface.
func NewClientValidator() Validator {
	return &ClientValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted.
//
// Supported types:
//   - models.VaultItemDraft / *models.VaultItemDraft
//   - models.Credentials / *models.Credentials
//   - models.Profile / *models.Profile
//   - models.ProfileUpdate / *models.ProfileUpdate
//   - models.PasswordChange / *models.PasswordChange
//
// Optional fields restrict validation to the named subset. A field that does
// not belong to the type yields ErrUnknownField.
func (v *ClientValidator) Validate(_ context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.VaultItemDraft:
		return v.validateDraft(value, fields...)
	case *models.VaultItemDraft:
		return v.validateDraft(*value, fields...)

	case models.Credentials:
		return v.validateCredentials(value, fields...)
	case *models.Credentials:
		return v.validateCredentials(*value, fields...)

	case models.Profile:
		return v.validateProfile(value, fields...)
	case *models.Profile:
		return v.validateProfile(*value, fields...)

	case models.ProfileUpdate:
		return v.validateProfileUpdate(value, fields...)
	case *models.ProfileUpdate:
		return v.validateProfileUpdate(*value, fields...)

	case models.PasswordChange:
		return v.validatePasswordChange(value, fields...)
	case *models.PasswordChange:
		return v.validatePasswordChange(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateDraft checks a vault item draft. Fields that are not relevant for
// the item type are still length-checked; no combination is rejected.
func (v *ClientValidator) validateDraft(d models.VaultItemDraft, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{
			FieldTitle, FieldType, FieldUsername, FieldPassword, FieldEmail,
			FieldURL, FieldNotes, FieldDescription, FieldCategory, FieldTags,
		}
	}

	errs := &FieldErrors{}
	for _, f := range fields {
		switch f {
		case FieldTitle:
			if strings.TrimSpace(d.Title) == "" {
				errs.Add(f, "Title is required")
			} else {
				maxLen(errs, f, d.Title, maxTitle, "Title")
			}
		case FieldType:
			if d.Type == "" {
				errs.Add(f, "Type is required")
			} else if !d.Type.Valid() {
				errs.Add(f, fmt.Sprintf("Unknown type %q", d.Type))
			}
		case FieldUsername:
			maxLen(errs, f, d.Username, maxSecret, "Username")
		case FieldPassword:
			maxLen(errs, f, d.Password, maxSecret, "Password")
		case FieldEmail:
			maxLen(errs, f, d.Email, maxSecret, "Email")
		case FieldURL:
			maxLen(errs, f, d.URL, maxURL, "URL")
		case FieldNotes:
			maxLen(errs, f, d.Notes, maxNotes, "Notes")
		case FieldDescription:
			maxLen(errs, f, d.Description, maxDescription, "Description")
		case FieldCategory:
			maxLen(errs, f, d.Category, maxCategory, "Category")
		case FieldTags:
			maxLen(errs, f, d.Tags, maxTags, "Tags")
		default:
			return ErrUnknownField
		}
	}

	return errs.err()
}

func (v *ClientValidator) validateCredentials(c models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldPassword}
	}

	errs := &FieldErrors{}
	for _, f := range fields {
		switch f {
		case FieldLogin:
			between(errs, f, c.Login, minLogin, maxLogin, "Username or email")
		case FieldPassword:
			between(errs, f, c.Password, minPassword, maxPassword, "Password")
		default:
			return ErrUnknownField
		}
	}

	return errs.err()
}

func (v *ClientValidator) validateProfile(p models.Profile, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUsername, FieldEmail, FieldPassword, FieldConfirmPassword, FieldFullName}
	}

	errs := &FieldErrors{}
	for _, f := range fields {
		switch f {
		case FieldUsername:
			between(errs, f, p.Username, minUsername, maxUsername, "Username")
		case FieldEmail:
			if strings.TrimSpace(p.Email) == "" {
				errs.Add(f, "Email is required")
			} else if !validEmail(p.Email) {
				errs.Add(f, "Email should be valid")
			}
		case FieldPassword:
			between(errs, f, p.Password, minPassword, maxPassword, "Password")
		case FieldConfirmPassword:
			if p.ConfirmPassword != p.Password {
				errs.Add(f, "Passwords do not match")
			}
		case FieldFullName:
			maxLen(errs, f, p.FullName, maxFullName, "Full name")
		default:
			return ErrUnknownField
		}
	}

	return errs.err()
}

// validateProfileUpdate leaves empty fields alone: the server keeps them.
func (v *ClientValidator) validateProfileUpdate(u models.ProfileUpdate, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFullName, FieldEmail}
	}

	errs := &FieldErrors{}
	for _, f := range fields {
		switch f {
		case FieldFullName:
			maxLen(errs, f, u.FullName, maxFullName, "Full name")
		case FieldEmail:
			if u.Email == "" {
				continue
			}
			if !validEmail(u.Email) {
				errs.Add(f, "Email should be valid")
			} else {
				maxLen(errs, f, u.Email, maxProfileEmail, "Email")
			}
		default:
			return ErrUnknownField
		}
	}

	return errs.err()
}

func (v *ClientValidator) validatePasswordChange(c models.PasswordChange, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCurrentPassword, FieldNewPassword, FieldConfirmPassword}
	}

	errs := &FieldErrors{}
	for _, f := range fields {
		switch f {
		case FieldCurrentPassword:
			if strings.TrimSpace(c.CurrentPassword) == "" {
				errs.Add(f, "Current password is required")
			}
		case FieldNewPassword:
			if strings.TrimSpace(c.NewPassword) == "" {
				errs.Add(f, "New password is required")
				continue
			}
			between(errs, f, c.NewPassword, minNewPassword, maxPassword, "Password")
		case FieldConfirmPassword:
			if strings.TrimSpace(c.ConfirmPassword) == "" {
				errs.Add(f, "Password confirmation is required")
			} else if c.ConfirmPassword != c.NewPassword {
				errs.Add(f, "Passwords do not match")
			}
		default:
			return ErrUnknownField
		}
	}

	return errs.err()
}

// maxLen counts characters, not bytes.
func maxLen(errs *FieldErrors, field, value string, limit int, label string) {
	if utf8.RuneCountInString(value) > limit {
		errs.Add(field, fmt.Sprintf("%s cannot exceed %d characters", label, limit))
	}
}

func between(errs *FieldErrors, field, value string, lo, hi int, label string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, label+" is required")
		return
	}
	if n := utf8.RuneCountInString(value); n < lo || n > hi {
		errs.Add(field, fmt.Sprintf("%s must be between %d and %d characters", label, lo, hi))
	}
}

// validEmail accepts a bare address only, without a display name.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}
