package validators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MKhiriev/go-vault-client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() models.VaultItemDraft {
	return models.VaultItemDraft{
		Title: "Bank",
		Type:  models.ItemTypePassword,
		SecretFields: models.SecretFields{
			Username: "alice",
			Password: "s3cret",
			URL:      "https://bank.example",
		},
		Category: "Finance",
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var fe *FieldErrors
	require.True(t, errors.As(err, &fe))
	return fe.Fields
}

func TestClientValidator_Draft(t *testing.T) {
	v := NewClientValidator()

	tests := []struct {
		name   string
		modify func(d *models.VaultItemDraft)
		want   map[string]string
	}{
		{
			name:   "valid",
			modify: func(d *models.VaultItemDraft) {},
		},
		{
			name:   "empty title",
			modify: func(d *models.VaultItemDraft) { d.Title = "" },
			want:   map[string]string{FieldTitle: "Title is required"},
		},
		{
			name:   "blank title",
			modify: func(d *models.VaultItemDraft) { d.Title = "   " },
			want:   map[string]string{FieldTitle: "Title is required"},
		},
		{
			name:   "title too long",
			modify: func(d *models.VaultItemDraft) { d.Title = strings.Repeat("a", 256) },
			want:   map[string]string{FieldTitle: "Title cannot exceed 255 characters"},
		},
		{
			name:   "title length counts characters",
			modify: func(d *models.VaultItemDraft) { d.Title = strings.Repeat("ж", 255) },
		},
		{
			name:   "missing type",
			modify: func(d *models.VaultItemDraft) { d.Type = "" },
			want:   map[string]string{FieldType: "Type is required"},
		},
		{
			name:   "unknown type",
			modify: func(d *models.VaultItemDraft) { d.Type = "PASSPORT" },
			want:   map[string]string{FieldType: `Unknown type "PASSPORT"`},
		},
		{
			name: "several fields at once",
			modify: func(d *models.VaultItemDraft) {
				d.Title = ""
				d.URL = strings.Repeat("u", 501)
				d.Notes = strings.Repeat("n", 2001)
				d.Tags = strings.Repeat("t", 51)
			},
			want: map[string]string{
				FieldTitle: "Title is required",
				FieldURL:   "URL cannot exceed 500 characters",
				FieldNotes: "Notes cannot exceed 2000 characters",
				FieldTags:  "Tags cannot exceed 50 characters",
			},
		},
		{
			name: "note with password fields is accepted",
			modify: func(d *models.VaultItemDraft) {
				d.Type = models.ItemTypeNote
				d.Notes = "text"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.modify(&d)

			err := v.Validate(context.Background(), d)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}
}

func TestClientValidator_DraftPointerAndScoping(t *testing.T) {
	v := NewClientValidator()
	d := validDraft()
	d.Title = ""
	d.Category = strings.Repeat("c", 101)

	got := fieldErrors(t, v.Validate(context.Background(), &d, FieldCategory))
	assert.Equal(t, map[string]string{FieldCategory: "Category cannot exceed 100 characters"}, got)

	assert.ErrorIs(t, v.Validate(context.Background(), d, FieldLogin), ErrUnknownField)
}

func TestClientValidator_Credentials(t *testing.T) {
	v := NewClientValidator()

	tests := []struct {
		name  string
		creds models.Credentials
		want  map[string]string
	}{
		{name: "valid", creds: models.Credentials{Login: "alice", Password: "secret"}},
		{
			name:  "empty",
			creds: models.Credentials{},
			want: map[string]string{
				FieldLogin:    "Username or email is required",
				FieldPassword: "Password is required",
			},
		},
		{
			name:  "too short",
			creds: models.Credentials{Login: "al", Password: "12345"},
			want: map[string]string{
				FieldLogin:    "Username or email must be between 3 and 100 characters",
				FieldPassword: "Password must be between 6 and 100 characters",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), &tt.creds)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}
}

func TestClientValidator_Profile(t *testing.T) {
	v := NewClientValidator()
	valid := models.Profile{
		Username:        "alice",
		Email:           "alice@mail.example",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	require.NoError(t, v.Validate(context.Background(), valid))

	bad := valid
	bad.Email = "Alice <alice@mail.example>"
	bad.ConfirmPassword = "secret2"
	bad.FullName = strings.Repeat("f", 101)

	assert.Equal(t, map[string]string{
		FieldEmail:           "Email should be valid",
		FieldConfirmPassword: "Passwords do not match",
		FieldFullName:        "Full name cannot exceed 100 characters",
	}, fieldErrors(t, v.Validate(context.Background(), bad)))
}

func TestClientValidator_UnsupportedType(t *testing.T) {
	v := NewClientValidator()
	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
}

func TestFieldErrors_Error(t *testing.T) {
	fe := &FieldErrors{}
	assert.True(t, fe.Empty())
	assert.Equal(t, "validation failed", fe.Error())

	fe.Add("title", "Title is required")
	fe.Add("title", "ignored")
	fe.Add("tags", "Tags cannot exceed 50 characters")

	assert.Equal(t, "validation failed: tags: Tags cannot exceed 50 characters; title: Title is required", fe.Error())
	assert.ErrorIs(t, fe, ErrValidation)
}

func TestClientValidator_ProfileUpdate(t *testing.T) {
	v := NewClientValidator()

	require.NoError(t, v.Validate(context.Background(), models.ProfileUpdate{}))
	require.NoError(t, v.Validate(context.Background(), &models.ProfileUpdate{
		FullName: "Alice Liddell",
		Email:    "alice@mail.example",
	}))

	assert.Equal(t, map[string]string{
		FieldEmail:    "Email should be valid",
		FieldFullName: "Full name cannot exceed 100 characters",
	}, fieldErrors(t, v.Validate(context.Background(), models.ProfileUpdate{
		FullName: strings.Repeat("f", 101),
		Email:    "not-an-email",
	})))

	long := strings.Repeat("a", 95) + "@x.io"
	assert.Equal(t, map[string]string{
		FieldEmail: "Email cannot exceed 100 characters",
	}, fieldErrors(t, v.Validate(context.Background(), models.ProfileUpdate{Email: long + "m"})))
}

func TestClientValidator_PasswordChange(t *testing.T) {
	v := NewClientValidator()
	valid := models.PasswordChange{
		CurrentPassword: "secret1",
		NewPassword:     "longer-secret",
		ConfirmPassword: "longer-secret",
	}

	require.NoError(t, v.Validate(context.Background(), valid))

	tests := []struct {
		name   string
		modify func(c *models.PasswordChange)
		want   map[string]string
	}{
		{
			name:   "missing current password",
			modify: func(c *models.PasswordChange) { c.CurrentPassword = " " },
			want:   map[string]string{FieldCurrentPassword: "Current password is required"},
		},
		{
			name: "new password shorter than eight",
			modify: func(c *models.PasswordChange) {
				c.NewPassword = "short12"
				c.ConfirmPassword = "short12"
			},
			want: map[string]string{FieldNewPassword: "Password must be between 8 and 100 characters"},
		},
		{
			name: "new password missing",
			modify: func(c *models.PasswordChange) {
				c.NewPassword = ""
				c.ConfirmPassword = ""
			},
			want: map[string]string{
				FieldNewPassword:     "New password is required",
				FieldConfirmPassword: "Password confirmation is required",
			},
		},
		{
			name:   "confirmation mismatch",
			modify: func(c *models.PasswordChange) { c.ConfirmPassword = "longer-secreT" },
			want:   map[string]string{FieldConfirmPassword: "Passwords do not match"},
		},
		{
			name:   "confirmation missing",
			modify: func(c *models.PasswordChange) { c.ConfirmPassword = "" },
			want:   map[string]string{FieldConfirmPassword: "Password confirmation is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			assert.Equal(t, tt.want, fieldErrors(t, v.Validate(context.Background(), &c)))
		})
	}

	err := v.Validate(context.Background(), valid, FieldCurrentPassword, "bogus")
	assert.ErrorIs(t, err, ErrUnknownField)
}
