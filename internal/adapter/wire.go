package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-vault-client/models"
)

// wireTimeLayouts are tried in order. The server sends local date-times
// without a zone; they are read as UTC.
var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// wireTime decodes the date-time representations the server may emit: an
// RFC 3339 string, a zone-less ISO string, or a [y,m,d,h,m,s,nanos] array.
type wireTime struct {
	t *time.Time
}

func (w *wireTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '[' {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return fmt.Errorf("decode time array: %w", err)
		}
		if len(parts) < 3 {
			return fmt.Errorf("time array too short: %s", b)
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
		w.t = &t
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode time: %w", err)
	}
	if s == "" {
		return nil
	}

	for _, layout := range wireTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			w.t = &t
			return nil
		}
	}
	return fmt.Errorf("unsupported time format %q", s)
}

// itemDTO is the server representation of a vault item.
type itemDTO struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Type  models.ItemType `json:"type"`

	models.SecretFields

	Description string `json:"description"`
	Favorite    bool   `json:"isFavorite"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`

	CreatedAt      wireTime `json:"createdAt"`
	UpdatedAt      wireTime `json:"updatedAt"`
	LastAccessedAt wireTime `json:"lastAccessedAt"`
}

func (d itemDTO) toModel() models.VaultItem {
	return models.VaultItem{
		ID:             d.ID,
		Title:          d.Title,
		Type:           d.Type,
		SecretFields:   d.SecretFields,
		Description:    d.Description,
		Favorite:       d.Favorite,
		Category:       d.Category,
		Tags:           d.Tags,
		CreatedAt:      d.CreatedAt.t,
		UpdatedAt:      d.UpdatedAt.t,
		LastAccessedAt: d.LastAccessedAt.t,
	}
}

// availabilityDTO is the data of the username and e-mail availability checks.
type availabilityDTO struct {
	Available bool `json:"available"`
}

// accountDeletionWord must accompany an account deletion request.
const accountDeletionWord = "DELETE"

type accountDeletionDTO struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}
