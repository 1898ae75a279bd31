// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ItemType defines the semantic kind of a vault item.
type ItemType string

const (
	// ItemTypePassword is a login/password record.
	ItemTypePassword ItemType = "PASSWORD"
	// ItemTypeNote is a free-form note.
	ItemTypeNote ItemType = "NOTE"
	// ItemTypeCreditCard is a payment card record.
	ItemTypeCreditCard ItemType = "CREDIT_CARD"
	// ItemTypeIdentity is a personal identity record.
	ItemTypeIdentity ItemType = "IDENTITY"
	// ItemTypeSecureNote is a note whose content is treated as secret.
	ItemTypeSecureNote ItemType = "SECURE_NOTE"
)

// ItemTypes lists every known item type in display order.
var ItemTypes = []ItemType{
	ItemTypePassword,
	ItemTypeNote,
	ItemTypeCreditCard,
	ItemTypeIdentity,
	ItemTypeSecureNote,
}

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	for _, known := range ItemTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of the type.
func (t ItemType) Label() string {
	switch t {
	case ItemTypePassword:
		return "Password"
	case ItemTypeNote, ItemTypeSecureNote:
		return "Secure Note"
	case ItemTypeCreditCard:
		return "Credit Card"
	case ItemTypeIdentity:
		return "Identity"
	default:
		return string(t)
	}
}

// SecretFields holds the sensitive part of a vault item. Which fields are
// filled depends on the item type; no combination is rejected.
type SecretFields struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty"`
	URL      string `json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// VaultItem is a single secret record owned by the signed-in user.
//
// Values stored in the cache are never modified in place: the time pointers
// are shared between snapshots and must be treated as read-only.
type VaultItem struct {
	// ID is assigned by the server. Negative values are temporary ids of
	// items whose creation has not been confirmed yet.
	ID int64 `json:"id"`

	Title string   `json:"title"`
	Type  ItemType `json:"type"`

	SecretFields

	Description string `json:"description,omitempty"`
	Favorite    bool   `json:"isFavorite"`
	Category    string `json:"category,omitempty"`
	Tags        string `json:"tags,omitempty"`

	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty"`
}

// IsPlaceholder reports whether the item still carries a temporary id.
func (v VaultItem) IsPlaceholder() bool {
	return v.ID < 0
}

// Draft returns the editable part of the item.
func (v VaultItem) Draft() VaultItemDraft {
	return VaultItemDraft{
		Title:        v.Title,
		Type:         v.Type,
		SecretFields: v.SecretFields,
		Description:  v.Description,
		Favorite:     v.Favorite,
		Category:     v.Category,
		Tags:         v.Tags,
	}
}

// WithDraft returns a copy of v whose editable fields are replaced by d.
// ID and timestamps are preserved.
func (v VaultItem) WithDraft(d VaultItemDraft) VaultItem {
	v.Title = d.Title
	v.Type = d.Type
	v.SecretFields = d.SecretFields
	v.Description = d.Description
	v.Favorite = d.Favorite
	v.Category = d.Category
	v.Tags = d.Tags
	return v
}

// VaultItemDraft is the request body for creating or replacing a vault item.
type VaultItemDraft struct {
	Title string   `json:"title"`
	Type  ItemType `json:"type"`

	SecretFields

	Description string `json:"description,omitempty"`
	Favorite    bool   `json:"isFavorite"`
	Category    string `json:"category,omitempty"`
	Tags        string `json:"tags,omitempty"`
}
