package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-vault-client/internal/validators"
	"github.com/MKhiriev/go-vault-client/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// formModel creates a new item when editID is 0 and edits editID otherwise.
type formModel struct {
	editID   int64
	base     models.VaultItem
	typeIdx  int
	favorite bool
	inputs   inputGroup
}

var formValidator = validators.NewClientValidator()

func newFormModel(item *models.VaultItem) formModel {
	f := formModel{
		inputs: inputGroup{fields: []field{
			newField(validators.FieldTitle, "Title", false),
			newField(validators.FieldUsername, "Username", false),
			newField(validators.FieldPassword, "Password", true),
			newField(validators.FieldEmail, "Email", false),
			newField(validators.FieldURL, "URL", false),
			newField(validators.FieldCategory, "Category", false),
			newField(validators.FieldTags, "Tags", false),
			newField(validators.FieldDescription, "Description", false),
			newField(validators.FieldNotes, "Notes", false),
		}},
	}

	if item != nil {
		f.editID = item.ID
		f.base = *item
		f.favorite = item.Favorite
		for i, t := range models.ItemTypes {
			if t == item.Type {
				f.typeIdx = i
			}
		}
		f.inputs.set(validators.FieldTitle, item.Title)
		f.inputs.set(validators.FieldUsername, item.Username)
		f.inputs.set(validators.FieldPassword, item.Password)
		f.inputs.set(validators.FieldEmail, item.Email)
		f.inputs.set(validators.FieldURL, item.URL)
		f.inputs.set(validators.FieldCategory, item.Category)
		f.inputs.set(validators.FieldTags, item.Tags)
		f.inputs.set(validators.FieldDescription, item.Description)
		f.inputs.set(validators.FieldNotes, item.Notes)
	}

	f.inputs.focusAt(0)
	return f
}

func (f formModel) draft() models.VaultItemDraft {
	v := func(name string) string { return strings.TrimSpace(f.inputs.value(name)) }
	return models.VaultItemDraft{
		Title: v(validators.FieldTitle),
		Type:  models.ItemTypes[f.typeIdx],
		SecretFields: models.SecretFields{
			Username: v(validators.FieldUsername),
			Password: f.inputs.value(validators.FieldPassword),
			Email:    v(validators.FieldEmail),
			URL:      v(validators.FieldURL),
			Notes:    v(validators.FieldNotes),
		},
		Description: v(validators.FieldDescription),
		Favorite:    f.favorite,
		Category:    v(validators.FieldCategory),
		Tags:        v(validators.FieldTags),
	}
}

func (f formModel) view() string {
	title := "NEW ITEM"
	if f.editID != 0 {
		title = "EDIT " + f.base.Title
	}
	var b strings.Builder
	b.WriteString("Type: ")
	b.WriteString(selectedStyle.Render(models.ItemTypes[f.typeIdx].Label()))
	b.WriteString("\n\n")
	b.WriteString(f.inputs.view())
	return renderPage(title, b.String(), "tab: next field  ctrl+t: change type  ctrl+s: save  esc: cancel")
}

func (m appModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.form = formModel{}
		if m.detail.item.ID != 0 {
			m.screen = screenDetail
		} else {
			m.screen = screenList
		}
		return m, nil
	case key.Matches(msg, keys.cycleType):
		m.form.typeIdx = (m.form.typeIdx + 1) % len(models.ItemTypes)
		return m, nil
	case key.Matches(msg, keys.tab):
		return m, m.form.inputs.next()
	case key.Matches(msg, keys.backtab):
		return m, m.form.inputs.prev()
	case key.Matches(msg, keys.save):
		return m.submitForm()
	case key.Matches(msg, keys.enter):
		if m.form.inputs.last() {
			return m.submitForm()
		}
		return m, m.form.inputs.next()
	}
	return m, m.form.inputs.update(msg)
}

// submitForm validates the draft locally and, when it is acceptable, leaves
// the form at once. The vault shows the change before the server answers.
func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	draft := m.form.draft()
	if err := formValidator.Validate(m.ctx, draft); err != nil {
		var fe *validators.FieldErrors
		if errors.As(err, &fe) {
			m.form.inputs.errors = fe.Fields
			return m, nil
		}
		m.errMsg = err.Error()
		return m, nil
	}

	vault := m.vault
	id := m.form.editID
	m.form = formModel{}

	if id == 0 {
		m.screen = screenList
		return m, m.cmdMutation("Item created", func(ctx context.Context) error {
			_, err := vault.Create(ctx, draft)
			return err
		})
	}

	if m.detail.item.ID == id {
		m.screen = screenDetail
	} else {
		m.screen = screenList
	}
	return m, m.cmdMutation("Item saved", func(ctx context.Context) error {
		_, err := vault.Update(ctx, id, draft)
		return err
	})
}
