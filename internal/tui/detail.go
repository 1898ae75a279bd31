package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-vault-client/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type detailModel struct {
	item   models.VaultItem
	reveal bool
}

func (d detailModel) view() string {
	item := d.item
	password := mask(item.Password)
	if d.reveal {
		password = valueOrDash(item.Password)
	}
	favorite := "no"
	if item.Favorite {
		favorite = "yes"
	}

	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "%-12s %s\n", label+":", value)
	}
	row("Type", item.Type.Label())
	row("Username", valueOrDash(item.Username))
	row("Password", password)
	row("Email", valueOrDash(item.Email))
	row("URL", valueOrDash(item.URL))
	row("Category", valueOrDash(item.Category))
	row("Tags", valueOrDash(item.Tags))
	row("Favorite", favorite)
	row("Description", valueOrDash(item.Description))
	row("Notes", valueOrDash(item.Notes))
	row("Created", formatTime(item.CreatedAt))
	row("Updated", formatTime(item.UpdatedAt))

	title := item.Title
	if item.IsPlaceholder() {
		title += " " + pendingStyle.Render("(saving...)")
	}
	hint := "p: show password  c: copy password  u: copy username  e: edit  d: delete  *: favorite  esc: back"
	return renderPage(title, strings.TrimRight(b.String(), "\n"), hint)
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (m appModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc, keys.quit):
		m.detail = detailModel{}
		m.screen = screenList
		return m, nil
	case key.Matches(msg, keys.reveal):
		m.detail.reveal = !m.detail.reveal
		return m, nil
	case key.Matches(msg, keys.copy):
		if m.detail.item.Password == "" {
			return m.flash("Nothing to copy")
		}
		return m, cmdCopy("Password", m.detail.item.Password)
	case key.Matches(msg, keys.copyUser):
		login := m.detail.item.Username
		if login == "" {
			login = m.detail.item.Email
		}
		if login == "" {
			return m.flash("Nothing to copy")
		}
		return m, cmdCopy("Username", login)
	case key.Matches(msg, keys.enter):
		return m, nil
	}
	return m.handleItemKey(msg, m.detail.item)
}
