package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-vault-client/internal/service"
	"github.com/MKhiriev/go-vault-client/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type sortOption struct {
	label string
	sort  models.Sort
}

var sortOptions = []sortOption{
	{"recently updated", models.DefaultSort},
	{"title A-Z", models.Sort{Field: models.SortByTitle, Order: models.SortAsc}},
	{"title Z-A", models.Sort{Field: models.SortByTitle, Order: models.SortDesc}},
	{"recently created", models.Sort{Field: models.SortByCreatedAt, Order: models.SortDesc}},
	{"recently used", models.Sort{Field: models.SortByLastAccessedAt, Order: models.SortDesc}},
	{"oldest update", models.Sort{Field: models.SortByUpdatedAt, Order: models.SortAsc}},
}

type listModel struct {
	items   []models.VaultItem
	pending map[int64]bool
	stats   models.Stats
	cursor  int

	search    textinput.Model
	searching bool

	sortIdx       int
	favoritesOnly bool
	// typeIdx selects models.ItemTypes[typeIdx-1]; 0 shows every type.
	typeIdx int
}

func newListModel() listModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	return listModel{search: search}
}

func (l listModel) filter() models.Filter {
	f := models.Filter{Query: strings.TrimSpace(l.search.Value())}
	if l.favoritesOnly {
		fav := true
		f.Favorite = &fav
	}
	if l.typeIdx > 0 {
		f.Type = models.ItemTypes[l.typeIdx-1]
	}
	return f
}

func (l listModel) sort() models.Sort {
	return sortOptions[l.sortIdx].sort
}

func (l listModel) selected() (models.VaultItem, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return models.VaultItem{}, false
	}
	return l.items[l.cursor], true
}

func (l *listModel) clamp() {
	if l.cursor >= len(l.items) {
		l.cursor = len(l.items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l listModel) view(session service.ClientSessionService, width int) string {
	var b strings.Builder

	if s, ok := session.Current(); ok {
		fmt.Fprintf(&b, "Signed in as %s\n", s.DisplayName)
	}
	fmt.Fprintf(&b, "%d items  %d passwords  %d notes  %d favorites\n",
		l.stats.TotalItems, l.stats.PasswordItems, l.stats.NoteItems, l.stats.FavoriteItems)

	typeLabel := "all types"
	if l.typeIdx > 0 {
		typeLabel = models.ItemTypes[l.typeIdx-1].Label()
	}
	filters := []string{"sort: " + sortOptions[l.sortIdx].label, "type: " + typeLabel}
	if l.favoritesOnly {
		filters = append(filters, "favorites only")
	}
	b.WriteString(helpStyle.Render(strings.Join(filters, "  |  ")))
	b.WriteString("\n")
	if l.searching || l.search.Value() != "" {
		b.WriteString(l.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	titleWidth := 40
	if width > 0 && width-30 > 10 {
		titleWidth = width - 30
	}

	if len(l.items) == 0 {
		b.WriteString(helpStyle.Render("No items"))
	}
	for i, item := range l.items {
		star := " "
		if item.Favorite {
			star = "*"
		}
		line := fmt.Sprintf("%s %-*s %s", star, titleWidth, fitText(item.Title, titleWidth), item.Type.Label())
		switch {
		case i == l.cursor:
			line = selectedStyle.Render("> " + line)
		default:
			line = "  " + line
		}
		if l.pending[item.ID] || item.IsPlaceholder() {
			line += " " + pendingStyle.Render("saving...")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	hint := "enter: open  n: new  e: edit  d: delete  *: favorite  /: search  o: sort  t: type  F: favorites  r: refresh  L: sign out  v: about  q: quit"
	return renderPage("VAULT", strings.TrimRight(b.String(), "\n"), hint)
}

func (m appModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.searching {
		switch {
		case key.Matches(msg, keys.esc):
			m.list.searching = false
			m.list.search.Blur()
			m.list.search.SetValue("")
			m.reload()
			return m, nil
		case key.Matches(msg, keys.enter):
			m.list.searching = false
			m.list.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.list.search, cmd = m.list.search.Update(msg)
		m.list.cursor = 0
		m.reload()
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.list.cursor > 0 {
			m.list.cursor--
		}
	case key.Matches(msg, keys.down):
		if m.list.cursor < len(m.list.items)-1 {
			m.list.cursor++
		}
	case key.Matches(msg, keys.search):
		m.list.searching = true
		return m, m.list.search.Focus()
	case key.Matches(msg, keys.sort):
		m.list.sortIdx = (m.list.sortIdx + 1) % len(sortOptions)
		m.reload()
	case key.Matches(msg, keys.favOnly):
		m.list.favoritesOnly = !m.list.favoritesOnly
		m.list.cursor = 0
		m.reload()
	case key.Matches(msg, keys.typeFilter):
		m.list.typeIdx = (m.list.typeIdx + 1) % (len(models.ItemTypes) + 1)
		m.list.cursor = 0
		m.reload()
	case key.Matches(msg, keys.newItem):
		m.form = newFormModel(nil)
		m.screen = screenForm
	case key.Matches(msg, keys.refresh):
		return m, m.cmdRefresh()
	case key.Matches(msg, keys.logout):
		return m, m.cmdLogout()
	case key.Matches(msg, keys.buildInfo):
		m.previous, m.screen = m.screen, screenBuildInfo
	default:
		item, ok := m.list.selected()
		if !ok {
			return m, nil
		}
		return m.handleItemKey(msg, item)
	}
	return m, nil
}

// handleItemKey runs the actions shared by the list and the detail screen.
func (m appModel) handleItemKey(msg tea.KeyMsg, item models.VaultItem) (tea.Model, tea.Cmd) {
	isAction := key.Matches(msg, keys.favorite, keys.edit, keys.delete)
	if isAction && item.IsPlaceholder() {
		return m.flash("Still saving, try again in a moment")
	}

	switch {
	case key.Matches(msg, keys.enter):
		m.detail = detailModel{item: item}
		m.screen = screenDetail
	case key.Matches(msg, keys.favorite):
		return m, m.cmdMutation("Favorite updated", func(ctx context.Context) error {
			_, err := m.vault.ToggleFavorite(ctx, item.ID)
			return err
		})
	case key.Matches(msg, keys.edit):
		m.form = newFormModel(&item)
		m.screen = screenForm
	case key.Matches(msg, keys.delete):
		m.confirmID = item.ID
	}
	return m, nil
}
