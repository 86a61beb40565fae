// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/nexus/internal/cli/styles"
	"github.com/bnema/nexus/internal/domain/entity"
	"github.com/bnema/nexus/internal/favicon"
	"github.com/bnema/nexus/internal/logging"
)

// pickerItem wraps a shortcut for the list component. The resolution
// arrives asynchronously and is folded into the description.
type pickerItem struct {
	shortcut   entity.Shortcut
	resolution *favicon.Resolution
	theme      *styles.Theme
}

func (i pickerItem) Title() string { return i.shortcut.Title }

func (i pickerItem) Description() string {
	if i.resolution == nil {
		return fmt.Sprintf("%s  %s", i.shortcut.URL, i.theme.BadgeMuted.Render("resolving…"))
	}
	badge := i.theme.SourceBadge(string(i.resolution.Kind))
	if i.resolution.Kind == favicon.KindProvider || i.resolution.Kind == favicon.KindCached {
		badge = i.theme.SourceBadge(favicon.Chain()[i.resolution.ProviderIndex].Name)
	}
	return fmt.Sprintf("%s  %s", i.shortcut.URL, badge)
}

func (i pickerItem) FilterValue() string {
	return i.shortcut.Title + " " + i.shortcut.URL
}

// resolvedMsg carries an icon resolution back into the model.
type resolvedMsg struct {
	id         string
	resolution favicon.Resolution
}

// openedMsg reports the outcome of launching the selection.
type openedMsg struct{ err error }

// PickerKeyMap holds the picker keybindings.
type PickerKeyMap struct {
	Open key.Binding
	Quit key.Binding
}

// DefaultPickerKeyMap returns the default picker keybindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerModel is the interactive shortcut picker. Icons resolve in the
// background as the list renders; enter opens the selection via
// xdg-open.
type PickerModel struct {
	list list.Model
	keys PickerKeyMap

	shortcuts []entity.Shortcut
	theme     *styles.Theme

	ctx      context.Context
	resolver *favicon.Resolver
	err      error
}

// NewPickerModel creates the picker over the current shortcut set.
func NewPickerModel(ctx context.Context, theme *styles.Theme, resolver *favicon.Resolver, shortcuts []entity.Shortcut) PickerModel {
	items := make([]list.Item, len(shortcuts))
	for i, sc := range shortcuts {
		items[i] = pickerItem{shortcut: sc, theme: theme}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = theme.ListItemSelected
	delegate.Styles.SelectedDesc = theme.Subtle

	l := list.New(items, delegate, 0, 0)
	l.Title = "nexus"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)

	return PickerModel{
		list:      l,
		keys:      DefaultPickerKeyMap(),
		shortcuts: shortcuts,
		theme:     theme,
		ctx:       ctx,
		resolver:  resolver,
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, len(m.shortcuts))
	for i, sc := range m.shortcuts {
		cmds[i] = m.resolveIcon(sc)
	}
	return tea.Batch(cmds...)
}

// resolveIcon runs one shortcut through the resolution chain.
func (m PickerModel) resolveIcon(sc entity.Shortcut) tea.Cmd {
	return func() tea.Msg {
		return resolvedMsg{id: sc.ID, resolution: m.resolver.Resolve(m.ctx, sc)}
	}
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case resolvedMsg:
		for i, item := range m.list.Items() {
			pi, ok := item.(pickerItem)
			if !ok || pi.shortcut.ID != msg.id {
				continue
			}
			resolution := msg.resolution
			pi.resolution = &resolution
			return m, m.list.SetItem(i, pi)
		}
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Open):
			if pi, ok := m.list.SelectedItem().(pickerItem); ok {
				return m, m.open(pi.shortcut)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// open launches the shortcut URL with the desktop handler.
func (m PickerModel) open(sc entity.Shortcut) tea.Cmd {
	return func() tea.Msg {
		log := logging.FromContext(m.ctx)
		log.Debug().Str("url", sc.URL).Msg("opening shortcut")
		if err := exec.Command("xdg-open", sc.URL).Start(); err != nil {
			return openedMsg{err: fmt.Errorf("open %s: %w", sc.URL, err)}
		}
		return openedMsg{}
	}
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.err != nil {
		return m.theme.ErrorStyle.Render(m.err.Error()) + "\n" + m.list.View()
	}
	return m.list.View()
}

// Err returns the last open error, if any.
func (m PickerModel) Err() error {
	return m.err
}
