// Package tui is the interactive terminal front end of the image search client.
// It uses the Charm Bubble Tea framework, every state change happens in Update
// while backend requests run as commands and come back as messages.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Laisky/image-search-client/internal/imagesearch"
	"github.com/Laisky/image-search-client/internal/imagesearch/backend"
)

// Focus is the part of the screen receiving key presses
type Focus int

const (
	// FocusInput is the search box
	FocusInput Focus = iota
	// FocusPager is the row of page controls
	FocusPager
)

const (
	noDescription = "No description"
	pagesOmitted  = "…"
)

// searchOutcomeMsg carries a resolved search back to Update
type searchOutcomeMsg imagesearch.Outcome

// recentOutcomeMsg carries the recent searches back to Update
type recentOutcomeMsg imagesearch.RecentOutcome

// keyMap defines the key bindings for the TUI
type keyMap struct {
	Enter key.Binding
	Tab   key.Binding
	Back  key.Binding
	Left  key.Binding
	Right key.Binding
	Quit  key.Binding
	Abort key.Binding
}

var keys = keyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "search / open page"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch focus"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to search"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous page"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next page"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Abort: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

// Model is the main TUI model following the Bubble Tea architecture
type Model struct {
	ctx        context.Context
	controller *imagesearch.SearchController
	recent     *imagesearch.RecentSearchesView

	input   textinput.Model
	spinner spinner.Model
	focus   Focus

	// cursor is the page under the pager cursor, 1-based
	cursor int
	// loading is true until the latest issued query is applied
	loading bool

	width    int
	height   int
	quitting bool
}

// NewModel wires the TUI to controller and recent.
// ctx bounds every backend request issued from the TUI.
func NewModel(ctx context.Context,
	controller *imagesearch.SearchController,
	recent *imagesearch.RecentSearchesView,
) Model {
	input := textinput.New()
	input.Placeholder = "Search for images..."
	input.Focus()
	input.CharLimit = 256
	input.Width = 50
	input.Prompt = "🔍 "
	input.PromptStyle = inputLabelStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = progressStyle

	return Model{
		ctx:        ctx,
		controller: controller,
		recent:     recent,
		input:      input,
		spinner:    sp,
		focus:      FocusInput,
		cursor:     1,
	}
}

// Init loads the recent searches, the only time they are requested
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.loadRecent(),
	)
}

func (m Model) loadRecent() tea.Cmd {
	ctx, view := m.ctx, m.recent
	return func() tea.Msg {
		return recentOutcomeMsg(view.Fetch(ctx))
	}
}

func (m Model) fetch(q imagesearch.Query) tea.Cmd {
	ctx, controller := m.ctx, m.controller
	return func() tea.Msg {
		return searchOutcomeMsg(controller.Fetch(ctx, q))
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Abort) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.focus {
		case FocusPager:
			return m.handlePager(msg)
		default:
			return m.handleInput(msg)
		}

	case searchOutcomeMsg:
		if m.controller.Apply(imagesearch.Outcome(msg)) {
			m.loading = false
			m.cursor = m.controller.Page()
			if len(m.controller.PageControls()) == 0 && m.focus == FocusPager {
				m.focusInput()
			}
		}
		return m, nil

	case recentOutcomeMsg:
		m.recent.Apply(imagesearch.RecentOutcome(msg))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleInput handles key events while the search box is focused
func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Enter):
		q, ok := m.controller.SubmitSearch(m.input.Value())
		if !ok {
			return m, nil
		}
		m.loading = true
		m.cursor = 1
		return m, m.fetch(q)

	case key.Matches(msg, keys.Tab):
		// page controls belong to the previous result until the search lands
		if !m.loading && len(m.controller.PageControls()) > 0 {
			m.focusPager()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handlePager handles key events while the page controls are focused
func (m Model) handlePager(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	first, last := 1, 0
	if controls := m.controller.PageControls(); len(controls) > 0 {
		first, last = controls[0].Page, controls[len(controls)-1].Page
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Back):
		m.focusInput()
		return m, nil

	case key.Matches(msg, keys.Left):
		if m.cursor > first {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, keys.Right):
		if m.cursor < last {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		return m.selectPage(m.cursor)
	}

	// digits jump straight to a page
	if n, err := strconv.Atoi(msg.String()); err == nil && n >= first && n <= last {
		m.cursor = n
		return m.selectPage(n)
	}

	return m, nil
}

func (m Model) selectPage(page int) (tea.Model, tea.Cmd) {
	q, ok := m.controller.ChangePage(page)
	if !ok {
		return m, nil
	}
	m.loading = true
	return m, m.fetch(q)
}

func (m *Model) focusPager() {
	m.focus = FocusPager
	m.cursor = m.controller.Page()
	m.input.Blur()
}

func (m *Model) focusInput() {
	m.focus = FocusInput
	m.input.Focus()
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return subtitleStyle.Render("Goodbye! 👋\n")
	}

	sections := []string{
		headerStyle.Render("Image Search"),
		m.input.View(),
		m.renderStatus(),
		m.renderResults(),
	}
	if pager := m.renderPager(); pager != "" {
		sections = append(sections, pager)
	}
	sections = append(sections,
		m.renderRecent(),
		m.renderHelp(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatus() string {
	if m.loading {
		return m.spinner.View() + " Searching..."
	}
	if err := m.controller.Err(); err != nil {
		kind, ok := backend.KindOf(err)
		if !ok {
			return errorStyle.Render("search failed")
		}
		return errorStyle.Render(fmt.Sprintf("search failed (%s error)", kind))
	}
	return ""
}

func (m Model) renderResults() string {
	snap := m.controller.Snapshot()

	var sb strings.Builder
	sb.WriteString(sectionTitleStyle.Render("Results") + "\n")
	if len(snap.Images) == 0 {
		sb.WriteString(subtitleStyle.Render("No images found."))
		return boxStyle.Render(sb.String())
	}

	for i, img := range snap.Images {
		desc := img.Description
		if desc == "" {
			desc = noDescription
		}
		sb.WriteString(imageTitleStyle.Render(fmt.Sprintf("%2d. %s", i+1, desc)))
		sb.WriteString("\n    " + urlStyle.Render(img.URL))
		if i < len(snap.Images)-1 {
			sb.WriteString("\n")
		}
	}

	return boxStyle.Render(sb.String())
}

// renderPager renders one control per listed page, nothing for a single page.
// Pages left out of the window are marked with an ellipsis.
func (m Model) renderPager() string {
	controls := m.controller.PageControls()
	if len(controls) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(controls)+2)
	if controls[0].Page > 1 {
		rendered = append(rendered, pageStyle.Render(pagesOmitted))
	}
	for _, pc := range controls {
		label := strconv.Itoa(pc.Page)
		switch {
		case m.focus == FocusPager && pc.Page == m.cursor:
			rendered = append(rendered, cursorPageStyle.Render(label))
		case pc.Active:
			rendered = append(rendered, activePageStyle.Render(label))
		default:
			rendered = append(rendered, pageStyle.Render(label))
		}
	}
	if controls[len(controls)-1].Page < m.controller.TotalPages() {
		rendered = append(rendered, pageStyle.Render(pagesOmitted))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderRecent() string {
	var sb strings.Builder
	sb.WriteString(sectionTitleStyle.Render("Recent Searches"))
	for _, entry := range m.recent.Entries() {
		sb.WriteString("\n  • " + entry.Label())
	}
	return sb.String()
}

func (m Model) renderHelp() string {
	if m.focus == FocusPager {
		return helpStyle.Render("←/→ choose page • 1-9 jump • enter open • tab/esc search box • q quit")
	}
	return helpStyle.Render("enter search • tab pages • ctrl+c quit")
}
