package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/balkashynov/llmlog/internal/db"
	"github.com/balkashynov/llmlog/internal/models"
)

// Backend is the part of the store the browser needs. *db.Store satisfies it.
type Backend interface {
	ListSessions(ctx context.Context) ([]db.SessionSummary, error)
	InteractionsForSession(ctx context.Context, sessionID uint) ([]models.Interaction, error)
	UpdateInteractionAnnotation(ctx context.Context, id uint, comment *string, rating models.Rating) error
}

// Screen is which part of the browser is shown
type Screen int

const (
	ScreenSessions Screen = iota
	ScreenInteractions
)

// BrowserModel lists sessions and pages through the interactions of the
// opened one. Edits to the rating and comment are pending until the user
// moves to another interaction, leaves the session or quits; then they are
// written if they differ from what is stored.
type BrowserModel struct {
	ctx     context.Context
	backend Backend
	keys    keyMap
	help    help.Model

	width  int
	height int

	screen Screen

	// Session list
	sessions        []db.SessionSummary
	selected        int
	currentPage     int
	sessionsPerPage int

	// Opened session
	session      *db.SessionSummary
	interactions []models.Interaction
	current      int

	// Pending annotation of the current interaction
	rating  models.Rating
	comment string
	editor  textarea.Model
	editing bool

	saved  int
	status string
	err    error
}

// NewBrowserModel creates the browser over an already loaded session list
func NewBrowserModel(ctx context.Context, backend Backend, sessions []db.SessionSummary) BrowserModel {
	editor := textarea.New()
	editor.Placeholder = "Comment..."
	editor.ShowLineNumbers = false
	editor.CharLimit = 4000
	editor.SetHeight(4)

	return BrowserModel{
		ctx:             ctx,
		backend:         backend,
		keys:            defaultKeyMap(),
		help:            help.New(),
		screen:          ScreenSessions,
		sessions:        sessions,
		sessionsPerPage: 10,
		editor:          editor,
	}
}

// Init initializes the model
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Height - title(2) - pagination(2) - help(1) - borders(2) - margins(2)
		perPage := m.height - 9
		if perPage < 3 {
			perPage = 3
		}
		m.sessionsPerPage = perPage
		m.currentPage = m.selected / m.sessionsPerPage
		m.editor.SetWidth(max(20, m.width-6))
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditorKeys(msg)
		}
		if m.screen == ScreenInteractions {
			return m.handleInteractionKeys(msg)
		}
		return m.handleSessionKeys(msg)
	}

	return m, nil
}

func (m BrowserModel) handleSessionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m.moveSelectionUp(), nil
	case key.Matches(msg, m.keys.Down):
		return m.moveSelectionDown(), nil
	case key.Matches(msg, m.keys.PrevPage):
		return m.prevPage(), nil
	case key.Matches(msg, m.keys.NextPage):
		return m.nextPage(), nil
	case key.Matches(msg, m.keys.Open):
		return m.openSelected(), nil
	}
	return m, nil
}

func (m BrowserModel) handleInteractionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m, ok := m.saveCurrent()
		if !ok {
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m, ok := m.saveCurrent()
		if !ok {
			return m, nil
		}
		m.screen = ScreenSessions
		m.session = nil
		m.interactions = nil
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		return m.moveTo(m.current - 1), nil

	case key.Matches(msg, m.keys.Next):
		return m.moveTo(m.current + 1), nil

	case key.Matches(msg, m.keys.Rate):
		if len(m.interactions) > 0 {
			m.rating = m.rating.Next()
		}
		return m, nil

	case key.Matches(msg, m.keys.Unrate):
		m.rating = models.RatingUnset
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		if len(m.interactions) == 0 {
			return m, nil
		}
		m.editing = true
		m.editor.SetValue(m.comment)
		return m, m.editor.Focus()
	}
	return m, nil
}

func (m BrowserModel) handleEditorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SaveNote):
		m.comment = m.editor.Value()
		m.editing = false
		m.editor.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.editing = false
		m.editor.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

// openSelected loads the interactions of the selected session
func (m BrowserModel) openSelected() BrowserModel {
	if len(m.sessions) == 0 {
		return m
	}
	session := m.sessions[m.selected]

	interactions, err := m.backend.InteractionsForSession(m.ctx, session.ID)
	if err != nil {
		m.err = err
		m.status = ""
		return m
	}

	m.err = nil
	m.status = ""
	m.screen = ScreenInteractions
	m.session = &session
	m.interactions = interactions
	m.current = 0
	return m.loadCurrent()
}

// moveTo saves the pending annotation and shows interaction i. Out of
// range targets are ignored.
func (m BrowserModel) moveTo(i int) BrowserModel {
	if i < 0 || i >= len(m.interactions) || i == m.current {
		return m
	}
	m, ok := m.saveCurrent()
	if !ok {
		return m
	}
	m.current = i
	return m.loadCurrent()
}

func (m BrowserModel) loadCurrent() BrowserModel {
	m.rating = models.RatingUnset
	m.comment = ""
	if len(m.interactions) == 0 {
		return m
	}
	interaction := m.interactions[m.current]
	m.rating = interaction.Rating
	if interaction.Comment != nil {
		m.comment = *interaction.Comment
	}
	return m
}

// dirty reports whether the pending annotation differs from the stored one
func (m BrowserModel) dirty() bool {
	if len(m.interactions) == 0 {
		return false
	}
	stored := m.interactions[m.current]
	storedComment := ""
	if stored.Comment != nil {
		storedComment = *stored.Comment
	}
	return m.rating != stored.Rating || strings.TrimSpace(m.comment) != storedComment
}

// saveCurrent writes the pending annotation when it changed. On failure the
// error is shown and ok is false so the caller stays on the interaction.
func (m BrowserModel) saveCurrent() (BrowserModel, bool) {
	if !m.dirty() {
		return m, true
	}

	stored := m.interactions[m.current]
	comment := strings.TrimSpace(m.comment)
	var commentPtr *string
	if comment != "" {
		commentPtr = &comment
	}

	if err := m.backend.UpdateInteractionAnnotation(m.ctx, stored.ID, commentPtr, m.rating); err != nil {
		m.err = err
		m.status = ""
		return m, false
	}

	// Copy before mutating so earlier model values keep their own slice
	interactions := make([]models.Interaction, len(m.interactions))
	copy(interactions, m.interactions)
	interactions[m.current].Rating = m.rating
	interactions[m.current].Comment = commentPtr
	m.interactions = interactions

	m.err = nil
	m.saved++
	m.status = fmt.Sprintf("Saved interaction #%d", stored.ID)
	return m, true
}

// moveSelectionUp moves the selection up
func (m BrowserModel) moveSelectionUp() BrowserModel {
	if m.selected > 0 {
		m.selected--
		if m.selected < m.currentPage*m.sessionsPerPage && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

// moveSelectionDown moves the selection down
func (m BrowserModel) moveSelectionDown() BrowserModel {
	if m.selected < len(m.sessions)-1 {
		m.selected++
		if m.selected >= (m.currentPage+1)*m.sessionsPerPage && m.currentPage < m.pageCount()-1 {
			m.currentPage++
		}
	}
	return m
}

func (m BrowserModel) prevPage() BrowserModel {
	if m.currentPage > 0 {
		m.currentPage--
		m.selected = m.currentPage * m.sessionsPerPage
	}
	return m
}

func (m BrowserModel) nextPage() BrowserModel {
	if m.currentPage < m.pageCount()-1 {
		m.currentPage++
		m.selected = m.currentPage * m.sessionsPerPage
	}
	return m
}

func (m BrowserModel) pageCount() int {
	if len(m.sessions) == 0 {
		return 1
	}
	return (len(m.sessions) + m.sessionsPerPage - 1) / m.sessionsPerPage
}

// View renders the TUI
func (m BrowserModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content string
	var bindings []key.Binding
	switch {
	case m.screen == ScreenSessions:
		content = m.renderSessions()
		bindings = m.keys.sessionHelp()
	case m.editing:
		content = m.renderInteraction()
		bindings = m.keys.editHelp()
	default:
		content = m.renderInteraction()
		bindings = m.keys.interactionHelp()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		content,
		m.renderStatus(),
		m.help.ShortHelpView(bindings),
	)
}

func (m BrowserModel) renderSessions() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render("Sessions"))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true)
		b.WriteString(emptyStyle.Render("No sessions imported. Use 'llmlog import session <file>' first."))
		return m.panel(b.String())
	}

	start := m.currentPage * m.sessionsPerPage
	end := min(start+m.sessionsPerPage, len(m.sessions))
	sourceWidth := max(10, m.width-60)

	for i := start; i < end; i++ {
		s := m.sessions[i]
		when := s.StartedOrImported().UTC().Format(time.RFC3339)
		row := fmt.Sprintf("#%-5d %-20s  %-24s %5d  %s",
			s.ID, when,
			runewidth.Truncate(s.LLMName, 24, "…"),
			s.InteractionCount,
			runewidth.Truncate(filepath.Base(s.SourceFile), sourceWidth, "…"))

		if i == m.selected {
			row = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorPrimaryText)).
				Background(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Render("> " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	if m.pageCount() > 1 {
		pageStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).MarginTop(1)
		b.WriteString(pageStyle.Render(fmt.Sprintf("Page %d/%d (%d sessions)", m.currentPage+1, m.pageCount(), len(m.sessions))))
	}

	return m.panel(b.String())
}

func (m BrowserModel) renderInteraction() string {
	var b strings.Builder
	width := max(20, m.width-6)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorSecondaryText))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Width(width)

	b.WriteString(headerStyle.Render(fmt.Sprintf("Session #%d  %s", m.session.ID, m.session.LLMName)))
	b.WriteString("\n")

	if len(m.interactions) == 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true).Render("This session has no interactions."))
		return m.panel(b.String())
	}

	interaction := m.interactions[m.current]
	b.WriteString(fmt.Sprintf("Interaction %d/%d  #%d  %s  situation %s\n\n",
		m.current+1, len(m.interactions), interaction.ID, interaction.TimeLabel(), interaction.SituationID))

	// Prompt and response share what is left after the annotation block
	textLines := max(2, (m.height-22)/2)

	b.WriteString(labelStyle.Render("Prompt"))
	b.WriteString("\n")
	b.WriteString(clampLines(textStyle.Render(interaction.Prompt), textLines))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Response"))
	b.WriteString("\n")
	b.WriteString(clampLines(textStyle.Render(interaction.Response), textLines))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Rating "))
	b.WriteString(ratingStyle(m.rating).Render(m.rating.String()))
	if m.dirty() {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("  (unsaved)"))
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Comment"))
	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.editor.View())
	} else if m.comment == "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Render("-"))
	} else {
		b.WriteString(textStyle.Render(m.comment))
	}

	return m.panel(b.String())
}

func (m BrowserModel) renderStatus() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.status)
	}
	return ""
}

func (m BrowserModel) panel(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Width(max(20, m.width-2)).
		Render(content)
}

func ratingStyle(r models.Rating) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch r {
	case models.RatingOkay:
		return style.Foreground(lipgloss.Color(ColorSuccess))
	case models.RatingNotOkay:
		return style.Foreground(lipgloss.Color(ColorError))
	default:
		return style.Foreground(lipgloss.Color(ColorDisabledText))
	}
}

// clampLines keeps the first n lines of rendered text
func clampLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[:n], "\n") + "\n…"
}
