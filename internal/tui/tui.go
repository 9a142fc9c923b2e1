package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/adventure/internal/engine"
	"github.com/tatianab/adventure/internal/logger"
	"github.com/tatianab/adventure/internal/models"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateWarping
	stateFinished
	stateError
)

// Loader produces a fresh world for each new game.
type Loader func() (*models.World, error)

type model struct {
	state     sessionState
	engine    *engine.Engine
	session   *engine.Session
	load      Loader
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	initCmd   tea.Cmd
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

// warpMsg fires when a warp room's delay has elapsed.
type warpMsg struct {
	session string
}

func newModel(eng *engine.Engine, w *models.World, load Loader) model {
	ti := textinput.New()
	ti.Placeholder = "What do you do?"
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	m := model{
		engine:    eng,
		load:      load,
		textInput: ti,
	}
	m.start(w)
	m.initCmd = m.settle()
	return m
}

// start begins a new session in w.
func (m *model) start(w *models.World) {
	m.session = engine.NewSession(w)
	m.state = statePlaying
	m.err = nil
	m.gameLog = ""
	if w.Title != "" {
		m.gameLog += titleStyle.Render(w.Title) + "\n\n"
	}
	if w.Welcome != "" {
		m.appendGame(w.Welcome)
	}
	m.appendGame(m.engine.Render(m.session))
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initCmd)
}

// settle reacts to the room the player is now in: end rooms finish the game
// and warp rooms schedule their transition.
func (m *model) settle() tea.Cmd {
	if err := m.session.Err(); err != nil {
		m.fail(err)
		return nil
	}

	room := m.session.Room()
	switch room.Type {
	case models.RoomEnd:
		m.state = stateFinished
		if f := m.session.World.Farewell; f != "" {
			m.appendGame(f)
		}
		return nil
	case models.RoomWarp:
		m.state = stateWarping
		id := m.session.ID
		return tea.Tick(m.engine.WarpDelay(room), func(time.Time) tea.Msg {
			return warpMsg{session: id}
		})
	}
	m.state = statePlaying
	return nil
}

func (m *model) fail(err error) {
	logger.Error("session halted", "session", m.session.ID, "error", err)
	m.err = err
	m.state = stateError
	m.appendGame(engine.HaltMessage(err))
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.75)
}

func (m *model) appendGame(text string) {
	m.gameLog += gameStyle.Width(m.logWidth()).Render(text) + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			action := m.textInput.Value()
			m.textInput.Reset()

			switch action {
			case "/quit":
				return m, tea.Quit
			case "/restart":
				w, err := m.load()
				if err != nil {
					m.fail(err)
					return m, nil
				}
				m.start(w)
				return m, m.settle()
			}

			if m.state != statePlaying {
				return m, nil
			}

			m.gameLog += userStyle.Width(m.logWidth()).Render("> "+action) + "\n\n"
			if !m.engine.ProcessTurn(m.session, action) && m.session.Err() == nil && m.session.Room().Type != models.RoomEnd {
				return m, tea.Quit
			}
			if m.session.Err() == nil {
				m.appendGame(m.engine.Render(m.session))
			}
			return m, m.settle()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), msg.Height-6)
		}
		m.viewport.Width = m.logWidth()
		m.viewport.Height = msg.Height - 6
		m.viewport.SetContent(m.gameLog)
		m.viewport.GotoBottom()

	case warpMsg:
		if m.state != stateWarping || msg.session != m.session.ID {
			return m, nil
		}
		m.engine.Warp(m.session)
		if m.session.Err() == nil {
			m.appendGame(m.engine.Render(m.session))
		}
		return m, m.settle()
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var help string
	switch m.state {
	case statePlaying:
		help = "Type \"help\" for commands. /restart starts over, /quit leaves."
	case stateWarping:
		help = "You are on your way..."
	case stateFinished:
		help = "The End. /restart to play again, /quit to leave."
	case stateError:
		help = fmt.Sprintf("Error: %v. /restart or /quit.", m.err)
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)

	s := lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+m.textInput.View(),
		"\n"+helpStyle.Render(help),
	)

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.session == nil {
		return ""
	}

	location := titleStyle.Render("LOCATION") + "\n"
	if room := m.session.Room(); room != nil {
		location += room.Name
	}
	location += "\n\n"

	invTitle := titleStyle.Render("INVENTORY") + "\n"
	inventory := ""
	if m.session.Inventory.Len() == 0 {
		inventory = "(empty)"
	} else {
		for _, name := range m.session.Inventory.Names() {
			inventory += "- " + name + "\n"
		}
	}

	content := location + invTitle + inventory

	stateWidth := int(float64(m.width) * 0.23) // Leave some room for padding
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

// Run plays w full-screen until the player quits. load supplies a fresh
// world whenever the player restarts.
func Run(eng *engine.Engine, w *models.World, load Loader) error {
	p := tea.NewProgram(newModel(eng, w, load), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
