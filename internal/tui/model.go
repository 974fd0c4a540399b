package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/controlcentre/internal/discord"
	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/settings"
	"github.com/existflow/controlcentre/internal/store"
)

// Notifier posts tracker updates for local mutations.
type Notifier interface {
	Send(event discord.Event, payload discord.Payload)
}

// view identifiers
const (
	viewDashboard = iota
	viewBoard
)

// input modes
const (
	inputNone = iota
	inputNewBoard
	inputNewTask
)

// stateMsg delivers a store change (local or remote) into the program.
type stateMsg model.State

// Model is the TUI root model.
type Model struct {
	store    *store.Store
	settings *settings.Service
	notifier Notifier

	state   model.State
	updates chan model.State
	unsub   func()

	view        int
	boardCursor int
	activeBoard string
	column      int
	taskCursor  int

	inputMode int
	input     textinput.Model

	width  int
	height int
}

// NewModel creates the TUI model and subscribes to store changes so remote
// hydrations repaint the screen. notifier may be nil to skip webhook
// notifications.
func NewModel(st *store.Store, svc *settings.Service, notifier Notifier) *Model {
	input := textinput.New()
	input.CharLimit = 120
	input.Width = 40

	updates := make(chan model.State, 8)
	unsub := st.Subscribe(func(state model.State, origin store.Origin) {
		select {
		case updates <- state:
		default:
		}
	})

	return &Model{
		store:    st,
		settings: svc,
		notifier: notifier,
		state:    st.Snapshot(),
		updates:  updates,
		unsub:    unsub,
		input:    input,
	}
}

// notifyCmd wraps the webhook send in a command so the event loop never
// blocks on the network.
func (m *Model) notifyCmd(event discord.Event, payload discord.Payload) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	return func() tea.Msg {
		m.notifier.Send(event, payload)
		return nil
	}
}

// Init starts listening for store updates.
func (m *Model) Init() tea.Cmd {
	return m.waitForUpdate()
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.updates)
	}
}

func (m *Model) activeProject() (model.Project, bool) {
	return m.state.Project(m.activeBoard)
}

func (m *Model) boardTasks() []model.Task {
	columns := store.TasksByStatus(m.state, m.activeBoard)
	return columns[model.Statuses[m.column]]
}

func (m *Model) clampCursors() {
	if m.boardCursor >= len(m.state.Projects) {
		m.boardCursor = len(m.state.Projects) - 1
	}
	if m.boardCursor < 0 {
		m.boardCursor = 0
	}
	if n := len(m.boardTasks()); m.taskCursor >= n {
		m.taskCursor = n - 1
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}
}
