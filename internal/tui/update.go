package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/controlcentre/internal/discord"
	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/store"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = model.State(msg)
		if m.view == viewBoard {
			if _, ok := m.activeProject(); !ok {
				m.view = viewDashboard
			}
		}
		m.clampCursors()
		return m, m.waitForUpdate()

	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		switch m.view {
		case viewDashboard:
			return m.updateDashboard(msg)
		case viewBoard:
			return m.updateBoard(msg)
		}
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputMode = inputNone
		m.input.Reset()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.inputMode
		m.inputMode = inputNone
		m.input.Reset()
		if value == "" {
			return m, nil
		}
		switch mode {
		case inputNewBoard:
			m.store.Dispatch(store.AddProject{Name: value})
			snap := m.store.Snapshot()
			created := snap.Projects[len(snap.Projects)-1]
			return m, m.notifyCmd(discord.EventProjectCreated, discord.Payload{
				Name:        created.Name,
				ProjectRepo: created.GithubRepo,
			})
		case inputNewTask:
			m.store.Dispatch(store.AddTask{ProjectID: m.activeBoard, Title: value})
			snap := m.store.Snapshot()
			project, _ := snap.Project(m.activeBoard)
			list := snap.Tasks[m.activeBoard]
			created := list[len(list)-1]
			return m, m.notifyCmd(discord.EventTaskAdded, discord.Payload{
				Title:       created.Title,
				ProjectName: project.Name,
				ProjectRepo: project.GithubRepo,
				Status:      created.Status,
			})
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.unsub()
		return m, tea.Quit
	case "j", "down":
		if m.boardCursor < len(m.state.Projects)-1 {
			m.boardCursor++
		}
	case "k", "up":
		if m.boardCursor > 0 {
			m.boardCursor--
		}
	case "n":
		m.inputMode = inputNewBoard
		m.input.Placeholder = "Board name"
		m.input.Focus()
		return m, nil
	case "d":
		if len(m.state.Projects) > 0 {
			victim := m.state.Projects[m.boardCursor]
			m.store.Dispatch(store.DeleteProject{ID: victim.ID})
			m.clampCursors()
			return m, m.notifyCmd(discord.EventProjectDeleted, discord.Payload{
				Name:        victim.Name,
				ProjectRepo: victim.GithubRepo,
			})
		}
	case "enter":
		if len(m.state.Projects) > 0 {
			m.activeBoard = m.state.Projects[m.boardCursor].ID
			m.view = viewBoard
			m.column = 0
			m.taskCursor = 0
		}
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.unsub()
		return m, tea.Quit
	case "esc":
		m.view = viewDashboard
		return m, nil
	case "h", "left":
		if m.column > 0 {
			m.column--
			m.taskCursor = 0
		}
	case "l", "right", "tab":
		if m.column < len(model.Statuses)-1 {
			m.column++
			m.taskCursor = 0
		}
	case "j", "down":
		if m.taskCursor < len(m.boardTasks())-1 {
			m.taskCursor++
		}
	case "k", "up":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case "n":
		m.inputMode = inputNewTask
		m.input.Placeholder = "Task title"
		m.input.Focus()
		return m, nil
	case "enter", " ":
		tasks := m.boardTasks()
		if m.taskCursor < len(tasks) {
			return m, m.advanceTask(tasks[m.taskCursor])
		}
	case "x":
		tasks := m.boardTasks()
		if m.taskCursor < len(tasks) {
			victim := tasks[m.taskCursor]
			m.store.Dispatch(store.DeleteTask{ProjectID: m.activeBoard, TaskID: victim.ID})
			m.clampCursors()
			project, _ := m.store.Snapshot().Project(m.activeBoard)
			return m, m.notifyCmd(discord.EventTaskDeleted, discord.Payload{
				Title:       victim.Title,
				ProjectName: project.Name,
				ProjectRepo: project.GithubRepo,
			})
		}
	}
	return m, nil
}

// advanceTask moves a task to the next workflow state, wrapping from done
// back to pending.
func (m *Model) advanceTask(t model.Task) tea.Cmd {
	next := model.StatusPending
	switch t.Status {
	case model.StatusPending:
		next = model.StatusInProgress
	case model.StatusInProgress:
		next = model.StatusDone
	}
	m.store.Dispatch(store.EditTask{ProjectID: m.activeBoard, TaskID: t.ID, Status: &next})
	project, _ := m.store.Snapshot().Project(m.activeBoard)
	return m.notifyCmd(discord.EventTaskEdited, discord.Payload{
		Title:        t.Title,
		ProjectName:  project.Name,
		ProjectRepo:  project.GithubRepo,
		StatusChange: t.Status != next,
		OldStatus:    t.Status,
		NewStatus:    next,
	})
}
