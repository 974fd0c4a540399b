package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/controlcentre/internal/model"
	"github.com/existflow/controlcentre/internal/store"
)

// truncateTitle shortens a title to max display runes. Slicing by rune
// keeps multibyte titles intact.
func truncateTitle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

var columnTitles = map[string]string{
	model.StatusPending:    "PENDING",
	model.StatusInProgress: "IN PROGRESS",
	model.StatusDone:       "DONE",
}

// View renders the active screen.
func (m *Model) View() string {
	var body string
	switch m.view {
	case viewBoard:
		body = m.viewBoardScreen()
	default:
		body = m.viewDashboardScreen()
	}
	if m.inputMode != inputNone {
		body += "\n" + m.input.View()
	}
	return body
}

func (m *Model) viewDashboardScreen() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("THE CONTROL CENTRE"))
	b.WriteString("\n")

	if len(m.state.Projects) == 0 {
		b.WriteString(faintStyle.Render("No boards yet. Press n to create one."))
	}
	for i, p := range m.state.Projects {
		counts := store.CountTasks(m.state, p.ID)
		line := fmt.Sprintf("%s  %d/%d tasks", p.Name, counts.Done, counts.Total)
		if p.GithubRepo != "" {
			line += faintStyle.Render("  " + p.GithubRepo)
		}
		if i == m.boardCursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k move · enter open · n new board · d delete · q quit"))
	return b.String()
}

func (m *Model) viewBoardScreen() string {
	project, ok := m.activeProject()
	if !ok {
		return m.viewDashboardScreen()
	}

	var b strings.Builder
	counts := store.CountTasks(m.state, project.ID)
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  (%d/%d tasks)", project.Name, counts.Done, counts.Total)))
	b.WriteString("\n")

	columns := store.TasksByStatus(m.state, project.ID)
	rendered := make([]string, 0, len(model.Statuses))
	for i, status := range model.Statuses {
		var col strings.Builder
		col.WriteString(columnTitleStyle.Render(columnTitles[status]))
		col.WriteString("\n")
		tasks := columns[status]
		if len(tasks) == 0 {
			col.WriteString(faintStyle.Render("empty"))
		}
		for j, t := range tasks {
			title := truncateTitle(t.Title, 22)
			if i == m.column && j == m.taskCursor {
				col.WriteString(selectedStyle.Render("> " + title))
			} else {
				col.WriteString("  " + title)
			}
			col.WriteString("\n")
		}
		style := columnStyle
		if i == m.column {
			style = activeColumnStyle
		}
		rendered = append(rendered, style.Render(col.String()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))

	b.WriteString(helpStyle.Render("h/l column · j/k move · enter advance · n new task · x delete · esc back"))
	return b.String()
}
