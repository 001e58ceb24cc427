package monitor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-wordwrap"

	"github.com/minimind-ai/minimind/pkg/json"
	"github.com/minimind-ai/minimind/pkg/taskwatch"
)

// snapshotMsg carries a freshly applied snapshot from the monitor's poll
// loop into the UI event loop.
type snapshotMsg struct {
	snap *taskwatch.TaskSnapshot
}

// pollErrMsg carries an error from the initial select or a background poll.
type pollErrMsg struct {
	err error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	phaseStyles = map[taskwatch.Phase]lipgloss.Style{
		taskwatch.PhasePending:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		taskwatch.PhaseRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		taskwatch.PhaseCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		taskwatch.PhaseError:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

const defaultWidth = 90

// model is the bubbletea model for the monitor UI. All task state lives in
// the latest snapshot; the model only adds view state on top: the execution
// cursor, the expansion set and the last poll error.
type model struct {
	monitor   *taskwatch.Monitor
	expansion *taskwatch.ExpansionSet
	taskID    int64

	spinner  spinner.Model
	progress progress.Model

	snap    *taskwatch.TaskSnapshot
	cursor  int
	lastErr error
	width   int
}

func newModel(mon *taskwatch.Monitor, taskID int64) model {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	pb := progress.New(progress.WithDefaultGradient())
	pb.Width = 40
	return model{
		monitor:   mon,
		expansion: taskwatch.NewExpansionSet(),
		taskID:    taskID,
		spinner:   sp,
		progress:  pb,
		width:     defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, selectTask(m.monitor, m.taskID))
}

// selectTask runs the initial fetch. The resulting snapshot arrives through
// the monitor's update callback, so only the error path produces a message.
func selectTask(mon *taskwatch.Monitor, taskID int64) tea.Cmd {
	return func() tea.Msg {
		if _, err := mon.Select(context.Background(), taskID); err != nil {
			return pollErrMsg{err: err}
		}
		return nil
	}
}

func refreshTask(mon *taskwatch.Monitor) tea.Cmd {
	return func() tea.Msg {
		if _, err := mon.RefreshNow(context.Background()); err != nil {
			return pollErrMsg{err: err}
		}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 30
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}
		return m, nil

	case snapshotMsg:
		// A different task id means a new selection; stale view state must
		// not survive it.
		if m.snap != nil && m.snap.TaskID != msg.snap.TaskID {
			m.expansion.Reset()
			m.cursor = 0
		}
		m.snap = msg.snap
		m.lastErr = nil
		if n := len(m.snap.Executions); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case pollErrMsg:
		m.lastErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.monitor.Close()
		return m, tea.Quit

	case "r":
		return m, refreshTask(m.monitor)

	case "a":
		m.monitor.SetAutoRefresh(!m.monitor.AutoRefresh())
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.snap != nil && m.cursor < len(m.snap.Executions)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", " ":
		if m.snap != nil && m.cursor < len(m.snap.Executions) {
			m.expansion.Toggle(m.snap.Executions[m.cursor].ID)
		}
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	if m.snap == nil {
		fmt.Fprintf(&b, "\n  %s Fetching task %d", m.spinner.View(), m.taskID)
		if m.lastErr != nil {
			fmt.Fprintf(&b, "\n\n  %s", errStyle.Render(m.lastErr.Error()))
		}
		b.WriteString("\n\n  " + dimStyle.Render("q quit"))
		return b.String()
	}

	snap := m.snap
	phase := snap.Phase()

	b.WriteString("\n  " + titleStyle.Render(fmt.Sprintf("Task %d", snap.TaskID)))
	b.WriteString("  " + phaseStyle(phase).Render(snap.Status))
	if m.monitor.AutoRefresh() {
		b.WriteString("  " + m.spinner.View())
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %d%%\n", m.progress.ViewAs(snap.Progress/100), snap.ProgressPercent())
	if snap.CurrentStep != "" {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render("Step: "+snap.CurrentStep))
	}

	b.WriteString("\n  " + sectionStyle.Render("Subtasks") + "\n")
	if len(snap.Subtasks) == 0 {
		b.WriteString("  " + dimStyle.Render("none yet") + "\n")
	}
	for _, st := range snap.Subtasks {
		marker := subtaskMarker(st.Status)
		line := fmt.Sprintf("  %s %d. %-40s %s", marker, st.OrderIndex+1, st.Title, phaseStyle(taskwatch.PhaseOf(st.Status)).Render(st.Status))
		b.WriteString(line + "\n")
	}

	counts := snap.CountExecutions()
	header := fmt.Sprintf("Executions (%d total, %d completed, %d failed)", counts.Total, counts.Completed, counts.Failed)
	b.WriteString("\n  " + sectionStyle.Render(header) + "\n")
	for i, e := range snap.Executions {
		prefix := "  "
		line := fmt.Sprintf("[%d] %-10s %s", e.ID, e.AgentType, phaseStyle(taskwatch.PhaseOf(e.Status)).Render(e.Status))
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString("  " + prefix + line + "\n")
		if e.ErrorMessage != "" {
			b.WriteString("      " + errStyle.Render(e.ErrorMessage) + "\n")
		}
		if m.expansion.Expanded(e.ID) {
			b.WriteString(m.renderExecutionDetail(&e))
		}
	}

	if m.lastErr != nil {
		b.WriteString("\n  " + errStyle.Render("poll error: "+m.lastErr.Error()) + "\n")
	}

	auto := "off"
	if m.monitor.AutoRefresh() {
		auto = "on"
	}
	help := fmt.Sprintf("q quit · r refresh · a auto-refresh [%s] · up/down select · enter expand", auto)
	b.WriteString("\n  " + dimStyle.Render(help) + "\n")
	return b.String()
}

// renderExecutionDetail shows an expanded execution: its tool calls when the
// output carries any, otherwise the resolved result payload.
func (m model) renderExecutionDetail(e *taskwatch.AgentExecution) string {
	wrap := uint(m.width - 10)
	if wrap < 20 {
		wrap = 20
	}

	var b strings.Builder
	indentWrite := func(s string) {
		for _, line := range strings.Split(wordwrap.WrapString(s, wrap), "\n") {
			b.WriteString("      " + dimStyle.Render(line) + "\n")
		}
	}

	if e.OutputData == nil {
		indentWrite("no output")
		return b.String()
	}
	if taskwatch.PhaseOf(e.Status) != taskwatch.PhaseCompleted {
		indentWrite(compactJSON(e.OutputData))
		return b.String()
	}

	snap := taskwatch.TaskSnapshot{Executions: []taskwatch.AgentExecution{*e}}
	for _, r := range snap.FinalResults() {
		switch {
		case r.Result != nil:
			indentWrite(fmt.Sprintf("%v", r.Result))
		case len(r.ToolCalls) > 0:
			for _, call := range r.ToolCalls {
				line := "tool " + call.Name
				if len(call.Arguments) > 0 {
					line += " " + compactJSON(call.Arguments)
				}
				if call.Result != nil {
					line += " -> " + compactJSON(call.Result)
				}
				indentWrite(line)
			}
		default:
			indentWrite(compactJSON(r.Raw))
		}
	}
	return b.String()
}

func phaseStyle(p taskwatch.Phase) lipgloss.Style {
	if s, ok := phaseStyles[p]; ok {
		return s
	}
	return phaseStyles[taskwatch.PhasePending]
}

func subtaskMarker(status string) string {
	switch taskwatch.PhaseOf(status) {
	case taskwatch.PhaseCompleted:
		return "✓"
	case taskwatch.PhaseRunning:
		return "▸"
	case taskwatch.PhaseError:
		return "✗"
	default:
		return "○"
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
