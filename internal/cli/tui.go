package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// Progress bar styles
var (
	barFilledStyle = lipgloss.NewStyle().Foreground(colorCyan)
	barEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	defaultBarWidth = 40
	maxBarWidth     = 80
)

// =============================================================================
// BatchModel - Batch progress display
// =============================================================================

// batchProgressMsg reports the number of completed features.
type batchProgressMsg struct{ done, total int }

// batchDoneMsg ends the program once the batch has finished.
type batchDoneMsg struct {
	stats pipeline.BatchStats
	err   error
}

// BatchModel is the bubbletea model showing batch progress.
type BatchModel struct {
	Label    string
	Done     int
	Total    int
	Width    int
	Stats    pipeline.BatchStats
	Err      error
	Finished bool
	Aborted  bool

	start time.Time
}

// NewBatchModel creates a progress model for total features.
func NewBatchModel(label string, total int) BatchModel {
	return BatchModel{
		Label: label,
		Total: total,
		Width: defaultBarWidth,
		start: time.Now(),
	}
}

func (m BatchModel) Init() tea.Cmd {
	return nil
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Width = min(max(msg.Width-30, 10), maxBarWidth)
	case batchProgressMsg:
		m.Done, m.Total = msg.done, msg.total
	case batchDoneMsg:
		m.Stats, m.Err, m.Finished = msg.stats, msg.err, true
		if msg.err == nil {
			m.Done = m.Total
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m BatchModel) View() string {
	if m.Finished || m.Aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Label))
	b.WriteString("\n")
	b.WriteString(m.bar())
	b.WriteString(" ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d/%d", m.Done, m.Total)))
	b.WriteString(StyleDim.Render(fmt.Sprintf(" · %s", time.Since(m.start).Round(100*time.Millisecond))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// bar renders the progress bar at the model's width.
func (m BatchModel) bar() string {
	filled := 0
	if m.Total > 0 {
		filled = m.Width * m.Done / m.Total
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", m.Width-filled))
}
