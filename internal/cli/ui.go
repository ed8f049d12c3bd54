package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/geobuffer/pkg/pipeline"
)

// Palette (ANSI 256).
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders values and paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleNumber renders counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFresh       = lipgloss.NewStyle().Foreground(colorGray)
)

// Status line markers.
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markWarning = lipgloss.NewStyle().Foreground(colorYellow).Render("!")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markFile    = StyleDim.Render("→")
	separator   = StyleDim.Render(" · ")
)

func printSuccess(format string, args ...any) {
	fmt.Println(markSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(markError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + markFile + " " + StyleValue.Render(path))
}

// printStats prints a one-line summary of a buffer run, e.g.
//
//	2 → 33 coords · 1 polygons · area 78.0 · fresh
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d → %d coords", stats.InputCoords, stats.ResultCoords)),
		StyleDim.Render(fmt.Sprintf("%d polygons", stats.Polygons)),
		StyleDim.Render(fmt.Sprintf("area %.6g", stats.Area)),
	}
	if stats.Attempts > 1 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d attempts", stats.Attempts)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleFresh.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, separator))
}

// printBatchStats prints a batch summary table.
func printBatchStats(stats pipeline.BatchStats) {
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	failed := StyleValue
	if stats.Failed > 0 {
		failed = lipgloss.NewStyle().Foreground(colorRed)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Features", "Failed", "Cached", "Duration").
		Row(
			strconv.Itoa(stats.Total),
			strconv.Itoa(stats.Failed),
			strconv.Itoa(stats.Cached),
			stats.Duration.Round(time.Millisecond).String(),
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case col == 1:
				return failed
			case col == 2:
				return styleCached
			}
			return StyleValue
		})
	fmt.Println(t.Render())
}
