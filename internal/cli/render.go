package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tenbis-tools/tenbuy/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
	ColorBlue      = lipgloss.Color("#4385BE")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	goodStyle   = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	badStyle    = lipgloss.NewStyle().Foreground(ColorRed)
	infoStyle   = lipgloss.NewStyle().Foreground(ColorBlue)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorTextDim)
)

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)
	return border.Render(titleStyle.Render(title))
}

// RenderKV renders aligned label/value lines with a two-space indent.
func RenderKV(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if len(p[0]) > width {
			width = len(p[0])
		}
	}

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width+2, p[0])))
		b.WriteString(valueStyle.Render(p[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderAllowance renders the allowance block of a balance read.
func RenderAllowance(a model.Allowance) string {
	return RenderKV([][2]string{
		{"Daily remaining", FormatAmount(a.DailyRemaining)},
		{"Monthly remaining", FormatAmount(a.MonthlyRemaining)},
		{"Daily limit", FormatAmount(a.DailyLimit)},
		{"Monthly limit", FormatAmount(a.MonthlyLimit)},
		{"Spent today", FormatAmount(a.SpentToday)},
		{"Spent this month", FormatAmount(a.SpentThisMonth)},
		{"As of", FormatTimestamp(a.AsOf)},
	})
}

// RenderOutcome renders a run's terminal outcome.
func RenderOutcome(o model.Outcome) string {
	var b strings.Builder

	style := outcomeStyle(o.Kind)
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("Outcome:  "))
	b.WriteString(style.Render(FormatOutcome(o.Kind)))
	b.WriteString("\n")

	switch o.Kind {
	case model.OutcomeSkipped:
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Reason:   "))
		b.WriteString(valueStyle.Render(FormatBlockReason(o.Reason, o.Shortfall)))
		b.WriteString("\n")
	case model.OutcomeFailed:
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Stage:    "))
		b.WriteString(valueStyle.Render(string(o.Stage)))
		b.WriteString("\n")
		if o.Err != nil {
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Cause:    "))
			b.WriteString(badStyle.Render(o.Err.Error()))
			b.WriteString("\n")
		}
	case model.OutcomePurchasedUnconfirmed:
		b.WriteString("  ")
		b.WriteString(warnStyle.Render("The order was placed but the proof artifacts are missing."))
		b.WriteString("\n")
		if o.Err != nil {
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Cause:    "))
			b.WriteString(badStyle.Render(o.Err.Error()))
			b.WriteString("\n")
		}
	}

	if o.Confirmation != nil {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Proof:    "))
		b.WriteString(infoStyle.Render(o.Confirmation.ScreenshotPath))
		b.WriteString("\n")
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("          "))
		b.WriteString(infoStyle.Render(o.Confirmation.DocumentPath))
		b.WriteString("\n")
	}

	return b.String()
}

func outcomeStyle(kind model.OutcomeKind) lipgloss.Style {
	switch kind {
	case model.OutcomePurchased:
		return goodStyle
	case model.OutcomeSimulated:
		return infoStyle
	case model.OutcomeSkipped:
		return warnStyle
	case model.OutcomePurchasedUnconfirmed:
		return warnStyle
	default:
		return badStyle
	}
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Headers []string
	Rows    [][]string
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	b.WriteString(dimStyle.Render("│"))
	for i, h := range t.Headers {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
		b.WriteString(dimStyle.Render("│"))
	}
	b.WriteString("\n")
	rule("├", "┼", "┤")

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(valueStyle.Render(fmt.Sprintf(" %-*s ", widths[i], cell)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")
	return b.String()
}
