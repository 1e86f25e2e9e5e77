// Package cli provides the command-line interface for the backtesting engine.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Output handles formatted output for the CLI: indented JSON when --json is
// set, otherwise text that is colored only when the writer is a terminal.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput builds an Output from the --json flag and the command's stdout.
// When the command's writer is the real stdout, it's wrapped with
// mattn/go-colorable so ANSI codes render correctly on Windows consoles.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()
	if w == os.Stdout {
		w = colorable.NewColorableStdout()
	}
	return &Output{
		writer:       w,
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// IsJSON reports whether JSON output mode is enabled.
func (o *Output) IsJSON() bool { return o.jsonMode }

// JSON writes data as indented JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (o *Output) Print(format string, args ...interface{})   { fmt.Fprintf(o.writer, format, args...) }
func (o *Output) Println(args ...interface{})                { fmt.Fprintln(o.writer, args...) }
func (o *Output) Printf(format string, args ...interface{})  { fmt.Fprintf(o.writer, format, args...) }

// Success prints a green-highlighted message.
func (o *Output) Success(format string, args ...interface{}) { o.colored(color.FgGreen, format, args...) }

// Error prints a red-highlighted message.
func (o *Output) Error(format string, args ...interface{}) { o.colored(color.FgRed, format, args...) }

// Warning prints a yellow-highlighted message.
func (o *Output) Warning(format string, args ...interface{}) { o.colored(color.FgYellow, format, args...) }

// Info prints a cyan-highlighted message.
func (o *Output) Info(format string, args ...interface{}) { o.colored(color.FgCyan, format, args...) }

func (o *Output) colored(attr color.Attribute, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if o.colorEnabled {
		color.New(attr).Fprintln(o.writer, msg)
	} else {
		fmt.Fprintln(o.writer, msg)
	}
}

// pnlColor picks green for positive, red for negative, default for zero.
func pnlColor(v float64) color.Attribute {
	switch {
	case v > 0:
		return color.FgGreen
	case v < 0:
		return color.FgRed
	default:
		return color.Reset
	}
}

// FormatUSD renders a dollar amount with thousands separators and a sign
// for P&L figures (e.g. "+$1,234.56", "-$87.10").
func FormatUSD(v float64) string {
	switch {
	case v > 0:
		return "+$" + humanize.CommafWithDigits(v, 2)
	case v < 0:
		return "-$" + humanize.CommafWithDigits(-v, 2)
	default:
		return "$" + humanize.CommafWithDigits(0, 2)
	}
}

// FormatPnL colors a dollar P&L figure by sign.
func (o *Output) FormatPnL(v float64) string {
	text := FormatUSD(v)
	if !o.colorEnabled {
		return text
	}
	return color.New(pnlColor(v)).Sprint(text)
}

// FormatPercent colors a percentage figure by sign.
func (o *Output) FormatPercent(pct float64) string {
	sign := ""
	if pct > 0 {
		sign = "+"
	}
	text := fmt.Sprintf("%s%.2f%%", sign, pct)
	if !o.colorEnabled {
		return text
	}
	return color.New(pnlColor(pct)).Sprint(text)
}

// Table is a simple fixed-width text table.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a table bound to output for color decisions.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{headers: headers, output: output}
}

// AddRow appends a row of already-formatted cell strings.
func (t *Table) AddRow(cells ...string) { t.rows = append(t.rows, cells) }

// Render writes the table to the bound output.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(stripANSI(h))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if n := len(stripANSI(cell)); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		padding := widths[i] - len(stripANSI(cell))
		if padding < 0 {
			padding = 0
		}
		padded := cell + strings.Repeat(" ", padding)
		if isHeader && t.output.colorEnabled {
			padded = color.New(color.Bold).Sprint(padded)
		}
		parts = append(parts, padded)
	}
	t.output.Println(strings.Join(parts, "  "))
}

func (t *Table) printSeparator(widths []int) {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	sep := strings.Join(parts, "──")
	if t.output.colorEnabled {
		sep = color.New(color.Faint).Sprint(sep)
	}
	t.output.Println(sep)
}

// stripANSI removes color.New-emitted escape sequences so width
// calculations count visible characters only.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Box draws a bordered box around content lines under a title.
func (o *Output) Box(title string, content []string) {
	maxLen := len(title)
	for _, line := range content {
		if n := len(stripANSI(line)); n > maxLen {
			maxLen = n
		}
	}

	width := maxLen + 4
	border := strings.Repeat("─", width-2)

	o.Printf("┌%s┐\n", border)
	o.Printf("│ %s%s │\n", title, strings.Repeat(" ", width-4-len(title)))
	o.Printf("├%s┤\n", border)
	for _, line := range content {
		padding := width - 4 - len(stripANSI(line))
		o.Printf("│ %s%s │\n", line, strings.Repeat(" ", padding))
	}
	o.Printf("└%s┘\n", border)
}

// Progress prints an in-place ASCII progress bar.
func (o *Output) Progress(current, total int, message string) {
	pct := float64(current) / float64(total) * 100
	barWidth := 30
	filled := int(float64(barWidth) * float64(current) / float64(total))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	o.Printf("\r%s [%s] %.0f%% ", message, bar, pct)
	if current == total {
		o.Println()
	}
}
