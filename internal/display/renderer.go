package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/shrinkray/internal/stats"
)

// Label styles. The label column is right-aligned to labelWidth so file
// paths line up across result lines.
const labelWidth = 10

var (
	styleShrunk     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleGrew       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleSkipped    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	styleFailed     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleShrinking  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleCancelling = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	styleDim        = lipgloss.NewStyle().Faint(true)
)

// animation holds the spinner frames cycled by the progress timer.
var animation = []string{"⠋", "⠙", "⠸", "⠴", "⠦", "⠇"}

// clearLine moves to column 0 and clears to end of line.
const clearLine = "\r\033[K"

// Renderer is the report sink: it consumes progress events from the
// process supervisor and result events from the batch driver. Used
// strictly sequentially.
type Renderer struct {
	out io.Writer
	// tty gates the in-progress line; without a terminal the animated
	// status would just accumulate garbage in redirected output.
	tty bool
}

// NewRenderer builds a Renderer writing to out. tty enables the live
// progress line.
func NewRenderer(out io.Writer, tty bool) *Renderer {
	return &Renderer{out: out, tty: tty}
}

// --- result lines ---

// Shrunk reports a conversion whose output is smaller than its input.
func (r *Renderer) Shrunk(file string, d stats.Delta) {
	detail := fmt.Sprintf("(-%s, -%.2f %%)", FormatBytes(d.Difference()), 100*d.Ratio())
	r.result(styleShrunk.Render(label("Shrunk")), file, detail)
}

// Grew reports a conversion whose output is larger than its input.
func (r *Renderer) Grew(file string, d stats.Delta) {
	detail := fmt.Sprintf("(+%s, +%.2f %%)", FormatBytes(d.Difference()), 100*d.Ratio())
	r.result(styleGrew.Render(label("Grew")), file, detail)
}

// Skip reports a file that was not converted, with the reason.
func (r *Renderer) Skip(file, reason string) {
	r.result(styleSkipped.Render(label("Skipped")), file, "("+reason+")")
}

// Fail reports a file whose conversion errored, with the reason.
func (r *Renderer) Fail(file, reason string) {
	r.result(styleFailed.Render(label("Failed")), file, "("+reason+")")
}

// Cancelled reports a file whose conversion was interrupted.
func (r *Renderer) Cancelled(file string) {
	fmt.Fprintf(r.out, "%s %s\n", styleFailed.Render(label("Cancelled")), file)
}

func (r *Renderer) result(styledLabel, file, detail string) {
	fmt.Fprintf(r.out, "%s %s %s\n", styledLabel, file, styleDim.Render(detail))
}

// Summary prints the aggregate counts and byte totals for the run.
func (r *Renderer) Summary(s *stats.Statistics) {
	fmt.Fprintf(r.out, "%s %d %s, ",
		styleShrunk.Render("Shrunk"), s.Shrunk(),
		styleDim.Render("(-"+FormatBytes(s.Saved())+")"))
	fmt.Fprintf(r.out, "%s %d %s, ",
		styleGrew.Render("Grew"), s.Grew(),
		styleDim.Render("(+"+FormatBytes(s.Wasted())+")"))
	fmt.Fprintf(r.out, "%s %d, ", styleSkipped.Render("Skipped"), s.Skipped())
	fmt.Fprintf(r.out, "%s %d\n", styleFailed.Render("Failed"), s.Failed())

	d := s.Delta()
	fmt.Fprintf(r.out, "Processed %s, ", FormatBytes(d.Original))
	if d.Original == 0 {
		fmt.Fprintln(r.out, "nothing converted")
		return
	}
	ratio := fmt.Sprintf("(-%.2f %%)", 100*d.Ratio())
	verb := styleShrunk.Render("saving")
	sign := "-"
	if !d.IsSmaller() {
		ratio = fmt.Sprintf("(+%.2f %%)", 100*d.Ratio())
		verb = styleGrew.Render("wasting")
		sign = "+"
	}
	fmt.Fprintf(r.out, "%s %s%s %s\n", verb, sign, FormatBytes(d.Difference()), styleDim.Render(ratio))
}

// --- supervisor sink ---

// StartProcessing renders the initial in-progress line for a file.
func (r *Renderer) StartProcessing(file string) {
	if !r.tty {
		return
	}
	r.status(file, 0, false)
}

// UpdateProcessing re-renders the in-progress line on a timer tick.
func (r *Renderer) UpdateProcessing(file string, tick int, cancelling bool) {
	if !r.tty {
		return
	}
	fmt.Fprint(r.out, clearLine)
	r.status(file, tick, cancelling)
}

// ForwardLine scrolls one line of child output above the in-progress line.
func (r *Renderer) ForwardLine(file string, tick int, cancelling bool, line string) {
	line = strings.TrimRight(line, "\r\n")
	if !r.tty {
		if line != "" {
			fmt.Fprintln(r.out, styleDim.Render(line))
		}
		return
	}
	fmt.Fprint(r.out, clearLine)
	fmt.Fprintf(r.out, "%s %s\n", strings.Repeat(" ", labelWidth), styleDim.Render(line))
	r.status(file, tick, cancelling)
}

// EndProcessing clears the in-progress line. Always called exactly once
// per supervised invocation, on every exit path.
func (r *Renderer) EndProcessing() {
	if !r.tty {
		return
	}
	fmt.Fprint(r.out, clearLine)
}

func (r *Renderer) status(file string, tick int, cancelling bool) {
	styled := styleShrinking.Render(label("Shrinking"))
	if cancelling {
		styled = styleCancelling.Render(label("Cancelling"))
	}
	fmt.Fprintf(r.out, "%s %s %s", styled, animation[tick%len(animation)], file)
}

func label(s string) string {
	return fmt.Sprintf("%*s", labelWidth, s)
}
