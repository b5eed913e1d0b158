package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/roach88/testh/internal/clock"
	"github.com/roach88/testh/internal/ledger"
)

const (
	indent       = "  "
	nestedIndent = indent + indent
)

// DefaultWidth is the column at which pass badges are aligned.
const DefaultWidth = 70

// palette holds the styles used by Console.
type palette struct {
	ordinal  *color.Color
	location *color.Color
	check    *color.Color
	count    *color.Color
	pass     *color.Color
	timing   *color.Color
	perIter  *color.Color
	label    *color.Color
	errText  *color.Color
	errBadge *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		ordinal:  color.New(color.FgYellow, color.Bold),
		location: color.New(color.FgHiBlack),
		check:    color.New(color.FgGreen, color.Bold),
		count:    color.New(color.FgYellow),
		pass:     color.New(color.BgGreen, color.FgBlack),
		timing:   color.New(color.BgBlue, color.FgBlack),
		perIter:  color.New(color.FgBlue),
		label:    color.New(color.FgHiBlack),
		errText:  color.New(color.FgRed, color.Bold),
		errBadge: color.New(color.BgRed, color.FgBlack),
	}
	for _, c := range []*color.Color{
		p.ordinal, p.location, p.check, p.count, p.pass,
		p.timing, p.perIter, p.label, p.errText, p.errBadge,
	} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Console writes the aligned terminal report.
//
// It tracks the display column of the current line so badges line up at
// the configured width even though headers are written as soon as a unit
// starts.
type Console struct {
	w     io.Writer
	width int
	col   int
	style palette
}

// NewConsole creates a Console writing to w. A width below one falls
// back to DefaultWidth.
func NewConsole(w io.Writer, width int, useColor bool) *Console {
	if width < 1 {
		width = DefaultWidth
	}
	return &Console{w: w, width: width, style: newPalette(useColor)}
}

// emit writes plain text.
func (c *Console) emit(s string) {
	c.emitStyled(nil, s)
}

// emitStyled writes s in style st, tracking the visible column.
func (c *Console) emitStyled(st *color.Color, s string) {
	if st != nil {
		io.WriteString(c.w, st.Sprint(s))
	} else {
		io.WriteString(c.w, s)
	}
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		c.col = displayWidth(s[i+1:])
		return
	}
	c.col += displayWidth(s)
}

// padTo writes spaces so that a block of blockWidth columns ends at the
// configured width. At least one space is written.
func (c *Console) padTo(blockWidth int) {
	n := c.width - c.col - blockWidth
	if n < 1 {
		n = 1
	}
	c.emit(strings.Repeat(" ", n))
}

func checks(asserts int) (count, marks string) {
	if asserts >= ledger.CompactThreshold {
		return fmt.Sprintf("%dx ", asserts), "✓ "
	}
	return "", strings.Repeat("✓ ", asserts)
}

func (c *Console) badge(asserts int, elapsed time.Duration) {
	count, marks := checks(asserts)
	c.padTo(displayWidth(count + marks))
	c.emitStyled(c.style.count, count)
	c.emitStyled(c.style.check, marks)
	c.emitStyled(c.style.pass, " PASS ")
	c.emit(" ")
	c.emitStyled(c.style.timing, " "+clock.Classify(elapsed).String()+" ")
}

func (c *Console) UnitHeader(ordinal int, name, file string, line int) {
	c.emitStyled(c.style.ordinal, fmt.Sprintf("%d)", ordinal+1))
	c.emit(" " + name + " ")
	c.emitStyled(c.style.location, fmt.Sprintf("(%s:%d)", filepath.Base(file), line))
}

func (c *Console) UnitPass(asserts int, elapsed time.Duration) {
	c.badge(asserts, elapsed)
	c.emit("\n")
}

func (c *Console) UnitFailed() {
	c.emit("\n")
}

func (c *Console) SubtestsDone(run, passed int) {
	if run == passed {
		c.emit("\n")
		return
	}
	c.emit("\n" + indent)
	c.emitStyled(c.style.errBadge, " ERROR ")
	c.emit(fmt.Sprintf(" %d subtests failed.\n", run-passed))
}

func (c *Console) SubtestHeader(name string) {
	c.emit("\n" + indent + name)
}

func (c *Console) SubtestPass(asserts int, elapsed time.Duration) {
	c.badge(asserts, elapsed)
}

func (c *Console) SubtestFailed(name string, ordinal int) {
	c.emit("\n" + indent)
	c.emitStyled(c.style.errText, fmt.Sprintf("Subtest '%s' (#%d) failed.", name, ordinal))
}

func (c *Console) Failure(file string, line int, description string, nested bool) {
	prefix := indent
	if nested {
		prefix = nestedIndent
	}
	c.emit(fmt.Sprintf("\n%s(%s:%d) ", prefix, filepath.Base(file), line))
	c.emitStyled(c.style.errText, "Error:")
	c.emit(" " + description)
}

func (c *Console) BenchHeader(label string, nested bool) {
	prefix := indent
	if nested {
		prefix = nestedIndent
	}
	c.emit("\n" + prefix)
	c.emitStyled(c.style.label, label)
}

func (c *Console) BenchResult(iterations int, perIteration, total time.Duration) {
	count := fmt.Sprintf("%dx ", iterations)
	per := clock.Classify(perIteration).String() + "/iter"
	c.padTo(displayWidth(count + per))
	c.emitStyled(c.style.count, count)
	c.emitStyled(c.style.perIter, per)
	c.emit(" ")
	c.emitStyled(c.style.timing, " "+clock.Classify(total).String()+" ")
}

func (c *Console) Summary(passed, total int, took time.Duration) {
	c.emit(fmt.Sprintf("%d / %d tests passed. Took %.2f ms\n", passed, total, clock.Millis(took)))
}
