package jsondiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// IsTerminal reports whether fd is attached to a terminal, used to decide
// whether pretty output should be coloured
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// palette maps change types to colour functions
type palette struct {
	change map[ChangeType]func(a ...interface{}) string
	insert func(a ...interface{}) string
	delete func(a ...interface{}) string
	plain  bool
}

func newPalette(colorTTY bool) *palette {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if colorTTY {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &palette{
		change: map[ChangeType]func(a ...interface{}) string{
			ChangeUnchanged: mk(color.FgWhite),
			ChangeAdded:     mk(color.FgGreen),
			ChangeRemoved:   mk(color.FgRed),
			ChangeModified:  mk(color.FgBlue),
		},
		insert: mk(color.FgGreen, color.Underline),
		delete: mk(color.FgRed, color.CrossedOut),
		plain:  !colorTTY,
	}
}

var signs = map[ChangeType]string{
	ChangeUnchanged: " ",
	ChangeAdded:     "+",
	ChangeRemoved:   "-",
	ChangeModified:  "~",
}

// FormatPrettyString is a convenience wrapper that outputs to a string
// instead of an io.Writer
func FormatPrettyString(r *Result, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, r, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes a text report to w, one line per change. if colorTTY
// is true it will add
// green "+" for additions
// red "-" for removals
// blue "~" for modifications, with an inline character diff when both
// sides are strings
func FormatPretty(w io.Writer, r *Result, colorTTY bool) error {
	p := newPalette(colorTTY)
	for _, c := range r.Changes {
		path := c.Path
		if path == "" {
			path = "(root)"
		}

		var (
			detail string
			err    error
		)
		switch c.Type {
		case ChangeAdded:
			detail, err = jsonString(c.NewValue)
		case ChangeRemoved, ChangeUnchanged:
			detail, err = jsonString(c.OldValue)
		case ChangeModified:
			detail, err = p.modification(c.OldValue, c.NewValue)
		}
		if err != nil {
			return err
		}

		colorize := p.change[c.Type]
		if colorize == nil {
			colorize = fmt.Sprint
		}
		if _, err := fmt.Fprintf(w, "%s %s: %s\n", colorize(signs[c.Type]), colorize(path), detail); err != nil {
			return err
		}
	}
	return nil
}

func (p *palette) modification(before, after interface{}) (string, error) {
	bs, okBefore := before.(string)
	as, okAfter := after.(string)
	if okBefore && okAfter {
		return p.inlineDiff(bs, as), nil
	}
	o, err := jsonString(before)
	if err != nil {
		return "", err
	}
	n, err := jsonString(after)
	if err != nil {
		return "", err
	}
	return o + " => " + n, nil
}

// inlineDiff renders a character level diff of two strings
func (p *palette) inlineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	buf := &strings.Builder{}
	buf.WriteByte('"')
	for _, d := range diffs {
		text := escapeString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			if p.plain {
				text = "{+" + text + "+}"
			}
			buf.WriteString(p.insert(text))
		case diffmatchpatch.DiffDelete:
			if p.plain {
				text = "[-" + text + "-]"
			}
			buf.WriteString(p.delete(text))
		default:
			buf.WriteString(text)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

// escapeString JSON-escapes s without surrounding quotes
func escapeString(s string) string {
	q := quoteKey(s)
	return q[1 : len(q)-1]
}

func jsonString(v interface{}) (string, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// FormatPrettyStats prints a string of stats info
func FormatPrettyStats(diffStat *Stats) string {
	return formatStats(diffStat, false)
}

// FormatPrettyStatsColor prints a string of stats info with ANSI colors
func FormatPrettyStatsColor(diffStat *Stats) string {
	return formatStats(diffStat, true)
}

func formatStats(ds *Stats, colorTTY bool) string {
	if ds == nil {
		return ""
	}
	p := newPalette(colorTTY)
	neutral := p.change[ChangeUnchanged]

	buf := &bytes.Buffer{}

	elsColor := p.change[ChangeAdded]
	change := ds.NodeChange()
	elementsWord := "elements"
	sign := "+"
	if change < 0 {
		elsColor = p.change[ChangeRemoved]
		sign = ""
	} else if change == 0 {
		elsColor = neutral
		sign = ""
	}
	if change == 1 || change == -1 {
		elementsWord = "element"
	}

	buf.WriteString(fmt.Sprintf("%s %s.", elsColor(fmt.Sprintf("%s%d", sign, change)), neutral(elementsWord)))
	buf.WriteString(" " + p.change[ChangeAdded](fmt.Sprintf("%d added.", ds.Added)))
	buf.WriteString(" " + p.change[ChangeRemoved](fmt.Sprintf("%d removed.", ds.Removed)))
	buf.WriteString(" " + p.change[ChangeModified](fmt.Sprintf("%d modified.", ds.Modified)))
	if ds.Cycles > 0 {
		buf.WriteString(fmt.Sprintf(" %d circular.", ds.Cycles))
	}
	if ds.Truncated > 0 {
		buf.WriteString(fmt.Sprintf(" %d truncated.", ds.Truncated))
	}
	buf.WriteRune('\n')

	return buf.String()
}
