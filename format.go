package treepatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// FormatPrettyString is a convenice wrapper that outputs to a string instead of
// an io.Writer
func FormatPrettyString(d Difference, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, d, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes a text report to w, one line per change. Containers
// with changed children print their key followed by the children indented a
// level deeper. if colorTTY is true it will add
// red "-" for removals
// green "+" for insertions
// blue "~" for updates
func FormatPretty(w io.Writer, d Difference, colorTTY bool) error {
	p := &printer{w: w, colors: newPalette(colorTTY)}
	switch d.(type) {
	case nil:
		return nil
	case DiffMap, DiffList:
		return p.children(d, 0)
	}
	return p.line(d, "", 0)
}

type palette map[Operation]*color.Color

func newPalette(enabled bool) palette {
	p := palette{
		OpContext: color.New(color.FgWhite),
		OpInsert:  color.New(color.FgGreen),
		OpRemove:  color.New(color.FgRed),
		OpUpdate:  color.New(color.FgBlue),
	}
	for _, c := range p {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

type printer struct {
	w      io.Writer
	colors palette
}

func (p *printer) children(d Difference, indent int) error {
	switch x := d.(type) {
	case DiffMap:
		for _, key := range x.Keys() {
			if x[key] == nil {
				continue
			}
			if err := p.line(x[key], key, indent); err != nil {
				return err
			}
		}
	case DiffList:
		for i, ch := range x.Entries {
			if ch == nil {
				continue
			}
			if err := p.line(ch, strconv.Itoa(i), indent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *printer) line(d Difference, label string, indent int) error {
	var body string
	switch x := d.(type) {
	case Insert:
		v, err := marshal(x.Value)
		if err != nil {
			return err
		}
		body = v
	case Remove:
		v, err := marshal(x.Value)
		if err != nil {
			return err
		}
		body = v
	case Update:
		o, err := marshal(x.Old)
		if err != nil {
			return err
		}
		n, err := marshal(x.New)
		if err != nil {
			return err
		}
		body = o + " -> " + n
	}

	// containers print their label alone, children follow a level deeper
	text := label + ":"
	if d.Op() != OpContext {
		text = string(d.Op()) + " "
		if label != "" {
			text += label + ": "
		}
		text += body
	}

	if _, err := fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", indent), p.colors[d.Op()].Sprint(text)); err != nil {
		return err
	}

	if d.Op() == OpContext {
		return p.children(d, indent+1)
	}
	return nil
}

func marshal(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
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
	colors := newPalette(colorTTY)

	buf := &bytes.Buffer{}

	elsColor := colors[OpInsert]
	change := ds.NodeChange()
	elementsWord := "elements"
	sign := "+"
	if change < 0 {
		elsColor = colors[OpRemove]
		sign = ""
	} else if change == 0 {
		elsColor = colors[OpContext]
		sign = ""
	}
	if change == 1 || change == -1 {
		elementsWord = "element"
	}

	buf.WriteString(fmt.Sprintf("%s %s.", elsColor.Sprintf("%s%d", sign, change), colors[OpContext].Sprint(elementsWord)))
	buf.WriteString(" " + colors[OpInsert].Sprint(plural(ds.Inserts, "insert")) + ".")
	buf.WriteString(" " + colors[OpRemove].Sprint(plural(ds.Removes, "remove")) + ".")
	buf.WriteString(" " + colors[OpUpdate].Sprint(plural(ds.Updates, "update")) + ".")
	buf.WriteString("\n")
	return buf.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
