package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/randalmurphal/critpath/pkg/critpath"
	"github.com/randalmurphal/critpath/pkg/critpath/store"
)

const (
	colorLabel  = lipgloss.Color("6")
	colorMuted  = lipgloss.Color("8")
	labelWidth  = len("critical path: ")
	columnSpace = 2
)

// styles are bound to a renderer so the colour profile follows the output
// writer. Non-terminal writers get plain text.
type styles struct {
	label  lipgloss.Style
	value  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		label:  r.NewStyle().Foreground(colorLabel).Width(labelWidth),
		value:  r.NewStyle().Bold(true),
		header: r.NewStyle().Bold(true).PaddingRight(columnSpace),
		cell:   r.NewStyle().PaddingRight(columnSpace),
		muted:  r.NewStyle().Foreground(colorMuted),
	}
}

// plainTable has no borders; columns are separated by cell padding.
func (s styles) plainTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReport(w io.Writer, buildID string, info *critpath.BuildInfo) error {
	s := newStyles(w)

	var b strings.Builder
	field := func(name, value string) {
		b.WriteString(s.label.Render(name+":") + s.value.Render(value) + "\n")
	}
	field("build", buildID)
	field("backend", info.Backend)
	field("nodes", strconv.FormatUint(info.NumNodes, 10))
	field("edges", strconv.FormatUint(info.NumEdges, 10))
	field("critical path", info.TotalDuration().String())
	b.WriteString("\n")

	t := s.plainTable("ACTION", "KEY", "CATEGORY", "IDENTIFIER", "DURATION")
	for _, e := range info.CriticalPath {
		key := "-"
		if e.ActionKey != nil {
			key = e.ActionKey.String()
		}
		t.Row(e.ActionName, key, e.Category, orDash(e.Identifier), e.Duration.String())
	}
	b.WriteString(t.Render())

	_, err := fmt.Fprintln(w, b.String())
	return err
}

func writeSummaries(w io.Writer, summaries []store.Summary) error {
	s := newStyles(w)
	if len(summaries) == 0 {
		_, err := fmt.Fprintln(w, s.muted.Render("no stored builds"))
		return err
	}

	t := s.plainTable("BUILD", "BACKEND", "NODES", "EDGES", "PATH", "CRITICAL PATH", "RECORDED")
	for _, sum := range summaries {
		t.Row(
			sum.BuildID,
			sum.Backend,
			strconv.FormatUint(sum.NumNodes, 10),
			strconv.FormatUint(sum.NumEdges, 10),
			strconv.Itoa(sum.PathLen),
			sum.CriticalPath.String(),
			sum.RecordedAt.Local().Format(time.DateTime),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
