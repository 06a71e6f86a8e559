// Package sheet parses the dunders spreadsheet export into records.
//
// The export is a CSV file with two banner rows, followed by group-header rows
// (a name with no status) and data rows. Blank separator rows are ignored.
// Columns are, in order: name, description, status, assignee, pull request.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"

	"github.com/mcoding/dunders/internal/types"
)

// BannerRows is the number of leading rows skipped unconditionally.
const BannerRows = 2

// statusText maps the status column of the sheet to a dunder status.
var statusText = map[string]types.Status{
	"TO DO":        types.StatusTodo,
	"TODO":         types.StatusTodo,
	"IN PROGRESS":  types.StatusInProgress,
	"UNDER REVIEW": types.StatusInReview,
	"IN REVIEW":    types.StatusInReview,
	"DONE":         types.StatusDone,
}

type parseState int

const (
	stateAwaitingHeader parseState = iota
	stateInGroup
)

// row is one spreadsheet row split into its columns.
type row struct {
	name     string
	desc     string
	status   string
	assignee string
	pr       string
}

func newRow(cells []string) row {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return row{
		name:     get(0),
		desc:     get(1),
		status:   get(2),
		assignee: get(3),
		pr:       get(4),
	}
}

// parser turns rows into dunders one at a time.
//
// In stateAwaitingHeader no group has been seen yet and data rows are an
// error. A header row moves the parser to stateInGroup and sets group; later
// headers replace it. last holds the previous data row (after placeholder
// substitution) for the carry-forward glyph.
type parser struct {
	rows  int
	state parseState
	group types.Group
	last  *row
}

// step consumes one row starting at the given 1-based line. It returns a
// nil dunder for banner, blank and header rows.
func (p *parser) step(line int, cells []string) (*types.Dunder, error) {
	p.rows++
	if p.rows <= BannerRows {
		return nil, nil
	}

	r := newRow(cells)
	if r.name == "" {
		return nil, nil
	}

	if r.status == "" {
		g, ok := types.GroupFromHeader(r.name)
		if !ok {
			return nil, &ParseError{Line: line, Value: r.name, Err: ErrUnknownGroup}
		}
		p.group = g
		p.state = stateInGroup
		return nil, nil
	}

	if p.state != stateInGroup {
		return nil, &ParseError{Line: line, Value: r.name, Err: ErrNoGroup}
	}

	if isGlyph(r.desc, CarryForward) {
		if p.last == nil {
			return nil, &ParseError{Line: line, Value: r.name, Err: ErrNoPreviousRow}
		}
		r.desc = p.last.desc
	}

	if isGlyph(r.assignee, NoAssignee) {
		r.assignee = ""
	}

	status, ok := statusText[strings.TrimSpace(r.status)]
	if !ok {
		return nil, &ParseError{Line: line, Value: r.status, Err: ErrUnknownStatus}
	}

	d := &types.Dunder{
		Name:        FormatName(r.name),
		Status:      status,
		Group:       p.group,
		Description: r.desc,
	}

	if assignee := strings.TrimSpace(r.assignee); assignee != "" {
		d.Assignees = []string{assignee}
	}

	if r.pr != "" {
		n, err := parsePullNumber(r.pr)
		if err != nil {
			return nil, &ParseError{Line: line, Value: r.pr, Err: ErrInvalidPullNumber}
		}
		d.PR = n
	}

	p.last = &r
	return d, nil
}

// FormatName wraps a dunder name in inline-code markup. The result is the
// exact GitHub issue title for the dunder.
func FormatName(name string) string {
	return "`" + name + "`"
}

// parsePullNumber parses "#123" (the marker is dropped) into 123.
func parsePullNumber(cell string) (int, error) {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "#")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("pull request number must be positive: %d", n)
	}
	return n, nil
}

// FromRows returns the dunders described by rows, in row order. The sequence
// is lazy and may be iterated more than once. Iteration stops after the first
// error, which is yielded with a nil dunder.
func FromRows(rows [][]string) iter.Seq2[*types.Dunder, error] {
	return func(yield func(*types.Dunder, error) bool) {
		var p parser
		for i, cells := range rows {
			d, err := p.step(i+1, cells)
			if err != nil {
				yield(nil, err)
				return
			}
			if d != nil && !yield(d, nil) {
				return
			}
		}
	}
}

// Parse reads CSV from r lazily. Unlike FromRows and ReadFile it can only be
// iterated once, because the reader is consumed.
func Parse(r io.Reader) iter.Seq2[*types.Dunder, error] {
	return func(yield func(*types.Dunder, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true

		var p parser
		for {
			cells, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("failed to read sheet: %w", err))
				return
			}
			// Quoted cells may span lines; report where the record starts.
			line, _ := cr.FieldPos(0)
			d, err := p.step(line, cells)
			if err != nil {
				yield(nil, err)
				return
			}
			if d != nil && !yield(d, nil) {
				return
			}
		}
	}
}

// ReadFile parses the CSV export at path. The file is opened afresh on each
// iteration, so the sequence is restartable.
func ReadFile(path string) iter.Seq2[*types.Dunder, error] {
	return func(yield func(*types.Dunder, error) bool) {
		f, err := os.Open(path) //nolint:gosec // path is the configured sheet location
		if err != nil {
			yield(nil, fmt.Errorf("failed to open sheet: %w", err))
			return
		}
		defer func() { _ = f.Close() }()

		for d, err := range Parse(f) {
			if !yield(d, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[*types.Dunder, error]) ([]*types.Dunder, error) {
	var out []*types.Dunder
	for d, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
