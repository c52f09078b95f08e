// Package table provides the labeled in-memory table used for every tabular
// result in the simulator: game results, jackpot details and face counts.
// This package has no dependencies on sim/; it stores pure data.
package table

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Table is a two-dimensional table with one key per row and a fixed set of
// labeled columns. Cells are stored row-major.
//
// Invariant: every row has exactly Width() cells.
type Table[K comparable, V any] struct {
	indexName string
	columns   []string
	keys      []K
	rows      [][]V
}

// New creates an empty table with the given index name and column labels.
func New[K comparable, V any](indexName string, columns []string) *Table[K, V] {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table[K, V]{
		indexName: indexName,
		columns:   cols,
		keys:      make([]K, 0),
		rows:      make([][]V, 0),
	}
}

// Append adds a row. The cells are copied.
func (t *Table[K, V]) Append(key K, cells []V) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row %v has %d cells, table has %d columns", key, len(cells), len(t.columns))
	}
	row := make([]V, len(cells))
	copy(row, cells)
	t.keys = append(t.keys, key)
	t.rows = append(t.rows, row)
	return nil
}

// IndexName returns the label of the row-key column.
func (t *Table[K, V]) IndexName() string { return t.indexName }

// Columns returns a copy of the column labels in order.
func (t *Table[K, V]) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of rows.
func (t *Table[K, V]) Len() int { return len(t.rows) }

// Width returns the number of columns.
func (t *Table[K, V]) Width() int { return len(t.columns) }

// Cells returns the total number of cells (Len × Width).
func (t *Table[K, V]) Cells() int { return len(t.rows) * len(t.columns) }

// Key returns the key of row i.
func (t *Table[K, V]) Key(i int) K { return t.keys[i] }

// Keys returns a copy of all row keys in order.
func (t *Table[K, V]) Keys() []K {
	out := make([]K, len(t.keys))
	copy(out, t.keys)
	return out
}

// Row returns a copy of the cells of row i.
func (t *Table[K, V]) Row(i int) []V {
	out := make([]V, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Cell returns the value at row i, column j.
func (t *Table[K, V]) Cell(i, j int) V { return t.rows[i][j] }

// Column returns a copy of the column with the given label.
// The second return value is false if no such column exists.
func (t *Table[K, V]) Column(label string) ([]V, bool) {
	j := t.columnIndex(label)
	if j < 0 {
		return nil, false
	}
	out := make([]V, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out, true
}

func (t *Table[K, V]) columnIndex(label string) int {
	for j, c := range t.columns {
		if c == label {
			return j
		}
	}
	return -1
}

// Render writes an aligned text rendering of the table: a header line with
// the index name and column labels, then one line per row.
func (t *Table[K, V]) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprint(tw, t.indexName); err != nil {
		return err
	}
	for _, c := range t.columns {
		if _, err := fmt.Fprintf(tw, "\t%s", c); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(tw, "\t"); err != nil {
		return err
	}
	for i, row := range t.rows {
		if _, err := fmt.Fprint(tw, t.keys[i]); err != nil {
			return err
		}
		for _, v := range row {
			if _, err := fmt.Fprintf(tw, "\t%v", v); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tw, "\t"); err != nil {
			return err
		}
	}
	return tw.Flush()
}
