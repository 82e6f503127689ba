// Package export renders a precomputed stack.Table as a JavaScript module,
// for consumption by a browser-side renderer that mirrors the Go engine's
// move table without reimplementing it.
package export

import (
	"fmt"
	"io"

	"github.com/tilestack/slide2048/pkg/board/stack"
)

const (
	header = "export const precomputedMoves = new Map([\n"
	footer = "]);\n"
)

// WriteJS writes t to w as a JavaScript module exporting a Map literal keyed
// by encoded row, each value holding the new row, the score delta, and the
// per-tile displacement array.
func WriteJS(w io.Writer, t stack.Table) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	for row, result := range t {
		_, err := fmt.Fprintf(w, "[%d, {new_row: %d, ds: %d, dest: [%d, %d, %d, %d]}],\n",
			row, result.New, result.DeltaScore,
			result.Displacements[0], result.Displacements[1], result.Displacements[2], result.Displacements[3])
		if err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, footer)
	return err
}
