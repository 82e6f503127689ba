// Package stack implements the left-stack move table: the precomputed
// mapping from an encoded row to the row it stacks into, and the move
// engine that applies a Table to a full board.Grid in any of the four
// directions by normalizing to a left stack and undoing the normalization
// afterward.
package stack

import "github.com/tilestack/slide2048/pkg/board"

// LineResult is the outcome of stacking a single row to the left: its new
// encoded value, the score gained from merges, and the per-tile column
// displacement each original slot underwent.
type LineResult struct {
	New           board.Row
	DeltaScore    uint32
	Displacements [board.GridSide]int8
}

// Table maps an encoded row to the LineResult of stacking it left. Rows that
// do not change when stacked are absent: a lookup miss means "leave this row
// untouched".
type Table map[board.Row]LineResult

// admissibleTileValues enumerates every tile value that can legally occupy a
// board slot: zero, plus every power of two up to board.LargestTile.
func admissibleTileValues() []uint32 {
	values := []uint32{0}
	for v := uint32(2); v <= board.LargestTile; v *= 2 {
		values = append(values, v)
	}
	return values
}

// NewTable builds the move table by enumerating every admissible 4-tile row
// and recording the ones that change under a left stack. Built once at
// startup; the result is read-only and safe for concurrent use.
func NewTable() Table {
	t := make(Table)
	values := admissibleTileValues()
	var tiles [board.GridSide]uint32
	for _, a := range values {
		tiles[0] = a
		for _, b := range values {
			tiles[1] = b
			for _, c := range values {
				tiles[2] = c
				for _, d := range values {
					tiles[3] = d
					row := board.EncodeLine(tiles)
					result := stackLeft(tiles)
					newRow := board.EncodeLine(result.tiles)
					if newRow == row {
						continue
					}
					t[row] = LineResult{
						New:           newRow,
						DeltaScore:    result.deltaScore,
						Displacements: result.displacements,
					}
				}
			}
		}
	}
	return t
}

type lineOutcome struct {
	tiles         [board.GridSide]uint32
	deltaScore    uint32
	displacements [board.GridSide]int8
}

// stackLeft pushes every nonzero tile toward index 0, merging the first pair
// of equal adjacent survivors once per resulting slot. displacements[i] records
// how far tile i travelled (negative, since everything moves left).
func stackLeft(tiles [board.GridSide]uint32) lineOutcome {
	var out lineOutcome
	k := 0
	merged := -1
	for i, v := range tiles {
		if v == 0 {
			continue
		}
		if k > 0 && out.tiles[k-1] == v && merged != k-1 {
			out.tiles[k-1] += v
			out.deltaScore += out.tiles[k-1]
			out.displacements[i] = int8((k - 1) - i)
			merged = k - 1
			continue
		}
		out.tiles[k] = v
		out.displacements[i] = int8(k - i)
		k++
	}
	return out
}
