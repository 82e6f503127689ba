// Command movetablegen precomputes the sliding-move table and emits it as a
// JavaScript module, so a browser-side renderer can reuse the exact move
// results the Go engine computes, without reimplementing the stacking
// algorithm.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"

	"github.com/tilestack/slide2048/pkg/board/stack"
	"github.com/tilestack/slide2048/pkg/export"
)

var out = flag.String("out", "", "Output file (defaults to stdout)")

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: movetablegen [options]

MOVETABLEGEN precomputes the sliding-move table and writes it as a
JavaScript module.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	table := stack.NewTable()
	logw.Infof(ctx, "movetablegen: precomputed %d rows", len(table))

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logw.Exitf(ctx, "movetablegen: %v", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.WriteJS(w, table); err != nil {
		logw.Exitf(ctx, "movetablegen: %v", err)
	}
}
