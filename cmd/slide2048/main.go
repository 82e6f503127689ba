package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"

	"github.com/tilestack/slide2048/pkg/ai"
	"github.com/tilestack/slide2048/pkg/board/stack"
	"github.com/tilestack/slide2048/pkg/console"
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: slide2048 [options]

SLIDE2048 plays 2048 with an optional AI co-pilot. It speaks a single
line-oriented protocol on stdin/stdout.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	table := stack.NewTable()
	a := ai.New(ctx, &table)

	in := console.ReadStdinLines(ctx)
	switch <-in {
	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, a, in)
		go console.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
