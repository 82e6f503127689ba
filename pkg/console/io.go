package console

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/seekerror/logw"
)

// ReadStdinLines streams stdin line by line on a dedicated goroutine,
// closing the returned channel at EOF.
func ReadStdinLines(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := scanner.Text()
			logw.Debugf(ctx, "<< %v", line)
			out <- line
		}
	}()
	return out
}

// WriteStdoutLines drains out to stdout, one line at a time, until out
// closes.
func WriteStdoutLines(ctx context.Context, out <-chan string) {
	for line := range out {
		logw.Debugf(ctx, ">> %v", line)
		fmt.Fprintln(os.Stdout, line)
	}
}
