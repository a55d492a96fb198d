package stderr

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

var messages = make(chan string, 100)

// Messages receives stderr lines captured from C libraries.
// The TUI reads from it to show the latest line in its status bar.
var Messages <-chan string = messages

// forward logs every non-empty line read from r and publishes it on out
// without blocking. It returns when r is exhausted.
func forward(r io.Reader, log zerolog.Logger, out chan<- string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.Warn().Msg(line)
		select {
		case out <- line:
		default:
			// Channel full, drop message to avoid blocking
		}
	}
}
