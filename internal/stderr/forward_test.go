package stderr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestForward(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)
	out := make(chan string, 10)

	forward(strings.NewReader("ALSA lib pcm.c: underrun\n\n   \nsecond line  \n"), log, out)
	close(out)

	var got []string
	for line := range out {
		got = append(got, line)
	}
	assert.Equal(t, []string{"ALSA lib pcm.c: underrun", "second line"}, got)
	assert.Contains(t, logs.String(), `"level":"warn"`)
	assert.Contains(t, logs.String(), "underrun")
}

func TestForward_DropsWhenFull(t *testing.T) {
	out := make(chan string, 1)

	forward(strings.NewReader("a\nb\nc\n"), zerolog.Nop(), out)

	assert.Len(t, out, 1)
	assert.Equal(t, "a", <-out)
}
