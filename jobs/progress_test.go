package jobs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)

	tracker.Start()
	tracker.Increment(5)
	tracker.Increment(5)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "10/10")
	assert.Contains(t, output, "100.0%")
	assert.Positive(t, tracker.Elapsed())
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Increment(3)
	tracker.Finish()

	assert.Empty(t, buf.String(), "no output before Start")
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 3, 1)

	tracker.Start()
	tracker.Increment(10)
	tracker.Finish()

	assert.Contains(t, buf.String(), "3/3")
}
