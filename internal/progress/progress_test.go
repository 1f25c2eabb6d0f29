package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinner_Disabled(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Analyzing files", false)
	s.Tick()
	s.Finish()
	assert.Empty(t, buf.String())
}

func TestSpinner_Enabled(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Analyzing files", true)
	assert.NotNil(t, s.bar)
	assert.NotPanics(t, func() {
		s.Tick()
		s.Finish()
	})
}
