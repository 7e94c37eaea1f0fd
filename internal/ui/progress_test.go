package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpinnerUpdateMessage(t *testing.T) {
	s := NewSpinner("Importing data...")
	assert.Equal(t, "Importing data...", s.message)

	s.UpdateMessage("Importing customers...")
	assert.Equal(t, "Importing customers...", s.message)
}

func TestSpinnerStopAfterStart(t *testing.T) {
	s := NewSpinner("working")
	s.Start()
	s.UpdateMessage("still working")
	s.Stop(true, "done")

	assert.True(t, s.stopped)
}
