package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLifecycle(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusMarked))
	assert.True(t, StatusMarked.CanTransition(StatusTracking))
	assert.True(t, StatusTracking.CanTransition(StatusTracked))
	assert.True(t, StatusTracked.CanTransition(StatusExporting))
	assert.True(t, StatusExporting.CanTransition(StatusExported))

	assert.False(t, StatusPending.CanTransition(StatusTracking))
	assert.False(t, StatusMarked.CanTransition(StatusExporting))
	assert.False(t, StatusExported.CanTransition(StatusTracking))
}

func TestStatusFailedFromAnywhere(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusMarked, StatusTracking, StatusTracked, StatusExporting, StatusExported} {
		assert.True(t, s.CanTransition(StatusFailed), "from %s", s)
	}
}

func TestStatusSkippedNotFromActive(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusSkipped))
	assert.True(t, StatusMarked.CanTransition(StatusSkipped))
	assert.False(t, StatusTracking.CanTransition(StatusSkipped))
	assert.False(t, StatusExporting.CanTransition(StatusSkipped))
}

func TestStatusMarkedReentrant(t *testing.T) {
	// Adding a key frame after tracking drops back to marked.
	assert.True(t, StatusTracked.CanTransition(StatusMarked))
	assert.False(t, StatusTracking.CanTransition(StatusMarked))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusMarked.ReadyForExport())
	assert.True(t, StatusTracked.ReadyForExport())
	assert.False(t, StatusPending.ReadyForExport())
	assert.False(t, StatusExported.ReadyForExport())

	assert.True(t, StatusTracking.Active())
	assert.True(t, StatusExporting.Active())
	assert.False(t, StatusMarked.Active())

	assert.True(t, StatusExported.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusSkipped.Terminal())
	assert.False(t, StatusTracked.Terminal())
}
