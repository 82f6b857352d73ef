package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRunTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  RunState
		to    RunState
		valid bool
	}{
		{"idle to fetching list", StateIdle, StateFetchingList, true},
		{"fetching list to decoding", StateFetchingList, StateDecoding, true},
		{"fetching list to failed", StateFetchingList, StateFailed, true},
		{"decoding to fetching detail", StateDecoding, StateFetchingDetail, true},
		{"decoding to accumulating", StateDecoding, StateAccumulating, true},
		{"decoding to done on empty page", StateDecoding, StateDone, true},
		{"fetching detail to accumulating", StateFetchingDetail, StateAccumulating, true},
		{"accumulating to paginating", StateAccumulating, StatePaginating, true},
		{"accumulating to done", StateAccumulating, StateDone, true},
		{"paginating to fetching list", StatePaginating, StateFetchingList, true},
		{"idle to done", StateIdle, StateDone, true},
		{"idle to paginating", StateIdle, StatePaginating, false},
		{"done is terminal", StateDone, StateFetchingList, false},
		{"failed is terminal", StateFailed, StateFetchingList, false},
		{"accumulating cannot rewind", StateAccumulating, StateDecoding, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRunTransition(tt.from, tt.to)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCrawlRunTransition(t *testing.T) {
	run := &CrawlRun{State: StateIdle}

	require.NoError(t, run.Transition(StateFetchingList))
	require.NoError(t, run.Transition(StateDecoding))
	require.NoError(t, run.Transition(StateAccumulating))
	require.NoError(t, run.Transition(StateDone))
	assert.Equal(t, StateDone, run.State)

	err := run.Transition(StateFetchingList)
	assert.Error(t, err, "terminal states admit no further transitions")
	assert.Equal(t, StateDone, run.State, "failed transition must not change state")
}

func TestIsTerminalRunState(t *testing.T) {
	assert.True(t, IsTerminalRunState(StateDone))
	assert.True(t, IsTerminalRunState(StateFailed))
	assert.False(t, IsTerminalRunState(StateIdle))
	assert.False(t, IsTerminalRunState(StatePaginating))
}
