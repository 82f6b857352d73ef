package domain

import (
	"fmt"
	"time"
)

// RunState represents a crawl run state in the state machine.
type RunState string

const (
	StateIdle           RunState = "idle"
	StateFetchingList   RunState = "fetching_list"
	StateDecoding       RunState = "decoding"
	StateFetchingDetail RunState = "fetching_detail"
	StateAccumulating   RunState = "accumulating"
	StatePaginating     RunState = "paginating"
	StateDone           RunState = "done"
	StateFailed         RunState = "failed"
)

// validRunTransitions enumerates the allowed state transitions. Done and
// Failed are terminal.
var validRunTransitions = map[RunState][]RunState{
	StateIdle: {
		StateFetchingList,
		StateDone, // source disabled or nothing to do
	},
	StateFetchingList: {
		StateDecoding,
		StateFailed, // transport failure on the list page itself
	},
	StateDecoding: {
		StateFetchingDetail,
		StateAccumulating,
		StatePaginating, // page decoded to zero items
		StateDone,       // cap reached before any detail fetch
	},
	StateFetchingDetail: {
		StateAccumulating, // detail failures degrade, they never fail the run
	},
	StateAccumulating: {
		StateFetchingDetail, // next item on the same page
		StatePaginating,
		StateDone, // cap reached mid-page
	},
	StatePaginating: {
		StateFetchingList, // next locator present and cap not reached
		StateDone,         // no next locator
	},
	StateDone:   {},
	StateFailed: {},
}

// ValidateRunTransition checks whether a run state transition is allowed.
func ValidateRunTransition(from, to RunState) error {
	allowed, exists := validRunTransitions[from]
	if !exists {
		return fmt.Errorf("unknown run state: %s", from)
	}
	for _, state := range allowed {
		if state == to {
			return nil
		}
	}
	return fmt.Errorf("invalid run transition from %s to %s", from, to)
}

// IsTerminalRunState reports whether a state admits no further transitions.
func IsTerminalRunState(state RunState) bool {
	return state == StateDone || state == StateFailed
}

// CrawlRun is the ephemeral record of one crawl of one source. It is owned
// by the coordinator for its lifetime and discarded after completion; only
// the articles it inserted outlive it.
type CrawlRun struct {
	ID        string
	Source    string
	State     RunState
	Collected int
	Cursor    string // current page locator: a seed URL or a next-page URL
	StartedAt time.Time
	Err       error
}

// Transition moves the run to the next state, enforcing the state machine.
func (r *CrawlRun) Transition(to RunState) error {
	if err := ValidateRunTransition(r.State, to); err != nil {
		return err
	}
	r.State = to
	return nil
}
