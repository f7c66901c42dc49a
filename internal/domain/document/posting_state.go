package document

import (
	"fmt"

	"github.com/erp/posting/internal/domain/shared"
)

// PostingState is the stage of a single document creation attempt
type PostingState string

const (
	PostingOpen       PostingState = "OPEN"
	PostingValidating PostingState = "VALIDATING"
	PostingPosting    PostingState = "POSTING"
	PostingTotaling   PostingState = "TOTALING"
	PostingCommitted  PostingState = "COMMITTED"
	PostingAborted    PostingState = "ABORTED"
)

var postingTransitions = map[PostingState]PostingState{
	PostingOpen:       PostingValidating,
	PostingValidating: PostingPosting,
	PostingPosting:    PostingTotaling,
	PostingTotaling:   PostingCommitted,
}

// IsTerminal reports whether no further transition is possible
func (s PostingState) IsTerminal() bool {
	return s == PostingCommitted || s == PostingAborted
}

// CanTransitionTo reports whether next follows s. Any non-terminal state may abort.
func (s PostingState) CanTransitionTo(next PostingState) bool {
	if s.IsTerminal() {
		return false
	}
	if next == PostingAborted {
		return true
	}
	return postingTransitions[s] == next
}

// PostingRun tracks the state of one attempt
type PostingRun struct {
	state   PostingState
	history []PostingState
	abortAt PostingState
}

// NewPostingRun starts a run in OPEN
func NewPostingRun() *PostingRun {
	return &PostingRun{state: PostingOpen, history: []PostingState{PostingOpen}}
}

// State returns the current state
func (r *PostingRun) State() PostingState {
	return r.state
}

// History returns the visited states in order
func (r *PostingRun) History() []PostingState {
	out := make([]PostingState, len(r.history))
	copy(out, r.history)
	return out
}

// AbortedAt returns the state the run was in when it aborted, empty if it did not
func (r *PostingRun) AbortedAt() PostingState {
	return r.abortAt
}

// Advance moves to next or returns INVALID_STATE_TRANSITION
func (r *PostingRun) Advance(next PostingState) error {
	if !r.state.CanTransitionTo(next) {
		return shared.NewDomainError(shared.CodeInvalidStateTransition,
			fmt.Sprintf("posting can not move from %s to %s", r.state, next))
	}
	if next == PostingAborted {
		r.abortAt = r.state
	}
	r.state = next
	r.history = append(r.history, next)
	return nil
}

// Abort moves to ABORTED unless the run already ended
func (r *PostingRun) Abort() {
	if r.state.IsTerminal() {
		return
	}
	r.abortAt = r.state
	r.state = PostingAborted
	r.history = append(r.history, PostingAborted)
}
