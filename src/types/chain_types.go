// Package types provides core type definitions for the Event Chain SDK.
package types

import "fmt"

// ChainState represents the traversal state of a filter chain.
// A chain is either idle (no traversal in progress) or in use
// (a traversal has started and has not yet finished or been disregarded).
type ChainState int

const (
	// Idle means no traversal is in progress. Structural mutations
	// (Add, AddAll, AddAt) are only legal in this state.
	Idle ChainState = iota

	// InUse means a traversal is in progress: Next has been called and
	// the chain has not yet been exhausted or disregarded.
	InUse
)

// String returns a human-readable string representation of the ChainState.
func (s ChainState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case InUse:
		return "InUse"
	default:
		return fmt.Sprintf("ChainState(%d)", s)
	}
}

// CanTransitionTo validates if a state transition is allowed.
// Both states can reach each other; self-transitions are allowed because
// Next keeps an in-use chain in use and Disregard on an idle chain
// leaves it idle.
func (s ChainState) CanTransitionTo(target ChainState) bool {
	switch s {
	case Idle, InUse:
		return target == Idle || target == InUse
	default:
		return false
	}
}

// IsActive returns true if the chain is currently traversing.
func (s ChainState) IsActive() bool {
	return s == InUse
}
