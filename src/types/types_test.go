package types_test

import (
	"testing"

	"github.com/GopherSecurity/eventchain/src/types"
)

// Test 1: NewEvent assigns distinct IDs and timestamps.
func TestNewEvent(t *testing.T) {
	first := types.NewEvent("request", "payload")
	second := types.NewEvent("request", "payload")

	if first.ID == second.ID {
		t.Error("events should receive distinct IDs")
	}
	if first.Name != "request" {
		t.Errorf("Name = %s, want request", first.Name)
	}
	if first.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

// Test 2: Clone copies metadata so the original is isolated from the copy.
func TestEvent_Clone(t *testing.T) {
	event := types.NewEvent("request", "payload").WithMetadata("tenant", "a")
	clone := event.Clone()

	clone.Metadata["tenant"] = "b"
	clone.Payload = "changed"

	if event.Metadata["tenant"] != "a" {
		t.Error("clone metadata writes leaked into the original")
	}
	if event.Payload != "payload" {
		t.Error("clone payload writes leaked into the original")
	}
	if clone.ID != event.ID {
		t.Error("clone should keep the event ID")
	}
}

// Test 3: ChainState strings and transitions.
func TestChainState(t *testing.T) {
	if types.Idle.String() != "Idle" || types.InUse.String() != "InUse" {
		t.Error("unexpected state strings")
	}
	if !types.Idle.CanTransitionTo(types.InUse) {
		t.Error("Idle -> InUse must be allowed")
	}
	if !types.InUse.CanTransitionTo(types.Idle) {
		t.Error("InUse -> Idle must be allowed")
	}
	if types.Idle.IsActive() {
		t.Error("Idle is not active")
	}
	if !types.InUse.IsActive() {
		t.Error("InUse is active")
	}
}

// Test 4: ErrorCode strings cover the taxonomy.
func TestErrorCode_String(t *testing.T) {
	cases := map[types.ErrorCode]string{
		types.ChainBusy:            "ChainBusy",
		types.IndexOutOfRange:      "IndexOutOfRange",
		types.InvalidArgument:      "InvalidArgument",
		types.InvalidConfiguration: "InvalidConfiguration",
		types.FilterNotFound:       "FilterNotFound",
		types.ChainNotFound:        "ChainNotFound",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("String() = %s, want %s", got, want)
		}
	}
}
