package game

import "testing"

func TestKeys(t *testing.T) {
	keys := NewKeys(4)
	if keys.IsHeld(2) {
		t.Error("lanes should start released")
	}

	keys.Press(2)
	if !keys.IsHeld(2) {
		t.Error("lane 2 should be held")
	}

	held := keys.Held()
	if len(held) != 4 || !held[2] || held[0] || held[1] || held[3] {
		t.Errorf("held snapshot = %v, expected only lane 2", held)
	}

	// Snapshot must not alias the internal state
	held[0] = true
	if keys.IsHeld(0) {
		t.Error("snapshot mutation leaked into the tracker")
	}

	keys.Release(2)
	if keys.IsHeld(2) {
		t.Error("lane 2 should be released")
	}
}
