package game

import "sync"

// Keys tracks which lanes are currently held down, shared between the
// input edge handlers and the poll loop. Edge filtering for keyboard
// autorepeat hangs off IsHeld.
type Keys struct {
	mu   sync.Mutex
	held []bool
}

// NewKeys tracks the given number of lanes, all initially up.
func NewKeys(lanes int) *Keys {
	return &Keys{held: make([]bool, lanes)}
}

func (k *Keys) Press(lane int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held[lane] = true
}

func (k *Keys) Release(lane int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held[lane] = false
}

func (k *Keys) IsHeld(lane int) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held[lane]
}

// Held snapshots the per-lane held flags for Field.Poll.
func (k *Keys) Held() []bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]bool(nil), k.held...)
}
