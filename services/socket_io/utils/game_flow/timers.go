package game_flow

import (
	"fmt"
	"sync"
	"time"
)

/*
 * Director owns every scheduled delay of the protocol: the per-game vote
 * resolution deadline and the per-player disconnect grace timer. Handles
 * live here, never on the domain records, so they can never leak into the
 * persisted representation. Both delays are cancelable; a callback that
 * does fire must re-acquire the game's room lock before touching state.
 */
type Director struct {
	mu          sync.Mutex
	voteTimers  map[string]*time.Timer // keyed by game id
	graceTimers map[string]*time.Timer // keyed by game id + player id
}

func NewDirector() *Director {
	return &Director{
		voteTimers:  make(map[string]*time.Timer),
		graceTimers: make(map[string]*time.Timer),
	}
}

func graceKey(gameID, playerID string) string {
	return fmt.Sprintf("%s:%s", gameID, playerID)
}

// ArmVoteDeadline schedules the vote resolution fallback. A previous
// deadline for the same game is replaced (there is at most one active vote
// session per game, so this only happens across sessions).
func (d *Director) ArmVoteDeadline(gameID string, duration time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if old, exists := d.voteTimers[gameID]; exists {
		old.Stop()
	}
	d.voteTimers[gameID] = time.AfterFunc(duration, func() {
		d.mu.Lock()
		delete(d.voteTimers, gameID)
		d.mu.Unlock()
		fn()
	})
}

// CancelVoteDeadline stops the pending deadline, if any. Called on full
// turnout so an early resolution is never followed by a stale timeout.
func (d *Director) CancelVoteDeadline(gameID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, exists := d.voteTimers[gameID]; exists {
		timer.Stop()
		delete(d.voteTimers, gameID)
	}
}

// ArmGraceTimer starts the disconnect grace window for one participant.
func (d *Director) ArmGraceTimer(gameID, playerID string, duration time.Duration, fn func()) {
	key := graceKey(gameID, playerID)
	d.mu.Lock()
	defer d.mu.Unlock()
	if old, exists := d.graceTimers[key]; exists {
		old.Stop()
	}
	d.graceTimers[key] = time.AfterFunc(duration, func() {
		d.mu.Lock()
		delete(d.graceTimers, key)
		d.mu.Unlock()
		fn()
	})
}

// CancelGraceTimer is called on reconnect: the participant came back within
// the window, so no elimination happens.
func (d *Director) CancelGraceTimer(gameID, playerID string) {
	key := graceKey(gameID, playerID)
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, exists := d.graceTimers[key]; exists {
		timer.Stop()
		delete(d.graceTimers, key)
	}
}
