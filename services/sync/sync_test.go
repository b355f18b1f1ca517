package sync

import (
	game_constants "Molehunt/constants/game"
	game_state "Molehunt/services/game_state"
	"fmt"
	stdsync "sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// recorder captures the order in which persist calls execute
type recorder struct {
	mu    stdsync.Mutex
	calls []string
}

func (r *recorder) record(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newTestManager() (*SyncManager, *recorder) {
	sm := NewSyncManager(nil, game_state.NewStore(nil))
	rec := &recorder{}
	return sm, rec
}

func TestWritesForSameGameAreSerialized(t *testing.T) {
	sm, rec := newTestManager()
	release := make(chan struct{})
	sm.persist = func(gameID string) error {
		if len(rec.snapshot()) == 0 {
			<-release // stall the first write
		}
		rec.record(gameID)
		return nil
	}

	sm.EnqueueGameSync("aB3dE9")
	sm.EnqueueGameSync("aB3dE9")
	sm.EnqueueGameSync("aB3dE9")

	// Nothing may complete while the head of the chain is stalled
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	close(release)
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 3
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"aB3dE9", "aB3dE9", "aB3dE9"}, rec.snapshot())
}

func TestWritesForDifferentGamesAreIndependent(t *testing.T) {
	sm, rec := newTestManager()
	release := make(chan struct{})
	sm.persist = func(gameID string) error {
		if gameID == "slow-game" {
			<-release
		}
		rec.record(gameID)
		return nil
	}

	sm.EnqueueGameSync("slow-game")
	sm.EnqueueGameSync("fast-game")

	// The fast game's write must not wait behind the slow game's
	require.Eventually(t, func() bool {
		calls := rec.snapshot()
		return len(calls) == 1 && calls[0] == "fast-game"
	}, time.Second, 5*time.Millisecond)

	close(release)
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestFailedWriteDoesNotBlockLaterWrites(t *testing.T) {
	sm, rec := newTestManager()
	sm.persist = func(gameID string) error {
		rec.record(gameID)
		if len(rec.snapshot()) == 1 {
			return fmt.Errorf("connection reset")
		}
		return nil
	}

	sm.EnqueueGameSync("aB3dE9")
	sm.EnqueueGameSync("aB3dE9")

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestPersistSnapshotsUnderRoomLock(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := game_state.NewStore(nil)
	game := &game_state.Game{
		ID:     "aB3dE9",
		Status: game_constants.GameStatusLobby,
		Players: []*game_state.Player{
			{ID: "p1", Name: "Ana", Status: game_constants.PlayerStatusActive},
		},
	}
	store.Update("aB3dE9", game)
	sm := NewSyncManager(gormDB, store)

	mock.ExpectBegin()
	// Map keys are applied in sorted order: impostor_count, impostor_secret,
	// player_secret, status, then the where clause
	mock.ExpectExec(`UPDATE "games" SET`).
		WithArgs(0, "", "", game_constants.GameStatusInProgress, "aB3dE9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "players" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room := store.Room("aB3dE9")
	room.Lock()
	sm.EnqueueGameSync("aB3dE9")

	// While a handler holds the room lock the write-back must not have read
	// anything: no statement may have executed yet
	time.Sleep(30 * time.Millisecond)
	assert.Error(t, mock.ExpectationsWereMet())

	// The mutation completes before the lock is released, so the snapshot
	// the write-back takes sees the finished mutation, never a partial one
	game.Status = game_constants.GameStatusInProgress
	room.Unlock()

	require.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestPersistSkipsUncachedGame(t *testing.T) {
	store := game_state.NewStore(nil)
	sm := NewSyncManager(nil, store)

	// Default persist path with a nil DB: must return early because the
	// game was never cached, not attempt a transaction
	assert.NoError(t, sm.persist("never-loaded"))
}
