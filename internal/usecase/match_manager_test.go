package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/chess"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
	mockedUseCase "github.com/rocketscienceinc/chess-backend/mocks/usecase"
)

var errArchiveDown = errors.New("archive down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sq(t *testing.T, name string) chess.Square {
	t.Helper()

	s, err := chess.ParseSquare(name)
	require.NoError(t, err)

	return s
}

func startedMatch(t *testing.T, manager *MatchManager, whiteUser, blackUser string) string {
	t.Helper()

	id := manager.CreateMatch()
	_, err := manager.Join(context.Background(), id, "conn-white", false, whiteUser)
	require.NoError(t, err)

	res, err := manager.Join(context.Background(), id, "conn-black", false, blackUser)
	require.NoError(t, err)
	require.True(t, res.Started)

	return id
}

func foolsMate(t *testing.T, manager *MatchManager, id string) MoveResult {
	t.Helper()

	ctx := context.Background()
	moves := [][3]string{
		{"conn-white", "f2", "f3"},
		{"conn-black", "e7", "e5"},
		{"conn-white", "g2", "g4"},
		{"conn-black", "d8", "h4"},
	}

	var res MoveResult
	for _, m := range moves {
		var err error
		res, err = manager.Move(ctx, id, m[0], sq(t, m[1]), sq(t, m[2]))
		require.NoError(t, err, m)
	}

	return res
}

func TestRegistry(t *testing.T) {
	t.Run("GetOrCreate returns the same match for the same id", func(t *testing.T) {
		// Given: an empty registry
		registry := NewRegistry()

		// When: asking for the same id twice
		first, created := registry.GetOrCreate("abc")
		second, createdAgain := registry.GetOrCreate("abc")

		// Then: one match is created and reused
		assert.True(t, created)
		assert.False(t, createdAgain)
		assert.Same(t, first, second)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("RemoveIfEmpty keeps matches with players", func(t *testing.T) {
		registry := NewRegistry()
		match, _ := registry.GetOrCreate("abc")
		match.Join("a", false, "")

		assert.False(t, registry.RemoveIfEmpty("abc"))

		match.Leave("a")

		assert.True(t, registry.RemoveIfEmpty("abc"))
		_, ok := registry.Get("abc")
		assert.False(t, ok)
	})

	t.Run("RemoveIdle drops only empty waiting matches past the cutoff", func(t *testing.T) {
		// Given: one untouched match and one with a player
		registry := NewRegistry()
		registry.GetOrCreate("idle")
		busy, _ := registry.GetOrCreate("busy")
		busy.Join("a", false, "")

		// When: removing everything idle before a cutoff in the future
		removed := registry.RemoveIdle(time.Now().Add(time.Minute))

		// Then: only the empty match goes
		assert.Equal(t, []string{"idle"}, removed)
		_, ok := registry.Get("busy")
		assert.True(t, ok)
	})

	t.Run("RemoveIdle keeps matches touched after the cutoff", func(t *testing.T) {
		registry := NewRegistry()
		registry.GetOrCreate("fresh")

		assert.Empty(t, registry.RemoveIdle(time.Now().Add(-time.Minute)))
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("Separate registries do not share matches", func(t *testing.T) {
		one, other := NewRegistry(), NewRegistry()
		one.GetOrCreate("abc")

		_, ok := other.Get("abc")
		assert.False(t, ok)
	})
}

func TestMatchManager_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates the match on first join and starts it on the second", func(t *testing.T) {
		// Given: a manager with an empty registry
		registry := NewRegistry()
		manager := NewMatchManager(discardLogger(), registry, mockedUseCase.NewMockarchiveRepo(t))

		// When: two players join a fresh id
		first, err := manager.Join(ctx, "room42", "a", false, "user-a")
		require.NoError(t, err)
		second, err := manager.Join(ctx, "room42", "b", false, "user-b")
		require.NoError(t, err)

		// Then: roles are assigned and the second join reports the start
		assert.Equal(t, entity.RoleWhite, first.Role)
		assert.False(t, first.Started)
		assert.Equal(t, entity.RoleBlack, second.Role)
		assert.True(t, second.Started)
		assert.Equal(t, entity.StatusPlaying, second.State.Status)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("Rejects an empty match id", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))

		_, err := manager.Join(ctx, "", "a", false, "")

		assert.ErrorIs(t, err, apperror.ErrMalformedPayload)
	})

	t.Run("CreateMatch registers a six character id", func(t *testing.T) {
		registry := NewRegistry()
		manager := NewMatchManager(discardLogger(), registry, mockedUseCase.NewMockarchiveRepo(t))

		id := manager.CreateMatch()

		assert.Len(t, id, 6)
		state, err := manager.Snapshot(id)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusWaiting, state.Status)
	})
}

func TestMatchManager_Move(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown match is rejected", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))

		_, err := manager.Move(ctx, "nope", "a", sq(t, "e2"), sq(t, "e4"))

		assert.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})

	t.Run("Checkmate archives the match once", func(t *testing.T) {
		// Given: a started match and an archive without that record
		archive := mockedUseCase.NewMockarchiveRepo(t)
		manager := NewMatchManager(discardLogger(), NewRegistry(), archive)
		id := startedMatch(t, manager, "user-1", "user-2")

		archive.EXPECT().FindByID(mock.Anything, id).Return(nil, apperror.ErrRecordNotFound).Once()
		archive.EXPECT().
			Save(mock.Anything, mock.MatchedBy(func(r *entity.MatchRecord) bool {
				return r.MatchID == id && r.Result == entity.ReasonCheckmate && r.OutcomeState == "black" &&
					r.WhiteExternalID == "user-1" && r.BlackExternalID == "user-2" && len(r.MoveLog) == 4
			})).
			Return(nil).
			Once()

		// When: black mates and then the client reports the same mate
		res := foolsMate(t, manager, id)
		black := chess.Black
		report, err := manager.ReportEnded(ctx, id, "conn-white", entity.ReasonCheckmate, &black)
		manager.Wait()

		// Then: the server ended the match itself and the report is a no-op
		require.NoError(t, err)
		assert.True(t, res.Ended)
		assert.Equal(t, entity.StatusFinished, res.State.Status)
		assert.False(t, report.Ended)
	})

	t.Run("Rejected moves leave state untouched", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := startedMatch(t, manager, "", "")
		before, _ := manager.Snapshot(id)

		_, err := manager.Move(ctx, id, "conn-black", sq(t, "e7"), sq(t, "e5"))

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		after, _ := manager.Snapshot(id)
		assert.Equal(t, before, after)
	})
}

func TestMatchManager_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("Black disconnecting gives white the win and persists exactly once", func(t *testing.T) {
		// Given: a match in progress between two known users
		archive := mockedUseCase.NewMockarchiveRepo(t)
		registry := NewRegistry()
		manager := NewMatchManager(discardLogger(), registry, archive)
		id := startedMatch(t, manager, "user-1", "user-2")
		_, err := manager.Move(ctx, id, "conn-white", sq(t, "e2"), sq(t, "e4"))
		require.NoError(t, err)

		archive.EXPECT().FindByID(mock.Anything, id).Return(nil, apperror.ErrRecordNotFound).Once()
		archive.EXPECT().
			Save(mock.Anything, mock.MatchedBy(func(r *entity.MatchRecord) bool {
				return r.Result == entity.ReasonOpponentLeft && r.OutcomeState == "white"
			})).
			Return(nil).
			Once()

		// When: black disconnects, then white, then a stray duplicate disconnect arrives
		blackLeft, err := manager.Leave(ctx, id, "conn-black")
		require.NoError(t, err)
		whiteLeft, err := manager.Leave(ctx, id, "conn-white")
		require.NoError(t, err)
		_, err = manager.Leave(ctx, id, "conn-black")
		manager.Wait()

		// Then: the first departure ended the match, the last removed it
		assert.True(t, blackLeft.Ended)
		assert.Equal(t, entity.ReasonOpponentLeft, blackLeft.State.EndReason)
		require.NotNil(t, blackLeft.State.Winner)
		assert.Equal(t, chess.White, *blackLeft.State.Winner)
		assert.False(t, blackLeft.Removed)

		assert.False(t, whiteLeft.Ended)
		assert.True(t, whiteLeft.Removed)
		assert.Equal(t, 0, registry.Len())

		assert.ErrorIs(t, err, apperror.ErrMatchNotFound)
	})

	t.Run("Self-play matches are never archived", func(t *testing.T) {
		// Given: both seats held by the same user and an archive expecting no calls
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := startedMatch(t, manager, "same-user", "same-user")

		// When: one seat leaves
		res, err := manager.Leave(ctx, id, "conn-white")
		manager.Wait()

		// Then: the match ends without touching the archive
		require.NoError(t, err)
		assert.True(t, res.Ended)
	})

	t.Run("A match nobody joined against is never archived", func(t *testing.T) {
		// Given: a created match with one identified player and an archive expecting no calls
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := manager.CreateMatch()

		_, err := manager.Join(ctx, id, "conn-white", false, "user-1")
		require.NoError(t, err)

		// When: the lone player leaves
		res, err := manager.Leave(ctx, id, "conn-white")
		manager.Wait()

		// Then: the match is dropped without touching the archive
		require.NoError(t, err)
		assert.True(t, res.Removed)
		assert.Nil(t, res.State.Winner)
	})

	t.Run("Pre-registered matches nobody joined are reaped", func(t *testing.T) {
		// Given: two created matches, one of which has a player
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		idle := manager.CreateMatch()
		busy := manager.CreateMatch()

		_, err := manager.Join(ctx, busy, "conn-white", false, "user-1")
		require.NoError(t, err)

		// When: reaping well after the ttl
		reaped := manager.ReapIdle(time.Now().Add(time.Hour), time.Minute)

		// Then: only the empty match is gone
		assert.Equal(t, 1, reaped)

		_, err = manager.Snapshot(idle)
		assert.ErrorIs(t, err, apperror.ErrMatchNotFound)

		_, err = manager.Snapshot(busy)
		assert.NoError(t, err)
	})

	t.Run("An existing archived record is not written again", func(t *testing.T) {
		archive := mockedUseCase.NewMockarchiveRepo(t)
		manager := NewMatchManager(discardLogger(), NewRegistry(), archive)
		id := startedMatch(t, manager, "user-1", "user-2")

		archive.EXPECT().FindByID(mock.Anything, id).Return(&entity.MatchRecord{MatchID: id}, nil).Once()

		_, err := manager.Leave(ctx, id, "conn-white")
		manager.Wait()

		require.NoError(t, err)
	})

	t.Run("Archive failures do not change the outcome", func(t *testing.T) {
		archive := mockedUseCase.NewMockarchiveRepo(t)
		manager := NewMatchManager(discardLogger(), NewRegistry(), archive)
		id := startedMatch(t, manager, "user-1", "user-2")

		archive.EXPECT().FindByID(mock.Anything, id).Return(nil, apperror.ErrRecordNotFound).Once()
		archive.EXPECT().Save(mock.Anything, mock.Anything).Return(errArchiveDown).Once()

		res, err := manager.Leave(ctx, id, "conn-white")
		manager.Wait()

		require.NoError(t, err)
		assert.True(t, res.Ended)
		assert.Equal(t, entity.StatusFinished, res.State.Status)
	})

	t.Run("Concurrent duplicate insert is treated as done", func(t *testing.T) {
		archive := mockedUseCase.NewMockarchiveRepo(t)
		manager := NewMatchManager(discardLogger(), NewRegistry(), archive)
		id := startedMatch(t, manager, "user-1", "user-2")

		archive.EXPECT().FindByID(mock.Anything, id).Return(nil, apperror.ErrRecordNotFound).Once()
		archive.EXPECT().Save(mock.Anything, mock.Anything).Return(apperror.ErrRecordAlreadySaved).Once()

		_, err := manager.Leave(ctx, id, "conn-black")
		manager.Wait()

		require.NoError(t, err)
	})

	t.Run("Unknown connection is rejected", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := startedMatch(t, manager, "", "")

		_, err := manager.Leave(ctx, id, "stranger")

		assert.ErrorIs(t, err, apperror.ErrNotInMatch)
	})
}

func TestMatchManager_ReportEnded(t *testing.T) {
	ctx := context.Background()

	t.Run("Unconfirmed checkmate is rejected", func(t *testing.T) {
		// Given: a fresh game with no mate on the board
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := startedMatch(t, manager, "user-1", "user-2")
		white := chess.White

		// When: a client claims white won by checkmate
		_, err := manager.ReportEnded(ctx, id, "conn-white", entity.ReasonCheckmate, &white)

		// Then: the claim is refused and the match continues
		assert.ErrorIs(t, err, apperror.ErrOutcomeMismatch)
		state, _ := manager.Snapshot(id)
		assert.Equal(t, entity.StatusPlaying, state.Status)
	})

	t.Run("Resignation ends with the opponent as winner", func(t *testing.T) {
		archive := mockedUseCase.NewMockarchiveRepo(t)
		manager := NewMatchManager(discardLogger(), NewRegistry(), archive)
		id := startedMatch(t, manager, "user-1", "user-2")

		archive.EXPECT().FindByID(mock.Anything, id).Return(nil, apperror.ErrRecordNotFound).Once()
		archive.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()

		res, err := manager.ReportEnded(ctx, id, "conn-black", entity.ReasonResignation, nil)
		manager.Wait()

		require.NoError(t, err)
		assert.True(t, res.Ended)
		assert.Equal(t, entity.ReasonResignation, res.State.EndReason)
		assert.Equal(t, chess.White, *res.State.Winner)
	})

	t.Run("Opponent left cannot be reported by clients", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := startedMatch(t, manager, "", "")

		_, err := manager.ReportEnded(ctx, id, "conn-white", entity.ReasonOpponentLeft, nil)

		assert.ErrorIs(t, err, apperror.ErrUnknownEndReason)
	})

	t.Run("Reports from outside the match are rejected", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := startedMatch(t, manager, "", "")

		_, err := manager.ReportEnded(ctx, id, "stranger", entity.ReasonResignation, nil)

		assert.ErrorIs(t, err, apperror.ErrNotInMatch)
	})
}

func TestMatchManager_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("LegalMoves highlights destinations", func(t *testing.T) {
		manager := NewMatchManager(discardLogger(), NewRegistry(), mockedUseCase.NewMockarchiveRepo(t))
		id := startedMatch(t, manager, "", "")

		moves, err := manager.LegalMoves(id, sq(t, "b1"))

		require.NoError(t, err)
		assert.Equal(t, []chess.Square{sq(t, "a3"), sq(t, "c3")}, moves)
	})

	t.Run("History is read from the archive", func(t *testing.T) {
		archive := mockedUseCase.NewMockarchiveRepo(t)
		manager := NewMatchManager(discardLogger(), NewRegistry(), archive)
		records := []entity.MatchRecord{{MatchID: "abc123"}}

		archive.EXPECT().ListByPlayer(mock.Anything, "user-1").Return(records, nil).Once()

		got, err := manager.History(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, records, got)
	})

	t.Run("History wraps archive errors", func(t *testing.T) {
		archive := mockedUseCase.NewMockarchiveRepo(t)
		manager := NewMatchManager(discardLogger(), NewRegistry(), archive)

		archive.EXPECT().ListByPlayer(mock.Anything, "user-1").Return(nil, errArchiveDown).Once()

		_, err := manager.History(ctx, "user-1")

		assert.ErrorIs(t, err, errArchiveDown)
	})
}
