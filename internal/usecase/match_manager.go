package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/chess"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
	"github.com/rocketscienceinc/chess-backend/internal/pkg"
)

const defaultPersistTimeout = 10 * time.Second

type archiveRepo interface {
	FindByID(ctx context.Context, matchID string) (*entity.MatchRecord, error)
	Save(ctx context.Context, record *entity.MatchRecord) error
	ListByPlayer(ctx context.Context, userID string) ([]entity.MatchRecord, error)
}

type JoinResult struct {
	Role    entity.Role
	State   entity.GameState
	Started bool
}

type MoveResult struct {
	State   entity.GameState
	Outcome entity.MoveOutcome
	Ended   bool
}

type EndResult struct {
	State entity.GameState
	Ended bool
}

type LeaveResult struct {
	Player  entity.Player
	State   entity.GameState
	Ended   bool
	Removed bool
}

// MatchManager drives matches held in the Registry and archives each finished match at most once.
type MatchManager struct {
	logger   *slog.Logger
	registry *Registry
	archive  archiveRepo

	persistTimeout time.Duration
	persisting     sync.WaitGroup
}

func NewMatchManager(logger *slog.Logger, registry *Registry, archive archiveRepo) *MatchManager {
	return &MatchManager{
		logger:   logger.With("component", "match-manager"),
		registry: registry,
		archive:  archive,

		persistTimeout: defaultPersistTimeout,
	}
}

// CreateMatch - registers an empty match under a fresh short id.
func (that *MatchManager) CreateMatch() string {
	for {
		id := pkg.GenerateMatchID()
		if _, created := that.registry.GetOrCreate(id); created {
			return id
		}
	}
}

func (that *MatchManager) Join(_ context.Context, matchID, connectionID string, asSpectator bool, userID string) (JoinResult, error) {
	if matchID == "" {
		return JoinResult{}, fmt.Errorf("%w: empty match id", apperror.ErrMalformedPayload)
	}

	for {
		match, created := that.registry.GetOrCreate(matchID)
		if created {
			that.logger.Debug("match created", "match_id", matchID)
		}

		role, started := match.Join(connectionID, asSpectator, userID)

		// the reaper may have dropped the match before the join landed
		if current, ok := that.registry.Get(matchID); !ok || current != match {
			match.Leave(connectionID)
			continue
		}

		return JoinResult{
			Role:    role,
			State:   match.Snapshot(),
			Started: started,
		}, nil
	}
}

func (that *MatchManager) Move(ctx context.Context, matchID, connectionID string, from, to chess.Square) (MoveResult, error) {
	match, err := that.getMatch(matchID)
	if err != nil {
		return MoveResult{}, err
	}

	outcome, err := match.Move(connectionID, from, to)
	if err != nil {
		return MoveResult{}, fmt.Errorf("failed make move: %w", err)
	}

	if outcome.Ended {
		that.persist(ctx, match)
	}

	return MoveResult{
		State:   match.Snapshot(),
		Outcome: outcome,
		Ended:   outcome.Ended,
	}, nil
}

// ReportEnded handles a client's end-of-match notice. Board-derived reasons are checked
// against the authoritative position; an already finished match is a no-op.
func (that *MatchManager) ReportEnded(ctx context.Context, matchID, connectionID string, reason entity.EndReason, winner *chess.Color) (EndResult, error) {
	match, err := that.getMatch(matchID)
	if err != nil {
		return EndResult{}, err
	}

	if _, ok := match.RoleOf(connectionID); !ok {
		return EndResult{}, apperror.ErrNotInMatch
	}

	if match.IsFinished() {
		return EndResult{State: match.Snapshot()}, nil
	}

	var ended bool
	switch {
	case reason == entity.ReasonResignation:
		if err = match.Resign(connectionID); err != nil {
			return EndResult{}, fmt.Errorf("failed resign: %w", err)
		}
		ended = true
	case reason.IsBoardDerived():
		if err = match.ConfirmOutcome(reason, winner); err != nil {
			return EndResult{}, fmt.Errorf("failed confirm outcome: %w", err)
		}

		var confirmedWinner *chess.Color
		if reason == entity.ReasonCheckmate {
			w := match.Snapshot().Turn.Opposite()
			confirmedWinner = &w
		}
		ended = match.EndGame(reason, confirmedWinner)
	default:
		return EndResult{}, fmt.Errorf("%w: %q cannot be reported", apperror.ErrUnknownEndReason, reason)
	}

	if ended {
		that.persist(ctx, match)
	}

	return EndResult{State: match.Snapshot(), Ended: ended}, nil
}

// Leave removes the connection from its match and drops the match once nobody is left.
func (that *MatchManager) Leave(ctx context.Context, matchID, connectionID string) (LeaveResult, error) {
	match, err := that.getMatch(matchID)
	if err != nil {
		return LeaveResult{}, err
	}

	player, ended, ok := match.Leave(connectionID)
	if !ok {
		return LeaveResult{}, apperror.ErrNotInMatch
	}

	if ended {
		that.persist(ctx, match)
	}

	removed := that.registry.RemoveIfEmpty(matchID)
	if removed {
		that.logger.Debug("match removed", "match_id", matchID)
	}

	return LeaveResult{
		Player:  player,
		State:   match.Snapshot(),
		Ended:   ended,
		Removed: removed,
	}, nil
}

func (that *MatchManager) LegalMoves(matchID string, from chess.Square) ([]chess.Square, error) {
	match, err := that.getMatch(matchID)
	if err != nil {
		return nil, err
	}

	return match.LegalMoves(from), nil
}

func (that *MatchManager) Snapshot(matchID string) (entity.GameState, error) {
	match, err := that.getMatch(matchID)
	if err != nil {
		return entity.GameState{}, err
	}

	return match.Snapshot(), nil
}

// Seats - connection ids holding the white and black seats.
func (that *MatchManager) Seats(matchID string) (string, string, error) {
	match, err := that.getMatch(matchID)
	if err != nil {
		return "", "", err
	}

	white, black := match.Seats()
	return white, black, nil
}

func (that *MatchManager) History(ctx context.Context, userID string) ([]entity.MatchRecord, error) {
	records, err := that.archive.ListByPlayer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed list matches by player: %w", err)
	}

	return records, nil
}

// ReapIdle removes matches that were created but left empty for longer than ttl.
func (that *MatchManager) ReapIdle(now time.Time, ttl time.Duration) int {
	removed := that.registry.RemoveIdle(now.Add(-ttl))
	for _, id := range removed {
		that.logger.Info("idle match removed", "match_id", id)
	}

	return len(removed)
}

// RunReaper calls ReapIdle every half ttl until ctx is done. A non-positive ttl disables it.
func (that *MatchManager) RunReaper(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			that.ReapIdle(now, ttl)
		}
	}
}

// Wait blocks until in-flight archive writes are done.
func (that *MatchManager) Wait() {
	that.persisting.Wait()
}

func (that *MatchManager) getMatch(matchID string) (*entity.Match, error) {
	match, ok := that.registry.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, matchID)
	}

	return match, nil
}

func (that *MatchManager) persist(ctx context.Context, match *entity.Match) {
	log := that.logger.With("method", "persist", "match_id", match.ID())

	if !match.Persistable() {
		log.Info("skip archiving unplayed or self-play match")
		return
	}

	if !match.ClaimPersistence() {
		return
	}

	record := match.Record(time.Now().UTC())

	that.persisting.Add(1)
	go func() {
		defer that.persisting.Done()

		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), that.persistTimeout)
		defer cancel()

		that.save(saveCtx, log, &record)
	}()
}

func (that *MatchManager) save(ctx context.Context, log *slog.Logger, record *entity.MatchRecord) {
	existing, err := that.archive.FindByID(ctx, record.MatchID)
	switch {
	case err == nil && existing != nil:
		log.Info("match already archived")
		return
	case err != nil && !errors.Is(err, apperror.ErrRecordNotFound):
		log.Error("failed to look up archived match", "error", err)
		return
	}

	if err = that.archive.Save(ctx, record); err != nil {
		if errors.Is(err, apperror.ErrRecordAlreadySaved) {
			log.Info("match archived concurrently")
			return
		}

		log.Error("failed to archive match", "error", err)
		return
	}

	log.Info("match archived", "result", record.Result, "outcome", record.OutcomeState)
}
