package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

const (
	insertGameQuery = `INSERT INTO games (
		game_id, player_id_white, player_id_black, result, state, moves, date_time_played
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (game_id) DO NOTHING`

	selectGameColumns = `SELECT game_id, player_id_white, player_id_black, result, state, moves, date_time_played FROM games`

	findGameQuery = selectGameColumns + ` WHERE game_id = $1`

	listGamesByPlayerQuery = selectGameColumns + `
	WHERE player_id_white = $1 OR player_id_black = $1
	ORDER BY date_time_played DESC`
)

type pgArchive struct {
	db *sql.DB
}

func NewPostgresArchive(db *sql.DB) ArchiveRepository {
	return &pgArchive{
		db: db,
	}
}

func (that *pgArchive) FindByID(ctx context.Context, matchID string) (*entity.MatchRecord, error) {
	row := that.db.QueryRowContext(ctx, findGameQuery, matchID)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game by id: %w", err)
	}

	return record, nil
}

func (that *pgArchive) Save(ctx context.Context, record *entity.MatchRecord) error {
	moves, err := json.Marshal(nonNilMoves(record.MoveLog))
	if err != nil {
		return fmt.Errorf("could not marshal moves: %w", err)
	}

	res, err := that.db.ExecContext(ctx, insertGameQuery,
		record.MatchID,
		record.WhiteExternalID,
		record.BlackExternalID,
		string(record.Result),
		record.OutcomeState,
		string(moves),
		record.PlayedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("%w: %s", apperror.ErrRecordAlreadySaved, record.MatchID)
	}

	return nil
}

func (that *pgArchive) ListByPlayer(ctx context.Context, userID string) ([]entity.MatchRecord, error) {
	rows, err := that.db.QueryContext(ctx, listGamesByPlayerQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games by player: %w", err)
	}
	defer rows.Close()

	records := make([]entity.MatchRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		records = append(records, *record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entity.MatchRecord, error) {
	var (
		record entity.MatchRecord
		result string
		moves  []byte
	)

	if err := row.Scan(
		&record.MatchID,
		&record.WhiteExternalID,
		&record.BlackExternalID,
		&result,
		&record.OutcomeState,
		&moves,
		&record.PlayedAt,
	); err != nil {
		return nil, err
	}

	record.Result = entity.EndReason(result)
	if err := json.Unmarshal(moves, &record.MoveLog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	record.PlayedAt = record.PlayedAt.UTC()

	return &record, nil
}

func nonNilMoves(moves []string) []string {
	if moves == nil {
		return []string{}
	}
	return moves
}
