package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

const (
	archiveKeyPrefix       = "match:archive:"
	archivePlayerKeyPrefix = "match:archive:player:"
)

type redisArchive struct {
	client *redis.Client
}

func NewRedisArchive(client *redis.Client) ArchiveRepository {
	return &redisArchive{
		client: client,
	}
}

func (that *redisArchive) FindByID(ctx context.Context, matchID string) (*entity.MatchRecord, error) {
	response, err := that.client.Get(ctx, archiveKeyPrefix+matchID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match record: %w", err)
	}

	var record entity.MatchRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match record: %w", err)
	}

	return &record, nil
}

// Save writes the record with SETNX so the first writer wins, then indexes it per player.
func (that *redisArchive) Save(ctx context.Context, record *entity.MatchRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal match record: %w", err)
	}

	stored, err := that.client.SetNX(ctx, archiveKeyPrefix+record.MatchID, recordJSON, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to set match record: %w", err)
	}
	if !stored {
		return fmt.Errorf("%w: %s", apperror.ErrRecordAlreadySaved, record.MatchID)
	}

	score := float64(record.PlayedAt.UnixMilli())
	pipe := that.client.TxPipeline()
	for _, userID := range []string{record.WhiteExternalID, record.BlackExternalID} {
		if userID == "" {
			continue
		}
		pipe.ZAdd(ctx, archivePlayerKeyPrefix+userID, redis.Z{Score: score, Member: record.MatchID})
	}

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index match record: %w", err)
	}

	return nil
}

func (that *redisArchive) ListByPlayer(ctx context.Context, userID string) ([]entity.MatchRecord, error) {
	ids, err := that.client.ZRevRange(ctx, archivePlayerKeyPrefix+userID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list match ids: %w", err)
	}

	records := make([]entity.MatchRecord, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = archiveKeyPrefix + id
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get match records: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var record entity.MatchRecord
		if err = json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match record: %w", err)
		}
		records = append(records, record)
	}

	return records, nil
}
