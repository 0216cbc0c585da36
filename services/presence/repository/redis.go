package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/uniride/uniride/internal/pkg/constants"
	"github.com/uniride/uniride/internal/pkg/database"
	"github.com/uniride/uniride/internal/pkg/logger"
	"github.com/uniride/uniride/internal/pkg/models"
	"github.com/uniride/uniride/services/presence"
)

type presenceRepo struct {
	redisClient *database.RedisClient
	ttl         time.Duration
}

// NewPresenceRepository creates a Redis-backed live-position cache. Entries
// expire after the staleness window, so an expired hash means the subject
// has gone quiet.
func NewPresenceRepository(redisClient *database.RedisClient, cfg models.LocationConfig) presence.PresenceRepo {
	return &presenceRepo{
		redisClient: redisClient,
		ttl:         cfg.StalenessWindow,
	}
}

// UpsertPosition stores the subject's latest position with the staleness TTL
func (r *presenceRepo) UpsertPosition(ctx context.Context, pos models.Position) error {
	key := fmt.Sprintf(constants.KeySubjectPosition, pos.SubjectID)
	fields := map[string]interface{}{
		constants.FieldLatitude:   strconv.FormatFloat(pos.Latitude, 'f', -1, 64),
		constants.FieldLongitude:  strconv.FormatFloat(pos.Longitude, 'f', -1, 64),
		constants.FieldCapturedAt: strconv.FormatInt(pos.CapturedAt.Unix(), 10),
	}
	if pos.Address != "" {
		fields[constants.FieldAddress] = pos.Address
	}

	if err := r.redisClient.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("failed to store position: %w", err)
	}
	if err := r.redisClient.Expire(ctx, key, r.ttl); err != nil {
		return fmt.Errorf("failed to set position TTL: %w", err)
	}
	if err := r.redisClient.SAdd(ctx, constants.KeyPresenceSubjects, pos.SubjectID); err != nil {
		return fmt.Errorf("failed to index subject: %w", err)
	}
	return nil
}

// ListPositions returns every live position still present in the cache.
// Subjects whose hash expired are pruned from the index as they are found.
func (r *presenceRepo) ListPositions(ctx context.Context) ([]models.Position, error) {
	subjectIDs, err := r.redisClient.SMembers(ctx, constants.KeyPresenceSubjects)
	if err != nil {
		return nil, fmt.Errorf("failed to list live subjects: %w", err)
	}

	positions := make([]models.Position, 0, len(subjectIDs))
	for _, subjectID := range subjectIDs {
		key := fmt.Sprintf(constants.KeySubjectPosition, subjectID)
		fields, err := r.redisClient.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read position for %s: %w", subjectID, err)
		}
		if len(fields) == 0 {
			// TTL already reaped the position; drop the index entry too.
			if err := r.redisClient.SRem(ctx, constants.KeyPresenceSubjects, subjectID); err != nil {
				logger.Warn("Failed to prune expired subject",
					logger.String("subject_id", subjectID),
					logger.Err(err))
			}
			continue
		}

		pos, err := parsePosition(subjectID, fields)
		if err != nil {
			logger.Warn("Skipping unparsable cached position",
				logger.String("subject_id", subjectID),
				logger.Err(err))
			continue
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// RemovePosition drops the subject from the cache
func (r *presenceRepo) RemovePosition(ctx context.Context, subjectID string) error {
	key := fmt.Sprintf(constants.KeySubjectPosition, subjectID)
	if err := r.redisClient.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if err := r.redisClient.SRem(ctx, constants.KeyPresenceSubjects, subjectID); err != nil {
		return fmt.Errorf("failed to deindex subject: %w", err)
	}
	return nil
}

func parsePosition(subjectID string, fields map[string]string) (models.Position, error) {
	lat, err := strconv.ParseFloat(fields[constants.FieldLatitude], 64)
	if err != nil {
		return models.Position{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(fields[constants.FieldLongitude], 64)
	if err != nil {
		return models.Position{}, fmt.Errorf("invalid longitude: %w", err)
	}
	ts, err := strconv.ParseInt(fields[constants.FieldCapturedAt], 10, 64)
	if err != nil {
		return models.Position{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	return models.Position{
		SubjectID:  subjectID,
		Latitude:   lat,
		Longitude:  lng,
		Address:    fields[constants.FieldAddress],
		CapturedAt: time.Unix(ts, 0).UTC(),
	}, nil
}
