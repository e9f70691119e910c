package scores

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hazelweave/quizbot/internal/scores"
)

// streakCarryoverTTL bounds how long a finished game's streak survives before
// a new game on the same channel starts without it.
const streakCarryoverTTL = 10 * time.Minute

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) scores.Store {
	return &RedisStore{client: client}
}

func dayBoardKey(guildID int64) string {
	return fmt.Sprintf("quiz:dayboard:%d:%s", guildID, time.Now().UTC().Format("2006-01-02"))
}

func streakKey(channelID int64) string {
	return fmt.Sprintf("quiz:streak:%d", channelID)
}

func bestStreakKey(guildID int64) string {
	return fmt.Sprintf("quiz:beststreak:%d", guildID)
}

func (s *RedisStore) AddScore(ctx context.Context, guildID, userID int64, points int64) (int64, error) {
	key := dayBoardKey(guildID)
	total, err := s.client.ZIncrBy(ctx, key, float64(points), strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		return 0, fmt.Errorf("add score: %w", err)
	}
	// Day boards clean themselves up after two days.
	s.client.Expire(ctx, key, 48*time.Hour)
	return int64(total), nil
}

func (s *RedisStore) TopScores(ctx context.Context, guildID int64, n int) ([]scores.Entry, error) {
	raw, err := s.client.ZRevRangeWithScores(ctx, dayBoardKey(guildID), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	entries := make([]scores.Entry, 0, len(raw))
	for _, z := range raw {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		userID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, scores.Entry{UserID: userID, Score: int64(z.Score)})
	}
	return entries, nil
}

func (s *RedisStore) StashStreak(ctx context.Context, channelID int64, c scores.Carryover) error {
	val := fmt.Sprintf("%d/%d", c.LastAnswerer, c.Streak)
	if err := s.client.Set(ctx, streakKey(channelID), val, streakCarryoverTTL).Err(); err != nil {
		return fmt.Errorf("stash streak: %w", err)
	}
	return nil
}

func (s *RedisStore) TakeStreak(ctx context.Context, channelID int64) (scores.Carryover, bool, error) {
	val, err := s.client.GetDel(ctx, streakKey(channelID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return scores.Carryover{}, false, nil
		}
		return scores.Carryover{}, false, fmt.Errorf("take streak: %w", err)
	}
	var c scores.Carryover
	if _, err := fmt.Sscanf(val, "%d/%d", &c.LastAnswerer, &c.Streak); err != nil {
		return scores.Carryover{}, false, nil
	}
	return c, true, nil
}

func (s *RedisStore) BestStreak(ctx context.Context, guildID, userID int64) (int, error) {
	val, err := s.client.HGet(ctx, bestStreakKey(guildID), strconv.FormatInt(userID, 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("best streak: %w", err)
	}
	best, err := strconv.Atoi(val)
	if err != nil {
		return 0, nil
	}
	return best, nil
}

func (s *RedisStore) SetBestStreak(ctx context.Context, guildID, userID int64, streak int) error {
	err := s.client.HSet(ctx, bestStreakKey(guildID), strconv.FormatInt(userID, 10), streak).Err()
	if err != nil {
		return fmt.Errorf("set best streak: %w", err)
	}
	return nil
}
