package scores

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hazelweave/quizbot/internal/scores"
)

func newTestStore(t *testing.T) (scores.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client), mr
}

func TestAddScoreAccumulatesAndRanks(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if total, err := store.AddScore(ctx, 1, 100, 4); err != nil || total != 4 {
		t.Fatalf("AddScore = %d, %v", total, err)
	}
	if total, err := store.AddScore(ctx, 1, 100, 2); err != nil || total != 6 {
		t.Fatalf("AddScore second = %d, %v", total, err)
	}
	if _, err := store.AddScore(ctx, 1, 200, 1); err != nil {
		t.Fatalf("AddScore other user: %v", err)
	}

	top, err := store.TopScores(ctx, 1, 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(top) != 2 || top[0].UserID != 100 || top[0].Score != 6 || top[1].UserID != 200 {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}
}

func TestScoresAreScopedPerGuild(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.AddScore(ctx, 1, 100, 5); err != nil {
		t.Fatal(err)
	}
	top, err := store.TopScores(ctx, 2, 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(top) != 0 {
		t.Fatalf("expected empty board for other guild, got %+v", top)
	}
}

func TestStreakCarryoverRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.StashStreak(ctx, 42, scores.Carryover{LastAnswerer: 7, Streak: 3}); err != nil {
		t.Fatalf("StashStreak: %v", err)
	}
	c, ok, err := store.TakeStreak(ctx, 42)
	if err != nil || !ok {
		t.Fatalf("TakeStreak = %v, %v", ok, err)
	}
	if c.LastAnswerer != 7 || c.Streak != 3 {
		t.Fatalf("unexpected carryover: %+v", c)
	}

	// Taking is destructive.
	if _, ok, _ := store.TakeStreak(ctx, 42); ok {
		t.Fatal("expected carryover to be consumed")
	}
}

func TestStreakCarryoverExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.StashStreak(ctx, 42, scores.Carryover{LastAnswerer: 7, Streak: 3}); err != nil {
		t.Fatalf("StashStreak: %v", err)
	}
	mr.FastForward(11 * time.Minute)
	if _, ok, _ := store.TakeStreak(ctx, 42); ok {
		t.Fatal("expected carryover to expire after ten minutes")
	}
}

func TestBestStreak(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if best, err := store.BestStreak(ctx, 1, 100); err != nil || best != 0 {
		t.Fatalf("BestStreak empty = %d, %v", best, err)
	}
	if err := store.SetBestStreak(ctx, 1, 100, 9); err != nil {
		t.Fatalf("SetBestStreak: %v", err)
	}
	if best, err := store.BestStreak(ctx, 1, 100); err != nil || best != 9 {
		t.Fatalf("BestStreak = %d, %v", best, err)
	}
}
