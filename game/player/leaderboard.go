package player

import (
	"context"

	"go.uber.org/zap"
)

const leaderboardKey = "arena:leaderboard:wins"

// LeaderboardEntry is one ranked trainer.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Trainer string `json:"trainer"`
	Wins    int    `json:"wins"`
}

// updateLeaderboard pushes the trainer's win count into the ranking
// zset. Called under the session lock after every battle settlement.
func (svc *Service) updateLeaderboard(ctx context.Context, s *Session) {
	err := svc.cache.ZAdd(ctx, leaderboardKey,
		float64(s.State.Progression.Wins), s.State.Profile.TrainerName)
	if err != nil {
		svc.logger.Warn("leaderboard update failed", zap.Error(err))
	}
}

// Leaderboard returns the top n trainers by wins.
func (svc *Service) Leaderboard(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n < 1 || n > 100 {
		n = 10
	}
	names, err := svc.cache.ZRevRange(ctx, leaderboardKey, 0, int64(n-1))
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(names))
	for i, name := range names {
		score, err := svc.cache.ZScore(ctx, leaderboardKey, name)
		if err != nil {
			continue
		}
		out = append(out, LeaderboardEntry{Rank: i + 1, Trainer: name, Wins: int(score)})
	}
	return out, nil
}
