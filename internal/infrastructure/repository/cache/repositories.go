package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/football-features/internal/domain/playerstats"
	basecache "github.com/riskibarqy/football-features/internal/platform/cache"
)

// PlayerStatsRepository caches player lists and match histories in front of
// another repository. Callers get their own copy of every slice.
type PlayerStatsRepository struct {
	next    playerstats.Repository
	players *basecache.Store[[]string]
	history *basecache.Store[[]playerstats.MatchHistory]
}

func NewPlayerStatsRepository(next playerstats.Repository, ttl time.Duration) *PlayerStatsRepository {
	return &PlayerStatsRepository{
		next:    next,
		players: basecache.NewStore[[]string](ttl),
		history: basecache.NewStore[[]playerstats.MatchHistory](ttl),
	}
}

func (r *PlayerStatsRepository) ListPlayerIDsByLeague(ctx context.Context, leagueID string) ([]string, error) {
	items, err := r.players.GetOrLoad(ctx, "playerstats:players:"+leagueID, func(ctx context.Context) ([]string, error) {
		return r.next.ListPlayerIDsByLeague(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), items...), nil
}

func (r *PlayerStatsRepository) ListMatchHistoryByLeagueAndPlayer(ctx context.Context, leagueID, playerID string, limit int) ([]playerstats.MatchHistory, error) {
	key := "playerstats:history:" + leagueID + ":" + playerID + ":" + strconv.Itoa(limit)
	items, err := r.history.GetOrLoad(ctx, key, func(ctx context.Context) ([]playerstats.MatchHistory, error) {
		return r.next.ListMatchHistoryByLeagueAndPlayer(ctx, leagueID, playerID, limit)
	})
	if err != nil {
		return nil, err
	}
	return append([]playerstats.MatchHistory(nil), items...), nil
}
