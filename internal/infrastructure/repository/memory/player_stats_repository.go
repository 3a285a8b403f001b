package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/football-features/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	mu sync.RWMutex
	// historyByLeague maps league -> player -> matches, latest first.
	historyByLeague map[string]map[string][]playerstats.MatchHistory
	playersByLeague map[string][]string
}

func NewPlayerStatsRepository(items []playerstats.MatchHistory) *PlayerStatsRepository {
	r := &PlayerStatsRepository{
		historyByLeague: make(map[string]map[string][]playerstats.MatchHistory),
		playersByLeague: make(map[string][]string),
	}
	r.Add(items...)
	return r
}

// Add stores matches, keeping every player's history ordered latest first.
func (r *PlayerStatsRepository) Add(items ...playerstats.MatchHistory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	touched := make(map[string]map[string]struct{})
	for _, item := range items {
		byPlayer, ok := r.historyByLeague[item.LeagueID]
		if !ok {
			byPlayer = make(map[string][]playerstats.MatchHistory)
			r.historyByLeague[item.LeagueID] = byPlayer
		}
		if _, seen := byPlayer[item.PlayerID]; !seen {
			r.playersByLeague[item.LeagueID] = append(r.playersByLeague[item.LeagueID], item.PlayerID)
		}
		byPlayer[item.PlayerID] = append(byPlayer[item.PlayerID], item)

		if touched[item.LeagueID] == nil {
			touched[item.LeagueID] = make(map[string]struct{})
		}
		touched[item.LeagueID][item.PlayerID] = struct{}{}
	}

	for leagueID, players := range touched {
		for playerID := range players {
			slices.SortStableFunc(r.historyByLeague[leagueID][playerID], func(a, b playerstats.MatchHistory) int {
				return b.KickoffAt.Compare(a.KickoffAt)
			})
		}
	}
}

func (r *PlayerStatsRepository) ListPlayerIDsByLeague(_ context.Context, leagueID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.playersByLeague[leagueID]), nil
}

func (r *PlayerStatsRepository) ListMatchHistoryByLeagueAndPlayer(_ context.Context, leagueID, playerID string, limit int) ([]playerstats.MatchHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.historyByLeague[leagueID][playerID]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]playerstats.MatchHistory, 0, len(items))
	out = append(out, items...)

	return out, nil
}
