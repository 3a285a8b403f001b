package playerstats

import "context"

type Repository interface {
	ListPlayerIDsByLeague(ctx context.Context, leagueID string) ([]string, error)
	// ListMatchHistoryByLeagueAndPlayer returns the latest matches first. A
	// non-positive limit returns the whole history.
	ListMatchHistoryByLeagueAndPlayer(ctx context.Context, leagueID, playerID string, limit int) ([]MatchHistory, error)
}
