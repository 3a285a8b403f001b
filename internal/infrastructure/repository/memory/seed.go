package memory

import (
	"time"

	"github.com/riskibarqy/football-features/internal/domain/playerstats"
)

const (
	LeagueIDLiga1Indonesia = "idn-liga-1-2025"
	LeagueIDPremierLeague  = "eng-premier-league-2025"
)

func rating(v float64) *float64 { return &v }

// SeedMatchHistory is a small two-league sample used for local runs.
func SeedMatchHistory() []playerstats.MatchHistory {
	kickoff := func(day int) time.Time { return time.Date(2026, 2, day, 19, 0, 0, 0, time.UTC) }
	return []playerstats.MatchHistory{
		{LeagueID: LeagueIDLiga1Indonesia, PlayerID: "idn-fwd-01", FixtureID: "fx-idn-001", Gameweek: 1, KickoffAt: kickoff(7), TeamID: "idn-persija", MinutesPlayed: 90, Goals: 1, FantasyPoints: 8, Rating: rating(7.4)},
		{LeagueID: LeagueIDLiga1Indonesia, PlayerID: "idn-fwd-01", FixtureID: "fx-idn-005", Gameweek: 2, KickoffAt: kickoff(14), TeamID: "idn-persija", MinutesPlayed: 78, Assists: 1, FantasyPoints: 5, Rating: rating(6.9)},
		{LeagueID: LeagueIDLiga1Indonesia, PlayerID: "idn-fwd-01", FixtureID: "fx-idn-009", Gameweek: 3, KickoffAt: kickoff(21), TeamID: "idn-persija", MinutesPlayed: 12, FantasyPoints: 1},
		{LeagueID: LeagueIDLiga1Indonesia, PlayerID: "idn-gk-02", FixtureID: "fx-idn-001", Gameweek: 1, KickoffAt: kickoff(7), TeamID: "idn-persib", MinutesPlayed: 90, Saves: 4, FantasyPoints: 3, Rating: rating(6.8)},
		{LeagueID: LeagueIDLiga1Indonesia, PlayerID: "idn-gk-02", FixtureID: "fx-idn-006", Gameweek: 2, KickoffAt: kickoff(15), TeamID: "idn-persib", MinutesPlayed: 90, Saves: 2, CleanSheet: true, FantasyPoints: 6, Rating: rating(7.1)},
		{LeagueID: LeagueIDPremierLeague, PlayerID: "eng-fwd-01", FixtureID: "fx-eng-001", Gameweek: 1, KickoffAt: kickoff(8), TeamID: "eng-liv", MinutesPlayed: 90, Goals: 2, FantasyPoints: 13, Rating: rating(8.6)},
		{LeagueID: LeagueIDPremierLeague, PlayerID: "eng-fwd-01", FixtureID: "fx-eng-004", Gameweek: 2, KickoffAt: kickoff(15), TeamID: "eng-liv", MinutesPlayed: 65, YellowCards: 1, FantasyPoints: 1, Rating: rating(6.2)},
	}
}
