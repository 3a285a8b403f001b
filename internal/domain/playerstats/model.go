package playerstats

import "time"

// MatchHistory is one player's line for one fixture.
type MatchHistory struct {
	LeagueID      string
	PlayerID      string
	FixtureID     string
	Gameweek      int
	KickoffAt     time.Time
	TeamID        string
	MinutesPlayed int
	Goals         int
	Assists       int
	CleanSheet    bool
	YellowCards   int
	RedCards      int
	Saves         int
	FantasyPoints int
	// Rating is nil when the data provider did not rate the player.
	Rating *float64
}
