package memory

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gocarina/gocsv"
	"github.com/riskibarqy/football-features/internal/domain/playerstats"
)

type matchHistoryRow struct {
	LeagueID      string `csv:"league_id"`
	PlayerID      string `csv:"player_id"`
	FixtureID     string `csv:"fixture_id"`
	Gameweek      int    `csv:"gameweek"`
	KickoffAt     string `csv:"kickoff_at"`
	TeamID        string `csv:"team_id"`
	MinutesPlayed int    `csv:"minutes"`
	Goals         int    `csv:"goals"`
	Assists       int    `csv:"assists"`
	CleanSheet    bool   `csv:"clean_sheet"`
	YellowCards   int    `csv:"yellow_cards"`
	RedCards      int    `csv:"red_cards"`
	Saves         int    `csv:"saves"`
	FantasyPoints int    `csv:"fantasy_points"`
	Rating        string `csv:"rating"`
}

// LoadMatchHistoryCSV reads a match history export. kickoff_at is RFC 3339; an
// empty rating or an en dash means the player was not rated.
func LoadMatchHistoryCSV(r io.Reader) ([]playerstats.MatchHistory, error) {
	var rows []matchHistoryRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.Wrap(err, "decode match history csv")
	}

	out := make([]playerstats.MatchHistory, 0, len(rows))
	for i, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, errors.Wrapf(err, "match history row %d", i+1)
		}
		out = append(out, item)
	}
	return out, nil
}

func (row matchHistoryRow) toDomain() (playerstats.MatchHistory, error) {
	if strings.TrimSpace(row.LeagueID) == "" || strings.TrimSpace(row.PlayerID) == "" {
		return playerstats.MatchHistory{}, errors.New("league_id and player_id are required")
	}
	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(row.KickoffAt))
	if err != nil {
		return playerstats.MatchHistory{}, errors.Wrapf(err, "parse kickoff_at %q", row.KickoffAt)
	}

	item := playerstats.MatchHistory{
		LeagueID:      strings.TrimSpace(row.LeagueID),
		PlayerID:      strings.TrimSpace(row.PlayerID),
		FixtureID:     strings.TrimSpace(row.FixtureID),
		Gameweek:      row.Gameweek,
		KickoffAt:     kickoff.UTC(),
		TeamID:        strings.TrimSpace(row.TeamID),
		MinutesPlayed: row.MinutesPlayed,
		Goals:         row.Goals,
		Assists:       row.Assists,
		CleanSheet:    row.CleanSheet,
		YellowCards:   row.YellowCards,
		RedCards:      row.RedCards,
		Saves:         row.Saves,
		FantasyPoints: row.FantasyPoints,
	}
	switch rating := strings.TrimSpace(row.Rating); rating {
	case "", "–":
	default:
		v, err := strconv.ParseFloat(rating, 64)
		if err != nil {
			return playerstats.MatchHistory{}, errors.Wrapf(err, "parse rating %q", row.Rating)
		}
		item.Rating = &v
	}
	return item, nil
}
