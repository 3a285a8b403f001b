package usecase

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-features/internal/domain/playerstats"
	"github.com/riskibarqy/football-features/internal/featureexpand"
	"github.com/riskibarqy/football-features/internal/platform/logging"
	"github.com/riskibarqy/football-features/internal/platform/workerpool"
	"go.opentelemetry.io/otel/attribute"
)

// Panel columns of the player form table.
const (
	ColumnPlayerID      = "player_id"
	ColumnKickoffAt     = "kickoff_at"
	ColumnGameweek      = "gameweek"
	ColumnMinutes       = "minutes"
	ColumnGoals         = "goals"
	ColumnAssists       = "assists"
	ColumnCleanSheet    = "clean_sheet"
	ColumnYellowCards   = "yellow_cards"
	ColumnRedCards      = "red_cards"
	ColumnSaves         = "saves"
	ColumnFantasyPoints = "fantasy_points"
	ColumnRating        = "rating"
)

var formStatColumns = []string{
	ColumnMinutes,
	ColumnGoals,
	ColumnAssists,
	ColumnCleanSheet,
	ColumnYellowCards,
	ColumnRedCards,
	ColumnSaves,
	ColumnFantasyPoints,
	ColumnRating,
}

// PlayerFormQuery selects players of a league and the windows to compute over
// their match history.
type PlayerFormQuery struct {
	LeagueID string
	// PlayerIDs defaults to every player with history in the league.
	PlayerIDs []string
	// HistoryLimit caps the matches loaded per player; 0 loads everything.
	HistoryLimit int
	// Rows are ordered latest match first, so a negative period -p covers the p
	// matches played before each row's fixture. A positive period covers the
	// matches played after it and must not be used as a pre-match feature.
	Periods []int
	Aggs    []string
	// Columns defaults to every stat column.
	Columns               []string
	LatestPeriodAvailable int
	Suffix                string
	OnlyAggColumns        bool
}

type PlayerFormService struct {
	statsRepo   playerstats.Repository
	expander    *featureexpand.Expander
	logger      *logging.Logger
	parallelism int
}

// NewPlayerFormService builds the service. parallelism bounds both the history
// fetch fan-out and the column workers of the expansion.
func NewPlayerFormService(statsRepo playerstats.Repository, logger *logging.Logger, parallelism int) *PlayerFormService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerFormService{
		statsRepo:   statsRepo,
		expander:    featureexpand.NewExpander(logger),
		logger:      logger,
		parallelism: max(parallelism, 1),
	}
}

// BuildFormTable loads match histories and expands them into window features,
// one row per player match, latest match first within each player. See
// PlayerFormQuery.Periods for which matches a window covers.
func (s *PlayerFormService) BuildFormTable(ctx context.Context, query PlayerFormQuery) (table *featureexpand.Table, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerFormService.BuildFormTable")
	defer func() { finishUsecaseSpan(span, err) }()

	query.LeagueID = strings.TrimSpace(query.LeagueID)
	if query.LeagueID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "league id is required")
	}
	aggs, err := featureexpand.ParseAggs(query.Aggs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	span.SetAttributes(attribute.String("league_id", query.LeagueID))

	playerIDs, err := s.resolvePlayers(ctx, query)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("players", len(playerIDs)))

	histories, err := s.loadHistories(ctx, query.LeagueID, playerIDs, query.HistoryLimit)
	if err != nil {
		return nil, err
	}
	panel, err := buildFormPanel(playerIDs, histories)
	if err != nil {
		return nil, errors.Wrap(err, "build form panel")
	}
	if panel.Len() == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no match history in league %s", query.LeagueID)
	}

	columns := query.Columns
	if len(columns) == 0 {
		columns = formStatColumns
	}
	out, err := s.expander.Expand(ctx, panel, featureexpand.Request{
		EntityKeys:            []string{ColumnPlayerID},
		TimeKeys:              []string{ColumnKickoffAt},
		Periods:               query.Periods,
		Aggs:                  aggs,
		Columns:               columns,
		Suffix:                query.Suffix,
		LatestPeriodAvailable: query.LatestPeriodAvailable,
		OnlyAggColumns:        query.OnlyAggColumns,
		Parallelism:           s.parallelism,
	})
	if err != nil {
		if errors.Is(err, featureexpand.ErrInvalidConfig) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, errors.Wrap(err, "expand player form")
	}

	s.logger.InfoContext(ctx, "player form table built",
		"league_id", query.LeagueID,
		"players", len(playerIDs),
		"rows", out.Len(),
		"columns", len(out.Names()),
	)
	return out, nil
}

func (s *PlayerFormService) resolvePlayers(ctx context.Context, query PlayerFormQuery) ([]string, error) {
	if len(query.PlayerIDs) > 0 {
		out := make([]string, 0, len(query.PlayerIDs))
		for _, id := range query.PlayerIDs {
			id = strings.TrimSpace(id)
			if id == "" {
				return nil, errors.Wrap(ErrInvalidInput, "player id must not be empty")
			}
			if !slices.Contains(out, id) {
				out = append(out, id)
			}
		}
		return out, nil
	}

	ids, err := s.statsRepo.ListPlayerIDsByLeague(ctx, query.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("%w: list players: %w", ErrDependencyUnavailable, err)
	}
	if len(ids) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "no players in league %s", query.LeagueID)
	}
	return ids, nil
}

func (s *PlayerFormService) loadHistories(ctx context.Context, leagueID string, playerIDs []string, limit int) ([][]playerstats.MatchHistory, error) {
	histories := make([][]playerstats.MatchHistory, len(playerIDs))
	tasks := make([]workerpool.Task, len(playerIDs))
	for idx, playerID := range playerIDs {
		idx, playerID := idx, playerID
		tasks[idx] = func(ctx context.Context) error {
			items, err := s.statsRepo.ListMatchHistoryByLeagueAndPlayer(ctx, leagueID, playerID, limit)
			if err != nil {
				return errors.Wrapf(err, "list match history for player %s", playerID)
			}
			histories[idx] = items
			return nil
		}
	}
	if err := workerpool.Run(ctx, s.parallelism, tasks); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
	return histories, nil
}

func buildFormPanel(playerIDs []string, histories [][]playerstats.MatchHistory) (*featureexpand.Table, error) {
	rows := 0
	for _, items := range histories {
		rows += len(items)
	}

	var (
		ids           = make([]string, 0, rows)
		kickoff       = make([]int64, 0, rows)
		gameweek      = make([]int64, 0, rows)
		minutes       = make([]int64, 0, rows)
		goals         = make([]int64, 0, rows)
		assists       = make([]int64, 0, rows)
		cleanSheet    = make([]int64, 0, rows)
		yellowCards   = make([]int64, 0, rows)
		redCards      = make([]int64, 0, rows)
		saves         = make([]int64, 0, rows)
		fantasyPoints = make([]int64, 0, rows)
		rating        = make([]float64, 0, rows)
	)
	for k, items := range histories {
		for _, item := range items {
			ids = append(ids, playerIDs[k])
			kickoff = append(kickoff, item.KickoffAt.Unix())
			gameweek = append(gameweek, int64(item.Gameweek))
			minutes = append(minutes, int64(item.MinutesPlayed))
			goals = append(goals, int64(item.Goals))
			assists = append(assists, int64(item.Assists))
			yellowCards = append(yellowCards, int64(item.YellowCards))
			redCards = append(redCards, int64(item.RedCards))
			saves = append(saves, int64(item.Saves))
			fantasyPoints = append(fantasyPoints, int64(item.FantasyPoints))

			var cs int64
			if item.CleanSheet {
				cs = 1
			}
			cleanSheet = append(cleanSheet, cs)

			r := math.NaN()
			if item.Rating != nil {
				r = *item.Rating
			}
			rating = append(rating, r)
		}
	}

	return featureexpand.NewTable(
		featureexpand.StringColumn(ColumnPlayerID, ids),
		featureexpand.IntColumn(ColumnKickoffAt, kickoff),
		featureexpand.IntColumn(ColumnGameweek, gameweek),
		featureexpand.IntColumn(ColumnMinutes, minutes),
		featureexpand.IntColumn(ColumnGoals, goals),
		featureexpand.IntColumn(ColumnAssists, assists),
		featureexpand.IntColumn(ColumnCleanSheet, cleanSheet),
		featureexpand.IntColumn(ColumnYellowCards, yellowCards),
		featureexpand.IntColumn(ColumnRedCards, redCards),
		featureexpand.IntColumn(ColumnSaves, saves),
		featureexpand.IntColumn(ColumnFantasyPoints, fantasyPoints),
		featureexpand.FloatColumn(ColumnRating, rating),
	)
}
