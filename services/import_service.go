package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mkearsley/madness-pool/brackets"
	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

// Recognized column headers of the bulk import format.
const (
	columnYear            = "year"
	columnRound           = "round"
	columnMatch           = "match"
	columnTeam1           = "team 1"
	columnTeam1Seed       = "team 1 seed"
	columnTeam2           = "team 2"
	columnTeam2Seed       = "team 2 seed"
	columnTournamentValue = "tournament value"
)

type ImportSummary struct {
	Tournament     *models.Tournament `json:"tournament"`
	RowsProcessed  int                `json:"rows_processed"`
	RowsSkipped    int                `json:"rows_skipped"`
	TeamsCreated   int                `json:"teams_created"`
	MatchesCreated int                `json:"matches_created"`
	RanksCreated   int                `json:"ranks_created"`
}

// ImportService loads a whole tournament from the tabular bulk format:
// a "<tournament name> <year>" header line, a column-header line, and data
// rows that each upsert a Round, a Match, up to two Teams and up to two
// TeamRank entries. The bracket is built once at end of file.
type ImportService interface {
	LoadCSV(ctx context.Context, r io.Reader) (*ImportSummary, error)
}

type importService struct {
	tournamentRepo repositories.TournamentRepository
	roundRepo      repositories.RoundRepository
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	rankRepo       repositories.TeamRankRepository
	bracketService BracketService
}

func NewImportService(
	tournamentRepo repositories.TournamentRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	rankRepo repositories.TeamRankRepository,
	bracketService BracketService,
) ImportService {
	return &importService{
		tournamentRepo: tournamentRepo,
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		rankRepo:       rankRepo,
		bracketService: bracketService,
	}
}

func (s *importService) LoadCSV(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	tournament, err := s.readTournamentHeader(ctx, reader)
	if err != nil {
		return nil, err
	}

	columns, err := readColumnHeader(reader)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Tournament: tournament}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A single unreadable row is tolerated, not fatal.
			summary.RowsSkipped++
			continue
		}
		if err := s.importRow(ctx, tournament, columns, record, summary); err != nil {
			return nil, err
		}
	}

	if err := s.bracketService.BuildBracket(ctx, tournament.ID); err != nil {
		return nil, err
	}
	return summary, nil
}

// readTournamentHeader parses the "<tournament name> <year>" line and
// returns the existing or newly created tournament. A missing or malformed
// header is the one hard failure of the import format.
func (s *importService) readTournamentHeader(ctx context.Context, reader *csv.Reader) (*models.Tournament, error) {
	record, err := reader.Read()
	if err != nil {
		return nil, ErrBadImportHeader
	}
	header := strings.TrimSpace(strings.Join(record, ","))

	cut := strings.LastIndex(header, " ")
	if cut < 1 {
		return nil, ErrBadImportHeader
	}
	name := strings.TrimSpace(header[:cut])
	year, err := strconv.Atoi(header[cut+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadImportHeader, header)
	}
	if err := models.ValidateYear(year); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByYear(ctx, year)
	if err == nil {
		return tournament, nil
	}
	if !errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, err
	}

	tournament = &models.Tournament{Name: name, Year: year}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}
	return tournament, nil
}

func readColumnHeader(reader *csv.Reader) (map[string]int, error) {
	record, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing column header line", ErrBadImportHeader)
	}
	columns := make(map[string]int, len(record))
	for i, cell := range record {
		columns[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	return columns, nil
}

func (s *importService) importRow(ctx context.Context, tournament *models.Tournament, columns map[string]int, record []string, summary *ImportSummary) error {
	roundNumber, ok := cellInt(columns, record, columnRound)
	if !ok || roundNumber < 1 {
		summary.RowsSkipped++
		return nil
	}
	matchNumber, ok := cellInt(columns, record, columnMatch)
	if !ok || matchNumber < 1 {
		summary.RowsSkipped++
		return nil
	}

	year := tournament.Year
	if rowYear, ok := cellInt(columns, record, columnYear); ok {
		if models.ValidateYear(rowYear) == nil {
			year = rowYear
		}
	}

	round, err := s.roundRepo.GetOrCreate(ctx, tournament.ID, roundNumber)
	if err != nil {
		return err
	}

	team1ID, err := s.importTeam(ctx, columns, record, columnTeam1, columnTeam1Seed, year, summary)
	if err != nil {
		return err
	}
	team2ID, err := s.importTeam(ctx, columns, record, columnTeam2, columnTeam2Seed, year, summary)
	if err != nil {
		return err
	}
	value, hasValue := cellInt(columns, record, columnTournamentValue)

	match, err := s.matchRepo.GetByPosition(ctx, tournament.ID, roundNumber, matchNumber)
	if err != nil {
		if !errors.Is(err, repositories.ErrMatchNotFound) {
			return err
		}
		created := &models.Match{
			RoundID:     round.ID,
			MatchNumber: matchNumber,
			Team1ID:     team1ID,
			Team2ID:     team2ID,
		}
		if hasValue {
			created.TournamentValue = value
		}
		if err := s.matchRepo.Create(ctx, created); err != nil {
			return err
		}
		summary.MatchesCreated++
		summary.RowsProcessed++
		return nil
	}

	// Existing match: fill open slots only, never demote entered teams.
	if match.Team1ID == nil && team1ID != nil {
		if err := s.matchRepo.UpdateSlot(ctx, match.ID, brackets.SlotTeam1, *team1ID); err != nil {
			return err
		}
	}
	if match.Team2ID == nil && team2ID != nil {
		if err := s.matchRepo.UpdateSlot(ctx, match.ID, brackets.SlotTeam2, *team2ID); err != nil {
			return err
		}
	}
	if hasValue && match.TournamentValue != value {
		if err := s.matchRepo.UpdateTournamentValue(ctx, match.ID, value); err != nil {
			return err
		}
	}
	summary.RowsProcessed++
	return nil
}

// importTeam resolves one side's team and seed cells. Missing or malformed
// cells leave the slot unset; they are tolerated per row.
func (s *importService) importTeam(ctx context.Context, columns map[string]int, record []string, nameColumn, seedColumn string, year int, summary *ImportSummary) (*int, error) {
	name, ok := cellString(columns, record, nameColumn)
	if !ok || name == "" {
		return nil, nil
	}

	team, err := s.teamRepo.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, err
		}
		team = &models.Team{Name: name}
		if err := s.teamRepo.Create(ctx, team); err != nil {
			return nil, err
		}
		summary.TeamsCreated++
	}

	if seed, ok := cellInt(columns, record, seedColumn); ok && seed > 0 {
		rank := &models.TeamRank{Year: year, TeamID: team.ID, Seed: seed}
		err := s.rankRepo.Create(ctx, rank)
		switch {
		case err == nil:
			summary.RanksCreated++
		case errors.Is(err, repositories.ErrTeamRankConflict):
			// Already ranked for the year; imports are re-runnable.
		default:
			return nil, err
		}
	}

	id := team.ID
	return &id, nil
}

func cellString(columns map[string]int, record []string, column string) (string, bool) {
	index, ok := columns[column]
	if !ok || index >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[index]), true
}

func cellInt(columns map[string]int, record []string, column string) (int, bool) {
	cell, ok := cellString(columns, record, column)
	if !ok || cell == "" {
		return 0, false
	}
	value, err := strconv.Atoi(cell)
	if err != nil {
		return 0, false
	}
	return value, true
}
