// poolctl is the operator CLI: build a tournament's bracket lineup, bulk
// import a tournament from a CSV file, and assign post-tournament point
// values to finished matches.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mkearsley/madness-pool/config"
	"github.com/mkearsley/madness-pool/db"
	"github.com/mkearsley/madness-pool/repositories"
	"github.com/mkearsley/madness-pool/repositories/inmem"
	"github.com/mkearsley/madness-pool/services"
)

// March Madness defaults: round weights by round number, upset weights by
// "<winnerSeed> v <loserSeed>" pairing.
var (
	defaultRoundWeights = map[int]int{1: 2, 2: 2, 3: 4, 4: 6, 5: 8, 6: 10}
	defaultSeedWeights  = map[string]int{
		"16 v 1": 8,
		"15 v 2": 7,
		"14 v 3": 6,
		"13 v 4": 5,
		"12 v 5": 4,
		"11 v 6": 3,
		"10 v 7": 2,
		"9 v 8":  1,
	}
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "lineup":
		err = runLineup(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "post-points":
		err = runPostPoints(os.Args[2:])
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "poolctl: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: poolctl <lineup|import|post-points> [flags]")
	fmt.Fprintln(os.Stderr, "  lineup      -tournament NAME | -year YYYY")
	fmt.Fprintln(os.Stderr, "  import      -file PATH [-dry-run]")
	fmt.Fprintln(os.Stderr, "  post-points -tournament \"NAME YEAR\" [-weights PATH]")
}

type env struct {
	db       *sql.DB
	repos    repos
	services svc
}

type repos struct {
	team       repositories.TeamRepository
	rank       repositories.TeamRankRepository
	tournament repositories.TournamentRepository
	round      repositories.RoundRepository
	match      repositories.MatchRepository
	user       repositories.UserRepository
	prediction repositories.PredictionRepository
	group      repositories.GroupRepository
}

type svc struct {
	tournament services.TournamentService
	bracket    services.BracketService
	importer   services.ImportService
	scoring    services.ScoringService
}

// connect wires repositories and services over the shared database. The CLI
// runs without the websocket hub; broadcasts are nil-safe no-ops.
func connect() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, err
	}

	r := repos{
		team:       repositories.NewPostgresTeamRepository(dbConn),
		rank:       repositories.NewPostgresTeamRankRepository(dbConn),
		tournament: repositories.NewPostgresTournamentRepository(dbConn),
		round:      repositories.NewPostgresRoundRepository(dbConn),
		match:      repositories.NewPostgresMatchRepository(dbConn),
		user:       repositories.NewPostgresUserRepository(dbConn),
		prediction: repositories.NewPostgresPredictionRepository(dbConn),
		group:      repositories.NewPostgresGroupRepository(dbConn),
	}
	return &env{db: dbConn, repos: r, services: buildServices(r)}, nil
}

func buildServices(r repos) svc {
	bracket := services.NewBracketService(r.tournament, r.round, r.match, nil)
	return svc{
		tournament: services.NewTournamentService(r.tournament, r.round, r.match, r.team),
		bracket:    bracket,
		importer:   services.NewImportService(r.tournament, r.round, r.match, r.team, r.rank, bracket),
		scoring:    services.NewScoringService(r.tournament, r.match, r.rank, r.prediction, r.user, r.group),
	}
}

func inmemServices() svc {
	store := inmem.NewStore()
	return buildServices(repos{
		team:       inmem.NewTeamRepository(store),
		rank:       inmem.NewTeamRankRepository(store),
		tournament: inmem.NewTournamentRepository(store),
		round:      inmem.NewRoundRepository(store),
		match:      inmem.NewMatchRepository(store),
		user:       inmem.NewUserRepository(store),
		prediction: inmem.NewPredictionRepository(store),
		group:      inmem.NewGroupRepository(store),
	})
}

func (e *env) close() {
	_ = e.db.Close()
}

func runLineup(args []string) error {
	fs := flag.NewFlagSet("lineup", flag.ExitOnError)
	name := fs.String("tournament", "", "tournament name or \"NAME YEAR\" key")
	year := fs.Int("year", 0, "tournament year")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" && *year == 0 {
		return fmt.Errorf("lineup requires -tournament or -year")
	}

	e, err := connect()
	if err != nil {
		return err
	}
	defer e.close()
	ctx := context.Background()

	key := *name
	if key == "" {
		key = fmt.Sprintf("%d", *year)
	}
	tournament, err := e.services.tournament.Resolve(ctx, key)
	if err != nil {
		return fmt.Errorf("resolve tournament %q: %w", key, err)
	}

	if err := e.services.bracket.BuildBracket(ctx, tournament.ID); err != nil {
		return fmt.Errorf("build bracket for %s: %w", tournament.DisplayName(), err)
	}
	fmt.Printf("bracket lineup built for %s\n", tournament.DisplayName())
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "path to the tournament CSV file")
	dryRun := fs.Bool("dry-run", false, "parse and report without touching the database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("import requires -file")
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()

	var importer services.ImportService
	if *dryRun {
		importer = inmemServices().importer
	} else {
		e, err := connect()
		if err != nil {
			return err
		}
		defer e.close()
		importer = e.services.importer
	}

	summary, err := importer.LoadCSV(context.Background(), f)
	if err != nil {
		return fmt.Errorf("import %s: %w", *file, err)
	}

	mode := "imported"
	if *dryRun {
		mode = "would import"
	}
	fmt.Printf("%s %s: %d rows (%d skipped), %d new teams, %d new matches, %d new ranks\n",
		mode, summary.Tournament.DisplayName(), summary.RowsProcessed, summary.RowsSkipped,
		summary.TeamsCreated, summary.MatchesCreated, summary.RanksCreated)
	return nil
}

type weightTables struct {
	RoundWeights map[int]int    `json:"round_weights"`
	SeedWeights  map[string]int `json:"seed_weights"`
}

func runPostPoints(args []string) error {
	fs := flag.NewFlagSet("post-points", flag.ExitOnError)
	name := fs.String("tournament", "", "tournament \"NAME YEAR\" key")
	weightsPath := fs.String("weights", "", "optional JSON file with round_weights and seed_weights")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("post-points requires -tournament")
	}

	tables := weightTables{RoundWeights: defaultRoundWeights, SeedWeights: defaultSeedWeights}
	if *weightsPath != "" {
		data, err := os.ReadFile(*weightsPath)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(data, &tables); err != nil {
			return fmt.Errorf("parse weights file %s: %w", *weightsPath, err)
		}
	}

	e, err := connect()
	if err != nil {
		return err
	}
	defer e.close()
	ctx := context.Background()

	tournament, err := e.services.tournament.Resolve(ctx, *name)
	if err != nil {
		return fmt.Errorf("resolve tournament %q: %w", *name, err)
	}

	if err := e.services.scoring.AssignTournamentValues(ctx, tournament.ID, tables.RoundWeights, tables.SeedWeights); err != nil {
		return fmt.Errorf("assign values for %s: %w", tournament.DisplayName(), err)
	}
	fmt.Printf("point values assigned for %s\n", tournament.DisplayName())
	return nil
}
