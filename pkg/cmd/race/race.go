package race

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rally-manager-go/log"
	"github.com/mpapenbr/rally-manager-go/pkg/cmd/common"
	"github.com/mpapenbr/rally-manager-go/pkg/config"
	"github.com/mpapenbr/rally-manager-go/pkg/db/postgres"
	"github.com/mpapenbr/rally-manager-go/pkg/model"
	racerepos "github.com/mpapenbr/rally-manager-go/pkg/repository/race"
	"github.com/mpapenbr/rally-manager-go/pkg/service"
	"github.com/mpapenbr/rally-manager-go/pkg/settlement"
	"github.com/mpapenbr/rally-manager-go/pkg/simulation"
)

var (
	raceName    string
	preset      string
	distanceKm  float64
	entryFee    float64
	prizeFirst  float64
	prizeSecond float64
	prizeThird  float64
	seed        uint64
	raceKey     string
)

func NewRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "race related commands",
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newResultsCmd())
	return cmd
}

//nolint:lll // readability
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "runs a race over the full roster and settles the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRace()
		},
	}
	cmd.Flags().StringVar(&raceName, "name", "", "race name (default: Rally <timestamp>)")
	cmd.Flags().StringVar(&preset, "preset", simulation.PresetMixed, fmt.Sprintf("track preset %v", simulation.ProfileNames()))
	cmd.Flags().Float64Var(&distanceKm, "distance", 100.0, "race distance in km")
	cmd.Flags().Float64Var(&entryFee, "entry-fee", 1000.0, "entry fee per team")
	cmd.Flags().Float64Var(&prizeFirst, "prize1", 5000.0, "prize for 1st position")
	cmd.Flags().Float64Var(&prizeSecond, "prize2", 3000.0, "prize for 2nd position")
	cmd.Flags().Float64Var(&prizeThird, "prize3", 1000.0, "prize for 3rd position")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the random source (0: non-deterministic)")
	cmd.Flags().StringVar(&config.SQLLogLevel, "sqlLogLevel", "info", "controls the log level for sql methods")
	return cmd
}

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "shows the results of a past race",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showResults()
		},
	}
	cmd.Flags().StringVar(&raceKey, "key", "", "key of the race")
	//nolint:errcheck // cobra handles the error
	cmd.MarkFlagRequired("key")
	return cmd
}

func showResults() error {
	logger := common.SetupLogger()
	pool := common.OpenPool(logger)
	defer postgres.CloseDb()
	ctx := context.Background()

	entry, err := racerepos.LoadByKey(ctx, pool, raceKey)
	if err != nil {
		log.Error("race not found", log.String("key", raceKey), log.ErrorField(err))
		return err
	}
	svc := service.InitRaceService(pool)
	results, err := svc.LoadResults(ctx, entry.ID)
	if err != nil {
		return err
	}
	roster, err := service.InitCarService(pool).ListCarsWithTeams(ctx)
	if err != nil {
		return err
	}
	log.Info("Race results",
		log.String("name", entry.Name),
		log.String("preset", entry.Preset))
	printResults(results, roster)
	return nil
}

func runRace() error {
	logger := common.SetupLogger()
	pool := common.OpenPool(logger)
	defer postgres.CloseDb()
	ctx := context.Background()

	name := raceName
	if name == "" {
		name = fmt.Sprintf("Rally %s", time.Now().Format("2006-01-02 15:04"))
	}
	def := &settlement.RaceDef{
		Name:        name,
		DistanceKm:  distanceKm,
		EntryFee:    decimal.NewFromFloat(entryFee),
		PrizeFirst:  decimal.NewFromFloat(prizeFirst),
		PrizeSecond: decimal.NewFromFloat(prizeSecond),
		PrizeThird:  decimal.NewFromFloat(prizeThird),
		Preset:      preset,
		Currency:    config.Currency,
	}

	opts := []service.RaceServiceOption{}
	if seed != 0 {
		opts = append(opts, service.WithEngine(settlement.NewEngine(
			settlement.WithSimulator(simulation.NewSimulator(simulation.WithSeed(seed))))))
		log.Info("Using fixed seed", log.Any("seed", seed))
	}
	svc := service.InitRaceService(pool, opts...)

	out, err := svc.RunRace(ctx, def)
	if err != nil {
		log.Error("race could not be settled", log.ErrorField(err))
		return err
	}
	log.Info("Race completed",
		log.String("name", out.Race.Name),
		log.Int("raceId", out.Race.ID),
		log.String("raceKey", out.Race.Key))

	carSvc := service.InitCarService(pool)
	roster, err := carSvc.ListCarsWithTeams(ctx)
	if err != nil {
		return err
	}
	printResults(out.Results, roster)

	teamSvc := service.InitTeamService(pool)
	teams, err := teamSvc.ListTeams(ctx)
	if err != nil {
		return err
	}
	printBudgets(teams)
	return nil
}

func printResults(results []*model.RaceResult, roster []*model.CarWithTeam) {
	carNames := map[int]*model.CarWithTeam{}
	for _, entry := range roster {
		carNames[entry.ID] = entry
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Pos", "Car", "Team", "Time (min)", "Status"})
	for _, result := range sortedByPosition(results) {
		pos := ""
		if result.Position != nil {
			pos = fmt.Sprintf("%d", *result.Position)
		}
		finishTime := ""
		if result.FinishTimeMin != nil {
			finishTime = fmt.Sprintf("%.2f", *result.FinishTimeMin)
		}
		carName, teamName := "", ""
		if entry, ok := carNames[result.CarID]; ok {
			carName, teamName = entry.Name, entry.TeamName
		}
		t.AppendRow(table.Row{pos, carName, teamName, finishTime, result.Status})
	}
	t.Render()
}

func printBudgets(teams []*model.Team) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Updated budgets")
	t.AppendHeader(table.Row{"Team", "Members", "Budget"})
	for _, entry := range teams {
		t.AppendRow(table.Row{entry.Name, entry.Members, entry.Budget.StringFixed(2)})
	}
	t.Render()
}

// finishers by position, dnf entries last
func sortedByPosition(results []*model.RaceResult) []*model.RaceResult {
	ret := make([]*model.RaceResult, len(results))
	copy(ret, results)
	sort.SliceStable(ret, func(a, b int) bool {
		if ret[a].Position == nil {
			return false
		}
		if ret[b].Position == nil {
			return true
		}
		return *ret[a].Position < *ret[b].Position
	})
	return ret
}
