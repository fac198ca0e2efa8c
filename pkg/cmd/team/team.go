package team

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rally-manager-go/log"
	"github.com/mpapenbr/rally-manager-go/pkg/cmd/common"
	"github.com/mpapenbr/rally-manager-go/pkg/db/postgres"
	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/service"
)

var (
	teamName string
	members  string
	budget   float64
)

func NewTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "team related commands",
	}
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "adds a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addTeam()
		},
	}
	cmd.Flags().StringVar(&teamName, "name", "", "team name")
	cmd.Flags().StringVar(&members, "members", "", "members (comma-separated)")
	cmd.Flags().Float64Var(&budget, "budget", 5000.0, "starting budget")
	//nolint:errcheck // cobra handles the error
	cmd.MarkFlagRequired("name")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists all teams with their budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTeams()
		},
	}
}

func addTeam() error {
	logger := common.SetupLogger()
	pool := common.OpenPool(logger)
	defer postgres.CloseDb()

	entry := &model.Team{
		Name:    teamName,
		Members: members,
		Budget:  decimal.NewFromFloat(budget),
	}
	if err := service.InitTeamService(pool).AddTeam(context.Background(), entry); err != nil {
		log.Error("team could not be added", log.ErrorField(err))
		return err
	}
	log.Info("Team added", log.String("name", entry.Name), log.Int("id", entry.ID))
	return nil
}

func listTeams() error {
	logger := common.SetupLogger()
	pool := common.OpenPool(logger)
	defer postgres.CloseDb()

	teams, err := service.InitTeamService(pool).ListTeams(context.Background())
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Team", "Members", "Budget"})
	for _, entry := range teams {
		t.AppendRow(table.Row{
			entry.ID, entry.Name, entry.Members, entry.Budget.StringFixed(2),
		})
	}
	t.Render()
	return nil
}
