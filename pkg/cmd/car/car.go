package car

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rally-manager-go/log"
	"github.com/mpapenbr/rally-manager-go/pkg/cmd/common"
	"github.com/mpapenbr/rally-manager-go/pkg/db/postgres"
	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/service"
)

var (
	teamID      int
	carName     string
	topSpeed    float64
	accel       float64
	handling    int
	reliability float64
	weight      int
)

func NewCarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "car",
		Short: "car related commands",
	}
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "adds a car to a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addCar()
		},
	}
	cmd.Flags().IntVar(&teamID, "team", 0, "id of the owning team")
	cmd.Flags().StringVar(&carName, "name", "", "car name")
	cmd.Flags().Float64Var(&topSpeed, "top-speed", 220.0, "top speed in km/h")
	cmd.Flags().Float64Var(&accel, "accel", 5.5, "0-100 km/h in seconds")
	cmd.Flags().IntVar(&handling, "handling", 80, "handling rating (50-100)")
	cmd.Flags().Float64Var(&reliability, "reliability", 0.9, "reliability (0-1)")
	cmd.Flags().IntVar(&weight, "weight", 1200, "weight in kg")
	//nolint:errcheck // cobra handles the error
	cmd.MarkFlagRequired("team")
	//nolint:errcheck // cobra handles the error
	cmd.MarkFlagRequired("name")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists the roster with team assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCars()
		},
	}
}

func addCar() error {
	logger := common.SetupLogger()
	pool := common.OpenPool(logger)
	defer postgres.CloseDb()

	entry := &model.Car{
		TeamID:      teamID,
		Name:        carName,
		TopSpeedKmh: topSpeed,
		Accel0100S:  accel,
		Handling:    handling,
		Reliability: reliability,
		WeightKg:    weight,
	}
	if err := service.InitCarService(pool).AddCar(context.Background(), entry); err != nil {
		log.Error("car could not be added", log.ErrorField(err))
		return err
	}
	log.Info("Car added", log.String("name", entry.Name), log.Int("id", entry.ID))
	return nil
}

func listCars() error {
	logger := common.SetupLogger()
	pool := common.OpenPool(logger)
	defer postgres.CloseDb()

	roster, err := service.InitCarService(pool).ListCarsWithTeams(context.Background())
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{
		"ID", "Car", "Team", "Top speed", "0-100", "Handling", "Reliability",
	})
	for _, entry := range roster {
		t.AppendRow(table.Row{
			entry.ID, entry.Name, entry.TeamName, entry.TopSpeedKmh,
			entry.Accel0100S, entry.Handling, entry.Reliability,
		})
	}
	t.Render()
	return nil
}
