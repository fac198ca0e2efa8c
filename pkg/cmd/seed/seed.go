package seed

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/rally-manager-go/log"
	"github.com/mpapenbr/rally-manager-go/pkg/cmd/common"
	"github.com/mpapenbr/rally-manager-go/pkg/db/postgres"
	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository"
	"github.com/mpapenbr/rally-manager-go/pkg/service"
)

type seedTeam struct {
	team model.Team
	cars []model.Car
}

// demo data used for quick local setups
var seedData = []seedTeam{
	{
		team: model.Team{
			Name:    "Falcon Motorsport",
			Members: "Alice,Bob",
			Budget:  decimal.NewFromInt(10000),
		},
		cars: []model.Car{
			{
				Name: "Falcon X1", TopSpeedKmh: 220, Accel0100S: 5.2,
				Handling: 85, Reliability: 0.92, WeightKg: 1200,
			},
			{
				Name: "Falcon X2", TopSpeedKmh: 210, Accel0100S: 5.6,
				Handling: 80, Reliability: 0.88, WeightKg: 1250,
			},
		},
	},
	{
		team: model.Team{
			Name:    "Thunder Racing",
			Members: "Carol,Dan",
			Budget:  decimal.NewFromInt(8000),
		},
		cars: []model.Car{
			{
				Name: "Storm ZR", TopSpeedKmh: 230, Accel0100S: 4.9,
				Handling: 78, Reliability: 0.85, WeightKg: 1180,
			},
		},
	},
}

func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "populates the database with demo teams and cars",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedDemoData()
		},
	}
}

func seedDemoData() error {
	logger := common.SetupLogger()
	pool := common.OpenPool(logger)
	defer postgres.CloseDb()

	ctx := context.Background()
	teamService := service.InitTeamService(pool)
	carService := service.InitCarService(pool)

	for i := range seedData {
		entry := seedData[i]
		existing, err := teamService.GetTeamByName(ctx, entry.team.Name)
		if err != nil && !errors.Is(err, repository.ErrNoData) {
			return err
		}
		if existing != nil {
			log.Info("team already present, skipping",
				log.String("team", entry.team.Name))
			continue
		}
		if err := teamService.AddTeam(ctx, &entry.team); err != nil {
			return err
		}
		for j := range entry.cars {
			car := entry.cars[j]
			car.TeamID = entry.team.ID
			if err := carService.AddCar(ctx, &car); err != nil {
				return err
			}
		}
		log.Info("team seeded",
			log.String("team", entry.team.Name),
			log.Int("cars", len(entry.cars)))
	}
	return nil
}
