package basedata

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	carrepos "github.com/mpapenbr/rally-manager-go/pkg/repository/car"
	teamrepos "github.com/mpapenbr/rally-manager-go/pkg/repository/team"
)

func SampleTeam() *model.Team {
	return &model.Team{
		Name:    "Falcon Motorsport",
		Members: "Alice,Bob",
		Budget:  decimal.NewFromInt(10000),
	}
}

func SampleCar(teamID int) *model.Car {
	return &model.Car{
		TeamID:      teamID,
		Name:        "Falcon X1",
		TopSpeedKmh: 220.0,
		Accel0100S:  5.2,
		Handling:    85,
		Reliability: 0.92,
		WeightKg:    1200,
	}
}

// CreateSampleTeam persists the sample team and returns it with its id.
func CreateSampleTeam(pool *pgxpool.Pool) *model.Team {
	entry := SampleTeam()
	if err := pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		return teamrepos.Create(context.Background(), tx, entry)
	}); err != nil {
		log.Fatalf("CreateSampleTeam: %v\n", err)
	}
	return entry
}

// CreateSampleCar persists the sample car for the given team.
func CreateSampleCar(pool *pgxpool.Pool, teamID int) *model.Car {
	entry := SampleCar(teamID)
	if err := CreateCar(pool, entry); err != nil {
		log.Fatalf("CreateSampleCar: %v\n", err)
	}
	return entry
}

// CreateCar persists an arbitrary car.
func CreateCar(pool *pgxpool.Pool, entry *model.Car) error {
	return pgx.BeginFunc(context.Background(), pool, func(tx pgx.Tx) error {
		return carrepos.Create(context.Background(), tx, entry)
	})
}
