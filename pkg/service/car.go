package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository/car"
)

// ErrInvalidInput marks attribute errors that are rejected before any
// simulation or persistence happens.
var ErrInvalidInput = errors.New("invalid input")

type CarService struct {
	pool *pgxpool.Pool
}

func InitCarService(pool *pgxpool.Pool) *CarService {
	carService := CarService{pool: pool}
	return &carService
}

func (s *CarService) AddCar(ctx context.Context, entry *model.Car) error {
	if err := validateCar(entry); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return car.Create(ctx, tx, entry)
	})
}

func validateCar(entry *model.Car) error {
	if entry.TopSpeedKmh <= 0 {
		return fmt.Errorf("%w: top speed must be positive", ErrInvalidInput)
	}
	if entry.Accel0100S <= 0 {
		return fmt.Errorf("%w: acceleration figure must be positive", ErrInvalidInput)
	}
	if entry.Handling < 50 || entry.Handling > 100 {
		return fmt.Errorf("%w: handling must be within [50,100]", ErrInvalidInput)
	}
	if entry.Reliability < 0 || entry.Reliability > 1 {
		return fmt.Errorf("%w: reliability must be within [0,1]", ErrInvalidInput)
	}
	return nil
}

// ListCarsWithTeams returns the race roster.
func (s *CarService) ListCarsWithTeams(ctx context.Context) (
	[]*model.CarWithTeam, error,
) {
	return car.LoadAllWithTeams(ctx, s.pool)
}
