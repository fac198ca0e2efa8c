package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository/car"
	raceRepos "github.com/mpapenbr/rally-manager-go/pkg/repository/race"
	"github.com/mpapenbr/rally-manager-go/pkg/repository/transaction"
	"github.com/mpapenbr/rally-manager-go/pkg/settlement"
)

type RaceService struct {
	pool   *pgxpool.Pool
	engine *settlement.Engine
}

type RaceServiceOption func(s *RaceService)

func WithEngine(engine *settlement.Engine) RaceServiceOption {
	return func(s *RaceService) {
		s.engine = engine
	}
}

func InitRaceService(pool *pgxpool.Pool, opts ...RaceServiceOption) *RaceService {
	raceService := RaceService{pool: pool}
	for _, opt := range opts {
		opt(&raceService)
	}
	if raceService.engine == nil {
		raceService.engine = settlement.NewEngine()
	}
	return &raceService
}

// RunRace loads the roster and settles a complete race in a single
// database transaction: a failure in any settlement step leaves no
// partial race behind.
func (s *RaceService) RunRace(ctx context.Context, def *settlement.RaceDef) (
	*settlement.Outcome, error,
) {
	if def.DistanceKm <= 0 {
		return nil, fmt.Errorf("%w: race distance must be positive", ErrInvalidInput)
	}
	roster, err := car.LoadAllWithTeams(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		// abort before opening a transaction, nothing to persist
		return nil, settlement.ErrEmptyRoster
	}
	var ret *settlement.Outcome
	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var settleErr error
		ret, settleErr = s.engine.Settle(ctx, &txStore{tx: tx}, def, roster)
		return settleErr
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *RaceService) LoadResults(ctx context.Context, raceID int) (
	[]*model.RaceResult, error,
) {
	return raceRepos.LoadResultsByRaceID(ctx, s.pool, raceID)
}

// txStore adapts a pgx transaction to the settlement store contract.
type txStore struct {
	tx pgx.Tx
}

var _ settlement.Store = (*txStore)(nil)

func (s *txStore) CreateRace(ctx context.Context, entry *model.Race) error {
	return raceRepos.Create(ctx, s.tx, entry)
}

func (s *txStore) RecordTransaction(ctx context.Context, item *model.Transaction) error {
	return transaction.Insert(ctx, s.tx, item)
}

func (s *txStore) InsertResult(ctx context.Context, result *model.RaceResult) error {
	return raceRepos.InsertResult(ctx, s.tx, result)
}
