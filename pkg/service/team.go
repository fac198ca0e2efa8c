package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository/team"
	"github.com/mpapenbr/rally-manager-go/pkg/repository/transaction"
)

type TeamService struct {
	pool *pgxpool.Pool
}

func InitTeamService(pool *pgxpool.Pool) *TeamService {
	teamService := TeamService{pool: pool}
	return &teamService
}

func (s *TeamService) AddTeam(ctx context.Context, entry *model.Team) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return team.Create(ctx, tx, entry)
	})
}

func (s *TeamService) ListTeams(ctx context.Context) ([]*model.Team, error) {
	return team.LoadAll(ctx, s.pool)
}

func (s *TeamService) GetTeamByName(ctx context.Context, name string) (
	*model.Team, error,
) {
	return team.LoadByName(ctx, s.pool, name)
}

// LedgerSum recomputes a team balance from the transaction ledger.
// For a consistent store this matches the budget delta since creation.
func (s *TeamService) LedgerSum(ctx context.Context, teamID int) (
	decimal.Decimal, error,
) {
	return transaction.SumByTeamID(ctx, s.pool, teamID)
}

func (s *TeamService) ListTransactions(ctx context.Context, teamID int) (
	[]*model.Transaction, error,
) {
	return transaction.LoadByTeamID(ctx, s.pool, teamID)
}
