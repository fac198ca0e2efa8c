//nolint:whitespace // can't make both editor and linter happy
package transaction

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository"
	"github.com/mpapenbr/rally-manager-go/pkg/repository/team"
)

var selector = `select x.id, x.team_id, x.race_id, x.amount, x.currency,
	x.reason, x.record_stamp
	from transaction x`

// Insert appends a ledger entry and applies the signed amount to the
// team budget. Both statements share conn, so running them on a
// transaction keeps ledger and budget consistent.
func Insert(
	ctx context.Context,
	conn repository.Querier,
	item *model.Transaction,
) error {
	row := conn.QueryRow(ctx, `
	insert into transaction (team_id, race_id, amount, currency, reason)
	values ($1,$2,$3,$4,$5)
	returning id, record_stamp
		`,
		item.TeamID, item.RaceID, item.Amount, item.Currency, item.Reason)
	if err := row.Scan(&item.ID, &item.RecordStamp); err != nil {
		return err
	}
	_, err := team.AddToBudget(ctx, conn, item.TeamID, item.Amount)
	return err
}

func LoadByTeamID(ctx context.Context, conn repository.Querier, teamID int) (
	[]*model.Transaction, error,
) {
	return loadMany(ctx, conn,
		fmt.Sprintf("%s where x.team_id=$1 order by x.id asc", selector), teamID)
}

func LoadByRaceID(ctx context.Context, conn repository.Querier, raceID int) (
	[]*model.Transaction, error,
) {
	return loadMany(ctx, conn,
		fmt.Sprintf("%s where x.race_id=$1 order by x.id asc", selector), raceID)
}

// SumByTeamID recomputes the team balance from the ledger.
func SumByTeamID(ctx context.Context, conn repository.Querier, teamID int) (
	decimal.Decimal, error,
) {
	row := conn.QueryRow(ctx,
		"select coalesce(sum(amount),0) from transaction where team_id=$1", teamID)
	var ret decimal.Decimal
	if err := row.Scan(&ret); err != nil {
		return decimal.Zero, err
	}
	return ret, nil
}

func loadMany(
	ctx context.Context,
	conn repository.Querier,
	sql string,
	args ...interface{},
) ([]*model.Transaction, error) {
	row, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Transaction, 0)
	defer row.Close()
	for row.Next() {
		var item model.Transaction
		if err := scan(&item, row); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

func scan(e *model.Transaction, row pgx.Row) error {
	return row.Scan(&e.ID, &e.TeamID, &e.RaceID, &e.Amount, &e.Currency,
		&e.Reason, &e.RecordStamp)
}
