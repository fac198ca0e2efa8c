//nolint:whitespace // can't make both editor and linter happy
package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository"
)

var selector = `select t.id, t.name, t.members, t.budget from team t`

func Create(
	ctx context.Context,
	conn repository.Querier,
	team *model.Team,
) error {
	row := conn.QueryRow(ctx, `
	insert into team (name, members, budget) values ($1,$2,$3)
	returning id
		`,
		team.Name, team.Members, team.Budget)
	return row.Scan(&team.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Team, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where t.id=$1", selector), id)
	return readData(row)
}

func LoadByName(ctx context.Context, conn repository.Querier, name string) (
	*model.Team, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where t.name=$1", selector), name)
	ret, err := readData(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNoData
	}
	return ret, err
}

func LoadAll(ctx context.Context, conn repository.Querier) (
	[]*model.Team, error,
) {
	row, err := conn.Query(ctx, fmt.Sprintf("%s order by t.name asc", selector))
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Team, 0)
	defer row.Close()
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// AddToBudget applies a signed amount to the stored team budget.
// Must only be called on the same transaction that inserts the
// corresponding ledger entry.
func AddToBudget(
	ctx context.Context,
	conn repository.Querier,
	id int,
	amount decimal.Decimal,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update team set budget = coalesce(budget,0) + $1 where id=$2", amount, id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from team where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.Team, error) {
	var item model.Team
	if err := row.Scan(&item.ID, &item.Name, &item.Members, &item.Budget); err != nil {
		return nil, err
	}
	return &item, nil
}
