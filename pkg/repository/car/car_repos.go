//nolint:whitespace // can't make both editor and linter happy
package car

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository"
)

var selector = `select c.id, c.team_id, c.name, c.top_speed_kmh,
	c.acceleration_0_100_s, c.handling, c.reliability, c.weight_kg
	from car c`

func Create(
	ctx context.Context,
	conn repository.Querier,
	car *model.Car,
) error {
	row := conn.QueryRow(ctx, `
	insert into car (
		team_id, name, top_speed_kmh, acceleration_0_100_s,
		handling, reliability, weight_kg
	) values ($1,$2,$3,$4,$5,$6,$7)
	returning id
		`,
		car.TeamID, car.Name, car.TopSpeedKmh, car.Accel0100S,
		car.Handling, car.Reliability, car.WeightKg)
	return row.Scan(&car.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Car, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where c.id=$1", selector), id)
	var item model.Car
	if err := scan(&item, row); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadByTeamID(ctx context.Context, conn repository.Querier, teamID int) (
	[]*model.Car, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where c.team_id=$1 order by c.name asc", selector), teamID)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.Car, 0)
	defer row.Close()
	for row.Next() {
		var item model.Car
		if err := scan(&item, row); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// LoadAllWithTeams returns the full roster with resolved team names,
// ordered by team name and car name.
func LoadAllWithTeams(ctx context.Context, conn repository.Querier) (
	[]*model.CarWithTeam, error,
) {
	row, err := conn.Query(ctx, `
	select c.id, c.team_id, c.name, c.top_speed_kmh, c.acceleration_0_100_s,
		c.handling, c.reliability, c.weight_kg, t.name
	from car c join team t on t.id = c.team_id
	order by t.name, c.name
	`)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.CarWithTeam, 0)
	defer row.Close()
	for row.Next() {
		var item model.CarWithTeam
		if err := row.Scan(&item.ID, &item.TeamID, &item.Name, &item.TopSpeedKmh,
			&item.Accel0100S, &item.Handling, &item.Reliability, &item.WeightKg,
			&item.TeamName); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from car where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scan(e *model.Car, row pgx.Row) error {
	return row.Scan(&e.ID, &e.TeamID, &e.Name, &e.TopSpeedKmh,
		&e.Accel0100S, &e.Handling, &e.Reliability, &e.WeightKg)
}
