//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"context"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository"
)

func InsertResult(
	ctx context.Context,
	conn repository.Querier,
	result *model.RaceResult,
) error {
	row := conn.QueryRow(ctx, `
	insert into race_result (
		race_id, car_id, team_id, finish_time_minutes, status, position
	) values ($1,$2,$3,$4,$5,$6)
	returning id
		`,
		result.RaceID, result.CarID, result.TeamID,
		result.FinishTimeMin, string(result.Status), result.Position)
	return row.Scan(&result.ID)
}

// LoadResultsByRaceID returns the results of a race, finishers first
// ordered by position, then the dnf entries.
func LoadResultsByRaceID(ctx context.Context, conn repository.Querier, raceID int) (
	[]*model.RaceResult, error,
) {
	row, err := conn.Query(ctx, `
	select id, race_id, car_id, team_id, finish_time_minutes, status, position
	from race_result where race_id=$1
	order by position asc nulls last, car_id asc
	`, raceID)
	if err != nil {
		return nil, err
	}
	ret := make([]*model.RaceResult, 0)
	defer row.Close()
	for row.Next() {
		var item model.RaceResult
		var status string
		if err := row.Scan(&item.ID, &item.RaceID, &item.CarID, &item.TeamID,
			&item.FinishTimeMin, &status, &item.Position); err != nil {
			return nil, err
		}
		item.Status = model.ResultStatus(status)
		ret = append(ret, &item)
	}
	return ret, nil
}
