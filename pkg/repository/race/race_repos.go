//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/repository"
)

var selector = `select r.id, r.race_key, r.name, r.distance_km, r.entry_fee,
	r.prize_first, r.prize_second, r.prize_third, r.preset, r.record_stamp
	from race r`

func Create(
	ctx context.Context,
	conn repository.Querier,
	race *model.Race,
) error {
	row := conn.QueryRow(ctx, `
	insert into race (
		race_key, name, distance_km, entry_fee,
		prize_first, prize_second, prize_third, preset
	) values ($1,$2,$3,$4,$5,$6,$7,$8)
	returning id, record_stamp
		`,
		race.Key, race.Name, race.DistanceKm, race.EntryFee,
		race.PrizeFirst, race.PrizeSecond, race.PrizeThird, race.Preset)
	return row.Scan(&race.ID, &race.RecordStamp)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Race, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where r.id=$1", selector), id)
	return readData(row)
}

func LoadByKey(ctx context.Context, conn repository.Querier, key string) (
	*model.Race, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where r.race_key=$1", selector), key)
	return readData(row)
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.Race, error) {
	var item model.Race
	if err := row.Scan(&item.ID, &item.Key, &item.Name, &item.DistanceKm,
		&item.EntryFee, &item.PrizeFirst, &item.PrizeSecond, &item.PrizeThird,
		&item.Preset, &item.RecordStamp); err != nil {
		return nil, err
	}
	return &item, nil
}
