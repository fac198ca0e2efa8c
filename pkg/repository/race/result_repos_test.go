//nolint:dupl,funlen,errcheck //ok for this test code
package race

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/testsupport/basedata"
	"github.com/mpapenbr/rally-manager-go/testsupport/testdb"
)

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }

func TestResults(t *testing.T) {
	pool := testdb.InitTestDb()
	raceEntry := createSampleEntry(pool)
	team := basedata.CreateSampleTeam(pool)
	winner := basedata.CreateSampleCar(pool, team.ID)
	loser := basedata.SampleCar(team.ID)
	loser.Name = "Falcon X2"
	require.NoError(t, basedata.CreateCar(pool, loser))
	ctx := context.Background()

	entries := []*model.RaceResult{
		{
			RaceID: raceEntry.ID, CarID: loser.ID, TeamID: team.ID,
			Status: model.StatusDnf,
		},
		{
			RaceID: raceEntry.ID, CarID: winner.ID, TeamID: team.ID,
			FinishTimeMin: ptrFloat(42.5), Status: model.StatusFinished,
			Position: ptrInt(1),
		},
	}
	for _, entry := range entries {
		require.NoError(t, InsertResult(ctx, pool, entry))
	}

	// duplicate car in same race is rejected
	err := InsertResult(ctx, pool, &model.RaceResult{
		RaceID: raceEntry.ID, CarID: winner.ID, TeamID: team.ID,
		Status: model.StatusDnf,
	})
	assert.Error(t, err)

	got, err := LoadResultsByRaceID(ctx, pool, raceEntry.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// finishers first, dnf entries last
	assert.Equal(t, winner.ID, got[0].CarID)
	assert.Equal(t, model.StatusFinished, got[0].Status)
	assert.Equal(t, 1, *got[0].Position)
	assert.InDelta(t, 42.5, *got[0].FinishTimeMin, 1e-9)
	assert.Equal(t, loser.ID, got[1].CarID)
	assert.Equal(t, model.StatusDnf, got[1].Status)
	assert.Nil(t, got[1].Position)
	assert.Nil(t, got[1].FinishTimeMin)
}
