//nolint:funlen // ok for this test code
package settlement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/simulation"
)

// fakeStore collects all persistence calls in memory.
// failOn aborts the n-th call (1-based) with an error.
type fakeStore struct {
	races        []*model.Race
	transactions []*model.Transaction
	results      []*model.RaceResult
	budgets      map[int]decimal.Decimal
	calls        int
	failOn       int
}

var errStore = errors.New("store gone")

func newFakeStore() *fakeStore {
	return &fakeStore{budgets: map[int]decimal.Decimal{}}
}

func (f *fakeStore) nextCall() error {
	f.calls++
	if f.failOn > 0 && f.calls >= f.failOn {
		return errStore
	}
	return nil
}

func (f *fakeStore) CreateRace(_ context.Context, race *model.Race) error {
	if err := f.nextCall(); err != nil {
		return err
	}
	race.ID = len(f.races) + 1
	f.races = append(f.races, race)
	return nil
}

func (f *fakeStore) RecordTransaction(_ context.Context, item *model.Transaction) error {
	if err := f.nextCall(); err != nil {
		return err
	}
	item.ID = len(f.transactions) + 1
	f.transactions = append(f.transactions, item)
	f.budgets[item.TeamID] = f.budgets[item.TeamID].Add(item.Amount)
	return nil
}

func (f *fakeStore) InsertResult(_ context.Context, result *model.RaceResult) error {
	if err := f.nextCall(); err != nil {
		return err
	}
	result.ID = len(f.results) + 1
	f.results = append(f.results, result)
	return nil
}

// stubSim returns prepared outcomes per car id.
type stubSim struct {
	outcomes map[int]simulation.Outcome
}

func (s *stubSim) Simulate(
	car *model.Car, _ float64, _ simulation.Profile,
) simulation.Outcome {
	return s.outcomes[car.ID]
}

func sampleDef() *RaceDef {
	return &RaceDef{
		Name:        "Rally Monte Demo",
		DistanceKm:  100.0,
		EntryFee:    decimal.NewFromInt(1000),
		PrizeFirst:  decimal.NewFromInt(5000),
		PrizeSecond: decimal.NewFromInt(3000),
		PrizeThird:  decimal.NewFromInt(1000),
		Preset:      simulation.PresetFastAsphalt,
		Currency:    "USD",
	}
}

func sampleRoster() []*model.CarWithTeam {
	return []*model.CarWithTeam{
		{Car: model.Car{
			ID: 1, TeamID: 1, Name: "Car A",
			TopSpeedKmh: 220, Accel0100S: 5.2, Handling: 85, Reliability: 0.92,
		}, TeamName: "Falcon Motorsport"},
		{Car: model.Car{
			ID: 2, TeamID: 2, Name: "Car B",
			TopSpeedKmh: 230, Accel0100S: 4.9, Handling: 78, Reliability: 0.85,
		}, TeamName: "Thunder Racing"},
	}
}

func TestSettleEmptyRoster(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine()
	_, err := engine.Settle(context.Background(), store, sampleDef(), nil)
	assert.ErrorIs(t, err, ErrEmptyRoster)
	// nothing persisted, not even the race record
	assert.Empty(t, store.races)
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.results)
}

func TestSettleExampleScenario(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(WithSimulator(simulation.NewSimulator(simulation.WithSeed(42))))
	def := sampleDef()

	out, err := engine.Settle(context.Background(), store, def, sampleRoster())
	require.NoError(t, err)

	require.Len(t, store.races, 1)
	assert.NotEmpty(t, out.Race.Key)

	// one entry fee per team
	debits := 0
	for _, item := range store.transactions {
		if item.Amount.IsNegative() {
			debits++
			assert.True(t, item.Amount.Equal(decimal.NewFromInt(-1000)))
			assert.Equal(t, "Entry fee for Rally Monte Demo", item.Reason)
			assert.Equal(t, out.Race.ID, *item.RaceID)
		}
	}
	assert.Equal(t, 2, debits)

	require.Len(t, out.Results, 2)
	finishers := verifyRanking(t, out.Results)
	assert.GreaterOrEqual(t, len(finishers), 1, "rescue rule guarantees a winner")

	// prize credits match configured prizes for the awarded ranks
	prizes := []decimal.Decimal{def.PrizeFirst, def.PrizeSecond, def.PrizeThird}
	credits := filterCredits(store.transactions)
	require.Len(t, credits, min(3, len(finishers)))
	for i, item := range credits {
		assert.True(t, item.Amount.Equal(prizes[i]))
		assert.Equal(t, fmt.Sprintf("Prize for position %d in %s", i+1, def.Name),
			item.Reason)
		assert.Equal(t, finishers[i].TeamID, item.TeamID)
	}
}

func TestSettleDeterministic(t *testing.T) {
	runOnce := func() *Outcome {
		engine := NewEngine(
			WithSimulator(simulation.NewSimulator(simulation.WithSeed(815))))
		out, err := engine.Settle(
			context.Background(), newFakeStore(), sampleDef(), sampleRoster())
		require.NoError(t, err)
		return out
	}
	a := runOnce()
	b := runOnce()
	if diff := cmp.Diff(a.Results, b.Results); diff != "" {
		t.Errorf("results differ between runs with same seed: %s", diff)
	}
}

func TestSettleAllDnfRescue(t *testing.T) {
	tests := []struct {
		name     string
		outcomes map[int]simulation.Outcome
		wantCar  int // car that gets rescued
	}{
		{
			name: "lowest recorded time wins",
			outcomes: map[int]simulation.Outcome{
				1: {TimeMinutes: 50, Dnf: true},
				2: {TimeMinutes: 40, Dnf: true},
			},
			wantCar: 2,
		},
		{
			name: "tie broken by roster order",
			outcomes: map[int]simulation.Outcome{
				1: {TimeMinutes: 40, Dnf: true},
				2: {TimeMinutes: 40, Dnf: true},
			},
			wantCar: 1,
		},
		{
			name: "no recorded time at all",
			outcomes: map[int]simulation.Outcome{
				1: {TimeMinutes: 0, Dnf: true},
				2: {TimeMinutes: 0, Dnf: true},
			},
			wantCar: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			engine := NewEngine(WithSimulator(&stubSim{outcomes: tt.outcomes}))
			def := sampleDef()
			out, err := engine.Settle(
				context.Background(), store, def, sampleRoster())
			require.NoError(t, err)

			finished := filterFinished(out.Results)
			require.Len(t, finished, 1, "exactly one car must be rescued")
			assert.Equal(t, tt.wantCar, finished[0].CarID)
			assert.Equal(t, 1, *finished[0].Position)
			require.NotNil(t, finished[0].FinishTimeMin)
			// fabricated fallback time stays within [distance/3, distance/2]
			assert.GreaterOrEqual(t, *finished[0].FinishTimeMin, def.DistanceKm/3)
			assert.LessOrEqual(t, *finished[0].FinishTimeMin, def.DistanceKm/2)

			for _, result := range out.Results {
				if result.CarID == tt.wantCar {
					continue
				}
				assert.Equal(t, model.StatusDnf, result.Status)
				assert.Nil(t, result.Position)
				assert.Nil(t, result.FinishTimeMin)
			}
		})
	}
}

func TestSettlePrizeCapAndEntryFees(t *testing.T) {
	// 6 cars spread over 3 teams, all finish with distinct times
	roster := make([]*model.CarWithTeam, 0, 6)
	outcomes := map[int]simulation.Outcome{}
	for i := 1; i <= 6; i++ {
		roster = append(roster, &model.CarWithTeam{Car: model.Car{
			ID:     i,
			TeamID: (i-1)%3 + 1,
			Name:   fmt.Sprintf("Car %d", i),
		}})
		outcomes[i] = simulation.Outcome{TimeMinutes: float64(100 - i*5)}
	}
	store := newFakeStore()
	engine := NewEngine(WithSimulator(&stubSim{outcomes: outcomes}))
	def := sampleDef()
	out, err := engine.Settle(context.Background(), store, def, roster)
	require.NoError(t, err)

	// entry fees are charged per team, not per car
	debitSum := decimal.Zero
	debits := 0
	for _, item := range out.Transactions {
		if item.Amount.IsNegative() {
			debits++
			debitSum = debitSum.Add(item.Amount)
		}
	}
	assert.Equal(t, 3, debits)
	assert.True(t, debitSum.Equal(decimal.NewFromInt(-3000)))

	// never more than 3 payouts regardless of roster size
	credits := filterCredits(out.Transactions)
	require.Len(t, credits, 3)
	creditSum := decimal.Zero
	for _, item := range credits {
		creditSum = creditSum.Add(item.Amount)
	}
	wantSum := def.PrizeFirst.Add(def.PrizeSecond).Add(def.PrizeThird)
	assert.True(t, creditSum.Equal(wantSum))

	verifyRanking(t, out.Results)
	// fastest car (highest id here) wins
	first := out.Results[5]
	assert.Equal(t, 1, *first.Position)
}

func TestSettleZeroPrizeSkipped(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(WithSimulator(&stubSim{outcomes: map[int]simulation.Outcome{
		1: {TimeMinutes: 40},
		2: {TimeMinutes: 50},
	}}))
	def := sampleDef()
	def.PrizeSecond = decimal.Zero
	_, err := engine.Settle(context.Background(), store, def, sampleRoster())
	require.NoError(t, err)

	credits := filterCredits(store.transactions)
	require.Len(t, credits, 1, "zero prizes are not paid out")
	assert.True(t, credits[0].Amount.Equal(def.PrizeFirst))
}

func TestSettleStoreFailureAborts(t *testing.T) {
	// fail each call position once: settlement must surface the error
	// and stop emitting further writes
	for failOn := 1; failOn <= 5; failOn++ {
		t.Run(fmt.Sprintf("fail call %d", failOn), func(t *testing.T) {
			store := newFakeStore()
			store.failOn = failOn
			engine := NewEngine(
				WithSimulator(simulation.NewSimulator(simulation.WithSeed(4711))))
			_, err := engine.Settle(
				context.Background(), store, sampleDef(), sampleRoster())
			require.Error(t, err)
			assert.ErrorIs(t, err, errStore)
			assert.Equal(t, failOn, store.calls,
				"no further store calls after the failure")
		})
	}
}

func TestSettleBudgetMatchesLedger(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(WithSimulator(simulation.NewSimulator(simulation.WithSeed(7))))
	out, err := engine.Settle(
		context.Background(), store, sampleDef(), sampleRoster())
	require.NoError(t, err)

	// the budget cache is the running sum of the ledger
	want := map[int]decimal.Decimal{}
	for _, item := range out.Transactions {
		want[item.TeamID] = want[item.TeamID].Add(item.Amount)
	}
	for teamID, sum := range want {
		assert.True(t, store.budgets[teamID].Equal(sum))
	}
}

// verifyRanking asserts positions form 1..n without gaps and times are
// non-decreasing by position; returns the finishers ordered by position.
func verifyRanking(t *testing.T, results []*model.RaceResult) []*model.RaceResult {
	t.Helper()
	finished := filterFinished(results)
	sort.Slice(finished, func(a, b int) bool {
		return *finished[a].Position < *finished[b].Position
	})
	prev := 0.0
	for i, result := range finished {
		require.NotNil(t, result.Position)
		require.NotNil(t, result.FinishTimeMin)
		assert.Equal(t, i+1, *result.Position)
		assert.GreaterOrEqual(t, *result.FinishTimeMin, prev)
		prev = *result.FinishTimeMin
	}
	for _, result := range results {
		if result.Status == model.StatusDnf {
			assert.Nil(t, result.Position)
			assert.Nil(t, result.FinishTimeMin)
		}
	}
	return finished
}

func filterFinished(results []*model.RaceResult) []*model.RaceResult {
	ret := make([]*model.RaceResult, 0, len(results))
	for _, result := range results {
		if result.Status == model.StatusFinished {
			ret = append(ret, result)
		}
	}
	return ret
}

func filterCredits(items []*model.Transaction) []*model.Transaction {
	ret := make([]*model.Transaction, 0, len(items))
	for _, item := range items {
		if item.Amount.IsPositive() {
			ret = append(ret, item)
		}
	}
	return ret
}
