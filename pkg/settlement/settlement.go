package settlement

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/rally-manager-go/pkg/model"
	"github.com/mpapenbr/rally-manager-go/pkg/simulation"
)

// ErrEmptyRoster is returned when no cars are available to race.
// Nothing is persisted in that case.
var ErrEmptyRoster = errors.New("no cars available to race")

// prizes are paid for the first three positions at most
const maxPrizePositions = 3

// RaceDef describes the race to be run.
type RaceDef struct {
	Name        string
	DistanceKm  float64
	EntryFee    decimal.Decimal
	PrizeFirst  decimal.Decimal
	PrizeSecond decimal.Decimal
	PrizeThird  decimal.Decimal
	Preset      string
	Currency    string
}

// Store is the persistence collaborator for a settlement run.
// RecordTransaction must also atomically adjust the team budget by the
// transaction amount.
type Store interface {
	CreateRace(ctx context.Context, race *model.Race) error
	RecordTransaction(ctx context.Context, item *model.Transaction) error
	InsertResult(ctx context.Context, result *model.RaceResult) error
}

// Outcome is the settled race: one result per roster car plus the
// ledger entries in the order they were generated (entry fees before
// prizes).
type Outcome struct {
	Race         model.Race
	Results      []*model.RaceResult
	Transactions []*model.Transaction
}

// Simulator computes the raw outcome for a single car.
// Implemented by simulation.Simulator.
type Simulator interface {
	Simulate(
		car *model.Car,
		distanceKm float64,
		profile simulation.Profile,
	) simulation.Outcome
}

// Engine runs the post-simulation settlement: entry fee collection,
// ranking, prize distribution and result persistence.
type Engine struct {
	sim Simulator
	rnd *rand.Rand
}

type Option func(e *Engine)

func WithSimulator(sim Simulator) Option {
	return func(e *Engine) {
		e.sim = sim
	}
}

// WithRand sets the random source used for the all-dnf fallback time.
func WithRand(rnd *rand.Rand) Option {
	return func(e *Engine) {
		e.rnd = rnd
	}
}

func NewEngine(opts ...Option) *Engine {
	ret := &Engine{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.rnd == nil {
		ret.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if ret.sim == nil {
		ret.sim = simulation.NewSimulator(simulation.WithRand(ret.rnd))
	}
	return ret
}

// Settle executes a complete race for the given roster.
// Any store error aborts the remaining steps and is returned to the
// caller. Run Settle against a transactional store so a mid-sequence
// failure leaves no partial race behind.
//
//nolint:funlen // sequence of the settlement steps
func (e *Engine) Settle(
	ctx context.Context,
	store Store,
	def *RaceDef,
	roster []*model.CarWithTeam,
) (*Outcome, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}

	ret := &Outcome{
		Race: model.Race{
			Key:         uuid.NewString(),
			Name:        def.Name,
			DistanceKm:  def.DistanceKm,
			EntryFee:    def.EntryFee,
			PrizeFirst:  def.PrizeFirst,
			PrizeSecond: def.PrizeSecond,
			PrizeThird:  def.PrizeThird,
			Preset:      def.Preset,
		},
	}
	if err := store.CreateRace(ctx, &ret.Race); err != nil {
		return nil, fmt.Errorf("create race: %w", err)
	}

	// one entry fee per distinct team, not per car
	teamIDs := lo.Uniq(lo.Map(roster,
		func(item *model.CarWithTeam, _ int) int { return item.TeamID }))
	slices.Sort(teamIDs)
	for _, teamID := range teamIDs {
		item := &model.Transaction{
			TeamID:   teamID,
			RaceID:   &ret.Race.ID,
			Amount:   def.EntryFee.Neg(),
			Currency: def.Currency,
			Reason:   fmt.Sprintf("Entry fee for %s", def.Name),
		}
		if err := store.RecordTransaction(ctx, item); err != nil {
			return nil, fmt.Errorf("collect entry fee: %w", err)
		}
		ret.Transactions = append(ret.Transactions, item)
	}

	profile := simulation.ProfileByName(def.Preset)
	raw := make([]simulation.Outcome, len(roster))
	for i, entry := range roster {
		raw[i] = e.sim.Simulate(&entry.Car, def.DistanceKm, profile)
	}

	e.rescueAllDnf(raw, def.DistanceKm)
	results := e.rankResults(ret.Race.ID, roster, raw)

	if err := e.payPrizes(ctx, store, ret, def, results); err != nil {
		return nil, err
	}

	for _, result := range results {
		if err := store.InsertResult(ctx, result); err != nil {
			return nil, fmt.Errorf("insert race result: %w", err)
		}
	}
	ret.Results = results
	return ret, nil
}

// rescueAllDnf forces one finisher when the whole roster failed its
// reliability trial: a race must always produce at least one placed
// finisher so prizes are awarded. The car with the lowest recorded
// time wins the rescue (ties by roster order). If no time is recorded
// at all, the first car gets a fabricated one.
func (e *Engine) rescueAllDnf(raw []simulation.Outcome, distanceKm float64) {
	for i := range raw {
		if !raw[i].Dnf {
			return
		}
	}
	best := -1
	for i := range raw {
		if raw[i].TimeMinutes <= 0 {
			continue
		}
		if best == -1 || raw[i].TimeMinutes < raw[best].TimeMinutes {
			best = i
		}
	}
	if best == -1 {
		best = 0
		low, high := distanceKm/3, distanceKm/2
		raw[best].TimeMinutes = low + e.rnd.Float64()*(high-low)
	}
	raw[best].Dnf = false
}

// rankResults orders the finishers by ascending time and assigns
// 1-based positions. Dnf cars get neither time nor position.
func (e *Engine) rankResults(
	raceID int,
	roster []*model.CarWithTeam,
	raw []simulation.Outcome,
) []*model.RaceResult {
	results := make([]*model.RaceResult, len(roster))
	finishers := make([]int, 0, len(roster))
	for i, entry := range roster {
		results[i] = &model.RaceResult{
			RaceID: raceID,
			CarID:  entry.ID,
			TeamID: entry.TeamID,
			Status: model.StatusDnf,
		}
		if !raw[i].Dnf {
			finishTime := raw[i].TimeMinutes
			results[i].Status = model.StatusFinished
			results[i].FinishTimeMin = &finishTime
			finishers = append(finishers, i)
		}
	}
	sort.SliceStable(finishers, func(a, b int) bool {
		return raw[finishers[a]].TimeMinutes < raw[finishers[b]].TimeMinutes
	})
	for pos, idx := range finishers {
		position := pos + 1
		results[idx].Position = &position
	}
	return results
}

func (e *Engine) payPrizes(
	ctx context.Context,
	store Store,
	out *Outcome,
	def *RaceDef,
	results []*model.RaceResult,
) error {
	prizes := []decimal.Decimal{def.PrizeFirst, def.PrizeSecond, def.PrizeThird}
	ranked := lo.Filter(results, func(item *model.RaceResult, _ int) bool {
		return item.Position != nil
	})
	sort.Slice(ranked, func(a, b int) bool {
		return *ranked[a].Position < *ranked[b].Position
	})
	for i := 0; i < min(maxPrizePositions, len(ranked)); i++ {
		if !prizes[i].IsPositive() {
			continue
		}
		item := &model.Transaction{
			TeamID:   ranked[i].TeamID,
			RaceID:   &out.Race.ID,
			Amount:   prizes[i],
			Currency: def.Currency,
			Reason:   fmt.Sprintf("Prize for position %d in %s", i+1, def.Name),
		}
		if err := store.RecordTransaction(ctx, item); err != nil {
			return fmt.Errorf("pay prize: %w", err)
		}
		out.Transactions = append(out.Transactions, item)
	}
	return nil
}
