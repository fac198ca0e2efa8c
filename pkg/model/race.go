package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Race struct {
	ID          int             `json:"id"`
	Key         string          `json:"raceKey"`
	Name        string          `json:"name"`
	DistanceKm  float64         `json:"distanceKm"`
	EntryFee    decimal.Decimal `json:"entryFee"`
	PrizeFirst  decimal.Decimal `json:"prizeFirst"`
	PrizeSecond decimal.Decimal `json:"prizeSecond"`
	PrizeThird  decimal.Decimal `json:"prizeThird"`
	Preset      string          `json:"preset"`
	RecordStamp time.Time       `json:"recordDate"`
}

type ResultStatus string

const (
	StatusFinished ResultStatus = "FINISHED"
	StatusDnf      ResultStatus = "DNF"
)

// RaceResult holds the outcome for one car in one race.
// FinishTime and Position are nil iff the car did not finish.
type RaceResult struct {
	ID            int          `json:"id"`
	RaceID        int          `json:"raceId"`
	CarID         int          `json:"carId"`
	TeamID        int          `json:"teamId"`
	FinishTimeMin *float64     `json:"finishTimeMin,omitempty"`
	Status        ResultStatus `json:"status"`
	Position      *int         `json:"position,omitempty"`
}

// Transaction is an append-only ledger entry. A team budget is the
// running sum of its transaction amounts.
type Transaction struct {
	ID          int             `json:"id"`
	TeamID      int             `json:"teamId"`
	RaceID      *int            `json:"raceId,omitempty"`
	Amount      decimal.Decimal `json:"amount"` // negative: debit, positive: credit
	Currency    string          `json:"currency"`
	Reason      string          `json:"reason"`
	RecordStamp time.Time       `json:"recordDate"`
}
