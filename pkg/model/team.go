package model

import "github.com/shopspring/decimal"

// Team owns cars and a budget. Members is free text
// (comma-separated driver names).
type Team struct {
	ID      int             `json:"id"`
	Name    string          `json:"name"`
	Members string          `json:"members"`
	Budget  decimal.Decimal `json:"budget"`
}
