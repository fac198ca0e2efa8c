package model

type Car struct {
	ID          int     `json:"id"`
	TeamID      int     `json:"teamId"`
	Name        string  `json:"name"`
	TopSpeedKmh float64 `json:"topSpeedKmh"`
	Accel0100S  float64 `json:"accel0100S"` // seconds from 0 to 100 km/h
	Handling    int     `json:"handling"`   // 50-100
	Reliability float64 `json:"reliability"`
	WeightKg    int     `json:"weightKg"`
}

// CarWithTeam is the roster entry used for races.
type CarWithTeam struct {
	Car
	TeamName string `json:"teamName"`
}
