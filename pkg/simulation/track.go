package simulation

// Segment describes a part of the track as a fraction of the total
// race distance together with its speed and handling modifiers.
type Segment struct {
	Fraction       float64 `json:"fraction"`
	SpeedFactor    float64 `json:"speedFactor"`
	HandlingFactor float64 `json:"handlingFactor"`
}

// Profile is a named track preset. The segment fractions of a profile
// partition the race distance exactly (they sum up to 1.0).
type Profile struct {
	Name     string    `json:"name"`
	Segments []Segment `json:"segments"`
}

const (
	PresetFastAsphalt  = "Fast asphalt"
	PresetGravelTwisty = "Gravel twisty"
	PresetMixed        = "Mixed (default)"
)

var profiles = []Profile{
	{
		Name: PresetFastAsphalt,
		Segments: []Segment{
			{Fraction: 1.0, SpeedFactor: 1.05, HandlingFactor: 1.0},
		},
	},
	{
		Name: PresetGravelTwisty,
		Segments: []Segment{
			{Fraction: 0.6, SpeedFactor: 0.8, HandlingFactor: 0.9},
			{Fraction: 0.4, SpeedFactor: 0.7, HandlingFactor: 0.85},
		},
	},
	{
		Name: PresetMixed,
		Segments: []Segment{
			{Fraction: 0.4, SpeedFactor: 0.95, HandlingFactor: 0.98},
			{Fraction: 0.3, SpeedFactor: 0.85, HandlingFactor: 0.92},
			{Fraction: 0.3, SpeedFactor: 0.75, HandlingFactor: 0.9},
		},
	},
}

// ProfileByName resolves a preset by its name.
// Unknown names resolve to the mixed profile.
func ProfileByName(name string) Profile {
	for i := range profiles {
		if profiles[i].Name == name {
			return profiles[i]
		}
	}
	return profiles[len(profiles)-1]
}

// ProfileNames returns the available preset names.
func ProfileNames() []string {
	ret := make([]string, 0, len(profiles))
	for i := range profiles {
		ret = append(ret, profiles[i].Name)
	}
	return ret
}
