package config

// Slider is the range of one interactive control.
type Slider struct {
	Key   string
	Label string
	Min   float64
	Max   float64
	Step  float64
}

// Sliders lists the interactive controls in display order.
var Sliders = []Slider{
	{Key: "L", Label: "L (Inductance)", Min: 0.1, Max: 5, Step: 0.1},
	{Key: "R", Label: "R (Resistance)", Min: 0.1, Max: 10, Step: 0.1},
	{Key: "T", Label: "T (Time Period)", Min: 0.1, Max: 5, Step: 0.1},
	{Key: "alpha", Label: "Alpha (Duty Cycle)", Min: 0, Max: 1, Step: 0.05},
}

// Clamp limits v to the slider range.
func (s Slider) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Fraction is the position of v within the range, in [0, 1].
func (s Slider) Fraction(v float64) float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Clamp(v) - s.Min) / (s.Max - s.Min)
}
