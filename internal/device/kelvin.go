package device

import "strings"

// KelvinRange is the white temperature range a bulb model accepts
type KelvinRange struct {
	Min int
	Max int
}

// Contains reports whether kelvin is within the range
func (r KelvinRange) Contains(kelvin int) bool {
	return kelvin >= r.Min && kelvin <= r.Max
}

// Model prefixes, matched in order
var kelvinRanges = []struct {
	prefix string
	r      KelvinRange
}{
	{"LB130", KelvinRange{2500, 9000}},
	{"LB120", KelvinRange{2700, 6500}},
	{"LB230", KelvinRange{2500, 9000}},
	{"KB130", KelvinRange{2500, 9000}},
	{"KL130", KelvinRange{2500, 9000}},
	{"KL120(EU)", KelvinRange{2700, 6500}},
	{"KL120(US)", KelvinRange{2700, 5000}},
}

// KelvinRangeFor looks up the temperature range of a bulb model
func KelvinRangeFor(model string) (KelvinRange, bool) {
	for _, e := range kelvinRanges {
		if strings.HasPrefix(model, e.prefix) {
			return e.r, true
		}
	}
	return KelvinRange{}, false
}
