package ast

import "hermannm.dev/enumnames"

// Aggregation is a function applied to a displayed field, e.g. SHOW sum(hours).
type Aggregation uint8

const (
	AggregationSum Aggregation = iota + 1
	AggregationAverage
	AggregationCount
	AggregationMin
	AggregationMax
)

var aggregationNames = enumnames.NewMap(map[Aggregation]string{
	AggregationSum:     "sum",
	AggregationAverage: "avg",
	AggregationCount:   "count",
	AggregationMin:     "min",
	AggregationMax:     "max",
})

func (aggregation Aggregation) IsValid() bool {
	return aggregationNames.ContainsEnumValue(aggregation)
}

func (aggregation Aggregation) String() string {
	return aggregationNames.GetNameOrFallback(aggregation, "INVALID_AGGREGATION")
}

func (aggregation Aggregation) MarshalJSON() ([]byte, error) {
	return aggregationNames.MarshalToNameJSON(aggregation)
}

func (aggregation *Aggregation) UnmarshalJSON(bytes []byte) error {
	return aggregationNames.UnmarshalFromNameJSON(bytes, aggregation)
}

// AggregationFromName maps a function name from query text to its enum value.
func AggregationFromName(name string) (Aggregation, bool) {
	for _, candidate := range []Aggregation{
		AggregationSum,
		AggregationAverage,
		AggregationCount,
		AggregationMin,
		AggregationMax,
	} {
		if candidate.String() == name {
			return candidate, true
		}
	}
	return 0, false
}
