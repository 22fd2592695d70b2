package query

import "hermannm.dev/enumnames"

type ChartKind uint8

const (
	ChartTrend ChartKind = iota + 1
	ChartMonthly
	ChartBudget
)

var chartKindNames = enumnames.NewMap(map[ChartKind]string{
	ChartTrend:   "trend",
	ChartMonthly: "monthly",
	ChartBudget:  "budget",
})

func (chartKind ChartKind) IsValid() bool {
	return chartKindNames.ContainsEnumValue(chartKind)
}

func (chartKind ChartKind) String() string {
	return chartKindNames.GetNameOrFallback(chartKind, "INVALID_CHART_KIND")
}

func (chartKind ChartKind) MarshalJSON() ([]byte, error) {
	return chartKindNames.MarshalToNameJSON(chartKind)
}

func (chartKind *ChartKind) UnmarshalJSON(bytes []byte) error {
	return chartKindNames.UnmarshalFromNameJSON(bytes, chartKind)
}

func ChartKindFromName(name string) (ChartKind, bool) {
	for _, candidate := range []ChartKind{ChartTrend, ChartMonthly, ChartBudget} {
		if candidate.String() == name {
			return candidate, true
		}
	}
	return 0, false
}
