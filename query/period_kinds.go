package query

import "hermannm.dev/enumnames"

type PeriodKind uint8

const (
	PeriodCurrentYear PeriodKind = iota + 1
	PeriodAllTime
	PeriodLast6Months
	PeriodLast12Months
)

var periodKindNames = enumnames.NewMap(map[PeriodKind]string{
	PeriodCurrentYear:  "current-year",
	PeriodAllTime:      "all-time",
	PeriodLast6Months:  "last-6-months",
	PeriodLast12Months: "last-12-months",
})

func (periodKind PeriodKind) IsValid() bool {
	return periodKindNames.ContainsEnumValue(periodKind)
}

func (periodKind PeriodKind) String() string {
	return periodKindNames.GetNameOrFallback(periodKind, "INVALID_PERIOD_KIND")
}

func (periodKind PeriodKind) MarshalJSON() ([]byte, error) {
	return periodKindNames.MarshalToNameJSON(periodKind)
}

func (periodKind *PeriodKind) UnmarshalJSON(bytes []byte) error {
	return periodKindNames.UnmarshalFromNameJSON(bytes, periodKind)
}

// TruncatesToRecentMonths returns how many trailing monthly buckets the
// period keeps, or false if it does not truncate by month count.
func (periodKind PeriodKind) TruncatesToRecentMonths() (int, bool) {
	switch periodKind {
	case PeriodLast6Months:
		return 6, true
	case PeriodLast12Months:
		return 12, true
	default:
		return 0, false
	}
}

func PeriodKindFromName(name string) (PeriodKind, bool) {
	for _, candidate := range []PeriodKind{
		PeriodCurrentYear, PeriodAllTime, PeriodLast6Months, PeriodLast12Months,
	} {
		if candidate.String() == name {
			return candidate, true
		}
	}
	return 0, false
}
