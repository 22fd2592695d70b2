package query

import "hermannm.dev/enumnames"

type ViewKind uint8

const (
	ViewSummary ViewKind = iota + 1
	ViewChart
	ViewTable
	ViewFull
)

var viewKindNames = enumnames.NewMap(map[ViewKind]string{
	ViewSummary: "summary",
	ViewChart:   "chart",
	ViewTable:   "table",
	ViewFull:    "full",
})

func (viewKind ViewKind) IsValid() bool {
	return viewKindNames.ContainsEnumValue(viewKind)
}

func (viewKind ViewKind) String() string {
	return viewKindNames.GetNameOrFallback(viewKind, "INVALID_VIEW_KIND")
}

func (viewKind ViewKind) MarshalJSON() ([]byte, error) {
	return viewKindNames.MarshalToNameJSON(viewKind)
}

func (viewKind *ViewKind) UnmarshalJSON(bytes []byte) error {
	return viewKindNames.UnmarshalFromNameJSON(bytes, viewKind)
}

func ViewKindFromName(name string) (ViewKind, bool) {
	for _, candidate := range []ViewKind{ViewSummary, ViewChart, ViewTable, ViewFull} {
		if candidate.String() == name {
			return candidate, true
		}
	}
	return 0, false
}
