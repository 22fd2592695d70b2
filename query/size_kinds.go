package query

import "hermannm.dev/enumnames"

type SizeKind uint8

const (
	SizeCompact SizeKind = iota + 1
	SizeNormal
	SizeDetailed
)

var sizeKindNames = enumnames.NewMap(map[SizeKind]string{
	SizeCompact:  "compact",
	SizeNormal:   "normal",
	SizeDetailed: "detailed",
})

func (sizeKind SizeKind) IsValid() bool {
	return sizeKindNames.ContainsEnumValue(sizeKind)
}

func (sizeKind SizeKind) String() string {
	return sizeKindNames.GetNameOrFallback(sizeKind, "INVALID_SIZE_KIND")
}

func (sizeKind SizeKind) MarshalJSON() ([]byte, error) {
	return sizeKindNames.MarshalToNameJSON(sizeKind)
}

func (sizeKind *SizeKind) UnmarshalJSON(bytes []byte) error {
	return sizeKindNames.UnmarshalFromNameJSON(bytes, sizeKind)
}

func SizeKindFromName(name string) (SizeKind, bool) {
	for _, candidate := range []SizeKind{SizeCompact, SizeNormal, SizeDetailed} {
		if candidate.String() == name {
			return candidate, true
		}
	}
	return 0, false
}
