package ast

import "hermannm.dev/enumnames"

type DataKind uint8

const (
	DataKindString DataKind = iota + 1
	DataKindNumber
	DataKindDate
	DataKindPercentage
	DataKindRelativeDate
)

var dataKindNames = enumnames.NewMap(map[DataKind]string{
	DataKindString:       "STRING",
	DataKindNumber:       "NUMBER",
	DataKindDate:         "DATE",
	DataKindPercentage:   "PERCENTAGE",
	DataKindRelativeDate: "RELATIVE_DATE",
})

func (dataKind DataKind) IsValid() bool {
	return dataKindNames.ContainsEnumValue(dataKind)
}

func (dataKind DataKind) String() string {
	return dataKindNames.GetNameOrFallback(dataKind, "INVALID_DATA_KIND")
}

func (dataKind DataKind) MarshalJSON() ([]byte, error) {
	return dataKindNames.MarshalToNameJSON(dataKind)
}

func (dataKind *DataKind) UnmarshalJSON(bytes []byte) error {
	return dataKindNames.UnmarshalFromNameJSON(bytes, dataKind)
}
