package ast

import "hermannm.dev/enumnames"

// Operator is a comparison operator usable in a WHERE condition.
type Operator uint8

const (
	OperatorEqual Operator = iota + 1
	OperatorNotEqual
	OperatorGreater
	OperatorLess
	OperatorGreaterOrEqual
	OperatorLessOrEqual
	OperatorBetween
	OperatorIn
	OperatorContains
	OperatorStartsWith
	OperatorEndsWith
)

var operatorNames = enumnames.NewMap(map[Operator]string{
	OperatorEqual:          "=",
	OperatorNotEqual:       "!=",
	OperatorGreater:        ">",
	OperatorLess:           "<",
	OperatorGreaterOrEqual: ">=",
	OperatorLessOrEqual:    "<=",
	OperatorBetween:        "BETWEEN",
	OperatorIn:             "IN",
	OperatorContains:       "contains",
	OperatorStartsWith:     "startsWith",
	OperatorEndsWith:       "endsWith",
})

func (operator Operator) IsValid() bool {
	return operatorNames.ContainsEnumValue(operator)
}

func (operator Operator) String() string {
	return operatorNames.GetNameOrFallback(operator, "INVALID_OPERATOR")
}

func (operator Operator) MarshalJSON() ([]byte, error) {
	return operatorNames.MarshalToNameJSON(operator)
}

func (operator *Operator) UnmarshalJSON(bytes []byte) error {
	return operatorNames.UnmarshalFromNameJSON(bytes, operator)
}

// ArithmeticOperator combines two expressions in a calculated field.
type ArithmeticOperator uint8

const (
	ArithmeticAdd ArithmeticOperator = iota + 1
	ArithmeticSubtract
	ArithmeticMultiply
	ArithmeticDivide
)

var arithmeticOperatorNames = enumnames.NewMap(map[ArithmeticOperator]string{
	ArithmeticAdd:      "+",
	ArithmeticSubtract: "-",
	ArithmeticMultiply: "*",
	ArithmeticDivide:   "/",
})

func (operator ArithmeticOperator) IsValid() bool {
	return arithmeticOperatorNames.ContainsEnumValue(operator)
}

func (operator ArithmeticOperator) String() string {
	return arithmeticOperatorNames.GetNameOrFallback(operator, "INVALID_ARITHMETIC_OPERATOR")
}

func (operator ArithmeticOperator) MarshalJSON() ([]byte, error) {
	return arithmeticOperatorNames.MarshalToNameJSON(operator)
}

func (operator *ArithmeticOperator) UnmarshalJSON(bytes []byte) error {
	return arithmeticOperatorNames.UnmarshalFromNameJSON(bytes, operator)
}
