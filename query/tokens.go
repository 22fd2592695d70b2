// Package query implements the report query language: tokenizer, parser and
// interpreter. Query text flows through Tokenize -> Parse -> Interpret to
// produce a Descriptor, which the report package executes against time
// entries. Every stage is a pure function over immutable inputs, so the whole
// pipeline is safe to run concurrently from independent call sites.
package query

import (
	"strings"

	"hermannm.dev/enumnames"
)

// Token is one lexical unit of query text. Tokens are produced once per input
// and never mutated. Line and Column are 1-indexed, for diagnostics.
type Token struct {
	Kind   TokenKind `json:"kind"`
	Text   string    `json:"text"`
	Line   int       `json:"line"`
	Column int       `json:"column"`
}

type TokenKind uint8

const (
	TokenError TokenKind = iota + 1
	TokenEOF
	TokenNewline
	TokenIdentifier
	TokenNumber
	TokenString
	TokenDate
	TokenPercentage
	TokenComma
	TokenLeftParen
	TokenRightParen
	TokenEqual
	TokenNotEqual
	TokenGreater
	TokenLess
	TokenGreaterOrEqual
	TokenLessOrEqual
	TokenWhere
	TokenShow
	TokenView
	TokenChart
	TokenPeriod
	TokenSize
	TokenAnd
	TokenOr
	TokenBetween
	TokenIn
	TokenContains
	TokenStartsWith
	TokenEndsWith
	TokenOrder
	TokenGroup
	TokenBy
	TokenHaving
	TokenLimit
	TokenAscending
	TokenDescending
)

var tokenKindNames = enumnames.NewMap(map[TokenKind]string{
	TokenError:          "ERROR",
	TokenEOF:            "EOF",
	TokenNewline:        "NEWLINE",
	TokenIdentifier:     "IDENTIFIER",
	TokenNumber:         "NUMBER",
	TokenString:         "STRING",
	TokenDate:           "DATE",
	TokenPercentage:     "PERCENTAGE",
	TokenComma:          ",",
	TokenLeftParen:      "(",
	TokenRightParen:     ")",
	TokenEqual:          "=",
	TokenNotEqual:       "!=",
	TokenGreater:        ">",
	TokenLess:           "<",
	TokenGreaterOrEqual: ">=",
	TokenLessOrEqual:    "<=",
	TokenWhere:          "WHERE",
	TokenShow:           "SHOW",
	TokenView:           "VIEW",
	TokenChart:          "CHART",
	TokenPeriod:         "PERIOD",
	TokenSize:           "SIZE",
	TokenAnd:            "AND",
	TokenOr:             "OR",
	TokenBetween:        "BETWEEN",
	TokenIn:             "IN",
	TokenContains:       "contains",
	TokenStartsWith:     "startsWith",
	TokenEndsWith:       "endsWith",
	TokenOrder:          "ORDER",
	TokenGroup:          "GROUP",
	TokenBy:             "BY",
	TokenHaving:         "HAVING",
	TokenLimit:          "LIMIT",
	TokenAscending:      "ASC",
	TokenDescending:     "DESC",
})

func (kind TokenKind) IsValid() bool {
	return tokenKindNames.ContainsEnumValue(kind)
}

func (kind TokenKind) String() string {
	return tokenKindNames.GetNameOrFallback(kind, "INVALID_TOKEN_KIND")
}

func (kind TokenKind) MarshalJSON() ([]byte, error) {
	return tokenKindNames.MarshalToNameJSON(kind)
}

func (kind *TokenKind) UnmarshalJSON(bytes []byte) error {
	return tokenKindNames.UnmarshalFromNameJSON(bytes, kind)
}

// Keywords are case-insensitive. The wordy operators (contains, startsWith,
// endsWith) are matched case-insensitively too, so CONTAINS and contains lex
// to the same token kind.
var keywordTokenKinds = map[string]TokenKind{
	"WHERE":      TokenWhere,
	"SHOW":       TokenShow,
	"VIEW":       TokenView,
	"CHART":      TokenChart,
	"PERIOD":     TokenPeriod,
	"SIZE":       TokenSize,
	"AND":        TokenAnd,
	"OR":         TokenOr,
	"BETWEEN":    TokenBetween,
	"IN":         TokenIn,
	"CONTAINS":   TokenContains,
	"STARTSWITH": TokenStartsWith,
	"ENDSWITH":   TokenEndsWith,
	"ORDER":      TokenOrder,
	"GROUP":      TokenGroup,
	"BY":         TokenBy,
	"HAVING":     TokenHaving,
	"LIMIT":      TokenLimit,
	"ASC":        TokenAscending,
	"DESC":       TokenDescending,
}

func keywordKind(identifier string) (TokenKind, bool) {
	kind, isKeyword := keywordTokenKinds[strings.ToUpper(identifier)]
	return kind, isKeyword
}

func isKeywordTokenKind(kind TokenKind) bool {
	for _, keyword := range keywordTokenKinds {
		if kind == keyword {
			return true
		}
	}
	return false
}
