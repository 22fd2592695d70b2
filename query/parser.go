package query

import (
	"fmt"
	"strconv"
	"strings"

	"hermannm.dev/timereport/ast"
	"hermannm.dev/timereport/clause"
)

// ParseError is returned on any grammar violation. It carries the offending
// token's position and a description of what the parser expected, so callers
// can render a precise diagnostic. No partial query tree is ever returned
// alongside a ParseError.
type ParseError struct {
	Message  string `json:"message"`
	Token    Token  `json:"token"`
	Expected string `json:"expected,omitempty"`
}

func (err *ParseError) Error() string {
	message := fmt.Sprintf(
		"parse error at line %d, column %d: %s", err.Token.Line, err.Token.Column, err.Message,
	)
	if err.Expected != "" {
		message += fmt.Sprintf(" (expected %s)", err.Expected)
	}
	return message
}

// Parser is a recursive-descent consumer of token streams. A single parser
// can be reused: every Parse call resets its cursor state. It holds no
// reference to previously parsed trees.
//
// The registry determines which extension clause keywords the parser
// recognizes; everything else about extension clauses is left to the clause
// handlers. A nil registry disables extension clauses.
type Parser struct {
	registry *clause.Registry
	tokens   []Token
	pos      int
}

func NewParser(registry *clause.Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse is a convenience for tokenizing and parsing query text with the
// default extension clause registry.
func Parse(text string) (*ast.Query, error) {
	return NewParser(clause.NewDefaultRegistry()).Parse(text)
}

func (parser *Parser) Parse(text string) (*ast.Query, error) {
	return parser.ParseTokens(Tokenize(text))
}

func (parser *Parser) ParseTokens(tokens []Token) (*ast.Query, error) {
	parser.tokens = tokens
	parser.pos = 0

	query := &ast.Query{}

	for {
		parser.skipNewlines()
		token := parser.peek()
		if token.Kind == TokenEOF {
			break
		}

		parsedClause, err := parser.parseClause(token)
		if err != nil {
			return nil, err
		}
		query.Clauses = append(query.Clauses, parsedClause)
	}

	return query, nil
}

func (parser *Parser) parseClause(token Token) (ast.Node, error) {
	switch token.Kind {
	case TokenWhere:
		parser.next()
		return parser.parseWhereClause()
	case TokenShow:
		parser.next()
		return parser.parseShowClause()
	case TokenView:
		parser.next()
		name, err := parser.parseClauseName("view")
		if err != nil {
			return nil, err
		}
		return &ast.ViewClause{Name: name}, nil
	case TokenChart:
		parser.next()
		name, err := parser.parseClauseName("chart")
		if err != nil {
			return nil, err
		}
		return &ast.ChartClause{Name: name}, nil
	case TokenPeriod:
		parser.next()
		name, err := parser.parseClauseName("period")
		if err != nil {
			return nil, err
		}
		return &ast.PeriodClause{Name: name}, nil
	case TokenSize:
		parser.next()
		name, err := parser.parseClauseName("size")
		if err != nil {
			return nil, err
		}
		return &ast.SizeClause{Name: name}, nil
	case TokenOrder:
		parser.next()
		return parser.parseOrderByClause()
	case TokenGroup:
		parser.next()
		return parser.parseGroupByClause()
	case TokenHaving:
		parser.next()
		condition, err := parser.parseCondition()
		if err != nil {
			return nil, err
		}
		return &ast.HavingClause{Condition: condition}, nil
	case TokenLimit:
		parser.next()
		return parser.parseLimitClause()
	case TokenIdentifier:
		if _, isExtension := parser.registry.HandlerFor(token.Text); isExtension {
			parser.next()
			return parser.parseExtensionClause(token.Text)
		}
		return nil, parser.errorAt(
			token,
			fmt.Sprintf("unknown clause keyword '%s'", token.Text),
			parser.validClauseKeywords(),
		)
	case TokenError:
		return nil, parser.errorAt(token, lexicalErrorMessage(token), "")
	default:
		return nil, parser.errorAt(
			token,
			fmt.Sprintf("unexpected token '%s'", token.Text),
			parser.validClauseKeywords(),
		)
	}
}

// parseWhereClause parses `Condition ((AND|OR) Condition)*`. OR is accepted
// syntactically but carries no distinct semantics: all conditions are
// combined as AND. This mirrors the observed behavior of the original query
// surface and is deliberate, not a bug to fix silently.
func (parser *Parser) parseWhereClause() (*ast.WhereClause, error) {
	whereClause := &ast.WhereClause{}

	condition, err := parser.parseCondition()
	if err != nil {
		return nil, err
	}
	whereClause.Conditions = append(whereClause.Conditions, condition)

	for parser.consumeIfNext(TokenAnd, TokenOr) {
		condition, err := parser.parseCondition()
		if err != nil {
			return nil, err
		}
		whereClause.Conditions = append(whereClause.Conditions, condition)
	}

	return whereClause, nil
}

func (parser *Parser) parseCondition() (ast.Node, error) {
	left, err := parser.parseOperand()
	if err != nil {
		return nil, err
	}

	token := parser.peek()
	switch token.Kind {
	case TokenBetween:
		parser.next()
		return parser.parseBetween(left)
	case TokenIn:
		parser.next()
		return parser.parseIn(left)
	case TokenEqual, TokenNotEqual, TokenGreater, TokenLess,
		TokenGreaterOrEqual, TokenLessOrEqual,
		TokenContains, TokenStartsWith, TokenEndsWith:
		parser.next()
		right, err := parser.parseOperand()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{
			Left:     left,
			Operator: comparisonOperators[token.Kind],
			Right:    right,
		}, nil
	default:
		return nil, parser.errorAt(
			token,
			fmt.Sprintf("expected comparison operator after '%s'", formatOperand(left)),
			"one of =, !=, >, <, >=, <=, BETWEEN, IN, contains, startsWith, endsWith",
		)
	}
}

// parseBetween parses `BETWEEN Literal AND Literal`, producing an inclusive
// DateRange as the right-hand side.
func (parser *Parser) parseBetween(left ast.Node) (ast.Node, error) {
	from, err := parser.parseLiteral()
	if err != nil {
		return nil, err
	}

	if token := parser.peek(); token.Kind != TokenAnd {
		return nil, parser.errorAt(token, "BETWEEN requires AND between its bounds", "AND")
	}
	parser.next()

	to, err := parser.parseLiteral()
	if err != nil {
		return nil, err
	}

	return &ast.BinaryExpression{
		Left:     left,
		Operator: ast.OperatorBetween,
		Right:    &ast.DateRange{From: from, To: to},
	}, nil
}

// parseIn parses `IN '(' Literal (',' Literal)* ')'`.
func (parser *Parser) parseIn(left ast.Node) (ast.Node, error) {
	if token := parser.peek(); token.Kind != TokenLeftParen {
		return nil, parser.errorAt(token, "IN requires a parenthesized value list", "'('")
	}
	parser.next()

	values := &ast.List{}
	for {
		literal, err := parser.parseLiteral()
		if err != nil {
			return nil, err
		}
		values.Items = append(values.Items, literal)

		token := parser.peek()
		if token.Kind == TokenComma {
			parser.next()
			continue
		}
		if token.Kind == TokenRightParen {
			parser.next()
			break
		}
		return nil, parser.errorAt(token, "unterminated IN value list", "',' or ')'")
	}

	return &ast.InExpression{Field: left, Values: values}, nil
}

func (parser *Parser) parseOperand() (ast.Node, error) {
	token := parser.peek()

	switch token.Kind {
	case TokenIdentifier:
		parser.next()
		if isRelativeDate(token.Text) {
			return &ast.Literal{Value: token.Text, DataKind: ast.DataKindRelativeDate}, nil
		}
		return &ast.Identifier{Name: token.Text}, nil
	case TokenNumber, TokenString, TokenDate, TokenPercentage:
		return parser.parseLiteral()
	case TokenError:
		return nil, parser.errorAt(token, lexicalErrorMessage(token), "")
	default:
		return nil, parser.errorAt(
			token,
			fmt.Sprintf("unexpected token '%s'", token.Text),
			"field name or literal value",
		)
	}
}

func (parser *Parser) parseLiteral() (*ast.Literal, error) {
	token := parser.peek()

	switch token.Kind {
	case TokenNumber:
		parser.next()
		number, err := strconv.ParseFloat(token.Text, 64)
		if err != nil {
			return nil, parser.errorAt(
				token, fmt.Sprintf("invalid number literal '%s'", token.Text), "",
			)
		}
		return &ast.Literal{Value: number, DataKind: ast.DataKindNumber}, nil
	case TokenPercentage:
		parser.next()
		number, err := strconv.ParseFloat(token.Text, 64)
		if err != nil {
			return nil, parser.errorAt(
				token, fmt.Sprintf("invalid percentage literal '%s'", token.Text), "",
			)
		}
		return &ast.Literal{Value: number, DataKind: ast.DataKindPercentage}, nil
	case TokenString:
		parser.next()
		// Quoted dates keep their date data kind, so BETWEEN bounds written
		// as "2024-01-31" and bare 2024-01-31 parse identically.
		if isDateShaped(token.Text) {
			return &ast.Literal{Value: token.Text, DataKind: ast.DataKindDate}, nil
		}
		return &ast.Literal{Value: token.Text, DataKind: ast.DataKindString}, nil
	case TokenDate:
		parser.next()
		return &ast.Literal{Value: token.Text, DataKind: ast.DataKindDate}, nil
	case TokenIdentifier:
		if isRelativeDate(token.Text) {
			parser.next()
			return &ast.Literal{Value: token.Text, DataKind: ast.DataKindRelativeDate}, nil
		}
		return nil, parser.errorAt(
			token, fmt.Sprintf("expected literal value, got identifier '%s'", token.Text), "",
		)
	case TokenError:
		return nil, parser.errorAt(token, lexicalErrorMessage(token), "")
	default:
		return nil, parser.errorAt(
			token, fmt.Sprintf("expected literal value, got '%s'", token.Text), "",
		)
	}
}

// parseShowClause parses `SHOW Field (',' Field)*` where a field is an
// identifier or an aggregation call like sum(hours).
func (parser *Parser) parseShowClause() (*ast.ShowClause, error) {
	showClause := &ast.ShowClause{}

	for {
		field, err := parser.parseShowField()
		if err != nil {
			return nil, err
		}
		showClause.Fields = append(showClause.Fields, field)

		if parser.peek().Kind != TokenComma {
			break
		}
		parser.next()
		parser.skipNewlines()
	}

	return showClause, nil
}

func (parser *Parser) parseShowField() (ast.ShowField, error) {
	token := parser.peek()
	if token.Kind != TokenIdentifier {
		return ast.ShowField{}, parser.errorAt(
			token,
			fmt.Sprintf("expected field name in SHOW clause, got '%s'", token.Text),
			"identifier",
		)
	}
	parser.next()

	aggregation, isAggregation := ast.AggregationFromName(token.Text)
	if isAggregation && parser.peek().Kind == TokenLeftParen {
		parser.next()

		fieldToken := parser.peek()
		if fieldToken.Kind != TokenIdentifier {
			return ast.ShowField{}, parser.errorAt(
				fieldToken, "expected field name inside aggregation", "identifier",
			)
		}
		parser.next()

		if closing := parser.peek(); closing.Kind != TokenRightParen {
			return ast.ShowField{}, parser.errorAt(closing, "unterminated aggregation call", "')'")
		}
		parser.next()

		return ast.ShowField{
			Aggregation: &ast.AggregationFunction{
				Aggregation: aggregation,
				Field:       &ast.Identifier{Name: fieldToken.Text},
			},
		}, nil
	}

	return ast.ShowField{Field: &ast.Identifier{Name: token.Text}}, nil
}

// parseClauseName parses the single-word argument of VIEW/CHART/PERIOD/SIZE.
// Some of these names collide with clause keywords ('chart' is both a clause
// and a valid VIEW name), so keyword tokens are accepted here by their text.
func (parser *Parser) parseClauseName(clauseKind string) (string, error) {
	token := parser.peek()
	if token.Kind != TokenIdentifier && !isKeywordTokenKind(token.Kind) {
		return "", parser.errorAt(
			token,
			fmt.Sprintf("expected %s name, got '%s'", clauseKind, token.Text),
			"identifier",
		)
	}
	parser.next()
	return strings.ToLower(token.Text), nil
}

func (parser *Parser) parseOrderByClause() (*ast.OrderByClause, error) {
	if token := parser.peek(); token.Kind != TokenBy {
		return nil, parser.errorAt(token, "ORDER must be followed by BY", "BY")
	}
	parser.next()

	fieldToken := parser.peek()
	if fieldToken.Kind != TokenIdentifier {
		return nil, parser.errorAt(fieldToken, "expected field name after ORDER BY", "identifier")
	}
	parser.next()

	order := ast.SortOrderAscending
	switch parser.peek().Kind {
	case TokenAscending:
		parser.next()
	case TokenDescending:
		parser.next()
		order = ast.SortOrderDescending
	}

	return &ast.OrderByClause{Field: &ast.Identifier{Name: fieldToken.Text}, Order: order}, nil
}

func (parser *Parser) parseGroupByClause() (*ast.GroupByClause, error) {
	if token := parser.peek(); token.Kind != TokenBy {
		return nil, parser.errorAt(token, "GROUP must be followed by BY", "BY")
	}
	parser.next()

	groupBy := &ast.GroupByClause{}
	for {
		token := parser.peek()
		if token.Kind != TokenIdentifier {
			return nil, parser.errorAt(token, "expected field name after GROUP BY", "identifier")
		}
		parser.next()
		groupBy.Fields = append(groupBy.Fields, &ast.Identifier{Name: token.Text})

		if parser.peek().Kind != TokenComma {
			break
		}
		parser.next()
	}

	return groupBy, nil
}

func (parser *Parser) parseLimitClause() (*ast.LimitClause, error) {
	token := parser.peek()
	if token.Kind != TokenNumber {
		return nil, parser.errorAt(token, "expected row count after LIMIT", "number")
	}
	parser.next()

	count, err := strconv.Atoi(token.Text)
	if err != nil {
		return nil, parser.errorAt(
			token, fmt.Sprintf("LIMIT count must be a whole number, got '%s'", token.Text), "",
		)
	}
	return &ast.LimitClause{Count: count}, nil
}

// parseExtensionClause parses the argument list of a registered extension
// clause: literals/identifiers separated by commas, ending at a newline or
// the next clause keyword. Argument semantics are entirely the handler's
// concern.
func (parser *Parser) parseExtensionClause(keyword string) (*ast.ExtensionClause, error) {
	extension := &ast.ExtensionClause{Kind: strings.ToLower(keyword)}

	if !parser.atExtensionArgument() {
		return extension, nil
	}

	for {
		arg, err := parser.parseOperand()
		if err != nil {
			return nil, err
		}
		extension.Args = append(extension.Args, arg)

		if parser.peek().Kind != TokenComma {
			break
		}
		parser.next()
		parser.skipNewlines()
	}

	return extension, nil
}

func (parser *Parser) atExtensionArgument() bool {
	token := parser.peek()
	switch token.Kind {
	case TokenNumber, TokenString, TokenDate, TokenPercentage:
		return true
	case TokenIdentifier:
		// An identifier that names a registered extension clause starts the
		// next clause rather than continuing this one's arguments.
		_, isExtension := parser.registry.HandlerFor(token.Text)
		return !isExtension
	default:
		return false
	}
}

func (parser *Parser) validClauseKeywords() string {
	keywords := []string{
		"WHERE", "SHOW", "VIEW", "CHART", "PERIOD", "SIZE",
		"ORDER BY", "GROUP BY", "HAVING", "LIMIT",
	}
	for _, kind := range parser.registry.Kinds() {
		keywords = append(keywords, strings.ToUpper(kind))
	}
	return "one of " + strings.Join(keywords, ", ")
}

func (parser *Parser) peek() Token {
	if parser.pos < len(parser.tokens) {
		return parser.tokens[parser.pos]
	}
	// Defensive: Tokenize always terminates the stream with EOF.
	return Token{Kind: TokenEOF}
}

func (parser *Parser) next() Token {
	token := parser.peek()
	if parser.pos < len(parser.tokens) {
		parser.pos++
	}
	return token
}

func (parser *Parser) skipNewlines() {
	for parser.peek().Kind == TokenNewline {
		parser.next()
	}
}

// consumeIfNext consumes newlines plus a token of one of the given kinds, if
// that is what follows. Otherwise the cursor is left untouched, so newlines
// keep terminating the current clause.
func (parser *Parser) consumeIfNext(kinds ...TokenKind) bool {
	checkpoint := parser.pos
	parser.skipNewlines()

	token := parser.peek()
	for _, kind := range kinds {
		if token.Kind == kind {
			parser.next()
			return true
		}
	}

	parser.pos = checkpoint
	return false
}

func (parser *Parser) errorAt(token Token, message string, expected string) error {
	return &ParseError{Message: message, Token: token, Expected: expected}
}

func lexicalErrorMessage(token Token) string {
	if strings.HasPrefix(token.Text, "'") || strings.HasPrefix(token.Text, "\"") {
		return fmt.Sprintf("unterminated string literal %s", token.Text)
	}
	return fmt.Sprintf("unrecognized character sequence '%s'", token.Text)
}

func formatOperand(operand ast.Node) string {
	switch operand := operand.(type) {
	case *ast.Identifier:
		return operand.Name
	case *ast.Literal:
		return fmt.Sprintf("%v", operand.Value)
	default:
		return operand.NodeKind().String()
	}
}

var comparisonOperators = map[TokenKind]ast.Operator{
	TokenEqual:          ast.OperatorEqual,
	TokenNotEqual:       ast.OperatorNotEqual,
	TokenGreater:        ast.OperatorGreater,
	TokenLess:           ast.OperatorLess,
	TokenGreaterOrEqual: ast.OperatorGreaterOrEqual,
	TokenLessOrEqual:    ast.OperatorLessOrEqual,
	TokenContains:       ast.OperatorContains,
	TokenStartsWith:     ast.OperatorStartsWith,
	TokenEndsWith:       ast.OperatorEndsWith,
}

var relativeDateWords = map[string]bool{
	"today":      true,
	"yesterday":  true,
	"this-week":  true,
	"last-week":  true,
	"this-month": true,
	"last-month": true,
}

func isRelativeDate(word string) bool {
	return relativeDateWords[strings.ToLower(word)]
}
