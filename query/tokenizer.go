package query

import "strings"

// Tokenize scans query text into a flat token stream. It is a total function:
// it never fails, turning unrecognized characters and unterminated string
// literals into error tokens instead. The returned stream always ends with an
// EOF token, so consumers can never read past it.
//
// Whitespace is insignificant, except newlines, which become tokens (the
// parser uses them for clause separation and filters them otherwise).
// Comments run from '//' to end of line and are discarded.
func Tokenize(text string) []Token {
	tokenizer := tokenizer{input: text, line: 1, column: 1}
	return tokenizer.run()
}

type tokenizer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []Token
}

func (t *tokenizer) run() []Token {
	for t.pos < len(t.input) {
		char := t.input[t.pos]

		switch {
		case char == '\n':
			t.emit(TokenNewline, "\n")
			t.pos++
			t.line++
			t.column = 1
		case char == ' ' || char == '\t' || char == '\r':
			t.advance(1)
		case char == '/' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '/':
			t.skipComment()
		case char == '\'' || char == '"':
			t.scanString(char)
		case char >= '0' && char <= '9':
			t.scanNumberOrDate()
		case isIdentifierStart(char):
			t.scanIdentifier()
		case char == ',':
			t.emit(TokenComma, ",")
			t.advance(1)
		case char == '(':
			t.emit(TokenLeftParen, "(")
			t.advance(1)
		case char == ')':
			t.emit(TokenRightParen, ")")
			t.advance(1)
		case char == '=':
			t.emit(TokenEqual, "=")
			t.advance(1)
		case char == '!' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '=':
			t.emit(TokenNotEqual, "!=")
			t.advance(2)
		case char == '>':
			// Longest match: >= before >.
			if t.pos+1 < len(t.input) && t.input[t.pos+1] == '=' {
				t.emit(TokenGreaterOrEqual, ">=")
				t.advance(2)
			} else {
				t.emit(TokenGreater, ">")
				t.advance(1)
			}
		case char == '<':
			if t.pos+1 < len(t.input) && t.input[t.pos+1] == '=' {
				t.emit(TokenLessOrEqual, "<=")
				t.advance(2)
			} else {
				t.emit(TokenLess, "<")
				t.advance(1)
			}
		default:
			t.emit(TokenError, string(char))
			t.advance(1)
		}
	}

	t.emit(TokenEOF, "")
	return t.tokens
}

func (t *tokenizer) emit(kind TokenKind, text string) {
	t.tokens = append(t.tokens, Token{Kind: kind, Text: text, Line: t.line, Column: t.column})
}

func (t *tokenizer) advance(count int) {
	t.pos += count
	t.column += count
}

func (t *tokenizer) skipComment() {
	for t.pos < len(t.input) && t.input[t.pos] != '\n' {
		t.advance(1)
	}
}

func (t *tokenizer) scanString(quote byte) {
	start := t.pos
	t.pos++
	t.column++

	for t.pos < len(t.input) && t.input[t.pos] != quote && t.input[t.pos] != '\n' {
		t.pos++
		t.column++
	}

	if t.pos >= len(t.input) || t.input[t.pos] == '\n' {
		// Unterminated literal: surfaced as an error token at the opening
		// quote, covering the rest of the line.
		t.tokens = append(t.tokens, Token{
			Kind:   TokenError,
			Text:   t.input[start:t.pos],
			Line:   t.line,
			Column: t.column - (t.pos - start),
		})
		return
	}

	text := t.input[start+1 : t.pos]
	t.pos++ // closing quote
	t.column++

	column := t.column - (t.pos - start)
	t.tokens = append(t.tokens, Token{Kind: TokenString, Text: text, Line: t.line, Column: column})
}

func (t *tokenizer) scanNumberOrDate() {
	start := t.pos
	startColumn := t.column

	for t.pos < len(t.input) && isNumberOrDateChar(t.input[t.pos]) {
		t.advance(1)
	}

	text := t.input[start:t.pos]
	kind := classifyNumericToken(text)

	if kind == TokenNumber && t.pos < len(t.input) && t.input[t.pos] == '%' {
		t.advance(1)
		kind = TokenPercentage
	}

	t.tokens = append(t.tokens, Token{Kind: kind, Text: text, Line: t.line, Column: startColumn})
}

func (t *tokenizer) scanIdentifier() {
	start := t.pos
	startColumn := t.column

	for t.pos < len(t.input) && isIdentifierChar(t.input[t.pos]) {
		t.advance(1)
	}

	text := t.input[start:t.pos]
	kind := TokenIdentifier
	if keyword, isKeyword := keywordKind(text); isKeyword {
		kind = keyword
	}

	t.tokens = append(t.tokens, Token{Kind: kind, Text: text, Line: t.line, Column: startColumn})
}

// classifyNumericToken decides between number, date and error for a
// digit-initiated token: plain integers and decimals are numbers, yyyy-mm-dd
// shapes are dates, and anything else (e.g. '12.3.4' or '2024-') is an error
// token.
func classifyNumericToken(text string) TokenKind {
	if dotCount := strings.Count(text, "."); dotCount <= 1 && !strings.Contains(text, "-") {
		if !strings.HasSuffix(text, ".") {
			return TokenNumber
		}
		return TokenError
	}

	if isDateShaped(text) {
		return TokenDate
	}
	return TokenError
}

func isDateShaped(text string) bool {
	parts := strings.Split(text, "-")
	if len(parts) != 3 {
		return false
	}
	if len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return false
	}
	for _, part := range parts {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return false
			}
		}
	}
	return true
}

func isIdentifierStart(char byte) bool {
	return (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || char == '_'
}

func isIdentifierChar(char byte) bool {
	return isIdentifierStart(char) || (char >= '0' && char <= '9') || char == '-'
}

func isNumberOrDateChar(char byte) bool {
	return (char >= '0' && char <= '9') || char == '.' || char == '-'
}
