package toml

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer state machine
type Lexer struct {
	input []byte
	pos   int // current position in input (points to current char)
	line  int
	col   int

	// position of the token being scanned
	startLine int
	startCol  int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.startLine, l.startCol = l.line, l.col

	if l.pos >= len(l.input) {
		return l.newToken(TokenEOF, "")
	}

	ch := l.peek()

	if typ, ok := punctuation[ch]; ok {
		l.advance()
		return l.newToken(typ, string(ch))
	}

	switch {
	case ch == '#':
		return l.readComment()
	case ch == '"':
		return l.readBasicString()
	case ch == '\'':
		return l.readLiteralString()
	case isDigit(ch) || isAlpha(ch) || ch == '+' || ch == '-' || ch == '_':
		return l.readBareOrNumber()
	}

	l.advance()
	return l.newToken(TokenError, fmt.Sprintf("unexpected character %q", ch))
}

// punctuation maps single-character tokens; newlines end statements
var punctuation = map[rune]TokenType{
	'\n': TokenNewline,
	'=':  TokenEqual,
	'.':  TokenDot,
	',':  TokenComma,
	'[':  TokenLBracket,
	']':  TokenRBracket,
	'{':  TokenLBrace,
	'}':  TokenRBrace,
}

func (l *Lexer) newToken(typ TokenType, literal string) Token {
	return Token{Type: typ, Literal: literal, Line: l.startLine, Col: l.startCol}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) readComment() Token {
	l.advance() // #
	start := l.pos
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return l.newToken(TokenComment, string(l.input[start:l.pos]))
}

// readBasicString scans "..." and resolves escapes
func (l *Lexer) readBasicString() Token {
	l.advance() // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.advance()
		switch ch {
		case '\n':
			return l.newToken(TokenError, "newline in basic string")
		case '"':
			return l.newToken(TokenString, b.String())
		case '\\':
			if err := l.readEscape(&b); err != "" {
				return l.newToken(TokenError, err)
			}
		default:
			b.WriteRune(ch)
		}
	}
	return l.newToken(TokenError, "unterminated string")
}

func (l *Lexer) readEscape(b *strings.Builder) string {
	esc := l.advance()
	switch esc {
	case '"':
		b.WriteByte('"')
	case '\\':
		b.WriteByte('\\')
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'u', 'U':
		n := 4
		if esc == 'U' {
			n = 8
		}
		if l.pos+n > len(l.input) {
			return "truncated unicode escape"
		}
		hex := string(l.input[l.pos : l.pos+n])
		code, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return fmt.Sprintf("invalid unicode escape \\%c%s", esc, hex)
		}
		for range n {
			l.advance()
		}
		b.WriteRune(rune(code))
	default:
		return fmt.Sprintf("invalid escape \\%c", esc)
	}
	return ""
}

// readLiteralString scans '...' verbatim
func (l *Lexer) readLiteralString() Token {
	l.advance() // opening quote
	start := l.pos
	for l.pos < len(l.input) {
		switch l.peek() {
		case '\n':
			return l.newToken(TokenError, "newline in literal string")
		case '\'':
			lit := string(l.input[start:l.pos])
			l.advance()
			return l.newToken(TokenString, lit)
		}
		l.advance()
	}
	return l.newToken(TokenError, "unterminated string")
}

// readBareOrNumber scans a bare key, boolean or number; dots continue only numbers
func (l *Lexer) readBareOrNumber() Token {
	start := l.pos
	first := l.peek()
	numeric := isDigit(first) || first == '+' || first == '-'
	for l.pos < len(l.input) {
		ch := l.peek()
		if !(isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '-' || ch == '+' || (ch == '.' && numeric)) {
			break
		}
		l.advance()
	}
	lit := string(l.input[start:l.pos])
	return l.newToken(classifyWord(lit, numeric), lit)
}

func classifyWord(lit string, numeric bool) TokenType {
	if lit == "true" || lit == "false" {
		return TokenBool
	}
	if !numeric {
		return TokenIdent
	}
	digits := strings.TrimLeft(lit, "+-")
	if len(digits) > 2 && digits[0] == '0' && strings.ContainsRune("xXoObB", rune(digits[1])) {
		return TokenInteger
	}
	if strings.ContainsFunc(lit, func(r rune) bool { return isAlpha(r) && r != 'e' && r != 'E' }) {
		return TokenIdent
	}
	if strings.ContainsAny(lit, ".eE") {
		return TokenFloat
	}
	return TokenInteger
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
