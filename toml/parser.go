package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser builds a map[string]any document from the token stream
//
// Tables are map[string]any and arrays of tables are []map[string]any.
// Integers decode as int, floats as float64.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
	root  map[string]any
	scope map[string]any // table receiving key/value lines

	// headers already opened with [a.b]; reset below a path when [[a]] starts a new element
	defined map[string]bool
}

func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer:   NewLexer(input),
		root:    make(map[string]any),
		defined: make(map[string]bool),
	}
	p.advance()
	p.advance()
	p.scope = p.root
	return p
}

// errorf positions a syntax error at the current token
func (p *Parser) errorf(format string, args ...any) error {
	return errorAt(p.cur, format, args...)
}

func errorAt(tok Token, format string, args ...any) error {
	return &SyntaxError{Line: tok.Line, Col: tok.Col, Msg: fmt.Sprintf(format, args...)}
}

// advance shifts the lookahead, dropping comments
func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
	for p.peek.Type == TokenComment {
		p.peek = p.lexer.NextToken()
	}
}

// expect consumes a token of type tt or fails with msg
func (p *Parser) expect(tt TokenType, msg string) error {
	if p.cur.Type != tt {
		return p.errorf("%s, got %s", msg, p.cur)
	}
	p.advance()
	return nil
}

func (p *Parser) Parse() (map[string]any, error) {
	for p.cur.Type != TokenEOF {
		var err error
		switch p.cur.Type {
		case TokenNewline:
			p.advance()
			continue
		case TokenLBracket:
			err = p.header()
		case TokenIdent, TokenString:
			err = p.keyValue(p.scope)
		case TokenError:
			err = p.errorf("%s", p.cur.Literal)
		default:
			err = p.errorf("unexpected token %s", p.cur)
		}
		if err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

// header reads [a.b] or [[a.b]] and moves the scope there
func (p *Parser) header() error {
	at := p.cur
	p.advance()
	array := p.cur.Type == TokenLBracket
	if array {
		p.advance()
	}

	path, err := p.keyPath()
	if err != nil {
		return err
	}
	if array {
		if err := p.expect(TokenRBracket, "expected ]] to close array table"); err != nil {
			return err
		}
	}
	if err := p.expect(TokenRBracket, "expected ] to close table"); err != nil {
		return err
	}
	if p.cur.Type != TokenNewline && p.cur.Type != TokenEOF {
		return p.errorf("expected newline after table header, got %s", p.cur)
	}

	parent, err := walk(p.root, path[:len(path)-1], true)
	if err != nil {
		return errorAt(at, "%v", err)
	}
	last := path[len(path)-1]
	name := strings.Join(path, "\x00")

	if array {
		tables, ok := parent[last].([]map[string]any)
		if _, exists := parent[last]; exists && !ok {
			return errorAt(at, "key conflict: %s is not an array of tables", last)
		}
		t := make(map[string]any)
		parent[last] = append(tables, t)
		p.scope = t
		for k := range p.defined {
			if strings.HasPrefix(k, name+"\x00") {
				delete(p.defined, k)
			}
		}
		return nil
	}

	if p.defined[name] {
		return errorAt(at, "table %s defined twice", strings.Join(path, "."))
	}
	t, err := child(parent, last, false)
	if err != nil {
		return errorAt(at, "%v", err)
	}
	p.defined[name] = true
	p.scope = t
	return nil
}

// walk follows path from t, creating missing tables
// With intoArrays set, an array of tables is entered through its last element.
func walk(t map[string]any, path []string, intoArrays bool) (map[string]any, error) {
	for _, k := range path {
		next, err := child(t, k, intoArrays)
		if err != nil {
			return nil, err
		}
		t = next
	}
	return t, nil
}

func child(t map[string]any, k string, intoArrays bool) (map[string]any, error) {
	switch v := t[k].(type) {
	case nil:
		m := make(map[string]any)
		t[k] = m
		return m, nil
	case map[string]any:
		return v, nil
	case []map[string]any:
		if intoArrays && len(v) > 0 {
			return v[len(v)-1], nil
		}
	}
	return nil, fmt.Errorf("key conflict: %s is not a table", k)
}

func (p *Parser) keyValue(scope map[string]any) error {
	at := p.cur
	path, err := p.keyPath()
	if err != nil {
		return err
	}
	if err := p.expect(TokenEqual, "expected = after key"); err != nil {
		return err
	}
	val, err := p.parseValue()
	if err != nil {
		return err
	}
	return assign(scope, path, val, at)
}

// assign stores val under a dotted key; the last key must be new
func assign(scope map[string]any, path []string, val any, at Token) error {
	t, err := walk(scope, path[:len(path)-1], false)
	if err != nil {
		return errorAt(at, "%v", err)
	}
	last := path[len(path)-1]
	if _, exists := t[last]; exists {
		return errorAt(at, "duplicate key %s", last)
	}
	t[last] = val
	return nil
}

// keyPath reads one or more keys joined by dots
func (p *Parser) keyPath() ([]string, error) {
	var path []string
	for {
		if p.cur.Type != TokenIdent && p.cur.Type != TokenString {
			return nil, p.errorf("expected key, got %s", p.cur)
		}
		path = append(path, p.cur.Literal)
		p.advance()
		if p.cur.Type != TokenDot {
			return path, nil
		}
		p.advance()
	}
}

func (p *Parser) parseValue() (any, error) {
	tok := p.cur
	switch tok.Type {
	case TokenLBracket:
		return p.array()
	case TokenLBrace:
		return p.inlineTable()
	}

	var val any
	switch tok.Type {
	case TokenString:
		val = tok.Literal
	case TokenBool:
		val = tok.Literal == "true"
	case TokenInteger:
		n, err := parseInteger(tok.Literal)
		if err != nil {
			return nil, p.errorf("invalid integer %s", tok)
		}
		val = int(n)
	case TokenFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
		if err != nil {
			return nil, p.errorf("invalid float %s", tok)
		}
		val = f
	default:
		return nil, p.errorf("unexpected value %s", tok)
	}
	p.advance()
	return val, nil
}

// elements runs item for each element up to the closing token, skipping blank lines
// Arrays also accept a newline where a comma belongs.
func (p *Parser) elements(closing TokenType, newlineSeparates bool, what string, item func() error) error {
	closeLit := "]"
	if closing == TokenRBrace {
		closeLit = "}"
	}
	p.advance()
	for p.cur.Type != closing {
		if p.cur.Type == TokenNewline {
			p.advance()
			continue
		}
		if err := item(); err != nil {
			return err
		}
		switch {
		case p.cur.Type == TokenComma:
			p.advance()
		case p.cur.Type == closing:
		case newlineSeparates && p.cur.Type == TokenNewline:
			p.advance()
		default:
			return p.errorf("expected , or %s in %s", closeLit, what)
		}
	}
	p.advance()
	return nil
}

func (p *Parser) array() ([]any, error) {
	arr := make([]any, 0)
	err := p.elements(TokenRBracket, true, "array", func() error {
		v, err := p.parseValue()
		if err == nil {
			arr = append(arr, v)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return arr, nil
}

func (p *Parser) inlineTable() (map[string]any, error) {
	m := make(map[string]any)
	err := p.elements(TokenRBrace, false, "inline table", func() error {
		return p.keyValue(m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// parseInteger accepts decimal with underscores and 0x/0o/0b prefixes
func parseInteger(lit string) (int64, error) {
	lit = strings.ReplaceAll(lit, "_", "")
	sign := ""
	if lit != "" && (lit[0] == '+' || lit[0] == '-') {
		sign, lit = lit[:1], lit[1:]
	}
	base := 10
	if len(lit) > 2 && lit[0] == '0' {
		switch lit[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			lit = lit[2:]
		}
	}
	return strconv.ParseInt(sign+lit, base, 64)
}
