package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind identifies the role of a token in the flat object grammar.
type TokenKind int

const (
	TokenKey TokenKind = iota
	TokenColon
	TokenValue
	TokenComma
)

func (k TokenKind) String() string {
	switch k {
	case TokenKey:
		return "key"
	case TokenColon:
		return "colon"
	case TokenValue:
		return "value"
	case TokenComma:
		return "comma"
	default:
		return "unknown"
	}
}

// Token is one lexical element of an object body.
type Token struct {
	Kind TokenKind
	Text string
	// Quoted is set on value tokens that were wrapped in double quotes.
	Quoted bool
}

func (t Token) value() (any, error) {
	if t.Quoted {
		return t.Text, nil
	}
	n, err := strconv.ParseInt(t.Text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q", ErrMalformedRecord, ErrInvalidInteger, t.Text)
	}
	return n, nil
}

// Lex turns the text of one object into a token stream.
//
// Every comma separates pairs and every pair splits on its first colon;
// there is no notion of quoting while splitting. Blank pairs are dropped.
func Lex(text string) ([]Token, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		return nil, fmt.Errorf("%w: missing enclosing braces", ErrMalformedRecord)
	}
	body := trimmed[1 : len(trimmed)-1]

	var tokens []Token
	for i, pair := range strings.Split(body, ",") {
		if i > 0 {
			tokens = append(tokens, Token{Kind: TokenComma, Text: ","})
		}

		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, val, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("%w: pair %q has no colon", ErrMalformedRecord, pair)
		}

		key = removeSurrounding(strings.TrimSpace(key), `"`)
		if key == "" {
			return nil, fmt.Errorf("%w: empty key in pair %q", ErrMalformedRecord, pair)
		}

		val = strings.TrimSpace(val)
		quoted := len(val) >= 2 && strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`)
		if quoted {
			val = val[1 : len(val)-1]
		}

		tokens = append(tokens,
			Token{Kind: TokenKey, Text: key},
			Token{Kind: TokenColon, Text: ":"},
			Token{Kind: TokenValue, Text: val, Quoted: quoted},
		)
	}
	return tokens, nil
}
