package hexcodec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidToken is returned (wrapped in a *TokenError) when a token is not a hex byte.
var ErrInvalidToken = errors.New("invalid hex byte")

// TokenError reports the first token that failed to decode.
type TokenError struct {
	Index int
	Token string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%v %q at position %d", ErrInvalidToken, e.Token, e.Index)
}

func (e *TokenError) Unwrap() error {
	return ErrInvalidToken
}

const digits = "0123456789abcdef"

// Decode parses whitespace-separated hex byte tokens ("AA b0 01") into bytes.
// Each token must be exactly two hex digits; case is ignored.
// Empty or whitespace-only input decodes to an empty, non-nil slice.
func Decode(text string) ([]byte, error) {
	tokens := strings.Fields(text)
	out := make([]byte, 0, len(tokens))
	for i, tok := range tokens {
		if len(tok) != 2 {
			return nil, &TokenError{Index: i, Token: tok}
		}
		hi, ok1 := nibble(tok[0])
		lo, ok2 := nibble(tok[1])
		if !ok1 || !ok2 {
			return nil, &TokenError{Index: i, Token: tok}
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

// Encode renders bytes as lowercase two-digit hex tokens joined by single spaces.
func Encode(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b)*3 - 1)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(digits[v>>4])
		sb.WriteByte(digits[v&0x0f])
	}
	return sb.String()
}

// Normalize lowercases the tokens of text and collapses whitespace to single spaces.
func Normalize(text string) (string, error) {
	b, err := Decode(text)
	if err != nil {
		return "", err
	}
	return Encode(b), nil
}

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
