package token

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NeedsQuote reports whether v must be quoted to be read back as a single
// name or untyped value segment.
func NeedsQuote(v string) bool {
	if v == "" || strings.ContainsRune(v, ':') {
		return true
	}
	return NeedsQuoteTail(v)
}

// NeedsQuoteTail reports whether v must be quoted when it is the last
// segment of a line, where colons are read as content.
func NeedsQuoteTail(v string) bool {
	if v == "" {
		return false
	}
	if strings.TrimSpace(v) != v {
		return true
	}
	if v[0] == '"' || strings.HasPrefix(v, `@"`) || strings.HasPrefix(v, "//") || strings.HasPrefix(v, "/*") {
		return true
	}
	for _, r := range v {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return true
		}
	}
	return false
}

// QuoteAuto quotes v as a multiline string when it spans lines and holds no
// other control characters, and as a single line string otherwise.
func QuoteAuto(v string) string {
	if !strings.ContainsRune(v, '\n') {
		return Quote(v)
	}
	for _, r := range v {
		if unicode.IsControl(r) && r != '\n' && r != '\r' {
			return Quote(v)
		}
	}
	return MQuote(v)
}

// Quote writes v as a single line string literal.
func Quote(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&b, `\x%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Unquote reads a single line string literal including its quotes.
func Unquote(v string) (string, error) {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return "", fmt.Errorf("%w: %q", ErrUnterminated, v)
	}
	v = v[1 : len(v)-1]
	if !strings.ContainsRune(v, '\\') {
		return v, nil
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(v) {
			return "", fmt.Errorf("%w: trailing backslash", ErrBadEscape)
		}
		switch v[i] {
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '\\':
			b.WriteByte('\\')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case 'x':
			if i+5 > len(v) {
				return "", fmt.Errorf("%w: short \\x escape", ErrBadUnicode)
			}
			r, err := strconv.ParseUint(v[i+1:i+5], 16, 32)
			if err != nil {
				return "", fmt.Errorf("%w: %q: %w", ErrBadUnicode, v[i+1:i+5], err)
			}
			b.WriteRune(rune(r))
			i += 4
		default:
			return "", fmt.Errorf("%w: '\\%c'", ErrBadEscape, v[i])
		}
	}
	return b.String(), nil
}

// MQuote writes v as a multiline string literal.
func MQuote(v string) string {
	return `@"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// MUnquote reads a multiline string literal including its @" prefix and
// closing quote. Line endings are normalized to "\n".
func MUnquote(v string) (string, error) {
	if len(v) < 3 || !strings.HasPrefix(v, `@"`) || v[len(v)-1] != '"' {
		return "", fmt.Errorf("%w: %q", ErrUnterminated, v)
	}
	v = v[2 : len(v)-1]
	v = strings.ReplaceAll(v, `""`, `"`)
	return strings.ReplaceAll(v, "\r\n", "\n"), nil
}

// scanQuoted returns the offset just past the single line string starting
// at d[i].
func scanQuoted(d []byte, i int, pd *PosDoc) (int, error) {
	start := i
	i++
	for i < len(d) {
		switch d[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1, nil
		case '\n', '\r':
			return 0, NewTokenizeErr(fmt.Errorf("%w: newline in string", ErrUnterminated), pd.Pos(start))
		}
		i++
	}
	return 0, NewTokenizeErr(ErrUnterminated, pd.Pos(start))
}

// scanMQuoted returns the offset just past the multiline string starting
// at d[i], which holds the '@'.
func scanMQuoted(d []byte, i int, pd *PosDoc) (int, error) {
	start := i
	i += 2
	for i < len(d) {
		switch d[i] {
		case '"':
			if i+1 < len(d) && d[i+1] == '"' {
				i += 2
				continue
			}
			return i + 1, nil
		case '\n':
			pd.nl(i)
		}
		i++
	}
	return 0, NewTokenizeErr(ErrUnterminated, pd.Pos(start))
}
