package models

import (
	"strconv"
	"strings"
)

// Unescape resolves the escape sequences of a Swift or Objective-C string
// literal body. Unknown sequences are kept verbatim.
func Unescape(literal string) string {
	if !strings.Contains(literal, `\`) {
		return literal
	}

	var sb strings.Builder
	sb.Grow(len(literal))

	for i := 0; i < len(literal); i++ {
		c := literal[i]
		if c != '\\' || i+1 == len(literal) {
			sb.WriteByte(c)
			continue
		}

		next := literal[i+1]
		switch next {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '"', '\'', '\\':
			sb.WriteByte(next)
		case 'u':
			r, consumed, ok := unicodeEscape(literal[i+2:])
			if !ok {
				sb.WriteString(literal[i : i+2])
				break
			}
			sb.WriteRune(r)
			i += consumed
		default:
			sb.WriteString(literal[i : i+2])
		}
		i++
	}

	return sb.String()
}

// unicodeEscape decodes the part after `\u`: either `{1-8 hex}` (Swift) or
// exactly four hex digits (Objective-C).
func unicodeEscape(rest string) (rune, int, bool) {
	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 2 || end > 9 {
			return 0, 0, false
		}
		value, err := strconv.ParseUint(rest[1:end], 16, 32)
		if err != nil {
			return 0, 0, false
		}
		return rune(value), end + 1, true
	}

	if len(rest) < 4 {
		return 0, 0, false
	}
	value, err := strconv.ParseUint(rest[:4], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(value), 4, true
}
