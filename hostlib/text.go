package hostlib

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
	"alma.local/iogen/value"
)

// runeIndex converts a byte offset into a rune offset; -1 stays -1.
func runeIndex(s string, byteIdx int) int32 {
	if byteIdx < 0 {
		return -1
	}
	return int32(utf8.RuneCountInString(s[:byteIdx]))
}

func textHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return h
}

// compareText orders by the first differing rune, then by length.
func compareText(a, b string) int32 {
	ra, rb := []rune(a), []rune(b)
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] != rb[i] {
			return ra[i] - rb[i]
		}
	}
	return int32(len(ra) - len(rb))
}

func substring(s string, begin, end int32) (string, error) {
	rs := []rune(s)
	if begin < 0 || end > int32(len(rs)) || begin > end {
		return "", fmt.Errorf("%w: begin %d, end %d, length %d", ErrIndexOutOfRange, begin, end, len(rs))
	}
	return string(rs[begin:end]), nil
}

func repeat(s string, count int32) (string, error) {
	if count < 0 {
		return "", fmt.Errorf("%w: count is negative: %d", ErrIllegalArgument, count)
	}
	if int64(len(s))*int64(count) > maxTextBytes {
		return "", value.ErrResourceExhausted
	}
	return strings.Repeat(s, int(count)), nil
}

// indent shifts every line by n spaces, or strips up to -n leading
// whitespace runes, and terminates each line with '\n'.
func indent(s string, n int32) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n"), "\n")
	if strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\r") {
		lines = lines[:len(lines)-1]
	}
	var sb strings.Builder
	for _, line := range lines {
		switch {
		case n > 0:
			sb.WriteString(strings.Repeat(" ", int(n)))
			sb.WriteString(line)
		case n < 0:
			trimmed := line
			for i := int32(0); i < -n && trimmed != ""; i++ {
				r, size := utf8.DecodeRuneInString(trimmed)
				if !isHostWhitespace(r) {
					break
				}
				trimmed = trimmed[size:]
			}
			sb.WriteString(trimmed)
		default:
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// trimControl removes leading and trailing runes at or below U+0020.
func trimControl(s string) string {
	return strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
}

func textType() *catalog.TypeInfo {
	str := func(r any) string { return r.(string) }
	txt := ps(domains.Text)

	t := &catalog.TypeInfo{Name: domains.Text.Name, Value: domains.Text}
	return t.MustRegister(
		method("length", domains.Int32, nil, func(r any, _ []any) (any, error) {
			return int32(utf8.RuneCountInString(str(r))), nil
		}),
		method("isEmpty", domains.Bool, nil, func(r any, _ []any) (any, error) {
			return str(r) == "", nil
		}),
		method("isBlank", domains.Bool, nil, func(r any, _ []any) (any, error) {
			return strings.TrimFunc(str(r), isHostWhitespace) == "", nil
		}),
		method("charAt", domains.Char, ps(domains.Int32), func(r any, a []any) (any, error) {
			rs := []rune(str(r))
			i := a[0].(int32)
			if i < 0 || int(i) >= len(rs) {
				return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(rs))
			}
			return value.Char(rs[i]), nil
		}),
		method("indexOf", domains.Int32, txt, func(r any, a []any) (any, error) {
			return runeIndex(str(r), strings.Index(str(r), a[0].(string))), nil
		}),
		method("lastIndexOf", domains.Int32, txt, func(r any, a []any) (any, error) {
			return runeIndex(str(r), strings.LastIndex(str(r), a[0].(string))), nil
		}),
		method("contains", domains.Bool, txt, func(r any, a []any) (any, error) {
			return strings.Contains(str(r), a[0].(string)), nil
		}),
		method("startsWith", domains.Bool, txt, func(r any, a []any) (any, error) {
			return strings.HasPrefix(str(r), a[0].(string)), nil
		}),
		method("endsWith", domains.Bool, txt, func(r any, a []any) (any, error) {
			return strings.HasSuffix(str(r), a[0].(string)), nil
		}),
		method("toUpperCase", domains.Text, nil, func(r any, _ []any) (any, error) {
			return strings.ToUpper(str(r)), nil
		}),
		method("toLowerCase", domains.Text, nil, func(r any, _ []any) (any, error) {
			return strings.ToLower(str(r)), nil
		}),
		method("trim", domains.Text, nil, func(r any, _ []any) (any, error) {
			return trimControl(str(r)), nil
		}),
		method("strip", domains.Text, nil, func(r any, _ []any) (any, error) {
			return strings.TrimFunc(str(r), isHostWhitespace), nil
		}),
		method("substring", domains.Text, ps(domains.Int32, domains.Int32), func(r any, a []any) (any, error) {
			return substring(str(r), a[0].(int32), a[1].(int32))
		}),
		method("repeat", domains.Text, ps(domains.Int32), func(r any, a []any) (any, error) {
			return repeat(str(r), a[0].(int32))
		}),
		method("indent", domains.Text, ps(domains.Int32), func(r any, a []any) (any, error) {
			return indent(str(r), a[0].(int32)), nil
		}),
		method("concat", domains.Text, txt, func(r any, a []any) (any, error) {
			return str(r) + a[0].(string), nil
		}),
		method("compareTo", domains.Int32, txt, func(r any, a []any) (any, error) {
			return compareText(str(r), a[0].(string)), nil
		}),
		method("equalsIgnoreCase", domains.Bool, txt, func(r any, a []any) (any, error) {
			return strings.EqualFold(str(r), a[0].(string)), nil
		}),
		method("replace", domains.Text, ps(domains.Text, domains.Text), func(r any, a []any) (any, error) {
			return strings.ReplaceAll(str(r), a[0].(string), a[1].(string)), nil
		}),
		method("hashCode", domains.Int32, nil, func(r any, _ []any) (any, error) {
			return textHash(str(r)), nil
		}),
		method("chars", domains.Iter, nil, func(r any, _ []any) (any, error) {
			return []rune(str(r)), nil
		}),
		static("valueOf", domains.Text, ps(domains.Int32), func(_ any, a []any) (any, error) {
			return fmt.Sprint(a[0].(int32)), nil
		}),
		static("valueOf", domains.Text, ps(domains.Float64), func(_ any, a []any) (any, error) {
			return formatFloat(a[0].(float64), 64), nil
		}),
		static("valueOf", domains.Text, ps(domains.Bool), func(_ any, a []any) (any, error) {
			return fmt.Sprint(a[0].(bool)), nil
		}),
		static("valueOf", domains.Text, ps(domains.Char), func(_ any, a []any) (any, error) {
			return a[0].(value.Char).String(), nil
		}),
		static("join", domains.Text, ps(domains.Text, domains.ArrayOf(domains.Text)), func(_ any, a []any) (any, error) {
			return strings.Join(a[1].([]string), a[0].(string)), nil
		}),
	)
}
