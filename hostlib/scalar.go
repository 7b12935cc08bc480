package hostlib

import (
	"strings"
	"unicode"

	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
	"alma.local/iogen/value"
)

func boolType() *catalog.TypeInfo {
	two := ps(domains.Bool, domains.Bool)
	t := &catalog.TypeInfo{Name: domains.Bool.Name, Value: domains.Bool}
	return t.MustRegister(
		static("compare", domains.Int32, two, func(_ any, a []any) (any, error) {
			return int32(compareBool(a[0].(bool), a[1].(bool))), nil
		}),
		static("logicalAnd", domains.Bool, two, func(_ any, a []any) (any, error) {
			return a[0].(bool) && a[1].(bool), nil
		}),
		static("logicalOr", domains.Bool, two, func(_ any, a []any) (any, error) {
			return a[0].(bool) || a[1].(bool), nil
		}),
		static("logicalXor", domains.Bool, two, func(_ any, a []any) (any, error) {
			return a[0].(bool) != a[1].(bool), nil
		}),
		static("parse", domains.Bool, ps(domains.Text), func(_ any, a []any) (any, error) {
			return strings.EqualFold(a[0].(string), "true"), nil
		}),
		static("toString", domains.Text, ps(domains.Bool), func(_ any, a []any) (any, error) {
			if a[0].(bool) {
				return "true", nil
			}
			return "false", nil
		}),
		method("compareTo", domains.Int32, ps(domains.Bool), func(r any, a []any) (any, error) {
			return int32(compareBool(r.(bool), a[0].(bool))), nil
		}),
	)
}

// isHostWhitespace matches separators except the non-breaking ones, plus the
// ASCII control whitespace.
func isHostWhitespace(r rune) bool {
	switch {
	case r >= '\t' && r <= '\r', r >= 0x1c && r <= 0x1f:
		return true
	case r == 0xa0 || r == 0x2007 || r == 0x202f:
		return false
	}
	return unicode.In(r, unicode.Zs, unicode.Zl, unicode.Zp)
}

func charPredicate(name string, fn func(rune) bool) *catalog.Operation {
	return static(name, domains.Bool, ps(domains.Char), func(_ any, a []any) (any, error) {
		return fn(rune(a[0].(value.Char))), nil
	})
}

func charType() *catalog.TypeInfo {
	t := &catalog.TypeInfo{Name: domains.Char.Name, Value: domains.Char}
	return t.MustRegister(
		charPredicate("isDigit", unicode.IsDigit),
		charPredicate("isLetter", unicode.IsLetter),
		charPredicate("isLetterOrDigit", func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }),
		charPredicate("isWhitespace", isHostWhitespace),
		charPredicate("isUpperCase", unicode.IsUpper),
		charPredicate("isLowerCase", unicode.IsLower),
		static("toUpperCase", domains.Char, ps(domains.Char), func(_ any, a []any) (any, error) {
			return value.Char(unicode.ToUpper(rune(a[0].(value.Char)))), nil
		}),
		static("toLowerCase", domains.Char, ps(domains.Char), func(_ any, a []any) (any, error) {
			return value.Char(unicode.ToLower(rune(a[0].(value.Char)))), nil
		}),
		static("compare", domains.Int32, ps(domains.Char, domains.Char), func(_ any, a []any) (any, error) {
			return int32(a[0].(value.Char)) - int32(a[1].(value.Char)), nil
		}),
		static("digit", domains.Int32, ps(domains.Char, domains.Int32), func(_ any, a []any) (any, error) {
			return digit(rune(a[0].(value.Char)), a[1].(int32)), nil
		}),
		static("forDigit", domains.Char, ps(domains.Int32, domains.Int32), func(_ any, a []any) (any, error) {
			d, radix := a[0].(int32), a[1].(int32)
			if radix < 2 || radix > 36 || d < 0 || d >= radix {
				return value.Char(0), nil
			}
			if d < 10 {
				return value.Char('0' + d), nil
			}
			return value.Char('a' + d - 10), nil
		}),
		method("compareTo", domains.Int32, ps(domains.Char), func(r any, a []any) (any, error) {
			return int32(r.(value.Char)) - int32(a[0].(value.Char)), nil
		}),
	)
}

// digit returns the value of r in radix, or -1.
func digit(r rune, radix int32) int32 {
	if radix < 2 || radix > 36 {
		return -1
	}
	var d int32 = -1
	switch {
	case r >= '0' && r <= '9':
		d = r - '0'
	case r >= 'a' && r <= 'z':
		d = r - 'a' + 10
	case r >= 'A' && r <= 'Z':
		d = r - 'A' + 10
	}
	if d >= radix {
		return -1
	}
	return d
}
