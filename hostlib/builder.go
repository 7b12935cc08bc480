package hostlib

import (
	"fmt"
	"strings"

	"alma.local/iogen/value"
)

const BuilderName = "builder"

// Builder is a growable text buffer indexed by rune.
type Builder struct {
	buf []rune
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) TypeName() string { return BuilderName }
func (b *Builder) String() string   { return string(b.buf) }
func (b *Builder) Len() int         { return len(b.buf) }

// Append adds the external representation of v.
func (b *Builder) Append(v any) (*Builder, error) {
	s := value.Format(v)
	if len(b.buf)+len(s) > maxTextBytes {
		return nil, value.ErrResourceExhausted
	}
	b.buf = append(b.buf, []rune(s)...)
	return b, nil
}

func (b *Builder) bounds(start, end int32) error {
	if start < 0 || start > end || int(end) > len(b.buf) {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrIndexOutOfRange, start, end, len(b.buf))
	}
	return nil
}

func (b *Builder) Insert(at int32, v any) (*Builder, error) {
	if at < 0 || int(at) > len(b.buf) {
		return nil, fmt.Errorf("%w: offset %d of %d", ErrIndexOutOfRange, at, len(b.buf))
	}
	ins := []rune(value.Format(v))
	if len(b.buf)+len(ins) > maxTextBytes {
		return nil, value.ErrResourceExhausted
	}
	out := make([]rune, 0, len(b.buf)+len(ins))
	out = append(out, b.buf[:at]...)
	out = append(out, ins...)
	b.buf = append(out, b.buf[at:]...)
	return b, nil
}

func (b *Builder) Delete(start, end int32) (*Builder, error) {
	if int(end) > len(b.buf) {
		end = int32(len(b.buf))
	}
	if err := b.bounds(start, end); err != nil {
		return nil, err
	}
	b.buf = append(b.buf[:start], b.buf[end:]...)
	return b, nil
}

func (b *Builder) DeleteCharAt(i int32) (*Builder, error) {
	if i < 0 || int(i) >= len(b.buf) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, len(b.buf))
	}
	b.buf = append(b.buf[:i], b.buf[i+1:]...)
	return b, nil
}

func (b *Builder) Replace(start, end int32, s string) (*Builder, error) {
	if int(end) > len(b.buf) {
		end = int32(len(b.buf))
	}
	if err := b.bounds(start, end); err != nil {
		return nil, err
	}
	ins := []rune(s)
	out := make([]rune, 0, len(b.buf)-int(end-start)+len(ins))
	out = append(out, b.buf[:start]...)
	out = append(out, ins...)
	b.buf = append(out, b.buf[end:]...)
	return b, nil
}

func (b *Builder) Reverse() *Builder {
	for i, j := 0, len(b.buf)-1; i < j; i, j = i+1, j-1 {
		b.buf[i], b.buf[j] = b.buf[j], b.buf[i]
	}
	return b
}

// SetLength truncates or pads with NUL runes.
func (b *Builder) SetLength(n int32) error {
	if n < 0 {
		return fmt.Errorf("%w: length %d", ErrIndexOutOfRange, n)
	}
	if int(n) > maxTextBytes {
		return value.ErrResourceExhausted
	}
	if int(n) <= len(b.buf) {
		b.buf = b.buf[:n]
		return nil
	}
	b.buf = append(b.buf, make([]rune, int(n)-len(b.buf))...)
	return nil
}

func (b *Builder) CharAt(i int32) (value.Char, error) {
	if i < 0 || int(i) >= len(b.buf) {
		return 0, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, len(b.buf))
	}
	return value.Char(b.buf[i]), nil
}

func (b *Builder) SetCharAt(i int32, c value.Char) error {
	if i < 0 || int(i) >= len(b.buf) {
		return fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, len(b.buf))
	}
	b.buf[i] = rune(c)
	return nil
}

func (b *Builder) IndexOf(s string) int32 {
	return runeIndex(string(b.buf), strings.Index(string(b.buf), s))
}

func (b *Builder) Clear() { b.buf = nil }
