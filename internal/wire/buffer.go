// Package wire implements the length-prefixed binary codec used to sync
// recipes from server to client.
//
// Primitives follow the game protocol: VarInt is a 32-bit little-endian
// base-128 integer of at most 5 bytes, strings are a VarInt byte length
// followed by UTF-8. Reads past the end of the buffer return an error
// wrapping io.ErrUnexpectedEOF; nothing is recovered.
package wire

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/roach88/extremecraft/internal/item"
)

const (
	// MaxStringLength is the default character limit for strings.
	MaxStringLength = 32767

	// MaxTagLength bounds the canonical JSON of a stack tag.
	MaxTagLength = 262144

	maxVarIntBytes = 5
)

var (
	// ErrVarIntTooBig is returned when a VarInt runs past 5 bytes.
	ErrVarIntTooBig = errors.New("varint too big")

	// ErrStringTooLong is returned when a string exceeds its limit.
	ErrStringTooLong = errors.New("string too long")
)

// Buffer is a growable read/write byte buffer.
// Writes append to the end; reads consume from the front.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer creates a buffer that reads from data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the unread portion of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[b.off:]
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.off
}

func (b *Buffer) need(n int, what string) error {
	if b.Len() < n {
		return fmt.Errorf("read %s: need %d byte(s), have %d: %w", what, n, b.Len(), io.ErrUnexpectedEOF)
	}
	return nil
}

// WriteByte appends a single byte. It never fails; the error return
// satisfies io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	b.data = append(b.data, c)
	return nil
}

// ReadByte consumes a single byte.
func (b *Buffer) ReadByte() (byte, error) {
	if err := b.need(1, "byte"); err != nil {
		return 0, err
	}
	c := b.data[b.off]
	b.off++
	return c, nil
}

// WriteBool appends 1 for true, 0 for false.
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.data = append(b.data, 1)
		return
	}
	b.data = append(b.data, 0)
}

// ReadBool consumes a bool. Any non-zero byte is true.
func (b *Buffer) ReadBool() (bool, error) {
	c, err := b.ReadByte()
	if err != nil {
		return false, fmt.Errorf("read bool: %w", err)
	}
	return c != 0, nil
}

// WriteVarInt appends v as a VarInt. Negative values always take 5 bytes.
func (b *Buffer) WriteVarInt(v int32) {
	u := uint32(v)
	for u >= 0x80 {
		b.data = append(b.data, byte(u)|0x80)
		u >>= 7
	}
	b.data = append(b.data, byte(u))
}

// ReadVarInt consumes a VarInt.
func (b *Buffer) ReadVarInt() (int32, error) {
	var result uint32
	for i := 0; i < maxVarIntBytes; i++ {
		c, err := b.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("read varint: %w", err)
		}
		result |= uint32(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			return int32(result), nil
		}
	}
	return 0, ErrVarIntTooBig
}

// WriteBytes appends raw bytes prefixed by their VarInt length.
func (b *Buffer) WriteBytes(p []byte) {
	b.WriteVarInt(int32(len(p)))
	b.data = append(b.data, p...)
}

// ReadBytes consumes a VarInt length-prefixed byte slice. The result is a
// copy and does not alias the buffer.
func (b *Buffer) ReadBytes(maxLen int) ([]byte, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("read bytes: negative length %d", n)
	}
	if int(n) > maxLen {
		return nil, fmt.Errorf("read bytes: length %d exceeds %d", n, maxLen)
	}
	if err := b.need(int(n), "bytes"); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b.data[b.off:])
	b.off += int(n)
	return out, nil
}

// WriteString appends s with the default length limit.
func (b *Buffer) WriteString(s string) error {
	return b.WriteStringMax(s, MaxStringLength)
}

// WriteStringMax appends s, rejecting strings longer than maxLen characters.
func (b *Buffer) WriteStringMax(s string, maxLen int) error {
	if n := utf8.RuneCountInString(s); n > maxLen {
		return fmt.Errorf("write string: %d characters, max %d: %w", n, maxLen, ErrStringTooLong)
	}
	b.WriteBytes([]byte(s))
	return nil
}

// ReadString consumes a string with the default length limit.
func (b *Buffer) ReadString() (string, error) {
	return b.ReadStringMax(MaxStringLength)
}

// ReadStringMax consumes a string of at most maxLen characters.
// The encoded length may be up to 4 bytes per character.
func (b *Buffer) ReadStringMax(maxLen int) (string, error) {
	raw, err := b.ReadBytes(maxLen * 4)
	if err != nil {
		return "", fmt.Errorf("read string: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("read string: invalid UTF-8")
	}
	if n := utf8.RuneCount(raw); n > maxLen {
		return "", fmt.Errorf("read string: %d characters, max %d: %w", n, maxLen, ErrStringTooLong)
	}
	return string(raw), nil
}

// WriteID appends a resource location as its string form.
func (b *Buffer) WriteID(id item.ID) error {
	return b.WriteString(id.String())
}

// ReadID consumes a resource location.
func (b *Buffer) ReadID() (item.ID, error) {
	s, err := b.ReadString()
	if err != nil {
		return item.ID{}, fmt.Errorf("read id: %w", err)
	}
	id, err := item.ParseID(s)
	if err != nil {
		return item.ID{}, fmt.Errorf("read id: %w", err)
	}
	return id, nil
}
