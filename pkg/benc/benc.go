// Package benc implements the order-preserving bencoded format used to
// persist GlobalPrefs and per-file ViewState: signed integers (ie...e),
// byte strings (N:data), lists (l...e), and dictionaries (d...e) whose
// keys are always emitted in lexicographic byte order.
package benc

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Kind identifies which bencoded type a Value holds.
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindList
	KindDict
)

// Value is a decoded bencoded object. Exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind Kind
	Int  int64
	Str  []byte
	List []Value
	Dict *Dict
}

// Int64 returns a KindInt value.
func Int64(v int64) Value { return Value{Kind: KindInt, Int: v} }

// Bytes returns a KindString value.
func Bytes(v []byte) Value { return Value{Kind: KindString, Str: v} }

// String returns a KindString value built from a Go string.
func String(v string) Value { return Value{Kind: KindString, Str: []byte(v)} }

// ListOf returns a KindList value.
func ListOf(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// DictOf returns a KindDict value wrapping d.
func DictOf(d *Dict) Value { return Value{Kind: KindDict, Dict: d} }

// Dict is an ordered-on-write string-keyed dictionary. Entries are kept
// sorted by key at all times via linear insertion, which is the same
// O(n^2)-for-small-n trade the format's origin makes: dictionaries here
// hold on the order of a few dozen keys, never more.
type Dict struct {
	keys   []string
	values []Value
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{}
}

// Set inserts or replaces the value for key, keeping keys sorted.
func (d *Dict) Set(key string, v Value) {
	i := sort.SearchStrings(d.keys, key)
	if i < len(d.keys) && d.keys[i] == key {
		d.values[i] = v
		return
	}
	d.keys = append(d.keys, "")
	copy(d.keys[i+1:], d.keys[i:])
	d.keys[i] = key

	d.values = append(d.values, Value{})
	copy(d.values[i+1:], d.values[i:])
	d.values[i] = v
}

// Get returns the value for key and whether it was present.
func (d *Dict) Get(key string) (Value, bool) {
	i := sort.SearchStrings(d.keys, key)
	if i < len(d.keys) && d.keys[i] == key {
		return d.values[i], true
	}
	return Value{}, false
}

// Keys returns the dictionary's keys in the lexicographic order they will
// be serialized in.
func (d *Dict) Keys() []string {
	return append([]string(nil), d.keys...)
}

// GetBool returns the boolean stored at key ("1"/"0"-as-int convention used
// by the preferences format), or false with ok=false if key is absent or
// not an int.
func (d *Dict) GetBool(key string) (val bool, ok bool) {
	v, present := d.Get(key)
	if !present || v.Kind != KindInt {
		return false, false
	}
	return v.Int != 0, true
}

// GetInt returns the integer stored at key.
func (d *Dict) GetInt(key string) (val int64, ok bool) {
	v, present := d.Get(key)
	if !present || v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// GetStr returns the UTF-8 string stored at key.
func (d *Dict) GetStr(key string) (val string, ok bool) {
	v, present := d.Get(key)
	if !present || v.Kind != KindString {
		return "", false
	}
	return string(v.Str), true
}

// GetFloatFromStr parses the string stored at key as a float (prefs store
// ZoomVirtual as text, not as a bencoded int, to keep fractional zoom).
func (d *Dict) GetFloatFromStr(key string) (val float64, ok bool) {
	s, present := d.GetStr(key)
	if !present {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GetList returns the list stored at key.
func (d *Dict) GetList(key string) (val []Value, ok bool) {
	v, present := d.Get(key)
	if !present || v.Kind != KindList {
		return nil, false
	}
	return v.List, true
}

// GetDict returns the dictionary stored at key.
func (d *Dict) GetDict(key string) (val *Dict, ok bool) {
	v, present := d.Get(key)
	if !present || v.Kind != KindDict {
		return nil, false
	}
	return v.Dict, true
}

// ParseError reports a decode failure together with the byte offset at
// which the parser gave up, so callers can report "byte N: ..." messages.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return errors.Errorf("benc: %s at byte %d", e.Msg, e.Offset).Error()
}

// Encode serializes v in canonical form (sorted dict keys).
func Encode(v Value) []byte {
	var buf bytes.Buffer
	encodeInto(&buf, v)
	return buf.Bytes()
}

func encodeInto(buf *bytes.Buffer, v Value) {
	switch v.Kind {
	case KindInt:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(v.Int, 10))
		buf.WriteByte('e')
	case KindString:
		buf.WriteString(strconv.Itoa(len(v.Str)))
		buf.WriteByte(':')
		buf.Write(v.Str)
	case KindList:
		buf.WriteByte('l')
		for _, e := range v.List {
			encodeInto(buf, e)
		}
		buf.WriteByte('e')
	case KindDict:
		buf.WriteByte('d')
		d := v.Dict
		if d == nil {
			d = NewDict()
		}
		for i, k := range d.keys {
			encodeInto(buf, String(k))
			encodeInto(buf, d.values[i])
		}
		buf.WriteByte('e')
	}
}

// Decode parses a single top-level bencoded value from b and rejects any
// trailing bytes.
func Decode(b []byte) (Value, error) {
	v, rest, err := decodeOne(b, 0)
	if err != nil {
		return Value{}, err
	}
	if len(rest) != 0 {
		return Value{}, &ParseError{Offset: len(b) - len(rest), Msg: "trailing bytes after top-level value"}
	}
	return v, nil
}

func decodeOne(b []byte, consumed int) (Value, []byte, error) {
	if len(b) == 0 {
		return Value{}, nil, &ParseError{Offset: consumed, Msg: "unexpected end of input"}
	}
	switch {
	case b[0] == 'i':
		return decodeInt(b, consumed)
	case b[0] == 'l':
		return decodeList(b, consumed)
	case b[0] == 'd':
		return decodeDict(b, consumed)
	case b[0] >= '0' && b[0] <= '9':
		return decodeString(b, consumed)
	default:
		return Value{}, nil, &ParseError{Offset: consumed, Msg: "unrecognized tag byte"}
	}
}

func decodeInt(b []byte, consumed int) (Value, []byte, error) {
	i := 1 // skip 'i'
	neg := false
	if i < len(b) && b[i] == '-' {
		neg = true
		i++
	}
	start := i
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == start {
		return Value{}, nil, &ParseError{Offset: consumed + i, Msg: "integer has no digits"}
	}
	if i >= len(b) || b[i] != 'e' {
		return Value{}, nil, &ParseError{Offset: consumed + i, Msg: "integer missing terminating 'e'"}
	}
	digits := string(b[start:i])
	if neg && digits == "0" {
		return Value{}, nil, &ParseError{Offset: consumed, Msg: "negative zero is not valid"}
	}
	// A leading zero followed by more digits (e.g. "012") is not produced
	// by this encoder but the decoder is permissive about it, matching
	// the source parser which only rejects -0 explicitly.
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Value{}, nil, &ParseError{Offset: consumed, Msg: "integer overflow"}
	}
	if neg {
		n = -n
	}
	return Int64(n), b[i+1:], nil
}

func decodeString(b []byte, consumed int) (Value, []byte, error) {
	i := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 0 {
		return Value{}, nil, &ParseError{Offset: consumed, Msg: "string missing length"}
	}
	if i >= len(b) || b[i] != ':' {
		return Value{}, nil, &ParseError{Offset: consumed + i, Msg: "string length missing ':'"}
	}
	n, err := strconv.Atoi(string(b[:i]))
	if err != nil {
		return Value{}, nil, &ParseError{Offset: consumed, Msg: "string length overflow"}
	}
	rest := b[i+1:]
	if len(rest) < n {
		return Value{}, nil, &ParseError{Offset: consumed + i + 1, Msg: "string shorter than declared length"}
	}
	data := append([]byte(nil), rest[:n]...)
	return Bytes(data), rest[n:], nil
}

func decodeList(b []byte, consumed int) (Value, []byte, error) {
	rest := b[1:] // skip 'l'
	off := consumed + 1
	var items []Value
	for {
		if len(rest) == 0 {
			return Value{}, nil, &ParseError{Offset: off, Msg: "list missing terminating 'e'"}
		}
		if rest[0] == 'e' {
			return ListOf(items...), rest[1:], nil
		}
		v, next, err := decodeOne(rest, off)
		if err != nil {
			return Value{}, nil, err
		}
		items = append(items, v)
		off += len(rest) - len(next)
		rest = next
	}
}

func decodeDict(b []byte, consumed int) (Value, []byte, error) {
	rest := b[1:] // skip 'd'
	off := consumed + 1
	d := NewDict()
	for {
		if len(rest) == 0 {
			return Value{}, nil, &ParseError{Offset: off, Msg: "dict missing terminating 'e'"}
		}
		if rest[0] == 'e' {
			return DictOf(d), rest[1:], nil
		}
		keyVal, next, err := decodeOne(rest, off)
		if err != nil {
			return Value{}, nil, err
		}
		if keyVal.Kind != KindString {
			return Value{}, nil, &ParseError{Offset: off, Msg: "dict key must be a byte string"}
		}
		key := string(keyVal.Str)
		off += len(rest) - len(next)
		rest = next

		val, next2, err := decodeOne(rest, off)
		if err != nil {
			return Value{}, nil, err
		}
		off += len(rest) - len(next2)
		rest = next2

		// Insertion keeps keys sorted regardless of on-disk order, the
		// same re-canonicalization benc_dict_insert performs on parse.
		d.Set(key, val)
	}
}
