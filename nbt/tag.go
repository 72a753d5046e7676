// Package nbt implements the Named Binary Tag format: a typed tree of named values
// serialized big-endian.
//
// A document is decoded with Decode (or DecodeRoot) into a Tag tree and serialized
// back with Encode. Re-encoding an unmodified tree reproduces the input byte for byte.
package nbt

import (
	"errors"
	"fmt"
	"math"
)

// Kind is the wire type id of a tag.
type Kind uint8

const (
	KindEnd Kind = iota
	KindByte
	KindShort
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindByteArray
	KindString
	KindList
	KindCompound
	KindIntArray
	KindLongArray
)

var kindNames = [...]string{
	KindEnd:       "End",
	KindByte:      "Byte",
	KindShort:     "Short",
	KindInt:       "Int",
	KindLong:      "Long",
	KindFloat:     "Float",
	KindDouble:    "Double",
	KindByteArray: "ByteArray",
	KindString:    "String",
	KindList:      "List",
	KindCompound:  "Compound",
	KindIntArray:  "IntArray",
	KindLongArray: "LongArray",
}

func (k Kind) Valid() bool {
	return k <= KindLongArray
}

func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var (
	ErrMalformedTag = errors.New("nbt: malformed tag")
	ErrKindMismatch = errors.New("nbt: kind mismatch")
	ErrInvalidValue = errors.New("nbt: invalid value")
)

// MaxStringLength is the longest name or String payload the 16-bit length prefix can hold.
const MaxStringLength = math.MaxUint16

// Value is the payload of a tag. The set of implementations is closed.
type Value interface {
	Kind() Kind
	value()
}

type (
	End       struct{}
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []int8
	// String holds the raw payload bytes; UTF-8 is a convention, not validated.
	String    string
	IntArray  []int32
	LongArray []int64
)

func (End) Kind() Kind       { return KindEnd }
func (Byte) Kind() Kind      { return KindByte }
func (Short) Kind() Kind     { return KindShort }
func (Int) Kind() Kind       { return KindInt }
func (Long) Kind() Kind      { return KindLong }
func (Float) Kind() Kind     { return KindFloat }
func (Double) Kind() Kind    { return KindDouble }
func (ByteArray) Kind() Kind { return KindByteArray }
func (String) Kind() Kind    { return KindString }
func (*List) Kind() Kind     { return KindList }
func (*Compound) Kind() Kind { return KindCompound }
func (IntArray) Kind() Kind  { return KindIntArray }
func (LongArray) Kind() Kind { return KindLongArray }

func (End) value()       {}
func (Byte) value()      {}
func (Short) value()     {}
func (Int) value()       {}
func (Long) value()      {}
func (Float) value()     {}
func (Double) value()    {}
func (ByteArray) value() {}
func (String) value()    {}
func (*List) value()     {}
func (*Compound) value() {}
func (IntArray) value()  {}
func (LongArray) value() {}

// Tag is a named value. Standalone tags and compound children carry a name;
// an empty name is encoded as a zero-length field.
type Tag struct {
	Name  string
	Value Value
}

func (t Tag) Kind() Kind {
	if t.Value == nil {
		return KindEnd
	}
	return t.Value.Kind()
}

// Equal reports whether two tags have the same name and structurally equal values.
func (t Tag) Equal(o Tag) bool {
	return t.Name == o.Name && equalValue(t.Value, o.Value)
}

// NewRoot returns an empty root compound tag.
func NewRoot(name string) Tag {
	return Tag{Name: name, Value: &Compound{}}
}

func checkString(what, s string) error {
	if len(s) > MaxStringLength {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrInvalidValue, what, len(s), MaxStringLength)
	}
	return nil
}

// checkValue rejects values that cannot be encoded: nil, typed-nil lists and compounds,
// and over-long strings. Nested contents are checked when they are added.
func checkValue(v Value) error {
	switch v := v.(type) {
	case nil:
		return fmt.Errorf("%w: nil", ErrInvalidValue)
	case *List:
		if v == nil {
			return fmt.Errorf("%w: nil List", ErrInvalidValue)
		}
	case *Compound:
		if v == nil {
			return fmt.Errorf("%w: nil Compound", ErrInvalidValue)
		}
	case String:
		return checkString("string", string(v))
	}
	return nil
}
