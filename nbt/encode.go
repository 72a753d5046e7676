package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes a named tag: type id, name, payload. An End tag encodes as the
// single byte 0. It fails with ErrInvalidValue if the tree holds a name or String longer
// than MaxStringLength, an array longer than an int32 count, or a nil List or Compound.
func Encode(t Tag) ([]byte, error) {
	return AppendTag(nil, t)
}

// AppendTag appends the encoding of t to dst and returns the extended buffer.
// On error dst is returned unextended.
func AppendTag(dst []byte, t Tag) ([]byte, error) {
	out, err := appendTag(dst, t)
	if err != nil {
		return dst, err
	}
	return out, nil
}

func appendTag(dst []byte, t Tag) ([]byte, error) {
	kind := t.Kind()
	dst = append(dst, byte(kind))
	if kind == KindEnd {
		return dst, nil
	}
	dst, err := appendString(dst, "name", t.Name)
	if err != nil {
		return nil, err
	}
	return appendPayload(dst, t.Value)
}

func appendString(dst []byte, what, s string) ([]byte, error) {
	if err := checkString(what, s); err != nil {
		return nil, err
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(s)))
	return append(dst, s...), nil
}

func appendLength(dst []byte, n int) ([]byte, error) {
	if n > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d elements, limit %d", ErrInvalidValue, n, math.MaxInt32)
	}
	return binary.BigEndian.AppendUint32(dst, uint32(n)), nil
}

func appendPayload(dst []byte, v Value) ([]byte, error) {
	var err error
	switch v := v.(type) {
	case End:
	case Byte:
		dst = append(dst, byte(v))
	case Short:
		dst = binary.BigEndian.AppendUint16(dst, uint16(v))
	case Int:
		dst = binary.BigEndian.AppendUint32(dst, uint32(v))
	case Long:
		dst = binary.BigEndian.AppendUint64(dst, uint64(v))
	case Float:
		dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(float32(v)))
	case Double:
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(float64(v)))
	case String:
		return appendString(dst, "string", string(v))
	case ByteArray:
		if dst, err = appendLength(dst, len(v)); err != nil {
			return nil, err
		}
		for _, b := range v {
			dst = append(dst, byte(b))
		}
	case IntArray:
		if dst, err = appendLength(dst, len(v)); err != nil {
			return nil, err
		}
		for _, i := range v {
			dst = binary.BigEndian.AppendUint32(dst, uint32(i))
		}
	case LongArray:
		if dst, err = appendLength(dst, len(v)); err != nil {
			return nil, err
		}
		for _, l := range v {
			dst = binary.BigEndian.AppendUint64(dst, uint64(l))
		}
	case *List:
		if v == nil {
			return nil, fmt.Errorf("%w: nil List", ErrInvalidValue)
		}
		dst = append(dst, byte(v.elem))
		if dst, err = appendLength(dst, len(v.items)); err != nil {
			return nil, err
		}
		for _, item := range v.items {
			if dst, err = appendPayload(dst, item); err != nil {
				return nil, err
			}
		}
	case *Compound:
		if v == nil {
			return nil, fmt.Errorf("%w: nil Compound", ErrInvalidValue)
		}
		for _, child := range v.tags {
			if dst, err = appendTag(dst, child); err != nil {
				return nil, err
			}
		}
		dst = append(dst, byte(KindEnd))
	}
	return dst, nil
}
