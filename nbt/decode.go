package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// maxDepth bounds list/compound nesting.
const maxDepth = 512

// decoder is the cursor shared by the whole recursive descent.
type decoder struct {
	buf   []byte
	off   int
	depth int
}

// Decode decodes one named tag from the start of data and returns it together with
// the number of bytes consumed. A leading End id decodes to an unnamed End tag.
//
// Any unknown type id or read past the end of data fails the whole document with
// ErrMalformedTag; no partial tree is returned.
func Decode(data []byte) (Tag, int, error) {
	d := decoder{buf: data}
	tag, err := d.readTag()
	if err != nil {
		return Tag{}, 0, err
	}
	return tag, d.off, nil
}

// DecodeRoot is like Decode but requires the root to be a compound.
func DecodeRoot(data []byte) (Tag, int, error) {
	tag, n, err := Decode(data)
	if err != nil {
		return Tag{}, 0, err
	}
	if tag.Kind() != KindCompound {
		return Tag{}, 0, fmt.Errorf("%w: root is %v, want Compound", ErrMalformedTag, tag.Kind())
	}
	return tag, n, nil
}

func (d *decoder) errorf(offset int, format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d", ErrMalformedTag, fmt.Sprintf(format, args...), offset)
}

func (d *decoder) take(n int) ([]byte, error) {
	if left := len(d.buf) - d.off; n > left {
		return nil, fmt.Errorf("%w: %w: need %d bytes at offset %d, have %d",
			ErrMalformedTag, io.ErrUnexpectedEOF, n, d.off, left)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) readUint8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) readUint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *decoder) readUint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *decoder) readUint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *decoder) readKind() (Kind, error) {
	offset := d.off
	b, err := d.readUint8()
	if err != nil {
		return 0, err
	}
	kind := Kind(b)
	if !kind.Valid() {
		return 0, d.errorf(offset, "unknown type id %d", b)
	}
	return kind, nil
}

// readLength reads a signed 32-bit element count.
func (d *decoder) readLength() (int, error) {
	offset := d.off
	u, err := d.readUint32()
	if err != nil {
		return 0, err
	}
	n := int32(u)
	if n < 0 {
		return 0, d.errorf(offset, "negative length %d", n)
	}
	return int(n), nil
}

func (d *decoder) readString() (string, error) {
	n, err := d.readUint16()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) readTag() (Tag, error) {
	kind, err := d.readKind()
	if err != nil {
		return Tag{}, err
	}
	if kind == KindEnd {
		return Tag{Value: End{}}, nil
	}
	name, err := d.readString()
	if err != nil {
		return Tag{}, err
	}
	value, err := d.readPayload(kind)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Name: name, Value: value}, nil
}

func (d *decoder) readPayload(kind Kind) (Value, error) {
	switch kind {
	case KindEnd:
		return End{}, nil
	case KindByte:
		v, err := d.readUint8()
		return Byte(v), err
	case KindShort:
		v, err := d.readUint16()
		return Short(v), err
	case KindInt:
		v, err := d.readUint32()
		return Int(v), err
	case KindLong:
		v, err := d.readUint64()
		return Long(v), err
	case KindFloat:
		v, err := d.readUint32()
		return Float(math.Float32frombits(v)), err
	case KindDouble:
		v, err := d.readUint64()
		return Double(math.Float64frombits(v)), err
	case KindString:
		v, err := d.readString()
		return String(v), err
	case KindByteArray:
		return d.readByteArray()
	case KindIntArray:
		return d.readIntArray()
	case KindLongArray:
		return d.readLongArray()
	case KindList:
		return d.readList()
	case KindCompound:
		return d.readCompound()
	}
	return nil, d.errorf(d.off, "unknown type id %d", kind)
}

func (d *decoder) readByteArray() (Value, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	array := make(ByteArray, n)
	for i := range array {
		array[i] = int8(b[i])
	}
	return array, nil
}

func (d *decoder) readIntArray() (Value, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	b, err := d.take(n * 4)
	if err != nil {
		return nil, err
	}
	array := make(IntArray, n)
	for i := range array {
		array[i] = int32(binary.BigEndian.Uint32(b[i*4:]))
	}
	return array, nil
}

func (d *decoder) readLongArray() (Value, error) {
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	b, err := d.take(n * 8)
	if err != nil {
		return nil, err
	}
	array := make(LongArray, n)
	for i := range array {
		array[i] = int64(binary.BigEndian.Uint64(b[i*8:]))
	}
	return array, nil
}

func (d *decoder) enter() error {
	if d.depth++; d.depth > maxDepth {
		return d.errorf(d.off, "nesting deeper than %d", maxDepth)
	}
	return nil
}

func (d *decoder) readList() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	elem, err := d.readKind()
	if err != nil {
		return nil, err
	}
	offset := d.off
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}
	if elem == KindEnd && n > 0 {
		return nil, d.errorf(offset, "list of End with %d elements", n)
	}

	// every non-End element occupies at least one byte
	list := &List{elem: elem, items: make([]Value, 0, min(n, len(d.buf)-d.off))}
	for range n {
		v, err := d.readPayload(elem)
		if err != nil {
			return nil, err
		}
		list.items = append(list.items, v)
	}
	return list, nil
}

func (d *decoder) readCompound() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	c := &Compound{}
	for {
		tag, err := d.readTag()
		if err != nil {
			return nil, err
		}
		if tag.Kind() == KindEnd {
			return c, nil
		}
		c.Put(tag.Name, tag.Value)
	}
}
