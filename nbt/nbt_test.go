package nbt_test

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/eak1mov/go-libnbt/nbt"
	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

var sampleData = []byte{
	0x0A, 0x00, 0x04, 'r', 'o', 'o', 't',
	0x01, 0x00, 0x01, 'b', 0xFF,
	0x02, 0x00, 0x01, 's', 0x80, 0x00,
	0x03, 0x00, 0x01, 'i', 0x00, 0x00, 0x01, 0x00,
	0x04, 0x00, 0x01, 'l', 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0x05, 0x00, 0x01, 'f', 0x3F, 0xC0, 0x00, 0x00,
	0x06, 0x00, 0x01, 'd', 0xC0, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x07, 0x00, 0x02, 'b', 'a', 0x00, 0x00, 0x00, 0x02, 0x01, 0xFE,
	0x08, 0x00, 0x03, 's', 't', 'r', 0x00, 0x02, 'h', 'i',
	0x09, 0x00, 0x01, 'L', 0x03, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x07, 0xFF, 0xFF, 0xFF, 0xFF,
	0x09, 0x00, 0x01, 'E', 0x00, 0x00, 0x00, 0x00, 0x00,
	0x0B, 0x00, 0x02, 'i', 'a', 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x09,
	0x0C, 0x00, 0x02, 'l', 'a', 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03,
	0x0A, 0x00, 0x01, 'c', 0x08, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00,
}

func mustList(t *testing.T, elem nbt.Kind, values ...nbt.Value) *nbt.List {
	t.Helper()
	list, err := nbt.NewList(elem, values...)
	require.NoError(t, err)
	return list
}

func mustEncode(t *testing.T, tag nbt.Tag) []byte {
	t.Helper()
	data, err := nbt.Encode(tag)
	require.NoError(t, err)
	return data
}

func sampleTag(t *testing.T) nbt.Tag {
	nested := &nbt.Compound{}
	nested.Put("", nbt.String(""))

	root := &nbt.Compound{}
	root.Put("b", nbt.Byte(-1))
	root.Put("s", nbt.Short(math.MinInt16))
	root.Put("i", nbt.Int(256))
	root.Put("l", nbt.Long(-1))
	root.Put("f", nbt.Float(1.5))
	root.Put("d", nbt.Double(-2.5))
	root.Put("ba", nbt.ByteArray{1, -2})
	root.Put("str", nbt.String("hi"))
	root.Put("L", mustList(t, nbt.KindInt, nbt.Int(7), nbt.Int(-1)))
	root.Put("E", mustList(t, nbt.KindEnd))
	root.Put("ia", nbt.IntArray{9})
	root.Put("la", nbt.LongArray{3})
	root.Put("c", nested)
	return nbt.Tag{Name: "root", Value: root}
}

func TestDecodeEmptyRoot(t *testing.T) {
	data := []byte{0x0A, 0x00, 0x00, 0x00}

	tag, n, err := nbt.DecodeRoot(data)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	if diff := cmp.Diff(nbt.NewRoot(""), tag); diff != "" {
		t.Errorf("DecodeRoot mismatch (-want +got):\n%v", diff)
	}
	if got := mustEncode(t, tag); !bytes.Equal(got, data) {
		t.Errorf("Encode = %x, want = %x", got, data)
	}
}

func TestDecodeSample(t *testing.T) {
	tag, n, err := nbt.Decode(sampleData)
	require.NoError(t, err)
	require.Equal(t, len(sampleData), n)
	if diff := cmp.Diff(sampleTag(t), tag); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%v", diff)
	}
	require.Equal(t, []string{"b", "s", "i", "l", "f", "d", "ba", "str", "L", "E", "ia", "la", "c"},
		tag.Value.(*nbt.Compound).Names())
}

func TestEncodeSample(t *testing.T) {
	if diff := cmp.Diff(sampleData, mustEncode(t, sampleTag(t))); diff != "" {
		t.Errorf("Encode mismatch (-want +got):\n%v", diff)
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	data := append([]byte{0x0A, 0x00, 0x00, 0x00}, 0xAA, 0xBB)
	_, n, err := nbt.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestDecodeEnd(t *testing.T) {
	tag, n, err := nbt.Decode([]byte{0x00})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, nbt.KindEnd, tag.Kind())

	_, _, err = nbt.DecodeRoot([]byte{0x00})
	require.ErrorIs(t, err, nbt.ErrMalformedTag)
}

type fuzzRecord struct {
	Name   string
	Byte   int8
	Short  int16
	Int    int32
	Long   int64
	Float  float32
	Double float64
	Str    string
	Bytes  []int8
	Ints   []int32
	Longs  []int64
}

func (r fuzzRecord) compound() *nbt.Compound {
	c := &nbt.Compound{}
	c.Put("byte", nbt.Byte(r.Byte))
	c.Put("short", nbt.Short(r.Short))
	c.Put("int", nbt.Int(r.Int))
	c.Put("long", nbt.Long(r.Long))
	c.Put("float", nbt.Float(r.Float))
	c.Put("double", nbt.Double(r.Double))
	c.Put("str", nbt.String(r.Str))
	c.Put("bytes", nbt.ByteArray(r.Bytes))
	c.Put("ints", nbt.IntArray(r.Ints))
	c.Put("longs", nbt.LongArray(r.Longs))
	return c
}

func TestRoundTripFuzz(t *testing.T) {
	fz := fuzz.NewWithSeed(31415).NilChance(0).NumElements(0, 16)
	for iter := range 50 {
		var records []fuzzRecord
		fz.Fuzz(&records)

		root := &nbt.Compound{}
		items := mustList(t, nbt.KindCompound)
		names := mustList(t, nbt.KindString)
		for i, r := range records {
			root.Put(fmt.Sprintf("%d:%s", i, r.Name), r.compound())
			require.NoError(t, items.Append(r.compound()))
			require.NoError(t, names.Append(nbt.String(r.Name)))
		}
		nested := mustList(t, nbt.KindList, items, names, mustList(t, nbt.KindEnd))
		root.Put("items", items)
		root.Put("nested", nested)
		tag := nbt.Tag{Name: fmt.Sprintf("doc-%d", iter), Value: root}

		data := mustEncode(t, tag)
		decoded, n, err := nbt.DecodeRoot(data)
		require.NoError(t, err)
		require.Equal(t, len(data), n)
		if diff := cmp.Diff(tag, decoded); diff != "" {
			t.Fatalf("Decode(Encode(tag)) mismatch (-want +got):\n%v", diff)
		}
		if !bytes.Equal(data, mustEncode(t, decoded)) {
			t.Fatalf("Encode(Decode(data)) != data")
		}
	}
}

func TestDecodeTruncated(t *testing.T) {
	for size := range len(sampleData) {
		_, _, err := nbt.Decode(sampleData[:size])
		require.ErrorIsf(t, err, nbt.ErrMalformedTag, "size %d", size)
		require.ErrorIsf(t, err, io.ErrUnexpectedEOF, "size %d", size)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, tc := range []struct {
		Name string
		Data []byte
	}{
		{Name: "UnknownRootKind", Data: []byte{0x0D, 0x00, 0x00}},
		{Name: "UnknownChildKind", Data: []byte{0x0A, 0x00, 0x00, 0x2A, 0x00, 0x00, 0x00}},
		{Name: "UnknownListKind", Data: []byte{0x09, 0x00, 0x00, 0x0D, 0x00, 0x00, 0x00, 0x00}},
		{Name: "NegativeArrayLength", Data: []byte{0x07, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}},
		{Name: "NegativeListLength", Data: []byte{0x09, 0x00, 0x00, 0x01, 0x80, 0x00, 0x00, 0x00}},
		{Name: "ListOfEnd", Data: []byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			_, _, err := nbt.Decode(tc.Data)
			require.ErrorIs(t, err, nbt.ErrMalformedTag)
			require.NotErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}
}

func TestDecodeHugeLength(t *testing.T) {
	data := []byte{0x0B, 0x00, 0x00, 0x7F, 0xFF, 0xFF, 0xFF, 0x00}
	_, _, err := nbt.Decode(data)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeDepthLimit(t *testing.T) {
	const depth = 1000
	data := []byte{0x09, 0x00, 0x00}
	for range depth {
		data = append(data, 0x09, 0x00, 0x00, 0x00, 0x01)
	}
	data = append(data, 0x00, 0x00, 0x00, 0x00, 0x00)

	_, _, err := nbt.Decode(data)
	require.ErrorIs(t, err, nbt.ErrMalformedTag)
	require.NotErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeDuplicateKeys(t *testing.T) {
	data := []byte{
		0x0A, 0x00, 0x00,
		0x01, 0x00, 0x01, 'a', 0x01,
		0x01, 0x00, 0x01, 'z', 0x02,
		0x03, 0x00, 0x01, 'a', 0x00, 0x00, 0x00, 0x03,
		0x00,
	}
	tag, _, err := nbt.DecodeRoot(data)
	require.NoError(t, err)

	root := tag.Value.(*nbt.Compound)
	require.Equal(t, 2, root.Len())
	require.Equal(t, []string{"a", "z"}, root.Names())
	v, ok := root.Get("a")
	require.True(t, ok)
	require.Equal(t, nbt.Int(3), v)
}

func TestFloatBits(t *testing.T) {
	nan := math.Float32frombits(0x7FC00001)
	tag := nbt.Tag{Name: "nan", Value: nbt.Float(nan)}
	decoded, _, err := nbt.Decode(mustEncode(t, tag))
	require.NoError(t, err)
	require.True(t, tag.Equal(decoded))
	require.Equal(t, uint32(0x7FC00001), math.Float32bits(float32(decoded.Value.(nbt.Float))))
}

func TestEncodeStringLimit(t *testing.T) {
	long := strings.Repeat("n", nbt.MaxStringLength+1)
	fits := strings.Repeat("n", nbt.MaxStringLength)

	_, err := nbt.Encode(nbt.Tag{Name: "s", Value: nbt.String(long)})
	require.ErrorIs(t, err, nbt.ErrInvalidValue)
	_, err = nbt.Encode(nbt.Tag{Name: long, Value: &nbt.Compound{}})
	require.ErrorIs(t, err, nbt.ErrInvalidValue)

	prefix := []byte{0xAA}
	got, err := nbt.AppendTag(prefix, nbt.Tag{Name: long, Value: nbt.Int(1)})
	require.Error(t, err)
	require.Equal(t, []byte{0xAA}, got)

	root := &nbt.Compound{}
	require.Panics(t, func() { root.Put("s", nbt.String(long)) })
	require.Panics(t, func() { root.Put(long, nbt.Int(1)) })
	require.Zero(t, root.Len())

	list := mustList(t, nbt.KindString)
	require.ErrorIs(t, list.Append(nbt.String(long)), nbt.ErrInvalidValue)
	require.NoError(t, list.Append(nbt.String(fits)))
	require.ErrorIs(t, list.Set(0, nbt.String(long)), nbt.ErrInvalidValue)

	root.Put(fits, nbt.String(fits))
	root.Put("l", list)
	tag := nbt.Tag{Name: fits, Value: root}
	decoded, _, err := nbt.DecodeRoot(mustEncode(t, tag))
	require.NoError(t, err)
	require.True(t, tag.Equal(decoded))
}

func TestEncodeNilContainers(t *testing.T) {
	root := &nbt.Compound{}
	require.Panics(t, func() { root.Put("c", (*nbt.Compound)(nil)) })
	require.Panics(t, func() { root.Put("l", (*nbt.List)(nil)) })

	list := mustList(t, nbt.KindCompound)
	require.ErrorIs(t, list.Append((*nbt.Compound)(nil)), nbt.ErrInvalidValue)
	lists := mustList(t, nbt.KindList)
	require.ErrorIs(t, lists.Append((*nbt.List)(nil)), nbt.ErrInvalidValue)

	_, err := nbt.Encode(nbt.Tag{Name: "c", Value: (*nbt.Compound)(nil)})
	require.ErrorIs(t, err, nbt.ErrInvalidValue)
	_, err = nbt.Encode(nbt.Tag{Name: "l", Value: (*nbt.List)(nil)})
	require.ErrorIs(t, err, nbt.ErrInvalidValue)
}
