package nbt

import (
	"iter"
	"math"
	"slices"
	"strings"
)

// Compound maps names to values and keeps insertion order, which is also the order
// children are encoded in. The zero value is an empty compound.
type Compound struct {
	tags  []Tag
	index map[string]int
}

func (c *Compound) Len() int { return len(c.tags) }

func (c *Compound) Get(name string) (Value, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.tags[i].Value, true
}

// Put inserts v under name. An existing entry with the same name is replaced in place.
// It panics if v cannot be a compound child: nil, typed nil, End, or a name or String
// longer than MaxStringLength.
func (c *Compound) Put(name string, v Value) {
	if err := checkValue(v); err != nil {
		panic(err)
	}
	if v.Kind() == KindEnd {
		panic("nbt: compound child must be a non-End value")
	}
	if err := checkString("name", name); err != nil {
		panic(err)
	}
	if i, ok := c.index[name]; ok {
		c.tags[i].Value = v
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	c.index[name] = len(c.tags)
	c.tags = append(c.tags, Tag{Name: name, Value: v})
}

func (c *Compound) Delete(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	c.tags = slices.Delete(c.tags, i, i+1)
	delete(c.index, name)
	for j := i; j < len(c.tags); j++ {
		c.index[c.tags[j].Name] = j
	}
	return true
}

// All iterates over children in insertion order.
func (c *Compound) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, t := range c.tags {
			if !yield(t.Name, t.Value) {
				return
			}
		}
	}
}

func (c *Compound) Names() []string {
	names := make([]string, len(c.tags))
	for i, t := range c.tags {
		names[i] = t.Name
	}
	return names
}

// Lookup resolves a slash-separated path of names through nested compounds,
// e.g. "Level/TileEntities".
func (c *Compound) Lookup(path string) (Value, bool) {
	cur := c
	names := strings.Split(strings.Trim(path, "/"), "/")
	for i, name := range names {
		v, ok := cur.Get(name)
		if !ok {
			return nil, false
		}
		if i == len(names)-1 {
			return v, true
		}
		if cur, ok = v.(*Compound); !ok {
			return nil, false
		}
	}
	return nil, false
}

func (c *Compound) Equal(o *Compound) bool {
	if c == nil || o == nil {
		return c == o
	}
	return slices.EqualFunc(c.tags, o.tags, Tag.Equal)
}

func equalValue(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Float:
		return math.Float32bits(float32(a)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(a)) == math.Float64bits(float64(b.(Double)))
	case ByteArray:
		return slices.Equal(a, b.(ByteArray))
	case IntArray:
		return slices.Equal(a, b.(IntArray))
	case LongArray:
		return slices.Equal(a, b.(LongArray))
	case *List:
		return a.Equal(b.(*List))
	case *Compound:
		return a.Equal(b.(*Compound))
	default:
		return a == b
	}
}
