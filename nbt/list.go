package nbt

import (
	"fmt"
	"iter"
	"slices"
)

// List is a homogeneous sequence of unnamed values. The element kind is fixed at
// construction; an empty list still carries it on the wire.
type List struct {
	elem  Kind
	items []Value
}

// NewList creates a list of the given element kind. It fails with ErrKindMismatch if any
// value is of a different kind. KindEnd is only accepted for an empty list.
func NewList(elem Kind, values ...Value) (*List, error) {
	if !elem.Valid() {
		return nil, fmt.Errorf("%w: invalid list element kind %v", ErrKindMismatch, elem)
	}
	l := &List{elem: elem, items: make([]Value, 0, len(values))}
	for _, v := range values {
		if err := l.Append(v); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *List) ElemKind() Kind { return l.elem }

func (l *List) Len() int { return len(l.items) }

func (l *List) At(i int) Value { return l.items[i] }

func (l *List) check(v Value) error {
	if err := checkValue(v); err != nil {
		return err
	}
	if l.elem == KindEnd || v.Kind() != l.elem {
		return fmt.Errorf("%w: list of %v cannot hold %v", ErrKindMismatch, l.elem, v.Kind())
	}
	return nil
}

func (l *List) Append(v Value) error {
	if err := l.check(v); err != nil {
		return err
	}
	l.items = append(l.items, v)
	return nil
}

func (l *List) Set(i int, v Value) error {
	if err := l.check(v); err != nil {
		return err
	}
	l.items[i] = v
	return nil
}

func (l *List) Delete(i int) {
	l.items = slices.Delete(l.items, i, i+1)
}

func (l *List) All() iter.Seq2[int, Value] {
	return slices.All(l.items)
}

func (l *List) Equal(o *List) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.elem == o.elem && slices.EqualFunc(l.items, o.items, equalValue)
}
