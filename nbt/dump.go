package nbt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented, human-readable rendering of t to w.
func Dump(w io.Writer, t Tag) error {
	bw := bufio.NewWriter(w)
	dumpValue(bw, 0, fmt.Sprintf("%v(%q)", t.Kind(), t.Name), t.Value)
	return bw.Flush()
}

func dumpValue(w *bufio.Writer, depth int, label string, v Value) {
	indent := strings.Repeat("  ", depth)
	switch v := v.(type) {
	case *Compound:
		fmt.Fprintf(w, "%s%s: %d entries {\n", indent, label, v.Len())
		for name, child := range v.All() {
			dumpValue(w, depth+1, fmt.Sprintf("%v(%q)", child.Kind(), name), child)
		}
		fmt.Fprintf(w, "%s}\n", indent)
	case *List:
		fmt.Fprintf(w, "%s%s: %d entries of %v {\n", indent, label, v.Len(), v.ElemKind())
		for _, item := range v.All() {
			dumpValue(w, depth+1, item.Kind().String(), item)
		}
		fmt.Fprintf(w, "%s}\n", indent)
	case String:
		fmt.Fprintf(w, "%s%s: %q\n", indent, label, string(v))
	case ByteArray, IntArray, LongArray:
		fmt.Fprintf(w, "%s%s: %v\n", indent, label, v)
	case nil, End:
		fmt.Fprintf(w, "%s%s\n", indent, label)
	default:
		fmt.Fprintf(w, "%s%s: %v\n", indent, label, v)
	}
}
