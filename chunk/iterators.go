package chunk

import (
	"errors"
	"iter"
)

var errVisitCancelled = errors.New("visit cancelled")

// IterNBT returns an iterator over all chunks of the visitor.
// Iteration panics on unrecoverable errors.
func IterNBT(v Visitor) iter.Seq2[Coord, []byte] {
	return func(yield func(Coord, []byte) bool) {
		err := v.VisitNBT(func(c Coord, data []byte) error {
			if !yield(c, data) {
				return errVisitCancelled
			}
			return nil
		})
		if err != nil && err != errVisitCancelled {
			panic(err)
		}
	}
}
