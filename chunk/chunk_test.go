package chunk_test

import (
	"testing"

	"github.com/eak1mov/go-libnbt/chunk"
	"github.com/google/go-cmp/cmp"
)

func TestSlot(t *testing.T) {
	for _, tc := range []struct {
		Coord chunk.Coord
		Slot  int
	}{
		{Coord: chunk.Coord{X: 0, Y: 0, Z: 0}, Slot: 0},
		{Coord: chunk.Coord{X: 31, Y: 0, Z: 63}, Slot: 1023},
		{Coord: chunk.Coord{X: 31, Y: 63, Z: 0}, Slot: 31},
		{Coord: chunk.Coord{X: 32, Y: 7, Z: 1}, Slot: 32},
		{Coord: chunk.Coord{X: -1, Y: 0, Z: -1}, Slot: 1023},
		{Coord: chunk.Coord{X: -32, Y: 0, Z: -33}, Slot: 31 * 32},
	} {
		if got := tc.Coord.Slot(); got != tc.Slot {
			t.Errorf("%+v.Slot() = %v, want = %v", tc.Coord, got, tc.Slot)
		}
	}
}

func TestRegion(t *testing.T) {
	c := chunk.Coord{X: -1, Z: 65}
	if got, want := c.RegionX(), int32(-1); got != want {
		t.Errorf("RegionX() = %v, want = %v", got, want)
	}
	if got, want := c.RegionZ(), int32(2); got != want {
		t.Errorf("RegionZ() = %v, want = %v", got, want)
	}
}

func TestFromSlot(t *testing.T) {
	for _, rc := range [][2]int32{{0, 0}, {-1, 3}, {5, -7}} {
		for slot := range chunk.SlotsPerRegion {
			c := chunk.FromSlot(rc[0], rc[1], slot)
			if c.Slot() != slot || c.RegionX() != rc[0] || c.RegionZ() != rc[1] {
				t.Fatalf("FromSlot(%v, %v, %v) = %+v", rc[0], rc[1], slot, c)
			}
		}
	}
}

func TestFromBlock(t *testing.T) {
	if diff := cmp.Diff(chunk.Coord{X: -1, Y: 4, Z: 2}, chunk.FromBlock(-1, 64, 47)); diff != "" {
		t.Errorf("FromBlock mismatch (-want +got):\n%v", diff)
	}
}
