// Package spatial is the per-tick uniform grid used for neighbour lookup.
//
// The grid is rebuilt from scratch every tick and is read-only afterwards, so
// any number of workers may query it concurrently. Cells are addressed by a
// hash of the floored, cell-scaled position; distinct cells can share a key,
// which only widens a query, never narrows it. Callers filter by distance.
package spatial

import (
	"slices"

	"github.com/l1jgo/phalanx/internal/component"
	"github.com/l1jgo/phalanx/internal/core/ecs"
	"github.com/l1jgo/phalanx/internal/vmath"
)

// Per-axis multipliers for the cell key.
const (
	primeX int64 = 73856093
	primeY int64 = 19349663
	primeZ int64 = 83492791
)

// Key returns the cell key of p for the given cell size.
func Key(p vmath.Vec3, cellSize float64) int64 {
	if cellSize <= 0 {
		cellSize = 1
	}
	x, y, z := vmath.Floor(p, cellSize)
	return (x * primeX) ^ (y * primeY) ^ (z * primeZ)
}

// Entry is the snapshot of one unit taken at the start of the tick.
type Entry struct {
	ID        ecs.EntityID
	Slot      uint32
	Position  vmath.Vec3
	Velocity  vmath.Vec3
	Formation ecs.EntityID
	Faction   component.Faction
	Active    bool
}

type span struct{ lo, hi int32 }

// Grid maps cell keys to the entries in that cell.
type Grid struct {
	entries []Entry
	keys    []int64
	order   []int32
	present []bool
	cells   map[int64]span
	sorted  []Entry
}

func NewGrid(capacity int) *Grid {
	g := &Grid{cells: make(map[int64]span, capacity)}
	g.Reserve(capacity)
	return g
}

// Reserve grows the backing storage to hold n units. Capacity never shrinks.
func (g *Grid) Reserve(n int) {
	if cap(g.entries) >= n {
		return
	}
	g.entries = slices.Grow(g.entries[:0], n)
	g.keys = slices.Grow(g.keys[:0], n)
	g.order = slices.Grow(g.order[:0], n)
	g.present = slices.Grow(g.present[:0], n)
	g.sorted = slices.Grow(g.sorted[:0], n)
}

// Cap reports the reserved capacity.
func (g *Grid) Cap() int { return cap(g.entries) }

// Reset prepares the grid for n slots. Slots are filled with Put, possibly
// concurrently for distinct slots, then Build indexes them.
func (g *Grid) Reset(n int) {
	g.Reserve(n)
	g.entries = g.entries[:n]
	g.keys = g.keys[:n]
	g.present = g.present[:n]
	clear(g.present)
}

// Put records the snapshot for slot i with its cell key.
func (g *Grid) Put(i int, e Entry, key int64) {
	g.entries[i] = e
	g.keys[i] = key
	g.present[i] = true
}

// Build indexes the slots filled since Reset. Entries inside a cell are kept
// in slot order.
func (g *Grid) Build() {
	g.order = g.order[:0]
	for i, ok := range g.present {
		if ok {
			g.order = append(g.order, int32(i))
		}
	}
	slices.SortFunc(g.order, func(a, b int32) int {
		ka, kb := g.keys[a], g.keys[b]
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return int(a - b)
	})
	clear(g.cells)
	g.sorted = g.sorted[:0]
	for i := 0; i < len(g.order); {
		k := g.keys[g.order[i]]
		j := i
		for j < len(g.order) && g.keys[g.order[j]] == k {
			g.sorted = append(g.sorted, g.entries[g.order[j]])
			j++
		}
		g.cells[k] = span{int32(i), int32(j)}
		i = j
	}
}

// Cell returns the entries stored under key. The slice must not be modified.
func (g *Grid) Cell(key int64) []Entry {
	s, ok := g.cells[key]
	if !ok {
		return nil
	}
	return g.sorted[s.lo:s.hi]
}

// Near returns the entries sharing p's cell.
func (g *Grid) Near(p vmath.Vec3, cellSize float64) []Entry {
	return g.Cell(Key(p, cellSize))
}

// Lookup returns the snapshot of slot i, if the slot was indexed this tick.
func (g *Grid) Lookup(i int) (Entry, bool) {
	if i < 0 || i >= len(g.present) || !g.present[i] {
		return Entry{}, false
	}
	return g.entries[i], true
}

// Len is the number of indexed entries.
func (g *Grid) Len() int { return len(g.sorted) }

// Cells is the number of occupied keys.
func (g *Grid) Cells() int { return len(g.cells) }

// EachCell visits every occupied cell in ascending key order.
func (g *Grid) EachCell(fn func(key int64, entries []Entry)) {
	keys := make([]int64, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fn(k, g.Cell(k))
	}
}
