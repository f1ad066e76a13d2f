package queuecore

import (
	"fmt"
	"sort"
	"sync"
)

// Segment is a half-open byte range [Start, Start+Size) claimed by a single
// download attempt against a QueueItem. Overlapped marks a segment that was
// opened as a duplicate of an already-assigned range, used by the endgame
// preemption path in overlap.go.
type Segment struct {
	Start      int64
	Size       int64
	Overlapped bool
}

// End returns the exclusive end offset of the segment.
func (s Segment) End() int64 {
	return s.Start + s.Size
}

func (s Segment) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}

// DoneSet tracks the disjoint, sorted set of byte ranges a QueueItem has
// already written to its temp target. Adjacent and overlapping ranges are
// merged eagerly on insert so the set never grows past the number of
// genuinely disjoint holes in the file.
type DoneSet struct {
	mu     sync.Mutex
	ranges []Segment
}

// NewDoneSet builds a DoneSet, optionally seeded from persisted ranges.
func NewDoneSet(seed ...Segment) *DoneSet {
	d := &DoneSet{}
	for _, s := range seed {
		d.Add(s.Start, s.Size)
	}
	return d
}

// Add records [start, start+size) as finished, merging with any neighbor
// or overlapping range already present.
func (d *DoneSet) Add(start, size int64) {
	if size <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	in := Segment{Start: start, Size: size}
	merged := make([]Segment, 0, len(d.ranges)+1)
	for _, r := range d.ranges {
		if r.End() < in.Start || r.Start > in.End() {
			merged = append(merged, r)
			continue
		}
		// r touches or overlaps in; widen in to absorb it.
		ns, ne := in.Start, in.End()
		if r.Start < ns {
			ns = r.Start
		}
		if r.End() > ne {
			ne = r.End()
		}
		in = Segment{Start: ns, Size: ne - ns}
	}
	merged = append(merged, in)
	sort.Slice(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start })
	d.ranges = merged
}

// Ranges returns a copy of the finished, disjoint ranges, in ascending
// order, for persistence.
func (d *DoneSet) Ranges() []Segment {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Segment, len(d.ranges))
	copy(out, d.ranges)
	return out
}

// Total returns the sum of all finished range sizes.
func (d *DoneSet) Total() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var n int64
	for _, r := range d.ranges {
		n += r.Size
	}
	return n
}

// Holes returns the gaps in [0, size) not yet covered by any finished range.
func (d *DoneSet) Holes(size int64) []Segment {
	d.mu.Lock()
	defer d.mu.Unlock()
	var holes []Segment
	cur := int64(0)
	for _, r := range d.ranges {
		if r.Start > cur {
			holes = append(holes, Segment{Start: cur, Size: r.Start - cur})
		}
		if r.End() > cur {
			cur = r.End()
		}
	}
	if cur < size {
		holes = append(holes, Segment{Start: cur, Size: size - cur})
	}
	return holes
}

// Covers reports whether [start, start+size) lies entirely within a
// finished range.
func (d *DoneSet) Covers(start, size int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	end := start + size
	for _, r := range d.ranges {
		if r.Start <= start && r.End() >= end {
			return true
		}
	}
	return false
}

// endgameFloor bounds the fraction of the configured chunk width handed out
// as a file nears completion, so the last segments shrink rather than
// leaving one straggling peer to finish the whole tail alone; endgameBlock
// is the granularity segment sizes are rounded down to.
const (
	endgameFloor = 0.25
	endgameBlock = 16 * KB
)

// GetNextSegment picks the next byte range to assign to a source for a
// QueueItem of the given size, given what's already done and already
// assigned (in-flight) elsewhere. availBlocks, if non-nil, is the partial
// file sharing bitmap (see GetPartialInfo) restricting the candidate to
// blocks the source actually has; a nil bitmap means the source has the
// whole file.
//
// The window narrows as the item approaches completion:
//
//	target = floor_to_block(W * max(0.25, 1 - (done/size)^2))
//
// so early allocations are full-width and late allocations shrink toward a
// quarter of the configured width, reducing the cost of a wrong guess about
// which peer will finish first.
func GetNextSegment(size, width int64, done *DoneSet, inflight []Segment, availBlocks []bool) (Segment, bool) {
	if size <= 0 || width <= 0 {
		return Segment{}, false
	}
	progress := float64(done.Total()) / float64(size)
	if progress > 1 {
		progress = 1
	}
	frac := 1 - progress*progress
	if frac < endgameFloor {
		frac = endgameFloor
	}
	target := int64(float64(width) * frac)
	target = (target / endgameBlock) * endgameBlock
	if target < endgameBlock {
		target = endgameBlock
	}
	if target > width {
		target = width
	}

	busy := append([]Segment{}, inflight...)
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start < busy[j].Start })

	for _, hole := range done.Holes(size) {
		free := subtractAll(hole, busy)
		for _, f := range free {
			if availBlocks != nil {
				var ok bool
				f, ok = firstAvailableSubrange(f, size, availBlocks)
				if !ok {
					continue
				}
			}
			sz := f.Size
			if sz > target {
				sz = target
			}
			if sz <= 0 {
				continue
			}
			return Segment{Start: f.Start, Size: sz}, true
		}
	}
	return Segment{}, false
}

// subtractAll removes every range in busy from hole, returning the
// remaining free sub-ranges in ascending order.
func subtractAll(hole Segment, busy []Segment) []Segment {
	free := []Segment{hole}
	for _, b := range busy {
		var next []Segment
		for _, f := range free {
			if b.End() <= f.Start || b.Start >= f.End() {
				next = append(next, f)
				continue
			}
			if b.Start > f.Start {
				next = append(next, Segment{Start: f.Start, Size: b.Start - f.Start})
			}
			if b.End() < f.End() {
				next = append(next, Segment{Start: b.End(), Size: f.End() - b.End()})
			}
		}
		free = next
	}
	return free
}

// firstAvailableSubrange finds the first contiguous run of avail-marked
// blocks inside s, returning the byte range it covers.
func firstAvailableSubrange(s Segment, size int64, avail []bool) (Segment, bool) {
	if len(avail) == 0 {
		return s, true
	}
	blockSize := size / int64(len(avail))
	if blockSize <= 0 {
		blockSize = 1
	}
	first := int(s.Start / blockSize)
	last := int((s.End() - 1) / blockSize)
	if last >= len(avail) {
		last = len(avail) - 1
	}
	runStart := -1
	for i := first; i <= last; i++ {
		if i < 0 || i >= len(avail) || !avail[i] {
			if runStart >= 0 {
				break
			}
			continue
		}
		if runStart < 0 {
			runStart = i
		}
	}
	if runStart < 0 {
		return Segment{}, false
	}
	runEnd := runStart
	for runEnd <= last && runEnd < len(avail) && avail[runEnd] {
		runEnd++
	}
	start := int64(runStart) * blockSize
	if start < s.Start {
		start = s.Start
	}
	end := int64(runEnd) * blockSize
	if end > s.End() || runEnd == len(avail) {
		end = s.End()
	}
	if end <= start {
		return Segment{}, false
	}
	return Segment{Start: start, Size: end - start}, true
}

// GetPartialInfo encodes a DoneSet as an ADC PFS/NMDC-style block-index
// bitmap capped at 255 blocks, suitable for advertising partial file
// availability to other peers.
func GetPartialInfo(size int64, done *DoneSet) (blocks []bool) {
	const maxBlocks = 255
	n := maxBlocks
	if size < maxBlocks {
		n = int(size)
	}
	if n <= 0 {
		return nil
	}
	blocks = make([]bool, n)
	blockSize := size / int64(n)
	if blockSize <= 0 {
		blockSize = 1
	}
	for i := 0; i < n; i++ {
		start := int64(i) * blockSize
		sz := blockSize
		if i == n-1 {
			sz = size - start
		}
		if done.Covers(start, sz) {
			blocks[i] = true
		}
	}
	return blocks
}
