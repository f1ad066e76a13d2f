package queuecore

import (
	"time"
)

// Overlap preemption lets a fast new source steal the tail of a slow
// source's segment on a QueueItem that is already at its MaxSegments cap,
// instead of waiting idle for a slot. It is the inter-peer analogue of the
// teacher's intra-download work stealing: same speed/remaining thresholds,
// same 50/50 split of what's left, reapplied at the granularity of a
// Segment claimed by a Source rather than a Part claimed by a goroutine.
const (
	// OverlapSpeedThreshold is the minimum sustained speed, in bytes/sec,
	// a candidate source must show before it's considered for stealing.
	OverlapSpeedThreshold = 10 * MB
	// OverlapMinRemaining is the minimum remaining bytes a victim segment
	// must still have outstanding to be worth splitting.
	OverlapMinRemaining = 5 * MB
	// OverlapProjectionFactor is how much faster the candidate must be
	// projected to finish the remainder versus the victim before
	// preemption is allowed.
	OverlapProjectionFactor = 2
)

// isOverlapCandidate reports whether a source's observed throughput
// qualifies it to attempt stealing from a slower peer.
func isOverlapCandidate(bytesRead int64, elapsed time.Duration) bool {
	if bytesRead <= 0 || elapsed <= 0 {
		return false
	}
	speed := (bytesRead * int64(time.Second)) / int64(elapsed)
	return speed > OverlapSpeedThreshold
}

// projectedFinish estimates the time to finish `remaining` bytes at the
// given speed (bytes/sec). Returns a very large duration if speed is
// non-positive, so such a source never looks "faster" than anything.
func projectedFinish(remaining, speedBps int64) time.Duration {
	if speedBps <= 0 {
		return time.Duration(1<<62 - 1)
	}
	return time.Duration((remaining * int64(time.Second)) / speedBps)
}

// speedOf derives bytes/sec from an ActiveSegment snapshot.
func speedOf(as ActiveSegment) int64 {
	elapsed := time.Since(as.StartedAt)
	if elapsed <= 0 {
		return 0
	}
	return (as.Read * int64(time.Second)) / int64(elapsed)
}

func remainingOf(as ActiveSegment) int64 {
	r := as.Segment.Size - as.Read
	if r < 0 {
		return 0
	}
	return r
}

// findOverlapVictim picks the active source with the most remaining,
// not-yet-overlapped work, among those exceeding OverlapMinRemaining.
// Mirrors findBestVictimForStealing's "largest remaining wins" rule.
func findOverlapVictim(actives []ActiveSegment) (ActiveSegment, bool) {
	var best ActiveSegment
	var bestRemaining int64
	found := false
	for _, as := range actives {
		if as.Segment.Overlapped {
			continue
		}
		remaining := remainingOf(as)
		if remaining <= OverlapMinRemaining {
			continue
		}
		if !found || remaining > bestRemaining {
			best = as
			bestRemaining = remaining
			found = true
		}
	}
	return best, found
}

// checkOverlaps evaluates whether candidate (offering candidateSpeed
// bytes/sec, already observed over some prior activity on other items)
// should preempt part of a slower source's segment on qi. All four
// preconditions must hold:
//
//  1. qi has no free segment slot left (IsFull) — overlap only kicks in
//     when the alternative is leaving candidate idle.
//  2. candidate's speed clears OverlapSpeedThreshold.
//  3. a victim exists with more than OverlapMinRemaining bytes left that
//     hasn't already been overlapped once.
//  4. candidate is projected to finish the stolen half at least
//     OverlapProjectionFactor times faster than the victim would finish
//     its own remainder.
//
// On success it splits the victim's segment in half by remaining bytes,
// installs the tail half as candidate's new claim, and returns it.
func checkOverlaps(qi *QueueItem, candidate *Source, candidateSpeed int64) (Segment, bool) {
	if !qi.IsFull() {
		return Segment{}, false
	}
	if candidateSpeed <= OverlapSpeedThreshold {
		return Segment{}, false
	}

	victim, ok := findOverlapVictim(qi.ActiveSegments())
	if !ok {
		return Segment{}, false
	}

	remaining := remainingOf(victim)
	victimSpeed := speedOf(victim)
	half := remaining / 2
	cut := victim.Segment.End() - half

	candidateEta := projectedFinish(half, candidateSpeed)
	victimEta := projectedFinish(remaining, victimSpeed)
	if victimEta < time.Duration(OverlapProjectionFactor)*candidateEta {
		return Segment{}, false
	}

	tail, ok := qi.SplitSegment(victim.Source, cut)
	if !ok {
		return Segment{}, false
	}
	qi.ClaimSegment(candidate, tail)
	return tail, true
}
