package queuecore

import (
	"sync"
)

// userQueueEntry is one (priority, bundle) pairing in a user's
// userBundleQueue list, kept sorted by descending bundle priority so
// getNextBundleQI can scan front-to-back and break as soon as priorities
// drop below minPrio.
type userQueueEntry struct {
	bundle *Bundle
}

// UserQueue fans a set of connected-user queues out by user key. It keeps
// two independent indices per user, mirroring UserQueue::userPrioQueue and
// UserQueue::userBundleQueue:
//
//   - userPrioQueue holds pseudo-items with no owning Bundle (file lists,
//     client views) in a flat, priority-ordered list.
//   - userBundleQueue holds every Bundle that currently lists the user as a
//     source, ordered by descending Bundle.Priority; GetNext walks it and
//     delegates to Bundle.getNextQI for the per-priority-per-user deque
//     scan.
type UserQueue struct {
	mu sync.RWMutex

	prio   map[string][]*QueueItem
	bundle map[string][]*Bundle
}

// NewUserQueue builds an empty UserQueue.
func NewUserQueue() *UserQueue {
	return &UserQueue{
		prio:   make(map[string][]*QueueItem),
		bundle: make(map[string][]*Bundle),
	}
}

// Add registers qi as servable by userKey. A file-list pseudo-item (no
// owning bundle, or flagged as one of the file-list flavors) goes into
// userPrioQueue; an ordinary bundle item is registered into its Bundle's
// per-priority deque and the bundle itself is (re)inserted into
// userBundleQueue in priority order.
func (uq *UserQueue) Add(userKey string, qi *QueueItem) {
	if qi.bundle == nil || qi.Flags.IsFileListFlag() {
		uq.addPrio(userKey, qi)
		return
	}
	qi.bundle.addUserQueue(qi, userKey)
	uq.insertBundle(userKey, qi.bundle)
}

func (uq *UserQueue) addPrio(userKey string, qi *QueueItem) {
	uq.mu.Lock()
	defer uq.mu.Unlock()
	list := uq.prio[userKey]
	for _, existing := range list {
		if existing == qi {
			return
		}
	}
	insertIdx := len(list)
	for i, existing := range list {
		if existing.Priority < qi.Priority {
			insertIdx = i
			break
		}
	}
	uq.prio[userKey] = Place(list, qi, insertIdx)
}

func (uq *UserQueue) insertBundle(userKey string, b *Bundle) {
	uq.mu.Lock()
	defer uq.mu.Unlock()
	list := uq.bundle[userKey]
	for _, existing := range list {
		if existing == b {
			return
		}
	}
	insertIdx := len(list)
	for i, existing := range list {
		if existing.Priority < b.Priority {
			insertIdx = i
			break
		}
	}
	uq.bundle[userKey] = placeBundles(list, b, insertIdx)
}

func placeBundles(list []*Bundle, b *Bundle, idx int) []*Bundle {
	list = append(list, nil)
	copy(list[idx+1:], list[idx:])
	list[idx] = b
	return list
}

// Remove drops qi from userKey's queue, whichever index it lives in.
func (uq *UserQueue) Remove(userKey string, qi *QueueItem) {
	if qi.bundle == nil || qi.Flags.IsFileListFlag() {
		uq.removePrio(userKey, qi)
		return
	}
	qi.bundle.removeUserQueue(qi, userKey)
	if !qi.bundle.hasAnyForUser(userKey) {
		uq.removeBundle(userKey, qi.bundle)
	}
}

func (uq *UserQueue) removePrio(userKey string, qi *QueueItem) {
	uq.mu.Lock()
	defer uq.mu.Unlock()
	list := uq.prio[userKey]
	for i, existing := range list {
		if existing == qi {
			uq.prio[userKey] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (uq *UserQueue) removeBundle(userKey string, b *Bundle) {
	uq.mu.Lock()
	defer uq.mu.Unlock()
	list := uq.bundle[userKey]
	for i, existing := range list {
		if existing == b {
			uq.bundle[userKey] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// DropUser discards a user's whole index, used on final disconnect.
func (uq *UserQueue) DropUser(userKey string) {
	uq.mu.Lock()
	defer uq.mu.Unlock()
	delete(uq.prio, userKey)
	delete(uq.bundle, userKey)
}

// RotateQueue moves qi to the back of userKey's per-priority deque within
// its owning bundle, used by QueueManager.PutDownload(rotateQueue=true).
func (uq *UserQueue) RotateQueue(userKey string, qi *QueueItem) {
	if qi.bundle == nil {
		return
	}
	qi.bundle.rotateUserQueue(qi, userKey)
}

func (uq *UserQueue) snapshotPrio(userKey string) []*QueueItem {
	uq.mu.RLock()
	defer uq.mu.RUnlock()
	list := uq.prio[userKey]
	out := make([]*QueueItem, len(list))
	copy(out, list)
	return out
}

func (uq *UserQueue) snapshotBundles(userKey string) []*Bundle {
	uq.mu.RLock()
	defer uq.mu.RUnlock()
	list := uq.bundle[userKey]
	out := make([]*Bundle, len(list))
	copy(out, list)
	return out
}

// getNextPrioQI scans userPrioQueue for userKey, returning the first
// file-list item that can accept a fresh segment. Mirrors
// UserQueue::getNextPrioQI.
func (uq *UserQueue) getNextPrioQI(userKey string, src *Source, onlineHubs map[string]bool, downloadType DownloadType, allowOverlap bool, width int64) (*QueueItem, Segment, bool) {
	for _, qi := range uq.snapshotPrio(userKey) {
		if seg, ok := qi.hasSegment(src, onlineHubs, downloadType, allowOverlap, 0, width); ok {
			return qi, seg, true
		}
	}
	return nil, Segment{}, false
}

// getNextBundleQI scans userKey's bundles in descending priority order,
// applying the MAX_RUNNING_BUNDLES gate (skip a bundle that would start a
// new running slot once the limit is reached, but keep serving bundles
// already in runningBundles) and the priority-break-not-skip short circuit
// (the list is priority-sorted, so once a bundle's priority drops below
// minPrio nothing further can qualify either). Mirrors
// UserQueue::getNextBundleQI.
func (uq *UserQueue) getNextBundleQI(userKey string, src *Source, runningBundles map[string]bool, onlineHubs map[string]bool, minPrio Priority, downloadType DownloadType, allowOverlap bool, lastSpeed, width int64, maxRunningBundles int) (*QueueItem, Segment, bool) {
	for _, b := range uq.snapshotBundles(userKey) {
		if maxRunningBundles > 0 && len(runningBundles) >= maxRunningBundles && !runningBundles[b.Token] {
			continue
		}
		if b.Priority < minPrio {
			break
		}
		if qi, seg, ok := b.getNextQI(userKey, src, onlineHubs, minPrio, downloadType, allowOverlap, lastSpeed, width); ok {
			return qi, seg, true
		}
	}
	return nil, Segment{}, false
}

// GetNext answers "what should userKey, connected as src, download next,"
// implementing the full §4.2 algorithm: try userPrioQueue (file lists)
// first, then userBundleQueue (ordinary bundle items) gated by
// MAX_RUNNING_BUNDLES and minPrio; if nothing qualifies and the caller
// hadn't already allowed overlap, retry once with allowOverlap=true so a
// fast source can steal part of a slow one's segment rather than sit idle.
// Mirrors UserQueue::getNext.
func (uq *UserQueue) GetNext(userKey string, src *Source, runningBundles map[string]bool, onlineHubs map[string]bool, minPrio Priority, lastSpeed int64, downloadType DownloadType, width int64, maxRunningBundles int) (*QueueItem, Segment, bool) {
	return uq.getNext(userKey, src, runningBundles, onlineHubs, minPrio, lastSpeed, downloadType, width, maxRunningBundles, false)
}

func (uq *UserQueue) getNext(userKey string, src *Source, runningBundles map[string]bool, onlineHubs map[string]bool, minPrio Priority, lastSpeed int64, downloadType DownloadType, width int64, maxRunningBundles int, allowOverlap bool) (*QueueItem, Segment, bool) {
	if qi, seg, ok := uq.getNextPrioQI(userKey, src, onlineHubs, downloadType, allowOverlap, width); ok {
		return qi, seg, true
	}
	if qi, seg, ok := uq.getNextBundleQI(userKey, src, runningBundles, onlineHubs, minPrio, downloadType, allowOverlap, lastSpeed, width, maxRunningBundles); ok {
		return qi, seg, true
	}
	if !allowOverlap {
		return uq.getNext(userKey, src, runningBundles, onlineHubs, minPrio, lastSpeed, downloadType, width, maxRunningBundles, true)
	}
	return nil, Segment{}, false
}
