package queuecore

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// BundleStatus is the lifecycle state of a Bundle, following the original
// Bundle::Status progression: a bundle is created (New), queued for
// transfer, downloaded once every item has its bytes on disk, moved into
// its final share location, and then hashed/shared — or diverted into one
// of the failure states at any point along the way.
type BundleStatus int32

const (
	// StatusNew is the transient state between construction and the
	// bundle actually being registered with QueueManager.
	StatusNew BundleStatus = iota
	// StatusQueued is the normal waiting/transferring state; Paused and
	// Running are sub-states layered on top via Priority, not separate
	// BundleStatus values (matching the original, where PAUSED is a
	// Priority, not a Status).
	StatusQueued
	// StatusDownloaded means every QueueItem has its bytes on disk but the
	// bundle hasn't been moved to its final share target yet.
	StatusDownloaded
	// StatusMoved means every file has been moved to its final location,
	// ready for hashing.
	StatusMoved
	// StatusFailedMissing means one or more downloaded files went missing
	// before they could be moved (disk cleared out from under the bundle).
	StatusFailedMissing
	// StatusSharingFailed means the move into the share tree failed for a
	// reason other than a missing source file (e.g. destination full).
	StatusSharingFailed
	// StatusFinished means no files remain queued; ready for hashing. Kept
	// as a distinct terminal-ish state from StatusMoved per §8.3 scenario
	// 1: a DOWNLOADED bundle can become MOVED without yet being FINISHED
	// if some items are still mid-flight.
	StatusFinished
	// StatusHashing, StatusHashFailed, StatusHashed, StatusShared track the
	// out-of-scope (§1 Non-goals) hashing/sharing pipeline this queue hands
	// a finished bundle off to; kept as states so a collaborator can drive
	// the transition without this package needing to implement hashing.
	StatusHashing
	StatusHashFailed
	StatusHashed
	StatusShared

	// StatusFailed is not part of the original 11-state Bundle::Status
	// enum; it's kept as an extra terminal state for bundles the
	// QueueManager gives up on outright (every source exhausted, disk
	// space permanently unavailable) rather than forcing them through
	// StatusFailedMissing/StatusSharingFailed, which are specifically
	// post-download failures.
	StatusFailed
)

// StatusRunning and StatusPaused are retained as aliases of StatusQueued:
// in the original, "running" and "paused" are Priority values layered on
// top of a bundle that is otherwise STATUS_QUEUED, not separate Status
// values, but existing call sites in this package distinguish them for
// readability at the SetStatus call site.
const (
	StatusRunning = StatusQueued
	StatusPaused  = StatusQueued
)

func (s BundleStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusQueued:
		return "queued"
	case StatusDownloaded:
		return "downloaded"
	case StatusMoved:
		return "moved"
	case StatusFailedMissing:
		return "failed-missing"
	case StatusSharingFailed:
		return "sharing-failed"
	case StatusFinished:
		return "finished"
	case StatusHashing:
		return "hashing"
	case StatusHashFailed:
		return "hash-failed"
	case StatusHashed:
		return "hashed"
	case StatusShared:
		return "shared"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Source identifies one peer a Bundle (or a QueueItem within it) can pull
// bytes from: a user on a hub, reached over ADC or NMDC.
type Source struct {
	// UserKey uniquely identifies the peer across reconnects, typically
	// the ADC CID or an NMDC nick@hub pair.
	UserKey string `xml:"user_key"`
	// Nick is the display name last seen for this user.
	Nick string `xml:"nick"`
	// HintedHubURL is the hub this source was last seen active on, used
	// to re-establish a connection after a drop.
	HintedHubURL string `xml:"hinted_hub_url"`
	// AvailBlocks is the last advertised partial-file-sharing bitmap for
	// this source against the owning QueueItem's TTH, nil if the source
	// has the complete file.
	AvailBlocks []bool `xml:"-"`
}

// Key returns the identity used to dedupe and index this source.
func (s *Source) Key() string {
	return s.UserKey
}

// Bundle groups one or more QueueItems (a single file, or every file under
// a shared directory root) added together and scheduled together. It is
// the unit of priority, persistence, and user-facing status.
type Bundle struct {
	// Token uniquely identifies this bundle, also used as its persistence
	// file name (Bundle<token>.xml).
	Token string `xml:"token,attr"`
	// Target is the destination directory (for a multi-file bundle) or
	// the single file path (for a one-item bundle).
	Target string `xml:"target"`
	// Size is the sum of every QueueItem's Size, ContentLengthUnknown
	// until all items have reported.
	Size ContentLength `xml:"size"`
	// Added is when the bundle was created.
	Added time.Time `xml:"added"`
	// BundleDate, if set, groups bundles added in the same user action
	// (e.g. one directory add producing many per-file bundles).
	BundleDate time.Time `xml:"bundle_date"`
	// Priority is the bundle's overall priority, used as the tiebreak
	// ahead of per-item priority when two bundles compete for one user.
	Priority Priority `xml:"priority"`
	// Status is the current lifecycle state.
	Status BundleStatus `xml:"status"`
	// SingleUser restricts every item in the bundle to its first
	// successful source (hub forbids MCN for this transfer).
	SingleUser bool `xml:"single_user"`

	// SeqOrder mirrors Bundle::seqOrder: when true, items are handed out in
	// queue order (directory-listing order) instead of the default
	// randomized-within-priority order, so a directory downloads roughly
	// top-to-bottom instead of scattering requests across every file at
	// once.
	SeqOrder bool `xml:"seq_order"`

	mu            sync.RWMutex
	queueItems    []*QueueItem
	finishedFiles int
	sources       map[string]*Source
	badSources    map[string]error
	runningUsers  map[string]int
	dirty         bool

	// recent flags a bundle added within Config.RecentBundleHours, surfaced
	// to the UI/auto-search layer; cleared by the periodic aging sweep.
	recent bool

	// bundleDirs mirrors Bundle::bundleDirs (a DirMap of directory path to
	// its own QueueItem count), used by a directory bundle to track how
	// many files remain under each subdirectory so AddDirectoryBundle-added
	// subtrees can be pruned directory-by-directory as they finish.
	bundleDirs map[string]int

	// userQueue holds, per priority level, the set of QueueItems currently
	// offered to each user: userQueue[priority][userKey] is a FIFO deque
	// (PutDownload's rotateQueue pushes a served item to the back of its
	// own deque rather than letting it repeat immediately). Mirrors
	// Bundle::userQueue[LAST].
	userQueue [PriorityHighest + 1]map[string][]*QueueItem
}

// NewFileBundle creates a single-item Bundle for one file.
func NewFileBundle(target string, size int64, tth string, priority Priority, maxSegments int) *Bundle {
	b := newBundle(target, priority)
	qi := newQueueItem(target, size, tth, priority, maxSegments)
	qi.bundle = b
	b.queueItems = []*QueueItem{qi}
	b.Size = ContentLength(size)
	return b
}

// NewDirectoryBundle creates a multi-item Bundle from a set of files that
// share a destination directory and were added together.
func NewDirectoryBundle(dir string, files []DirFile, priority Priority, maxSegments int) *Bundle {
	b := newBundle(dir, priority)
	b.BundleDate = b.Added
	var total int64
	for _, f := range files {
		qi := newQueueItem(f.RelPath, f.Size, f.TTH, priority, maxSegments)
		qi.bundle = b
		b.queueItems = append(b.queueItems, qi)
		total += f.Size
	}
	b.Size = ContentLength(total)
	return b
}

// DirFile describes one file discovered while adding a directory bundle.
type DirFile struct {
	RelPath string
	Size    int64
	TTH     string
}

func newBundle(target string, priority Priority) *Bundle {
	b := &Bundle{
		Token:        uuid.NewString(),
		Target:       target,
		Added:        time.Now(),
		Priority:     priority,
		Status:       StatusQueued,
		sources:      make(map[string]*Source),
		badSources:   make(map[string]error),
		runningUsers: make(map[string]int),
		bundleDirs:   make(map[string]int),
		recent:       true,
	}
	for p := range b.userQueue {
		b.userQueue[p] = make(map[string][]*QueueItem)
	}
	return b
}

// IsRecent reports whether this bundle was added within the configured
// "recent" window (SETTING(RECENT_BUNDLE_HOURS)); age is computed by the
// caller against Config.RecentBundleHours since Bundle has no config
// reference of its own.
func (b *Bundle) IsRecent(hours int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.recent {
		return false
	}
	return time.Since(b.Added) < time.Duration(hours)*time.Hour
}

// ClearRecent drops the recent flag once the aging sweep decides this
// bundle has aged out of Config.RecentBundleHours.
func (b *Bundle) ClearRecent() {
	b.mu.Lock()
	b.recent = false
	b.mu.Unlock()
}

// addUserQueue registers qi as servable by userKey at its current priority,
// appending to the back of that (priority, user) deque. Mirrors
// Bundle::addUserQueue(QueueItemPtr, userKey).
func (b *Bundle) addUserQueue(qi *QueueItem, userKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.userQueue[qi.Priority]
	for _, existing := range m[userKey] {
		if existing == qi {
			return
		}
	}
	m[userKey] = append(m[userKey], qi)
}

// removeUserQueue drops qi from userKey's deque at its current priority.
// Mirrors Bundle::removeUserQueue(QueueItemPtr, userKey).
func (b *Bundle) removeUserQueue(qi *QueueItem, userKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.userQueue[qi.Priority]
	list := m[userKey]
	for i, existing := range list {
		if existing == qi {
			m[userKey] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// rotateUserQueue moves qi to the back of userKey's deque at its current
// priority, called by QueueManager.PutDownload(rotateQueue=true) so a
// user that just served one segment of qi doesn't get offered the exact
// same item again before its other sources get a turn. Mirrors
// Bundle::rotateUserQueue.
func (b *Bundle) rotateUserQueue(qi *QueueItem, userKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.userQueue[qi.Priority]
	list := m[userKey]
	for i, existing := range list {
		if existing == qi {
			m[userKey] = append(append(list[:i:i], list[i+1:]...), qi)
			return
		}
	}
}

// hasAnyForUser reports whether userKey still has any QueueItem queued
// against this bundle at any priority, used by UserQueue.Remove to decide
// whether the bundle itself should drop out of that user's bundle index.
func (b *Bundle) hasAnyForUser(userKey string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, m := range b.userQueue {
		if len(m[userKey]) > 0 {
			return true
		}
	}
	return false
}

// getNextQI walks userKey's deques from the highest priority down to
// minPrio, returning the first item in each deque that clears hasSegment.
// Mirrors Bundle::getNextQI's priority-descending scan of userQueue.
func (b *Bundle) getNextQI(userKey string, src *Source, onlineHubs map[string]bool, minPrio Priority, downloadType DownloadType, allowOverlap bool, lastSpeed, width int64) (*QueueItem, Segment, bool) {
	b.mu.RLock()
	snapshots := make(map[Priority][]*QueueItem, len(b.userQueue))
	for p := PriorityHighest; p >= minPrio && p >= PriorityLowest; p-- {
		list := b.userQueue[p][userKey]
		cp := make([]*QueueItem, len(list))
		copy(cp, list)
		snapshots[p] = cp
	}
	b.mu.RUnlock()

	for p := PriorityHighest; p >= minPrio && p >= PriorityLowest; p-- {
		for _, qi := range snapshots[p] {
			if seg, ok := qi.hasSegment(src, onlineHubs, downloadType, allowOverlap, lastSpeed, width); ok {
				return qi, seg, true
			}
		}
	}
	return nil, Segment{}, false
}

// Items returns a copy of the bundle's QueueItem slice.
func (b *Bundle) Items() []*QueueItem {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*QueueItem, len(b.queueItems))
	copy(out, b.queueItems)
	return out
}

// AddSource registers or refreshes a known source for this bundle.
func (b *Bundle) AddSource(src *Source) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources[src.Key()] = src
}

// BlacklistSource marks a source as bad across the whole bundle, e.g.
// after the hub reports it vanished.
func (b *Bundle) BlacklistSource(key string, reason error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.badSources[key] = reason
	delete(b.sources, key)
}

// MarkDirty flags the bundle as needing a persistence write on the next
// debounce tick.
func (b *Bundle) MarkDirty() {
	b.mu.Lock()
	b.dirty = true
	b.mu.Unlock()
}

// TakeDirty reports whether the bundle is dirty and clears the flag,
// called by the persistence debounce loop.
func (b *Bundle) TakeDirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := b.dirty
	b.dirty = false
	return d
}

// Downloaded sums Downloaded() across every item in the bundle.
func (b *Bundle) Downloaded() int64 {
	b.mu.RLock()
	items := append([]*QueueItem{}, b.queueItems...)
	b.mu.RUnlock()
	var n int64
	for _, qi := range items {
		n += qi.Downloaded()
	}
	return n
}

// GetPercentage returns overall bundle progress as an integer 0-100.
func (b *Bundle) GetPercentage() int64 {
	size := int64(b.Size)
	if size <= 0 {
		return 0
	}
	return (b.Downloaded() * 100) / size
}

// itemFinished is called by QueueManager once a QueueItem completes; it
// advances the bundle to StatusFinished once every item is done.
func (b *Bundle) itemFinished() (allDone bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finishedFiles++
	allDone = b.finishedFiles >= len(b.queueItems)
	if allDone {
		b.Status = StatusFinished
	}
	b.dirty = true
	return
}

// SetStatus transitions the bundle's status and marks it dirty for
// persistence.
func (b *Bundle) SetStatus(s BundleStatus) {
	b.mu.Lock()
	b.Status = s
	b.dirty = true
	b.mu.Unlock()
}
