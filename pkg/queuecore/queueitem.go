package queuecore

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// Priority orders QueueItems within a Bundle's per-user queues.
type Priority int32

const (
	PriorityLowest Priority = iota
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
)

// QueueItemFlag marks out-of-band conditions on a QueueItem that the
// scheduler and persistence layer must account for, mirroring the
// original QueueItem::FileFlags bitmask.
type QueueItemFlag uint32

const (
	FlagNone QueueItemFlag = 0
	// FlagPaused keeps the item out of GetNextForUser without removing it
	// from the bundle.
	FlagPaused QueueItemFlag = 1 << iota
	// FlagAutoPriority lets the scheduler raise/lower Priority based on
	// source availability rather than honoring a pinned value.
	FlagAutoPriority
	// FlagSingleSource restricts the item to its first successful source,
	// used for hubs that disallow MCN.
	FlagSingleSource
	// FlagUserList marks a pseudo-item requesting a peer's file list
	// rather than a shared file (FLAG_USER_LIST). Scheduled ahead of
	// normal bundle items via userPrioQueue.
	FlagUserList
	// FlagClientView marks a file list requested for local display rather
	// than for a directory-download match (FLAG_CLIENT_VIEW); like
	// FlagUserList it only makes sense while the owning hub is online.
	FlagClientView
	// FlagDirectoryDownload marks a file-list item fetched in order to
	// expand a directory-download request once the list arrives
	// (FLAG_DIRECTORY_DOWNLOAD).
	FlagDirectoryDownload
	// FlagPartialList marks a file-list request scoped to one directory of
	// the remote share rather than the whole list (FLAG_PARTIAL_LIST).
	FlagPartialList
	// FlagMatchQueue marks a file-list item fetched to match the peer's
	// share against our existing queue (FLAG_MATCH_QUEUE).
	FlagMatchQueue
	// FlagTreeOnly marks an item that transfers a tiger-tree hash rather
	// than file content (Transfer::TYPE_TREE): it is never segmented
	// across multiple concurrent sources.
	FlagTreeOnly
)

// IsFileListFlag reports whether f marks a pseudo-item representing a
// peer's file list (user-list/client-view/directory-download/partial-list/
// match-queue) rather than ordinary shared-file content. Such items go in
// userPrioQueue instead of a Bundle's per-priority deque, and can only be
// served while their source's hub is online (there's no persistent queue
// position to fall back to once the hub session ends).
func (f QueueItemFlag) IsFileListFlag() bool {
	return f&(FlagUserList|FlagClientView|FlagDirectoryDownload|FlagPartialList|FlagMatchQueue) != 0
}

// DownloadType classifies the kind of download slot a source is requesting,
// mirroring QueueItemBase::DownloadType. It governs the slot-stealing rules
// in hasSegment: a TYPE_SMALL request may use a small file's reserved slot
// outside the normal MaxSegments budget, while a TYPE_MCN_NORMAL request is
// barred from stealing a slot reserved for small files.
type DownloadType int32

const (
	// DownloadTypeNone means the request isn't MCN-aware at all (single
	// connection peer); MaxSegments is effectively 1.
	DownloadTypeNone DownloadType = iota
	// DownloadTypeAny means any QueueItem is acceptable, small or not.
	DownloadTypeAny
	// DownloadTypeSmall requests a small file specifically, to fill an
	// idle connection slot without competing for a normal MCN segment.
	DownloadTypeSmall
	// DownloadTypeMCNNormal requests a normal (non-small) multi-connection
	// segment and must not be handed a small-file item reserved for
	// DownloadTypeSmall.
	DownloadTypeMCNNormal
)

// smallFileSize is the usesSmallSlot() threshold: items at or under this
// size are eligible to fill a DownloadTypeSmall request outside the normal
// per-item segment budget.
const smallFileSize = 64 * KB

// QueueItem is one file within a Bundle: a target path, a TTH identity, and
// the segment/source bookkeeping needed to drive concurrent multi-source
// download of that single file.
type QueueItem struct {
	// Target is the final on-disk path once the item completes.
	Target string `xml:"target"`
	// TempTarget is the in-progress path segments are written to.
	TempTarget string `xml:"temp_target"`
	// Size is the total byte size of the item, 0 if unknown until the
	// first source responds.
	Size ContentLength `xml:"size"`
	// TTH is the tiger-tree hash identifying file content, used to dedupe
	// sources across different hubs/nicks that offer the same bytes.
	TTH string `xml:"tth"`
	// Priority governs ordering within a user's queue.
	Priority Priority `xml:"priority"`
	// MaxSegments caps how many concurrent sources may hold a Segment on
	// this item at once (the MCN limit).
	MaxSegments int `xml:"max_segments"`
	// Added is when the item was queued.
	Added time.Time `xml:"added"`
	// Flags holds the QueueItemFlag bitset.
	Flags QueueItemFlag `xml:"flags"`

	mu sync.RWMutex
	// done tracks byte ranges already written to TempTarget.
	done *DoneSet
	// inflight tracks segments currently claimed by an active Source.
	inflight []Segment
	// sources maps a Source key to its current Segment, if any.
	sources map[string]*activeSource
	// badSources holds source keys that failed and should not be retried
	// for this item (wrong TTH, repeated transfer errors).
	badSources map[string]error
	// blockedHubs holds hub URLs a PutDownload(noAccess=true) call has
	// barred from offering this item again (blockSourceHub).
	blockedHubs map[string]bool

	bundle *Bundle
}

type activeSource struct {
	src       *Source
	seg       Segment
	read      int64 // atomic: bytes written within seg so far
	startedAt time.Time
}

func newQueueItem(target string, size int64, tth string, priority Priority, maxSegments int) *QueueItem {
	return &QueueItem{
		Target:      target,
		TempTarget:  target + ".part",
		Size:        ContentLength(size),
		TTH:         tth,
		Priority:    priority,
		MaxSegments: maxSegments,
		Added:       time.Now(),
		done:        NewDoneSet(),
		sources:     make(map[string]*activeSource),
		badSources:  make(map[string]error),
		blockedHubs: make(map[string]bool),
	}
}

// usesSmallSlot reports whether this item is small enough to be offered to
// a DownloadTypeSmall request outside the item's normal MaxSegments budget.
func (qi *QueueItem) usesSmallSlot() bool {
	return int64(qi.Size) > 0 && int64(qi.Size) <= smallFileSize
}

// startDown reports whether this item is in a state where it can start a
// new download at all, independent of source-specific eligibility: not
// paused and not already complete.
func (qi *QueueItem) startDown() bool {
	qi.mu.RLock()
	defer qi.mu.RUnlock()
	if qi.Flags&FlagPaused != 0 {
		return false
	}
	return int64(qi.Size) <= 0 || qi.Downloaded() < int64(qi.Size)
}

// BlockSourceHub bars src's hub from being offered this item again,
// called by QueueManager.PutDownload when a transfer fails with
// "no access" (noAccess=true): the hub revoked the share, so retrying
// against the same hub is pointless until the item is re-added.
func (qi *QueueItem) BlockSourceHub(hubURL string) {
	qi.mu.Lock()
	defer qi.mu.Unlock()
	qi.blockedHubs[hubURL] = true
}

// hasSegment is the per-item eligibility gate UserQueue.GetNext consults
// for each candidate: startDown, hub-blocking, offline-hub-for-filelist,
// completion, slot-stealing rules for small vs. MCN-normal requests, and
// (for a tiger-tree transfer or an item whose Size is still unknown, such as
// a file list) the no-segmenting rule, under which the whole file goes to a
// single source, followed by an actual
// segment lookup. When the item is already at MaxSegments and allowOverlap
// is set, it falls back to overlap.go's checkOverlaps instead of a fresh
// GetNextSegment claim, mirroring the second, allowOverlap=true pass of the
// original getNext recursion.
func (qi *QueueItem) hasSegment(src *Source, onlineHubs map[string]bool, downloadType DownloadType, allowOverlap bool, lastSpeed, width int64) (Segment, bool) {
	if !qi.startDown() {
		return Segment{}, false
	}
	qi.mu.RLock()
	blocked := qi.blockedHubs[src.HintedHubURL]
	isFileList := qi.Flags.IsFileListFlag()
	treeOnly := qi.Flags&FlagTreeOnly != 0
	full := len(qi.sources) >= qi.MaxSegments
	small := qi.usesSmallSlot()
	qi.mu.RUnlock()
	if blocked {
		return Segment{}, false
	}
	if isFileList && onlineHubs != nil && !onlineHubs[src.HintedHubURL] {
		return Segment{}, false
	}
	if qi.IsComplete() {
		return Segment{}, false
	}

	switch downloadType {
	case DownloadTypeSmall:
		if !small {
			return Segment{}, false
		}
	case DownloadTypeMCNNormal:
		if small {
			return Segment{}, false
		}
	}

	if treeOnly || int64(qi.Size) <= 0 {
		if qi.SourceCount() > 0 {
			return Segment{}, false
		}
		return Segment{Start: 0, Size: int64(qi.Size)}, true
	}

	if full {
		if !allowOverlap {
			return Segment{}, false
		}
		return checkOverlaps(qi, src, lastSpeed)
	}

	seg, err := qi.AssignSegment(src, width)
	if err != nil {
		return Segment{}, false
	}
	return seg, true
}

// Downloaded returns the number of bytes already written.
func (qi *QueueItem) Downloaded() int64 {
	return qi.done.Total()
}

// GetPercentage returns download progress as an integer 0-100.
func (qi *QueueItem) GetPercentage() int64 {
	size := int64(qi.Size)
	if size <= 0 {
		return 0
	}
	return (qi.Downloaded() * 100) / size
}

// IsComplete reports whether every byte of the item has been written.
func (qi *QueueItem) IsComplete() bool {
	size := int64(qi.Size)
	if size <= 0 {
		return false
	}
	return qi.Downloaded() >= size
}

// SourceCount returns how many sources currently hold a live segment.
func (qi *QueueItem) SourceCount() int {
	qi.mu.RLock()
	defer qi.mu.RUnlock()
	return len(qi.sources)
}

// AssignSegment picks the next segment for src, respecting MaxSegments,
// badSources, and the source's partial-file bitmap.
func (qi *QueueItem) AssignSegment(src *Source, width int64) (Segment, error) {
	qi.mu.Lock()
	defer qi.mu.Unlock()

	if qi.Flags&FlagPaused != 0 {
		return Segment{}, ErrItemPaused
	}
	if _, bad := qi.badSources[src.Key()]; bad {
		return Segment{}, ErrSourceBlacklisted
	}
	if len(qi.sources) >= qi.MaxSegments {
		return Segment{}, ErrNoFreeSegmentSlot
	}

	seg, ok := GetNextSegment(int64(qi.Size), width, qi.done, qi.inflight, src.AvailBlocks)
	if !ok {
		return Segment{}, ErrNoSegmentAvailable
	}
	qi.inflight = append(qi.inflight, seg)
	qi.sources[src.Key()] = &activeSource{src: src, seg: seg, startedAt: time.Now()}
	return seg, nil
}

// ReportProgress records n additional bytes written by src within its
// current segment, used by the overlap preemption check to estimate each
// source's live throughput.
func (qi *QueueItem) ReportProgress(src *Source, n int64) {
	qi.mu.RLock()
	as, ok := qi.sources[src.Key()]
	qi.mu.RUnlock()
	if !ok {
		return
	}
	atomic.AddInt64(&as.read, n)
}

// CompleteSegment marks a segment written by src as finished, releasing its
// slot and dropping the in-flight reservation.
func (qi *QueueItem) CompleteSegment(src *Source) {
	qi.mu.Lock()
	defer qi.mu.Unlock()
	as, ok := qi.sources[src.Key()]
	if !ok {
		return
	}
	qi.done.Add(as.seg.Start, as.seg.Size)
	qi.removeInflightLocked(as.seg)
	delete(qi.sources, src.Key())
}

// ReleaseSegmentAligned credits whatever whole blocks of n src has
// actually written to disk before releasing its segment unfinished,
// mirroring putDownload's "align to tiger-tree block size" partial-credit
// rule: a source that disconnects mid-segment still gets credit for the
// blocks it fully wrote, but a half-written trailing block is discarded so
// a later source doesn't need to re-verify a partial block.
func (qi *QueueItem) ReleaseSegmentAligned(src *Source, n int64) {
	qi.mu.Lock()
	defer qi.mu.Unlock()
	as, ok := qi.sources[src.Key()]
	if !ok {
		return
	}
	aligned := n - (n % endgameBlock)
	if aligned > 0 {
		qi.done.Add(as.seg.Start, aligned)
	}
	qi.removeInflightLocked(as.seg)
	delete(qi.sources, src.Key())
}

// ReleaseSegment drops a segment without marking it done, used when a
// source disconnects or is preempted before finishing its range.
func (qi *QueueItem) ReleaseSegment(src *Source) {
	qi.mu.Lock()
	defer qi.mu.Unlock()
	as, ok := qi.sources[src.Key()]
	if !ok {
		return
	}
	qi.removeInflightLocked(as.seg)
	delete(qi.sources, src.Key())
}

func (qi *QueueItem) removeInflightLocked(seg Segment) {
	for i, s := range qi.inflight {
		if s == seg {
			qi.inflight = append(qi.inflight[:i], qi.inflight[i+1:]...)
			return
		}
	}
}

// Blacklist removes src from future AssignSegment consideration for this
// item (e.g. after a TTH mismatch or repeated fatal transfer errors).
func (qi *QueueItem) Blacklist(src *Source, reason error) {
	qi.mu.Lock()
	defer qi.mu.Unlock()
	qi.badSources[src.Key()] = reason
}

// ActiveSegment describes one source's current claim on a QueueItem,
// including the live progress overlap.go needs to judge preemption.
type ActiveSegment struct {
	Source    *Source
	Segment   Segment
	Read      int64
	StartedAt time.Time
}

// ActiveSegments returns a snapshot of sources currently holding a segment,
// used by overlap.go to evaluate preemption candidates.
func (qi *QueueItem) ActiveSegments() []ActiveSegment {
	qi.mu.RLock()
	defer qi.mu.RUnlock()
	out := make([]ActiveSegment, 0, len(qi.sources))
	for _, as := range qi.sources {
		out = append(out, ActiveSegment{
			Source:    as.src,
			Segment:   as.seg,
			Read:      atomic.LoadInt64(&as.read),
			StartedAt: as.startedAt,
		})
	}
	return out
}

// IsFull reports whether the item already holds MaxSegments concurrent
// sources, the precondition overlap preemption requires before stealing.
func (qi *QueueItem) IsFull() bool {
	qi.mu.RLock()
	defer qi.mu.RUnlock()
	return len(qi.sources) >= qi.MaxSegments
}

// SplitSegment shrinks src's in-flight segment to [src.seg.Start, cut) and
// hands back the tail [cut, src.seg.End()) as a fresh, unclaimed segment
// for the caller to assign to the overlapping source. It marks both
// halves Overlapped so a second preemption can't target the same victim
// twice in a row.
func (qi *QueueItem) SplitSegment(victim *Source, cut int64) (Segment, bool) {
	qi.mu.Lock()
	defer qi.mu.Unlock()
	as, ok := qi.sources[victim.Key()]
	if !ok || cut <= as.seg.Start || cut >= as.seg.End() {
		return Segment{}, false
	}
	tail := Segment{Start: cut, Size: as.seg.End() - cut, Overlapped: true}
	qi.removeInflightLocked(as.seg)
	as.seg = Segment{Start: as.seg.Start, Size: cut - as.seg.Start, Overlapped: true}
	qi.inflight = append(qi.inflight, as.seg, tail)
	return tail, true
}

// ClaimSegment installs seg as src's active claim directly, bypassing
// GetNextSegment; used once overlap.go has already chosen the range via
// SplitSegment.
func (qi *QueueItem) ClaimSegment(src *Source, seg Segment) {
	qi.mu.Lock()
	defer qi.mu.Unlock()
	qi.sources[src.Key()] = &activeSource{src: src, seg: seg, startedAt: time.Now()}
}

// GetSavePath returns the final destination path joined to the bundle's
// base directory, mirroring the teacher's item path helpers.
func (qi *QueueItem) GetSavePath(base string) string {
	return filepath.Join(base, qi.Target)
}

func (qi *QueueItem) String() string {
	return fmt.Sprintf("QueueItem(%s, %d%%)", qi.Target, qi.GetPercentage())
}
