package queuecore

import (
	"sync"
	"time"
)

// DownloadManager is the top-level coordinator tying a QueueManager's
// scheduling decisions to a ConnectionManager's live peer connections: it
// hands connected sources their next segment, folds in progress reports,
// runs the once-a-second tick that drives slow-source disconnection and
// overlap preemption, and pushes UBN-style bundle progress events out to
// the EventBus. It plays the role the teacher's Downloader/patchHandlers
// pairing plays for one HTTP file, generalized to many files pulled from
// many peers at once.
type DownloadManager struct {
	qm     *QueueManager
	cm     *ConnectionManager
	events *EventBus
	cfg    Config

	mu      sync.Mutex
	running map[string]*liveTransfer // keyed by src.Key()+"|"+qi.Target

	stop chan struct{}
	once sync.Once
}

// liveTransfer tracks one source's active claim on one QueueItem between
// ticks, for the speed sampling overlap.go's checkOverlaps needs.
type liveTransfer struct {
	src       *Source
	qi        *QueueItem
	lastRead  int64
	lastSeen  time.Time
	startedAt time.Time
}

// NewDownloadManager wires a DownloadManager over an already-constructed
// QueueManager and ConnectionManager.
func NewDownloadManager(qm *QueueManager, cm *ConnectionManager, events *EventBus, cfg Config) *DownloadManager {
	dm := &DownloadManager{
		qm:      qm,
		cm:      cm,
		events:  events,
		cfg:     cfg,
		running: make(map[string]*liveTransfer),
		stop:    make(chan struct{}),
	}
	safeGo(nil, nil, "download-manager-tick", nil, dm.tickLoop)
	return dm
}

// Close stops the tick loop.
func (dm *DownloadManager) Close() {
	dm.once.Do(func() { close(dm.stop) })
}

func transferKey(src *Source, qi *QueueItem) string {
	return src.Key() + "|" + qi.Target
}

// GetDownload asks the QueueManager for userKey's next segment, honoring
// onlineHubs (for file-list items that can't be served over an offline
// hub), minPrio, and downloadType (TYPE_SMALL/TYPE_MCN_NORMAL slot
// carving), and if one is granted, starts tracking it for the tick loop.
func (dm *DownloadManager) GetDownload(userKey string, src *Source, onlineHubs map[string]bool, minPrio Priority, downloadType DownloadType) (*QueueItem, Segment, bool) {
	qi, seg, ok := dm.qm.GetNextForUser(userKey, src, onlineHubs, minPrio, 0, downloadType)
	if !ok {
		return nil, Segment{}, false
	}
	now := time.Now()
	dm.mu.Lock()
	dm.running[transferKey(src, qi)] = &liveTransfer{src: src, qi: qi, lastSeen: now, startedAt: now}
	dm.mu.Unlock()
	return qi, seg, true
}

// ReportProgress feeds n newly-written bytes from src on qi into both the
// QueueItem's live progress counter and this manager's live speed sample,
// with the segment itself still held open for more reads. The bytes are
// credited to the item's finished ranges only once Complete reports the
// segment done.
func (dm *DownloadManager) ReportProgress(src *Source, qi *QueueItem, n int64) {
	qi.ReportProgress(src, n)

	dm.mu.Lock()
	if lt, ok := dm.running[transferKey(src, qi)]; ok {
		lt.lastRead += n
		lt.lastSeen = time.Now()
	}
	dm.mu.Unlock()

	dm.events.Publish(Event{Type: EventSourceFilesUpdated, Source: src, Item: qi})
}

// Complete reports that src finished its segment of qi, crediting the
// whole claimed segment and releasing the claim for good. rotateQueue is
// passed on to PutDownload, which applies it only to unfinished reports,
// so it has no effect here.
func (dm *DownloadManager) Complete(src *Source, qi *QueueItem, n int64, rotateQueue bool) {
	dm.qm.PutDownload(qi, src, n, true, false, rotateQueue)
	dm.mu.Lock()
	delete(dm.running, transferKey(src, qi))
	dm.mu.Unlock()
	dm.events.Publish(Event{Type: EventSourceFilesUpdated, Source: src, Item: qi})
}

// Disconnect stops tracking src's claim on qi, releasing its segment
// without marking it done (used on drop or explicit stop). noAccess
// blocks src's hub from being retried against qi, for a peer that
// reported it no longer has the file.
func (dm *DownloadManager) Disconnect(src *Source, qi *QueueItem, noAccess bool) {
	dm.qm.PutDownload(qi, src, 0, false, noAccess, false)
	dm.mu.Lock()
	delete(dm.running, transferKey(src, qi))
	dm.mu.Unlock()
}

// tickLoop runs once a second: it samples each live transfer's speed,
// offers it as an overlap candidate against any full QueueItem the same
// source could otherwise serve, and publishes an EventTick for UI/UBN
// consumers.
func (dm *DownloadManager) tickLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-dm.stop:
			return
		case <-ticker.C:
			dm.tick()
		}
	}
}

func (dm *DownloadManager) tick() {
	dm.mu.Lock()
	snapshot := make([]*liveTransfer, 0, len(dm.running))
	for _, lt := range dm.running {
		snapshot = append(snapshot, lt)
	}
	dm.mu.Unlock()

	for _, lt := range snapshot {
		elapsed := time.Since(lt.startedAt)
		if elapsed <= 0 {
			continue
		}
		speed := (lt.lastRead * int64(time.Second)) / int64(elapsed)
		if !isOverlapCandidate(lt.lastRead, elapsed) {
			continue
		}
		if stolen, ok := checkOverlaps(lt.qi, lt.src, speed); ok {
			dm.mu.Lock()
			dm.running[transferKey(lt.src, lt.qi)] = &liveTransfer{
				src: lt.src, qi: lt.qi, startedAt: time.Now(),
			}
			dm.mu.Unlock()
			dm.events.Publish(Event{Type: EventSourceFilesUpdated, Source: lt.src, Item: lt.qi, Err: nil})
			_ = stolen
		}
	}
	dm.events.Publish(Event{Type: EventTick})
}

// MaybeExpandMCN checks whether src's client has confirmed MCN support
// and, if so, raises its per-item segment cap going forward.
func (dm *DownloadManager) MaybeExpandMCN(userKey string, qi *QueueItem) {
	if !dm.cm.IsMCN(userKey) {
		return
	}
	qi.mu.Lock()
	if qi.MaxSegments < dm.cfg.MCNMaxSegments {
		qi.MaxSegments = dm.cfg.MCNMaxSegments
	}
	qi.mu.Unlock()
}
