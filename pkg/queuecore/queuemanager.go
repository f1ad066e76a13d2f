package queuecore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// QueueManager owns every Bundle known to this client, the per-user
// scheduling queues that feed them sources, and the persistence debounce
// loop that keeps Bundle<token>.xml files in sync with in-memory state.
type QueueManager struct {
	mu      sync.RWMutex
	bundles map[string]*Bundle
	users   *UserQueue

	dataDir       string
	defaultWidth  int64
	defaultMaxSeg int
	cfg           Config

	running VMap[string, bool] // bundle token -> currently has at least one active segment

	events *EventBus
}

// QueueManagerOpts configures a new QueueManager.
type QueueManagerOpts struct {
	DataDir            string
	DefaultChunkWidth  int64
	DefaultMaxSegments int
	Config             Config
	Events             *EventBus
}

// NewQueueManager builds a QueueManager and loads any bundles already
// persisted under opts.DataDir.
func NewQueueManager(opts QueueManagerOpts) (*QueueManager, error) {
	if opts.DefaultChunkWidth <= 0 {
		opts.DefaultChunkWidth = DEF_CHUNK_SIZE
	}
	if opts.DefaultMaxSegments <= 0 {
		opts.DefaultMaxSegments = DEF_MAX_SEGMENTS
	}
	qm := &QueueManager{
		bundles:       make(map[string]*Bundle),
		users:         NewUserQueue(),
		dataDir:       opts.DataDir,
		defaultWidth:  opts.DefaultChunkWidth,
		defaultMaxSeg: opts.DefaultMaxSegments,
		cfg:           opts.Config,
		running:       NewVMap[string, bool](),
		events:        opts.Events,
	}
	if qm.dataDir != "" {
		if err := WarpMkdirAll(qm.dataDir, DefaultDirMode); err != nil {
			return nil, fmt.Errorf("create queue data dir: %w", err)
		}
		bundles, err := LoadAllBundles(qm.dataDir)
		if err != nil {
			return nil, err
		}
		for _, b := range bundles {
			qm.bundles[b.Token] = b
			qm.indexBundleSources(b)
		}
	}
	return qm, nil
}

// AddFileBundle validates a single-file request and queues it.
func (qm *QueueManager) AddFileBundle(target string, size int64, tth string, priority Priority, sources []*Source) (*Bundle, error) {
	if target == "" {
		return nil, ErrFileNameNotFound
	}
	if size < 0 {
		return nil, ErrContentLengthInvalid
	}
	if err := checkDiskSpace(filepath.Dir(target), size); err != nil {
		return nil, err
	}
	b := NewFileBundle(target, size, tth, priority, qm.defaultMaxSeg)
	qm.register(b, sources)
	return b, nil
}

// AddDirectoryBundle validates every file in a directory-add request,
// accumulating per-file errors rather than failing the whole batch on the
// first bad entry, and queues whatever validated cleanly.
func (qm *QueueManager) AddDirectoryBundle(dir string, files []DirFile, priority Priority, sources []*Source) (*Bundle, error) {
	if dir == "" {
		return nil, ErrDirectoryNotFound
	}
	if err := ValidateDownloadDirectory(dir); err != nil {
		return nil, err
	}
	var verr *multierror.Error
	valid := make([]DirFile, 0, len(files))
	for _, f := range files {
		if f.RelPath == "" {
			verr = multierror.Append(verr, fmt.Errorf("file at size %d: %w", f.Size, ErrFileNameNotFound))
			continue
		}
		if f.Size < 0 {
			verr = multierror.Append(verr, fmt.Errorf("%s: %w", f.RelPath, ErrContentLengthInvalid))
			continue
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		if verr != nil {
			return nil, verr.ErrorOrNil()
		}
		return nil, ErrFileNameNotFound
	}
	var total int64
	for _, f := range valid {
		total += f.Size
	}
	if err := checkDiskSpace(dir, total); err != nil {
		return nil, err
	}
	b := NewDirectoryBundle(dir, valid, priority, qm.defaultMaxSeg)
	qm.register(b, sources)
	if verr != nil {
		return b, verr.ErrorOrNil()
	}
	return b, nil
}

func (qm *QueueManager) register(b *Bundle, sources []*Source) {
	qm.mu.Lock()
	qm.bundles[b.Token] = b
	qm.mu.Unlock()

	for _, src := range sources {
		b.AddSource(src)
	}
	qm.indexBundleSources(b)
	b.MarkDirty()
	qm.emit(Event{Type: EventBundleAdded, Bundle: b})
}

// indexBundleSources registers every QueueItem of b against every known
// source user in the UserQueue so GetNextForUser can find it.
func (qm *QueueManager) indexBundleSources(b *Bundle) {
	b.mu.RLock()
	items := append([]*QueueItem{}, b.queueItems...)
	srcKeys := make([]string, 0, len(b.sources))
	for k := range b.sources {
		srcKeys = append(srcKeys, k)
	}
	b.mu.RUnlock()

	for _, userKey := range srcKeys {
		for _, qi := range items {
			if qi.IsComplete() {
				continue
			}
			qm.users.Add(userKey, qi)
		}
	}
}

// runningBundleSet returns a snapshot of bundle tokens currently flagged as
// running, the set GetNextForUser's MAX_RUNNING_BUNDLES gate checks
// against.
func (qm *QueueManager) runningBundleSet() map[string]bool {
	out := make(map[string]bool)
	qm.running.Range(func(token string, v bool) bool {
		if v {
			out[token] = true
		}
		return true
	})
	return out
}

// GetNextForUser asks what userKey, connected as src, should download
// next across every bundle that lists it as a source, per §4.2: file-list
// pseudo-items first, then ordinary bundle items gated by minPrio and
// Config.MaxRunningBundles, with a second allowOverlap pass if nothing
// free turned up. onlineHubs should list every hub userKey is currently
// seen on, used to gate file-list items against a since-disconnected hub.
func (qm *QueueManager) GetNextForUser(userKey string, src *Source, onlineHubs map[string]bool, minPrio Priority, lastSpeed int64, downloadType DownloadType) (*QueueItem, Segment, bool) {
	qi, seg, ok := qm.users.GetNext(userKey, src, qm.runningBundleSet(), onlineHubs, minPrio, lastSpeed, downloadType, qm.defaultWidth, qm.cfg.MaxRunningBundles)
	if ok && qi.bundle != nil {
		qm.running.Set(qi.bundle.Token, true)
	}
	return qi, seg, ok
}

// PutDownload records n bytes written by src into qi's current segment.
// finished reports whether src is reporting a completed segment at all
// (false means src disconnected or errored mid-segment, in which case any
// partial bytes are credited block-size-aligned and the segment is
// released rather than completed). noAccess blocks src's hub from being
// offered qi again (the hub revoked access). rotateQueue moves qi to the
// back of src's per-priority deque so the same user isn't immediately
// re-offered the item it just served. noAccess and rotateQueue take effect
// only when finished is false. Mirrors QueueManager::putDownload.
func (qm *QueueManager) PutDownload(qi *QueueItem, src *Source, n int64, finished, noAccess, rotateQueue bool) {
	if !finished {
		qi.ReleaseSegmentAligned(src, n)
		if rotateQueue && qi.bundle != nil {
			qm.users.RotateQueue(src.Key(), qi)
		}
		if noAccess {
			qi.BlockSourceHub(src.HintedHubURL)
		}
		if qi.bundle != nil {
			qm.emit(Event{Type: EventStatusUpdated, Bundle: qi.bundle})
		}
		return
	}

	qi.ReportProgress(src, n)
	qi.CompleteSegment(src)

	b := qi.bundle
	if b == nil {
		return
	}
	if !qi.IsComplete() {
		b.MarkDirty()
		qm.emit(Event{Type: EventStatusUpdated, Bundle: b})
		return
	}
	b.MarkDirty()
	qm.emit(Event{Type: EventStatusUpdated, Bundle: b})
	if b.itemFinished() {
		qm.running.Delete(b.Token)
		qm.finishBundle(b)
	}
}

// finishBundle moves a completed bundle's temp target(s) into their final
// locations and emits a terminal event.
func (qm *QueueManager) finishBundle(b *Bundle) {
	for _, qi := range b.Items() {
		if err := finalizeTarget(qi); err != nil {
			b.SetStatus(StatusFailed)
			qm.emit(Event{Type: EventFailed, Bundle: b, Err: fmt.Errorf("%w: %v", ErrBundleMoveFailed, err)})
			return
		}
	}
	qm.emit(Event{Type: EventBundleRemoved, Bundle: b})
}

func finalizeTarget(qi *QueueItem) error {
	if err := validateDownloadIntegrity(qi); err != nil {
		return err
	}
	if err := WarpMkdirAll(filepath.Dir(qi.Target), DefaultDirMode); err != nil {
		return err
	}
	return moveFile(qi.TempTarget, qi.Target)
}

// ChangePriority updates qi's priority and re-sorts every per-user queue
// it currently sits in.
func (qm *QueueManager) ChangePriority(qi *QueueItem, p Priority) {
	b := qi.bundle
	var srcKeys []string
	if b != nil {
		b.mu.RLock()
		for k := range b.sources {
			srcKeys = append(srcKeys, k)
		}
		b.mu.RUnlock()
	}
	for _, userKey := range srcKeys {
		qm.users.Remove(userKey, qi)
	}
	qi.mu.Lock()
	qi.Priority = p
	qi.mu.Unlock()
	for _, userKey := range srcKeys {
		qm.users.Add(userKey, qi)
	}
}

// SetBundlePriority changes b's overall priority and every one of its
// items, mirroring QueueManager::setBundlePriority reindexing each item's
// position in the per-user queues.
func (qm *QueueManager) SetBundlePriority(b *Bundle, p Priority) {
	b.mu.Lock()
	b.Priority = p
	b.dirty = true
	b.mu.Unlock()
	for _, qi := range b.Items() {
		qm.ChangePriority(qi, p)
	}
	qm.emit(Event{Type: EventStatusUpdated, Bundle: b})
}

// Pause flags every item of b paused, leaving it in place but unservable.
func (qm *QueueManager) Pause(b *Bundle) {
	for _, qi := range b.Items() {
		qi.mu.Lock()
		qi.Flags |= FlagPaused
		qi.mu.Unlock()
	}
	b.SetStatus(StatusPaused)
	qm.emit(Event{Type: EventStatusUpdated, Bundle: b})
}

// Resume clears the paused flag on every item of b.
func (qm *QueueManager) Resume(b *Bundle) {
	for _, qi := range b.Items() {
		qi.mu.Lock()
		qi.Flags &^= FlagPaused
		qi.mu.Unlock()
	}
	b.SetStatus(StatusRunning)
	qm.emit(Event{Type: EventStatusUpdated, Bundle: b})
}

// GetBundles returns a snapshot of every known bundle.
func (qm *QueueManager) GetBundles() []*Bundle {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	out := make([]*Bundle, 0, len(qm.bundles))
	for _, b := range qm.bundles {
		out = append(out, b)
	}
	return out
}

// GetBundle looks up a bundle by token.
func (qm *QueueManager) GetBundle(token string) (*Bundle, bool) {
	qm.mu.RLock()
	defer qm.mu.RUnlock()
	b, ok := qm.bundles[token]
	return b, ok
}

// RemoveBundle drops a bundle from memory and deletes its persisted file.
func (qm *QueueManager) RemoveBundle(token string) error {
	qm.mu.Lock()
	b, ok := qm.bundles[token]
	delete(qm.bundles, token)
	qm.mu.Unlock()
	if !ok {
		return ErrQueueHashNotFound
	}
	for _, qi := range b.Items() {
		b.mu.RLock()
		for k := range b.sources {
			qm.users.Remove(k, qi)
		}
		b.mu.RUnlock()
	}
	if qm.dataDir == "" {
		return nil
	}
	return os.Remove(bundlePath(qm.dataDir, token))
}

func (qm *QueueManager) emit(e Event) {
	if qm.events != nil {
		qm.events.Publish(e)
	}
}

// PersistDirty writes every dirty bundle to disk, called on the
// persistence debounce tick.
func (qm *QueueManager) PersistDirty() error {
	if qm.dataDir == "" {
		return nil
	}
	qm.mu.RLock()
	bundles := make([]*Bundle, 0, len(qm.bundles))
	for _, b := range qm.bundles {
		bundles = append(bundles, b)
	}
	qm.mu.RUnlock()

	var errs *multierror.Error
	for _, b := range bundles {
		if !b.TakeDirty() {
			continue
		}
		if err := SaveBundle(qm.dataDir, b); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("bundle %s: %w", b.Token, err))
		}
	}
	return errs.ErrorOrNil()
}
