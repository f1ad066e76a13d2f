package queuecore

import "time"

// Config collects every tunable governing queue scheduling, segment
// sizing, and connection lifecycle behavior. A zero Config is not valid;
// use DefaultConfig and override individual fields.
type Config struct {
	// ChunkWidth is the default target segment width handed out by
	// GetNextSegment before endgame narrowing applies.
	ChunkWidth int64
	// DefaultMaxSegments caps concurrent sources per QueueItem when a
	// Bundle doesn't override it (the MCN limit).
	DefaultMaxSegments int
	// MCNMaxSegments is the cap applied when a peer advertises MCN
	// support, allowing more concurrent segments than the flood-gate
	// default would otherwise permit.
	MCNMaxSegments int

	// OverlapSpeedThreshold and OverlapMinRemaining mirror the package
	// constants of the same shape but let a deployment retune them
	// without a rebuild.
	OverlapSpeedThreshold int64
	OverlapMinRemaining   int64

	// ExpectedConnectionTTL bounds how long a token minted for an
	// outbound connection request stays valid before it's evicted from
	// the expected-connections table.
	ExpectedConnectionTTL time.Duration

	// FloodWindow is the sliding window over which incoming connections
	// from one remote IP are counted for flood protection.
	FloodWindow time.Duration
	// FloodThreshold is the number of connection attempts within
	// FloodWindow that triggers flood protection for a normal peer.
	FloodThreshold int
	// FloodThresholdMCN is the raised threshold applied to peers already
	// confirmed to support MCN.
	FloodThresholdMCN int

	// DataDir is where Bundle<token>.xml files and the manifest live.
	DataDir string
	// PersistDebounce is the minimum interval between writes of a single
	// dirty bundle to disk.
	PersistDebounce time.Duration

	// ConnectTimeout bounds how long ConnectionManager waits for an
	// outbound TCP connect before giving up on a source.
	ConnectTimeout time.Duration
	// RequestTimeout bounds how long a GET/ADCGET request may go without
	// a response before the source is treated as stalled.
	RequestTimeout time.Duration

	// MaxRunningBundles caps how many bundles UserQueue.GetNext will hand
	// segments to concurrently, per spec §4.2 step 1 (SETTING(MAX_RUNNING_BUNDLES)).
	MaxRunningBundles int

	// SegmentsManual, when true, disables auto-sizing and always hands out
	// NumberOfSegments per QueueItem regardless of file size or speed
	// (SETTING(SEGMENTS_MANUAL) / SETTING(NUMBER_OF_SEGMENTS)).
	SegmentsManual   bool
	NumberOfSegments int
	// MinSegmentSize is the smallest chunk GetNextSegment will carve off
	// before preferring to hand the whole remaining range to one source
	// (SETTING(MIN_SEGMENT_SIZE)).
	MinSegmentSize int64

	// DontBeginSegment and DontBeginSegmentSpeed gate additional-segment
	// requests on an already-active QueueItem: a new segment is refused
	// unless the item's current aggregate speed is below
	// DontBeginSegmentSpeed AND its remaining size exceeds DontBeginSegment
	// (SETTING(DONT_BEGIN_SEGMENT) / SETTING(DONT_BEGIN_SEGMENT_SPEED)).
	DontBeginSegment      int64
	DontBeginSegmentSpeed int64

	// Slow-source disconnect policy (SETTING(DISCONNECT_*) /
	// SETTING(REMOVE_SPEED) / SETTING(DL_AUTO_DISCONNECT_MODE)): a source
	// slower than DisconnectSpeed for longer than DisconnectTime, on a
	// QueueItem bigger than DisconnectFilesize with at least
	// DisconnectMinSources other sources still attached, is disconnected
	// (or, if RemoveSpeed, blacklisted outright) so a faster source can
	// take the slot.
	DisconnectFilesize    int64
	DisconnectSpeed       int64
	DisconnectTime        time.Duration
	DisconnectMinSources  int
	RemoveSpeed           bool
	AutoDisconnectEnabled bool

	// Auto-priority recalculation (SETTING(AUTOPRIO_TYPE) /
	// SETTING(AUTOPRIO_INTERVAL)): when enabled, a periodic tick
	// recomputes each auto-priority QueueItem's Priority from its recent
	// transfer progress/balance instead of a user-fixed value.
	AutoPrioType     AutoPrioType
	AutoPrioInterval time.Duration

	// RecentBundleHours is how long a just-added bundle is flagged
	// "recent" for UI/auto-search purposes (SETTING(RECENT_BUNDLE_HOURS)).
	RecentBundleHours int

	// Auto-search/auto-add-source policy (SETTING(AUTO_SEARCH) /
	// SETTING(AUTO_ADD_SOURCE) / SETTING(AUTO_SEARCH_LIMIT) /
	// SETTING(MAX_AUTO_MATCH_SOURCES)): out of scope to execute (hub
	// search is a Non-goal) but kept as config surface so a future
	// search-integration collaborator has somewhere to read these from.
	AutoSearch          bool
	AutoAddSource       bool
	AutoSearchLimit     int
	MaxAutoMatchSources int

	// Skiplist / high-priority-file matching (SETTING(SKIPLIST_DOWNLOAD) /
	// SETTING(DOWNLOAD_SKIPLIST_USE_REGEXP) / SETTING(HIGH_PRIO_FILES) /
	// SETTING(HIGHEST_PRIORITY_USE_REGEXP)): patterns checked by
	// AddFileBundle before a QueueItem is ever created, and by the
	// auto-priority recalculation when assigning HIGHEST priority.
	SkiplistDownload           []string
	DownloadSkiplistUseRegexp  bool
	HighPrioFiles              []string
	HighestPriorityUseRegexp   bool

	// Duplicate-file detection (SETTING(DONT_DL_ALREADY_SHARED) /
	// SETTING(DONT_DL_ALREADY_QUEUED) / SETTING(MIN_DUPE_CHECK_SIZE)):
	// AddFileBundle consults these before queuing a file whose TTH matches
	// something already shared or already queued.
	DontDownloadAlreadyShared bool
	DontDownloadAlreadyQueued bool
	MinDupeCheckSize          int64

	// Finished-bundle placement (SETTING(KEEP_FINISHED_FILES) /
	// SETTING(TEMP_DOWNLOAD_DIRECTORY) / SETTING(DCTMP_STORE_DESTINATION)):
	// KeepFinishedFiles keeps the temp copy around after a successful move
	// (for re-seeding / re-sharing); TempDownloadDirectory and
	// DcTmpStoreDestination govern where in-flight segments live before
	// finalizeTarget moves them to the bundle's real target.
	KeepFinishedFiles    bool
	TempDownloadDirectory string
	DcTmpStoreDestination string
}

// AutoPrioType selects how auto-priority recalculation ranks QueueItems,
// mirroring SETTING(AUTOPRIO_TYPE)'s balanced-vs-progress modes.
type AutoPrioType int

const (
	AutoPrioBalanced AutoPrioType = iota
	AutoPrioProgress
)

// DefaultConfig returns the settings the teacher's own constants implied,
// re-expressed for queue/bundle/connection scheduling instead of a single
// HTTP download.
func DefaultConfig() Config {
	return Config{
		ChunkWidth:            DEF_CHUNK_SIZE,
		DefaultMaxSegments:    DEF_MAX_SEGMENTS,
		MCNMaxSegments:        8,
		OverlapSpeedThreshold: OverlapSpeedThreshold,
		OverlapMinRemaining:   OverlapMinRemaining,
		ExpectedConnectionTTL: 45 * time.Second,
		FloodWindow:           30 * time.Second,
		FloodThreshold:        30,
		FloodThresholdMCN:     100,
		PersistDebounce:       10 * time.Second,
		ConnectTimeout:        15 * time.Second,
		RequestTimeout:        30 * time.Second,

		MaxRunningBundles: 0, // 0 means unlimited, matching SETTING(MAX_RUNNING_BUNDLES) default.
		SegmentsManual:    false,
		NumberOfSegments:  3,
		MinSegmentSize:    1 * MB,

		DontBeginSegment:      2 * MB,
		DontBeginSegmentSpeed: 0,

		DisconnectFilesize:    0,
		DisconnectSpeed:       0,
		DisconnectTime:        0,
		DisconnectMinSources:  2,
		RemoveSpeed:           false,
		AutoDisconnectEnabled: false,

		AutoPrioType:     AutoPrioBalanced,
		AutoPrioInterval: 10 * time.Minute,

		RecentBundleHours: 1,

		AutoSearch:          false,
		AutoAddSource:       true,
		AutoSearchLimit:     15,
		MaxAutoMatchSources: 3,

		DownloadSkiplistUseRegexp: false,
		HighestPriorityUseRegexp:  false,

		DontDownloadAlreadyShared: false,
		DontDownloadAlreadyQueued: true,
		MinDupeCheckSize:          0,

		KeepFinishedFiles: false,
	}
}
