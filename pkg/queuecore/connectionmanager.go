package queuecore

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// CQIState is the lifecycle state of a ConnectionQueueItem.
type CQIState int32

const (
	// CQIWaiting is a connection request we've sent (or received) but not
	// yet matched to a live socket.
	CQIWaiting CQIState = iota
	// CQIConnecting is a matched request with a dial/handshake underway.
	CQIConnecting
	// CQIActive is an established, usable connection.
	CQIActive
	// CQIClosed is a terminal state; the CQI is no longer tracked.
	CQIClosed
)

func (s CQIState) String() string {
	switch s {
	case CQIWaiting:
		return "waiting"
	case CQIConnecting:
		return "connecting"
	case CQIActive:
		return "active"
	case CQIClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// validCQITransitions enumerates the only state changes ConnectionManager
// will accept; anything else is ErrCQIInvalidTransition.
var validCQITransitions = map[CQIState][]CQIState{
	CQIWaiting:    {CQIConnecting, CQIClosed},
	CQIConnecting: {CQIActive, CQIWaiting, CQIClosed},
	CQIActive:     {CQIClosed},
}

// ConnectionQueueItem tracks one in-progress or established connection
// attempt to a Source, from the moment we mint a token for it through
// either a live socket or a timeout.
type ConnectionQueueItem struct {
	Token    string
	Source   *Source
	State    CQIState
	Type     ConnType
	RemoteIP string
	Created  time.Time

	mu   sync.Mutex
	conn interface{} // net.Conn once CQIActive; untyped to avoid a hard net dependency here
}

func newCQI(src *Source, connType ConnType, remoteIP string) *ConnectionQueueItem {
	return &ConnectionQueueItem{
		Token:    uuid.NewString(),
		Source:   src,
		State:    CQIWaiting,
		Type:     connType,
		RemoteIP: remoteIP,
		Created:  time.Now(),
	}
}

func (c *ConnectionQueueItem) transition(to CQIState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, allowed := range validCQITransitions[c.State] {
		if allowed == to {
			c.State = to
			return nil
		}
	}
	return ErrCQIInvalidTransition
}

// ConnType distinguishes what a ConnectionQueueItem is for, mirroring
// ConnectionType (CONNECTION_TYPE_DOWNLOAD / CONNECTION_TYPE_UPLOAD /
// CONNECTION_TYPE_PM): the handshake and slot-accounting path differ
// depending on which side of the transfer this connection serves.
type ConnType int32

const (
	ConnTypeDownload ConnType = iota
	ConnTypeUpload
	ConnTypePM
)

// floodBucket is a per-IP leaky bucket counting connection attempts
// within a sliding window, grounded on the teacher's token-bucket rate
// limiter (ratelimiter.go) but counting discrete events instead of bytes.
// Keyed by source IP rather than by user: flood protection exists
// precisely to gate unauthenticated inbound sockets before any user/CID is
// known, so an attacker presenting many different (fake) users from one
// IP must still be caught.
type floodBucket struct {
	mu     sync.Mutex
	events []time.Time
}

func (f *floodBucket) record(now time.Time, window time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	cutoff := now.Add(-window)
	kept := f.events[:0]
	for _, t := range f.events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	f.events = kept
	return len(f.events)
}

// ConnectionManager mediates every peer connection a download needs: it
// mints and matches request/offer tokens (the $ConnectToMe /
// RCM-RCM-CTM handshake), tracks each connection through the CQI state
// machine, expires unmatched requests, and protects against connection
// flooding by a misbehaving or hostile peer.
type ConnectionManager struct {
	cs sync.RWMutex

	expected VMap[string, *ConnectionQueueItem] // token -> CQI, the expected-connections table
	byUser   VMap[string, []*ConnectionQueueItem]
	byIP     VMap[string, []*ConnectionQueueItem] // remote IP -> CQIs, used to detect MCN-confirmed peers for flood-limit escalation

	buckets VMap[string, *floodBucket] // keyed by remote IP, not user
	mcn     VMap[string, bool]         // users confirmed to support multi-connection

	// softErrors and hardErrors count consecutive Failed (transient
	// network-level) versus ProtocolError (the peer spoke out of turn)
	// failures per source, feeding the backoff policy in Failed/backoffFor.
	softErrors VMap[string, int]
	hardErrors VMap[string, int]

	cfg Config

	stop chan struct{}
	once sync.Once
}

// NewConnectionManager builds a ConnectionManager and starts its
// expected-connection expiry sweep.
func NewConnectionManager(cfg Config) *ConnectionManager {
	cm := &ConnectionManager{
		expected:   NewVMap[string, *ConnectionQueueItem](),
		byUser:     NewVMap[string, []*ConnectionQueueItem](),
		byIP:       NewVMap[string, []*ConnectionQueueItem](),
		buckets:    NewVMap[string, *floodBucket](),
		mcn:        NewVMap[string, bool](),
		softErrors: NewVMap[string, int](),
		hardErrors: NewVMap[string, int](),
		cfg:        cfg,
		stop:       make(chan struct{}),
	}
	safeGo(nil, nil, "connection-expiry-sweep", nil, cm.expirySweep)
	return cm
}

// Close stops the background expiry sweep.
func (cm *ConnectionManager) Close() {
	cm.once.Do(func() { close(cm.stop) })
}

// RequestConnection mints a token for an outbound or inbound connect
// request to src and registers it in the expected-connections table.
func (cm *ConnectionManager) RequestConnection(src *Source, connType ConnType, remoteIP string) *ConnectionQueueItem {
	cqi := newCQI(src, connType, remoteIP)
	cm.expected.Set(cqi.Token, cqi)

	cm.cs.Lock()
	cm.byUser.Set(src.Key(), append(cm.byUser.Get(src.Key()), cqi))
	if remoteIP != "" {
		cm.byIP.Set(remoteIP, append(cm.byIP.Get(remoteIP), cqi))
	}
	cm.cs.Unlock()
	return cqi
}

// MatchConnection looks up an expected connection by token. A token that
// is unknown or already evicted by the expiry sweep returns
// ErrExpectedConnectionUnmatched.
func (cm *ConnectionManager) MatchConnection(token string) (*ConnectionQueueItem, error) {
	cqi := cm.expected.Get(token)
	if cqi == nil {
		return nil, ErrExpectedConnectionUnmatched
	}
	if err := cqi.transition(CQIConnecting); err != nil {
		return nil, err
	}
	return cqi, nil
}

// Activate marks a matched connection live, attaching the socket.
func (cm *ConnectionManager) Activate(cqi *ConnectionQueueItem, conn interface{}) error {
	if err := cqi.transition(CQIActive); err != nil {
		return err
	}
	cqi.mu.Lock()
	cqi.conn = conn
	cqi.mu.Unlock()
	cm.expected.Delete(cqi.Token)
	return nil
}

// CloseConnection tears a CQI down and removes it from all tables.
func (cm *ConnectionManager) CloseConnection(cqi *ConnectionQueueItem) {
	cqi.transition(CQIClosed)
	cm.expected.Delete(cqi.Token)

	cm.cs.Lock()
	defer cm.cs.Unlock()
	list := cm.byUser.Get(cqi.Source.Key())
	for i, c := range list {
		if c == cqi {
			cm.byUser.Set(cqi.Source.Key(), append(list[:i], list[i+1:]...))
			break
		}
	}
	if cqi.RemoteIP == "" {
		return
	}
	ipList := cm.byIP.Get(cqi.RemoteIP)
	for i, c := range ipList {
		if c == cqi {
			cm.byIP.Set(cqi.RemoteIP, append(ipList[:i], ipList[i+1:]...))
			break
		}
	}
}

// expirySweep evicts expected connections older than cfg.ExpectedConnectionTTL
// roughly every second (or every ExpectedConnectionTTL, when that is
// shorter), matching the teacher's ticker-driven background maintenance
// style (dloader.go's speed sampler).
func (cm *ConnectionManager) expirySweep() {
	interval := time.Second
	if ttl := cm.cfg.ExpectedConnectionTTL; ttl > 0 && ttl < interval {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-cm.stop:
			return
		case <-ticker.C:
			now := time.Now()
			var expired []string
			cm.expected.Range(func(token string, cqi *ConnectionQueueItem) bool {
				if now.Sub(cqi.Created) > cm.cfg.ExpectedConnectionTTL {
					expired = append(expired, token)
				}
				return true
			})
			for _, token := range expired {
				cm.expected.Delete(token)
			}
		}
	}
}

// MarkMCN records that userKey's client confirmed MCN (multi-connection)
// support, raising its flood threshold and segment cap.
func (cm *ConnectionManager) MarkMCN(userKey string) {
	cm.mcn.Set(userKey, true)
}

// IsMCN reports whether userKey is known to support MCN.
func (cm *ConnectionManager) IsMCN(userKey string) bool {
	return cm.mcn.Get(userKey)
}

// SegmentCapFor returns the MaxSegments a QueueItem should apply for
// userKey, respecting the MCN-expanded cap when applicable.
func (cm *ConnectionManager) SegmentCapFor(userKey string) int {
	if cm.IsMCN(userKey) {
		return cm.cfg.MCNMaxSegments
	}
	return cm.cfg.DefaultMaxSegments
}

// hasMCNConnectionFromIP reports whether any tracked connection from
// remoteIP belongs to a confirmed-MCN user, mirroring
// getIncomingConnectionLimits' lookup over userConnections.
func (cm *ConnectionManager) hasMCNConnectionFromIP(remoteIP string) bool {
	cm.cs.RLock()
	defer cm.cs.RUnlock()
	for _, cqi := range cm.byIP.Get(remoteIP) {
		if cm.IsMCN(cqi.Source.Key()) {
			return true
		}
	}
	return false
}

// incomingConnectionLimit returns the flood threshold to apply to remoteIP,
// raised when any existing connection from that IP is already a
// confirmed-MCN peer. Mirrors getIncomingConnectionLimits.
func (cm *ConnectionManager) incomingConnectionLimit(remoteIP string) int {
	if cm.hasMCNConnectionFromIP(remoteIP) {
		return cm.cfg.FloodThresholdMCN
	}
	return cm.cfg.FloodThreshold
}

// CheckFlood records a new inbound connection attempt from remoteIP and
// reports whether it exceeds the rate threshold for that IP. Flood
// protection is keyed by IP rather than by user or CID because it exists
// to gate unauthenticated inbound sockets before any user identity is
// known — an attacker presenting many distinct (possibly fake) users from
// one IP must still be caught. A true result means the caller should
// refuse the connection and return ErrFloodProtected. Mirrors
// ConnectionManager::accept's floodCounter.handleRequest call.
func (cm *ConnectionManager) CheckFlood(remoteIP string) bool {
	bucket := cm.buckets.Get(remoteIP)
	if bucket == nil {
		bucket = &floodBucket{}
		cm.buckets.Set(remoteIP, bucket)
	}
	count := bucket.record(time.Now(), cm.cfg.FloodWindow)
	return count > cm.incomingConnectionLimit(remoteIP)
}

// Failed records a connection failure for src, distinguishing a transient
// network-level error (isProtocolError false, mirroring the Failed
// listener fired from things like premature EOF or a reset socket) from
// the peer misbehaving on the wire (isProtocolError true, mirroring the
// ProtocolError listener). Hard errors drive BackoffFor much harder than
// soft ones, since a peer that speaks out of turn is unlikely to recover
// on a quick retry the way a flaky link might.
func (cm *ConnectionManager) Failed(src *Source, err error, isProtocolError bool) {
	key := src.Key()
	if isProtocolError {
		cm.hardErrors.Set(key, cm.hardErrors.Get(key)+1)
		return
	}
	cm.softErrors.Set(key, cm.softErrors.Get(key)+1)
}

// SoftErrorCount returns how many consecutive transient failures have
// been recorded for userKey since it last succeeded.
func (cm *ConnectionManager) SoftErrorCount(userKey string) int {
	return cm.softErrors.Get(userKey)
}

// HardErrorCount returns how many consecutive protocol-level failures
// have been recorded for userKey since it last succeeded.
func (cm *ConnectionManager) HardErrorCount(userKey string) int {
	return cm.hardErrors.Get(userKey)
}

// Cleared resets the failure counters for userKey, called once a
// connection to it succeeds.
func (cm *ConnectionManager) Cleared(userKey string) {
	cm.softErrors.Delete(userKey)
	cm.hardErrors.Delete(userKey)
}

// BackoffFor returns the delay to wait before attempting another
// connection to userKey. Hard (protocol) errors count for more than soft
// (transient) ones, reusing the teacher's exponential-with-jitter curve
// rather than a bespoke one.
func (cm *ConnectionManager) BackoffFor(userKey string) time.Duration {
	attempt := cm.softErrors.Get(userKey) + cm.hardErrors.Get(userKey)*3
	rc := DefaultRetryConfig()
	return rc.CalculateBackoff(attempt)
}

// ActiveCount returns how many CQIs for userKey are currently CQIActive.
func (cm *ConnectionManager) ActiveCount(userKey string) int {
	cm.cs.RLock()
	defer cm.cs.RUnlock()
	var n int32
	for _, cqi := range cm.byUser.Get(userKey) {
		cqi.mu.Lock()
		if cqi.State == CQIActive {
			atomic.AddInt32(&n, 1)
		}
		cqi.mu.Unlock()
	}
	return int(n)
}
