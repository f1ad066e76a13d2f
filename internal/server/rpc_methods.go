package server

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/dctransfer/dctransfer/pkg/queuecore"
)

// Custom JSON-RPC error codes for queue operations.
const (
	codeBundleNotFound = jrpc2.Code(-32001)
	codeInvalidParams  = jrpc2.Code(-32602)
)

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	ListenAll bool   // If true, bind to 0.0.0.0 instead of 127.0.0.1
	Version   string // Daemon version
	Commit    string // Git commit
	BuildType string // Build type
}

// RPCServer bridges jrpc2 to the QueueManager: every add/pause/resume/
// priority-change/list operation the daemon exposes to CLI and UI clients
// goes through one of these method handlers.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	secret    string
	version   string
	commit    string
	buildType string
	qm        *queuecore.QueueManager
	notifier  *RPCNotifier
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// SourceParam identifies the peer a bundle should be fetched from.
type SourceParam struct {
	UserKey      string `json:"userKey"`
	Nick         string `json:"nick,omitempty"`
	HintedHubURL string `json:"hintedHubUrl,omitempty"`
}

func (p SourceParam) toSource() *queuecore.Source {
	return &queuecore.Source{UserKey: p.UserKey, Nick: p.Nick, HintedHubURL: p.HintedHubURL}
}

// AddParams is the input for bundle.add.
type AddParams struct {
	Target   string        `json:"target"`
	Size     int64         `json:"size"`
	TTH      string        `json:"tth"`
	Priority int32         `json:"priority,omitempty"`
	Sources  []SourceParam `json:"sources"`
}

// AddFileParam describes one file within a bundle.addDirectory request.
type AddFileParam struct {
	RelPath string `json:"relPath"`
	Size    int64  `json:"size"`
	TTH     string `json:"tth"`
}

// AddDirectoryParams is the input for bundle.addDirectory.
type AddDirectoryParams struct {
	Dir      string         `json:"dir"`
	Files    []AddFileParam `json:"files"`
	Priority int32          `json:"priority,omitempty"`
	Sources  []SourceParam  `json:"sources"`
}

// AddResult is the response for bundle.add and bundle.addDirectory.
type AddResult struct {
	Token string `json:"token"`
}

// TokenParam is a common input keyed on a bundle token.
type TokenParam struct {
	Token string `json:"token"`
}

// PriorityParams is the input for bundle.priority.
type PriorityParams struct {
	Token    string `json:"token"`
	Priority int32  `json:"priority"`
}

// BundleResult describes one bundle in bundle.status / bundle.list.
type BundleResult struct {
	Token      string `json:"token"`
	Target     string `json:"target"`
	Status     string `json:"status"`
	Priority   int32  `json:"priority"`
	Size       int64  `json:"size"`
	Downloaded int64  `json:"downloaded"`
	Percentage int64  `json:"percentage"`
}

// ListResult is the response for bundle.list.
type ListResult struct {
	Bundles []*BundleResult `json:"bundles"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
func NewRPCServer(cfg *RPCConfig, qm *queuecore.QueueManager, notifier *RPCNotifier) *RPCServer {
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		qm:        qm,
		notifier:  notifier,
	}

	methods := handler.Map{
		"system.getVersion":  handler.New(rs.systemGetVersion),
		"bundle.add":         handler.New(rs.bundleAdd),
		"bundle.addDirectory": handler.New(rs.bundleAddDirectory),
		"bundle.pause":       handler.New(rs.bundlePause),
		"bundle.resume":      handler.New(rs.bundleResume),
		"bundle.priority":    handler.New(rs.bundlePriority),
		"bundle.remove":      handler.New(rs.bundleRemove),
		"bundle.status":      handler.New(rs.bundleStatus),
		"bundle.list":        handler.New(rs.bundleList),
	}

	rs.methods = methods
	rs.bridge = jhttp.NewBridge(methods, nil)
	return rs
}

// Methods returns the JSON-RPC method table, reused by WebServer to serve
// the same methods over a WebSocket-backed jrpc2.Server.
func (rs *RPCServer) Methods() handler.Map {
	return rs.methods
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

func toSources(params []SourceParam) []*queuecore.Source {
	out := make([]*queuecore.Source, 0, len(params))
	for _, p := range params {
		out = append(out, p.toSource())
	}
	return out
}

// bundleAdd queues a single file, mirroring QueueManager::createFileBundle.
func (rs *RPCServer) bundleAdd(_ context.Context, p *AddParams) (*AddResult, error) {
	if p.Target == "" || p.TTH == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "target and tth are required"}
	}
	b, err := rs.qm.AddFileBundle(p.Target, p.Size, p.TTH, queuecore.Priority(p.Priority), toSources(p.Sources))
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if rs.notifier != nil {
		rs.notifier.Broadcast("bundleAdded", &BundleResult{Token: b.Token, Target: b.Target})
	}
	return &AddResult{Token: b.Token}, nil
}

// bundleAddDirectory queues every file under a shared destination directory.
func (rs *RPCServer) bundleAddDirectory(_ context.Context, p *AddDirectoryParams) (*AddResult, error) {
	if p.Dir == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "dir is required"}
	}
	files := make([]queuecore.DirFile, 0, len(p.Files))
	for _, f := range p.Files {
		files = append(files, queuecore.DirFile{RelPath: f.RelPath, Size: f.Size, TTH: f.TTH})
	}
	b, err := rs.qm.AddDirectoryBundle(p.Dir, files, queuecore.Priority(p.Priority), toSources(p.Sources))
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if rs.notifier != nil {
		rs.notifier.Broadcast("bundleAdded", &BundleResult{Token: b.Token, Target: b.Target})
	}
	return &AddResult{Token: b.Token}, nil
}

func (rs *RPCServer) lookupBundle(token string) (*queuecore.Bundle, error) {
	b, ok := rs.qm.GetBundle(token)
	if !ok {
		return nil, &jrpc2.Error{Code: codeBundleNotFound, Message: "bundle not found"}
	}
	return b, nil
}

// bundlePause stops a bundle's items from being handed out to new requests.
func (rs *RPCServer) bundlePause(_ context.Context, p *TokenParam) (*EmptyResult, error) {
	b, err := rs.lookupBundle(p.Token)
	if err != nil {
		return nil, err
	}
	rs.qm.Pause(b)
	if rs.notifier != nil {
		rs.notifier.Broadcast("statusUpdated", bundleResultOf(b))
	}
	return &EmptyResult{}, nil
}

// bundleResume clears the paused flag set by bundle.pause.
func (rs *RPCServer) bundleResume(_ context.Context, p *TokenParam) (*EmptyResult, error) {
	b, err := rs.lookupBundle(p.Token)
	if err != nil {
		return nil, err
	}
	rs.qm.Resume(b)
	if rs.notifier != nil {
		rs.notifier.Broadcast("statusUpdated", bundleResultOf(b))
	}
	return &EmptyResult{}, nil
}

// bundlePriority reprioritizes every item of a bundle.
func (rs *RPCServer) bundlePriority(_ context.Context, p *PriorityParams) (*EmptyResult, error) {
	b, err := rs.lookupBundle(p.Token)
	if err != nil {
		return nil, err
	}
	rs.qm.SetBundlePriority(b, queuecore.Priority(p.Priority))
	return &EmptyResult{}, nil
}

// bundleRemove drops a bundle and its persisted XML file.
func (rs *RPCServer) bundleRemove(_ context.Context, p *TokenParam) (*EmptyResult, error) {
	if err := rs.qm.RemoveBundle(p.Token); err != nil {
		if err == queuecore.ErrQueueHashNotFound {
			return nil, &jrpc2.Error{Code: codeBundleNotFound, Message: "bundle not found"}
		}
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	if rs.notifier != nil {
		rs.notifier.Broadcast("bundleRemoved", &TokenParam{Token: p.Token})
	}
	return &EmptyResult{}, nil
}

// bundleStatus returns the status of a single bundle.
func (rs *RPCServer) bundleStatus(_ context.Context, p *TokenParam) (*BundleResult, error) {
	b, err := rs.lookupBundle(p.Token)
	if err != nil {
		return nil, err
	}
	return bundleResultOf(b), nil
}

// bundleList returns every known bundle.
func (rs *RPCServer) bundleList(_ context.Context) (*ListResult, error) {
	bundles := rs.qm.GetBundles()
	out := make([]*BundleResult, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, bundleResultOf(b))
	}
	return &ListResult{Bundles: out}, nil
}

func bundleResultOf(b *queuecore.Bundle) *BundleResult {
	return &BundleResult{
		Token:      b.Token,
		Target:     b.Target,
		Status:     b.Status.String(),
		Priority:   int32(b.Priority),
		Size:       int64(b.Size),
		Downloaded: b.Downloaded(),
		Percentage: b.GetPercentage(),
	}
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
