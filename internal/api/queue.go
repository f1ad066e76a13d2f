package api

import (
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dctransfer/dctransfer/common"
	"github.com/dctransfer/dctransfer/internal/server"
	"github.com/dctransfer/dctransfer/pkg/queuecore"
)

// applyTimestampSuffix adds a timestamp suffix to a filename before the last extension.
func applyTimestampSuffix(filename string, t time.Time) string {
	ts := t.UTC().Format("2006-01-02T150405")
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	return base + "-" + ts + ext
}

// dedupeTarget appends a timestamp suffix to target if a file already sits
// there, so a second bundle for the same name doesn't clobber it.
func dedupeTarget(target string) string {
	if _, err := os.Stat(target); err != nil {
		return target
	}
	dir, name := filepath.Split(target)
	return filepath.Join(dir, applyTimestampSuffix(name, time.Now()))
}

func toSources(params []common.SourceParam) []*queuecore.Source {
	out := make([]*queuecore.Source, 0, len(params))
	for _, p := range params {
		out = append(out, &queuecore.Source{
			UserKey:      p.UserKey,
			Nick:         p.Nick,
			HintedHubURL: p.HintedHubURL,
		})
	}
	return out
}

func bundleInfoOf(b *queuecore.Bundle) *common.BundleInfo {
	return &common.BundleInfo{
		DownloadId: b.Token,
		Target:     b.Target,
		Status:     b.Status.String(),
		Priority:   int32(b.Priority),
		Size:       int64(b.Size),
		Downloaded: b.Downloaded(),
		Percentage: b.GetPercentage(),
	}
}

// queueAddHandler queues a single file bundle.
func (s *Api) queueAddHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.QueueAddParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_QUEUE_ADD, nil, err
	}
	if m.Target == "" || m.TTH == "" {
		return common.UPDATE_QUEUE_ADD, nil, errors.New("target and tth are required")
	}
	target := dedupeTarget(m.Target)
	b, err := s.qm.AddFileBundle(target, m.Size, m.TTH, queuecore.Priority(m.Priority), toSources(m.Sources))
	if err != nil {
		return common.UPDATE_QUEUE_ADD, nil, err
	}
	return common.UPDATE_QUEUE_ADD, &common.QueueAddResponse{DownloadId: b.Token}, nil
}

// queueAddDirectoryHandler queues every file under a shared destination directory.
func (s *Api) queueAddDirectoryHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.QueueAddDirectoryParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_QUEUE_ADD_DIRECTORY, nil, err
	}
	if m.Dir == "" {
		return common.UPDATE_QUEUE_ADD_DIRECTORY, nil, errors.New("dir is required")
	}
	files := make([]queuecore.DirFile, 0, len(m.Files))
	for _, f := range m.Files {
		files = append(files, queuecore.DirFile{RelPath: f.RelPath, Size: f.Size, TTH: f.TTH})
	}
	b, err := s.qm.AddDirectoryBundle(m.Dir, files, queuecore.Priority(m.Priority), toSources(m.Sources))
	if err != nil {
		return common.UPDATE_QUEUE_ADD_DIRECTORY, nil, err
	}
	return common.UPDATE_QUEUE_ADD_DIRECTORY, &common.QueueAddResponse{DownloadId: b.Token}, nil
}

func (s *Api) lookupBundle(token string) (*queuecore.Bundle, error) {
	b, ok := s.qm.GetBundle(token)
	if !ok {
		return nil, errors.New("bundle not found")
	}
	return b, nil
}

// queueStatusHandler returns the current status of a single bundle.
func (s *Api) queueStatusHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputDownloadId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_QUEUE_STATUS, nil, err
	}
	b, err := s.lookupBundle(m.DownloadId)
	if err != nil {
		return common.UPDATE_QUEUE_STATUS, nil, err
	}
	return common.UPDATE_QUEUE_STATUS, bundleInfoOf(b), nil
}

// queueListHandler returns every bundle known to the queue.
func (s *Api) queueListHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	bundles := s.qm.GetBundles()
	out := make([]*common.BundleInfo, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, bundleInfoOf(b))
	}
	return common.UPDATE_QUEUE_LIST, &common.QueueListResponse{Bundles: out}, nil
}

// notifyAttached pushes a bundle's current status to every connection
// attached to its token via attachHandler.
func (s *Api) notifyAttached(pool *server.Pool, b *queuecore.Bundle) {
	pool.Broadcast(b.Token, server.MakeResult(common.UPDATE_QUEUE_STATUS, bundleInfoOf(b)))
}

// queuePauseHandler stops a bundle's items from being handed out to new requests.
func (s *Api) queuePauseHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputDownloadId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_QUEUE_PAUSE, nil, err
	}
	b, err := s.lookupBundle(m.DownloadId)
	if err != nil {
		return common.UPDATE_QUEUE_PAUSE, nil, err
	}
	s.qm.Pause(b)
	s.notifyAttached(pool, b)
	return common.UPDATE_QUEUE_PAUSE, nil, nil
}

// queueResumeHandler clears the paused flag set by queuePauseHandler.
func (s *Api) queueResumeHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputDownloadId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_QUEUE_RESUME, nil, err
	}
	b, err := s.lookupBundle(m.DownloadId)
	if err != nil {
		return common.UPDATE_QUEUE_RESUME, nil, err
	}
	s.qm.Resume(b)
	s.notifyAttached(pool, b)
	return common.UPDATE_QUEUE_RESUME, nil, nil
}

// queuePriorityHandler reprioritizes every item of a bundle.
func (s *Api) queuePriorityHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.QueuePriorityParams
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_QUEUE_PRIORITY, nil, err
	}
	b, err := s.lookupBundle(m.DownloadId)
	if err != nil {
		return common.UPDATE_QUEUE_PRIORITY, nil, err
	}
	s.qm.SetBundlePriority(b, queuecore.Priority(m.Priority))
	s.notifyAttached(pool, b)
	return common.UPDATE_QUEUE_PRIORITY, nil, nil
}

// queueRemoveHandler drops a bundle and its persisted XML file.
func (s *Api) queueRemoveHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputDownloadId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_QUEUE_REMOVE, nil, err
	}
	if err := s.qm.RemoveBundle(m.DownloadId); err != nil {
		return common.UPDATE_QUEUE_REMOVE, nil, err
	}
	return common.UPDATE_QUEUE_REMOVE, nil, nil
}

// attachHandler subscribes the calling connection to status pushes for a
// bundle, returning its current status immediately.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputDownloadId
	if err := json.Unmarshal(body, &m); err != nil {
		return common.UPDATE_ATTACH, nil, err
	}
	if m.DownloadId == "" {
		return common.UPDATE_ATTACH, nil, errors.New("download_id is required")
	}
	b, err := s.lookupBundle(m.DownloadId)
	if err != nil {
		return common.UPDATE_ATTACH, nil, err
	}
	pool.AddConnections(b.Token, []net.Conn{sconn.Conn})
	return common.UPDATE_ATTACH, bundleInfoOf(b), nil
}
