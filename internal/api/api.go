// Package api provides socket API handlers for the dctransfer daemon server.
// It coordinates request handling between the legacy length-prefixed socket
// server and the QueueManager, exposing endpoints for bundle queue operations
// and extension management.
package api

import (
	"log"

	"github.com/dctransfer/dctransfer/common"
	"github.com/dctransfer/dctransfer/internal/extl"
	"github.com/dctransfer/dctransfer/internal/server"
	"github.com/dctransfer/dctransfer/pkg/queuecore"
)

// Api coordinates request handling between the server and the QueueManager.
// It encapsulates the queue, the extension engine, and a Pool used to push
// live status updates to clients attached to a bundle token.
type Api struct {
	log       *log.Logger
	qm        *queuecore.QueueManager
	elEngine  *extl.Engine
	version   string
	commit    string
	buildType string
}

// NewApi creates a new Api instance with the provided dependencies.
// The logger is used for diagnostic output, qm handles bundle queue state,
// and elEngine manages JavaScript extensions used for link resolution.
// Version info (version, commit, buildType) is stored for responding to
// version queries.
func NewApi(l *log.Logger, qm *queuecore.QueueManager, elEngine *extl.Engine, version, commit, buildType string) (*Api, error) {
	return &Api{
		log:       l,
		qm:        qm,
		elEngine:  elEngine,
		version:   version,
		commit:    commit,
		buildType: buildType,
	}, nil
}

// RegisterHandlers registers all API handlers with the provided server.
// It sets up handlers for bundle queue operations (add, addDirectory, status,
// list, pause, resume, priority, remove, attach) and extension management
// operations (load, get, list, delete, activate, deactivate).
func (s *Api) RegisterHandlers(srv *server.Server) {
	// bundle queue methods
	srv.RegisterHandler(common.UPDATE_QUEUE_ADD, s.queueAddHandler)
	srv.RegisterHandler(common.UPDATE_QUEUE_ADD_DIRECTORY, s.queueAddDirectoryHandler)
	srv.RegisterHandler(common.UPDATE_QUEUE_STATUS, s.queueStatusHandler)
	srv.RegisterHandler(common.UPDATE_QUEUE_LIST, s.queueListHandler)
	srv.RegisterHandler(common.UPDATE_QUEUE_PAUSE, s.queuePauseHandler)
	srv.RegisterHandler(common.UPDATE_QUEUE_RESUME, s.queueResumeHandler)
	srv.RegisterHandler(common.UPDATE_QUEUE_PRIORITY, s.queuePriorityHandler)
	srv.RegisterHandler(common.UPDATE_QUEUE_REMOVE, s.queueRemoveHandler)
	srv.RegisterHandler(common.UPDATE_ATTACH, s.attachHandler)

	// extension API methods
	srv.RegisterHandler(common.UPDATE_LOAD_EXT, s.loadExtHandler)
	srv.RegisterHandler(common.UPDATE_GET_EXT, s.getExtHandler)
	srv.RegisterHandler(common.UPDATE_LIST_EXT, s.listExtHandler)
	srv.RegisterHandler(common.UPDATE_DELETE_EXT, s.deleteExtHandler)
	srv.RegisterHandler(common.UPDATE_ACTIVATE_EXT, s.activateExtHandler)
	srv.RegisterHandler(common.UPDATE_DEACTIVATE_EXT, s.deactivateExtHandler)

	// daemon info methods
	srv.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
}

// Close releases resources held by the Api, specifically closing the
// extension engine. It returns any error encountered during the close
// operation.
func (s *Api) Close() error {
	return s.elEngine.Close()
}
