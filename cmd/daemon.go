package cmd

import (
	"context"
	"log"
	"path/filepath"

	"github.com/urfave/cli"
	"github.com/dctransfer/dctransfer/cmd/common"
	"github.com/dctransfer/dctransfer/internal/api"
	"github.com/dctransfer/dctransfer/internal/extl"
	"github.com/dctransfer/dctransfer/internal/server"
	"github.com/dctransfer/dctransfer/pkg/queuecore"
)

var (
	cookieManagerFunc = getCookieManager
	startServerFunc   = func(serv *server.Server, ctx context.Context) error { return serv.Start(ctx) }
)

func daemon(ctx *cli.Context) error {
	l := log.Default()

	// Write PID file
	if err := WritePidFile(); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "write_pid", err)
		return nil
	}
	defer RemovePidFile()

	// Setup signal handler for graceful shutdown
	shutdownCtx, cancel := setupShutdownHandler()
	defer cancel()

	cm, err := cookieManagerFunc(ctx)
	if err != nil {
		// nil because err has already been handled in getCookieManager function
		return nil
	}
	elEng, err := extl.NewEngine(l, cm, false)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "extloader_engine", err)
		return nil
	}

	qm, err := queuecore.NewQueueManager(queuecore.QueueManagerOpts{
		DataDir: filepath.Join(queuecore.ConfigDir, "queue"),
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init_queue_manager", err)
		return nil
	}
	s, err := api.NewApi(l, qm, elEng, currentBuildArgs.Version, currentBuildArgs.Commit, currentBuildArgs.BuildType)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "new_api", err)
		return nil
	}

	// Deferred cleanup on shutdown (runs in reverse order)
	defer func() {
		l.Println("Shutting down daemon...")

		// Flush any dirty bundle state to disk.
		if err := qm.PersistDirty(); err != nil {
			l.Printf("Error persisting queue state: %v", err)
		}

		// Close API, which closes the extension engine in turn.
		if err := s.Close(); err != nil {
			l.Printf("Error closing API: %v", err)
		}

		l.Println("Daemon stopped")
	}()

	serv := server.NewServer(l, DEF_PORT)
	s.RegisterHandlers(serv)
	return startServerFunc(serv, shutdownCtx)
}
