package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dctransfer/dctransfer/common"
	"github.com/dctransfer/dctransfer/pkg/warpcli"
)

// daemonURI overrides where the client connects, set via --daemon-uri or
// WARPDL_DAEMON_URI (unix:///path, tcp://host:port, pipe://name).
var daemonURI string

// getClient dials the daemon at daemonURI if set, otherwise at the address
// selected by WARPDL_SOCKET_PATH / WARPDL_TCP_PORT / WARPDL_FORCE_TCP,
// spawning the daemon if it isn't already running.
func getClient() (*warpcli.Client, error) {
	var (
		client *warpcli.Client
		err    error
	)
	if daemonURI != "" {
		client, err = warpcli.NewClientWithURI(daemonURI)
	} else {
		client, err = warpcli.NewClient()
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to daemon: %w", err)
	}
	client.CheckVersionMismatch(currentBuildArgs.Version)
	return client, nil
}

// statusHandler prints bundle status pushes delivered while a client is
// attached to a download (see attach.go).
func statusHandler() warpcli.HandlerFunc {
	return func(msg json.RawMessage) error {
		var info common.BundleInfo
		if err := json.Unmarshal(msg, &info); err != nil {
			return nil
		}
		fmt.Printf("%s: %s (%d%%)\n", info.DownloadId, info.Status, info.Percentage)
		if info.Status == "finished" || info.Status == "removed" {
			return warpcli.ErrDisconnect
		}
		return nil
	}
}
