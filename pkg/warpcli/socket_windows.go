//go:build windows

package warpcli

import (
	"github.com/dctransfer/dctransfer/common"
)

// pipePath returns the Windows named pipe path used to reach the daemon,
// honoring WARPDL_PIPE_NAME if set.
func pipePath() string {
	return common.PipePath()
}
