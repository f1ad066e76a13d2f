package warpcli

import (
	"fmt"
	"os"
)

// VersionCheckEnv, when set to "1", turns CheckVersionMismatch into a no-op.
const VersionCheckEnv = "WARPDL_NO_VERSION_CHECK"

// CheckVersionMismatch checks if the daemon version matches the expected CLI version.
// If there's a mismatch, it prints a warning to stderr but does not block execution.
// This function should be called after creating a new client to warn users about
// potential compatibility issues. It does nothing when expectedVersion is empty
// or VersionCheckEnv is set to "1".
func (c *Client) CheckVersionMismatch(expectedVersion string) {
	if expectedVersion == "" || os.Getenv(VersionCheckEnv) == "1" {
		return
	}

	daemonVersion, err := c.GetDaemonVersion()
	if err != nil {
		// Don't fail on version check errors - just warn
		fmt.Fprintf(os.Stderr, "Warning: could not verify daemon version: %v\n", err)
		return
	}

	if daemonVersion.Version != expectedVersion {
		fmt.Fprintf(os.Stderr, "Warning: CLI version (%s) differs from daemon version (%s)\n",
			expectedVersion, daemonVersion.Version)
		fmt.Fprintf(os.Stderr, "Run 'warpdl stop-daemon' to restart the daemon with the new version.\n")
	}
}
