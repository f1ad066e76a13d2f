package queuecore

import (
	"fmt"
	"os"
)

// validateDownloadIntegrity checks that the on-disk state a QueueItem
// claims (via its persisted done ranges) is actually backed by a
// TempTarget file of plausible size. A bundle reloaded from XML whose
// TempTarget has vanished or shrunk out from under it cannot resume
// safely and must restart from scratch.
//
// Returns ErrDownloadDataMissing if any check fails.
func validateDownloadIntegrity(qi *QueueItem) error {
	downloaded := qi.Downloaded()
	if downloaded == 0 {
		return nil
	}

	stat, err := os.Stat(qi.TempTarget)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: temp file missing: %s", ErrDownloadDataMissing, qi.TempTarget)
		}
		return fmt.Errorf("%w: cannot access temp file: %s: %v", ErrDownloadDataMissing, qi.TempTarget, err)
	}
	if stat.Size() == 0 {
		return fmt.Errorf("%w: temp file exists but is empty: %s", ErrDownloadDataMissing, qi.TempTarget)
	}
	return nil
}
