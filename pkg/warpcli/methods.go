package warpcli

import (
	"encoding/json"

	"github.com/dctransfer/dctransfer/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

// AddFileOpts contains optional parameters for queuing a single file bundle.
type AddFileOpts struct {
	// Priority specifies the queue priority (0=lowest .. 4=highest).
	// Defaults to normal if not specified.
	Priority int32
	// Sources lists the peers this bundle's blocks can be fetched from.
	Sources []common.SourceParam
}

// AddFile queues a single file bundle identified by its TTH (Tiger Tree Hash).
// target is the destination path on disk, size is the expected file size in
// bytes. Pass nil for opts to use default priority and no known sources.
// Returns the token assigned to the new bundle.
func (c *Client) AddFile(target string, size int64, tth string, opts *AddFileOpts) (*common.QueueAddResponse, error) {
	if opts == nil {
		opts = &AddFileOpts{}
	}
	return invoke[common.QueueAddResponse](c, common.UPDATE_QUEUE_ADD, &common.QueueAddParams{
		Target:   target,
		Size:     size,
		TTH:      tth,
		Priority: opts.Priority,
		Sources:  opts.Sources,
	})
}

// AddDirectory queues a multi-file directory bundle sharing a single
// destination directory. Returns the token assigned to the new bundle.
func (c *Client) AddDirectory(dir string, files []common.QueueAddFileParam, opts *AddFileOpts) (*common.QueueAddResponse, error) {
	if opts == nil {
		opts = &AddFileOpts{}
	}
	return invoke[common.QueueAddResponse](c, common.UPDATE_QUEUE_ADD_DIRECTORY, &common.QueueAddDirectoryParams{
		Dir:      dir,
		Files:    files,
		Priority: opts.Priority,
		Sources:  opts.Sources,
	})
}

// QueueStatus returns the current status of a single bundle.
// The downloadId identifies the bundle by its queue token.
func (c *Client) QueueStatus(downloadId string) (*common.BundleInfo, error) {
	return invoke[common.BundleInfo](c, common.UPDATE_QUEUE_STATUS, &common.InputDownloadId{DownloadId: downloadId})
}

// QueueList retrieves every bundle known to the queue.
func (c *Client) QueueList() (*common.QueueListResponse, error) {
	return invoke[common.QueueListResponse](c, common.UPDATE_QUEUE_LIST, nil)
}

// QueuePause stops a bundle's items from being handed out to new requests.
func (c *Client) QueuePause(downloadId string) error {
	_, err := c.invoke(common.UPDATE_QUEUE_PAUSE, &common.InputDownloadId{DownloadId: downloadId})
	return err
}

// QueueResume clears the paused flag set by QueuePause.
func (c *Client) QueueResume(downloadId string) error {
	_, err := c.invoke(common.UPDATE_QUEUE_RESUME, &common.InputDownloadId{DownloadId: downloadId})
	return err
}

// QueuePriority reprioritizes every item of a bundle.
func (c *Client) QueuePriority(downloadId string, priority int32) error {
	_, err := c.invoke(common.UPDATE_QUEUE_PRIORITY, &common.QueuePriorityParams{
		DownloadId: downloadId,
		Priority:   priority,
	})
	return err
}

// QueueRemove drops a bundle and its persisted state from the queue.
func (c *Client) QueueRemove(downloadId string) error {
	_, err := c.invoke(common.UPDATE_QUEUE_REMOVE, &common.InputDownloadId{DownloadId: downloadId})
	return err
}

// Attach subscribes the client to status pushes for a bundle, returning its
// current status immediately.
func (c *Client) Attach(downloadId string) (*common.BundleInfo, error) {
	return invoke[common.BundleInfo](c, common.UPDATE_ATTACH, &common.InputDownloadId{DownloadId: downloadId})
}

// LoadExtension installs a new extension from the specified path.
// The path should point to a valid extension package. Returns extension
// metadata on success or an error if installation fails.
func (c *Client) LoadExtension(path string) (*common.ExtensionInfo, error) {
	return invoke[common.ExtensionInfo](c, common.UPDATE_LOAD_EXT, &common.LoadExtensionParams{Path: path})
}

// GetExtension retrieves metadata for an installed extension.
// The extensionId identifies the extension to retrieve. Returns extension
// metadata on success or an error if the extension is not found.
func (c *Client) GetExtension(extensionId string) (*common.ExtensionInfo, error) {
	return invoke[common.ExtensionInfo](c, common.UPDATE_GET_EXT, &common.InputExtension{ExtensionId: extensionId})
}

// DeleteExtension uninstalls an extension from the daemon.
// The extensionId identifies the extension to remove. Returns the extension
// name on success or an error if deletion fails.
func (c *Client) DeleteExtension(extensionId string) (*common.ExtensionName, error) {
	return invoke[common.ExtensionName](c, common.UPDATE_DELETE_EXT, &common.InputExtension{ExtensionId: extensionId})
}

// DeactivateExtension disables an installed extension without uninstalling it.
// The extensionId identifies the extension to deactivate. Returns the extension
// name on success or an error if deactivation fails.
func (c *Client) DeactivateExtension(extensionId string) (*common.ExtensionName, error) {
	return invoke[common.ExtensionName](c, common.UPDATE_DEACTIVATE_EXT, &common.InputExtension{ExtensionId: extensionId})
}

// ActivateExtension enables a previously deactivated extension.
// The extensionId identifies the extension to activate. Returns extension
// metadata on success or an error if activation fails.
func (c *Client) ActivateExtension(extensionId string) (*common.ExtensionInfo, error) {
	return invoke[common.ExtensionInfo](c, common.UPDATE_ACTIVATE_EXT, &common.InputExtension{ExtensionId: extensionId})
}

// ListExtension retrieves a list of installed extensions.
// If all is true, includes deactivated extensions; otherwise only active
// extensions are returned. Returns a list of extension summaries or an error.
func (c *Client) ListExtension(all bool) (*[]common.ExtensionInfoShort, error) {
	return invoke[[]common.ExtensionInfoShort](c, common.UPDATE_LIST_EXT, &common.ListExtensionsParams{All: all})
}

// GetDaemonVersion retrieves the version information from the running daemon.
// This is useful for detecting version mismatches between the CLI and daemon.
// Returns the daemon's version, commit hash, and build type.
func (c *Client) GetDaemonVersion() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}
