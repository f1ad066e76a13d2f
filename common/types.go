package common

// InputDownloadId is used to identify a bundle by token in requests that
// only need the token.
type InputDownloadId struct {
	DownloadId string `json:"download_id"`
}

// SourceParam identifies a peer a bundle's blocks can be fetched from.
type SourceParam struct {
	UserKey      string `json:"user_key"`
	Nick         string `json:"nick,omitempty"`
	HintedHubURL string `json:"hinted_hub_url,omitempty"`
}

// QueueAddFileParam describes one file within a QueueAddDirectoryParams request.
type QueueAddFileParam struct {
	RelPath string `json:"rel_path"`
	Size    int64  `json:"size"`
	TTH     string `json:"tth"`
}

// QueueAddParams is the input for queuing a single file bundle.
type QueueAddParams struct {
	Target   string        `json:"target"`
	Size     int64         `json:"size"`
	TTH      string        `json:"tth"`
	Priority int32         `json:"priority,omitempty"`
	Sources  []SourceParam `json:"sources,omitempty"`
}

// QueueAddDirectoryParams is the input for queuing a multi-file directory bundle.
type QueueAddDirectoryParams struct {
	Dir      string              `json:"dir"`
	Files    []QueueAddFileParam `json:"files"`
	Priority int32               `json:"priority,omitempty"`
	Sources  []SourceParam       `json:"sources,omitempty"`
}

// QueueAddResponse is the response for a queue add/addDirectory request.
type QueueAddResponse struct {
	DownloadId string `json:"download_id"`
}

// QueuePriorityParams reprioritizes a bundle.
type QueuePriorityParams struct {
	DownloadId string `json:"download_id"`
	Priority   int32  `json:"priority"`
}

// BundleInfo describes one bundle for queue status/list responses.
type BundleInfo struct {
	DownloadId string `json:"download_id"`
	Target     string `json:"target"`
	Status     string `json:"status"`
	Priority   int32  `json:"priority"`
	Size       int64  `json:"size"`
	Downloaded int64  `json:"downloaded"`
	Percentage int64  `json:"percentage"`
}

// QueueListResponse is the response for a queue list request.
type QueueListResponse struct {
	Bundles []*BundleInfo `json:"bundles"`
}

// InputExtension identifies an extension module by id.
type InputExtension struct {
	ExtensionId string `json:"extension_id"`
}

// ExtensionInfo describes a loaded extension module in full.
type ExtensionInfo struct {
	ExtensionId string   `json:"extension_id"`
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Matches     []string `json:"matches"`
}

// ExtensionInfoShort describes an extension module in the list_extensions response.
type ExtensionInfoShort struct {
	ExtensionId string `json:"extension_id"`
	Name        string `json:"name"`
	Activated   bool   `json:"activated"`
}

// ExtensionName carries the name of an extension removed by delete_extension.
type ExtensionName struct {
	Name string `json:"name"`
}

// ListExtensionsParams is the input for list_extensions.
type ListExtensionsParams struct {
	All bool `json:"all"`
}

// LoadExtensionParams is the input for load_extension.
type LoadExtensionParams struct {
	Path string `json:"path"`
}

// VersionResponse is the response for a version request.
type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"build_type,omitempty"`
}
