// Package common provides shared types and constants used across the dctransfer
// client-server communication layer.
package common

import "time"

const (
	// DefaultTCPPort is the default port for TCP fallback connections.
	// Both daemon (server) and CLI (client) must use the same port.
	DefaultTCPPort = 3849

	// TCPHost is the hostname for TCP connections. This is intentionally
	// hardcoded to localhost for security - the daemon has no authentication
	// and must not be exposed to external interfaces.
	TCPHost = "localhost"

	// MaxMessageSize caps socket payloads to protect against oversized requests.
	MaxMessageSize = 16 * 1024 * 1024

	// DefaultDialTimeout bounds how long a named pipe dial may block.
	DefaultDialTimeout = 3 * time.Second
)

// UpdateType represents the type of update message sent between the CLI client
// and the daemon server over the Unix socket connection.
type UpdateType string

const (
	// UPDATE_QUEUE_ADD queues a single file bundle.
	UPDATE_QUEUE_ADD UpdateType = "queue_add"
	// UPDATE_QUEUE_ADD_DIRECTORY queues a multi-file directory bundle.
	UPDATE_QUEUE_ADD_DIRECTORY UpdateType = "queue_add_directory"
	// UPDATE_QUEUE_STATUS reports the status of a single bundle.
	UPDATE_QUEUE_STATUS UpdateType = "queue_status"
	// UPDATE_QUEUE_LIST lists every bundle known to the queue.
	UPDATE_QUEUE_LIST UpdateType = "queue_list"
	// UPDATE_QUEUE_PAUSE pauses a bundle.
	UPDATE_QUEUE_PAUSE UpdateType = "queue_pause"
	// UPDATE_QUEUE_RESUME resumes a paused bundle.
	UPDATE_QUEUE_RESUME UpdateType = "queue_resume"
	// UPDATE_QUEUE_PRIORITY reprioritizes a bundle and its items.
	UPDATE_QUEUE_PRIORITY UpdateType = "queue_priority"
	// UPDATE_QUEUE_REMOVE drops a bundle from the queue.
	UPDATE_QUEUE_REMOVE UpdateType = "queue_remove"
	// UPDATE_ATTACH subscribes the connection to live status pushes for a bundle.
	UPDATE_ATTACH UpdateType = "attach"
	// UPDATE_LOAD_EXT loads a new extension module from disk into the extension engine.
	UPDATE_LOAD_EXT UpdateType = "load_extension"
	// UPDATE_LIST_EXT requests a list of installed extensions.
	UPDATE_LIST_EXT UpdateType = "list_extensions"
	// UPDATE_GET_EXT retrieves detailed information about a specific extension.
	UPDATE_GET_EXT UpdateType = "get_extension"
	// UPDATE_DELETE_EXT removes an extension from the system.
	UPDATE_DELETE_EXT UpdateType = "delete_extension"
	// UPDATE_ACTIVATE_EXT activates a previously deactivated extension.
	UPDATE_ACTIVATE_EXT UpdateType = "activate_extension"
	// UPDATE_DEACTIVATE_EXT deactivates an active extension without removing it.
	UPDATE_DEACTIVATE_EXT UpdateType = "deactivate_extension"
	// UPDATE_UNLOAD_EXT unloads an extension from memory.
	UPDATE_UNLOAD_EXT UpdateType = "unload_extension"
	// UPDATE_VERSION requests the daemon's version information.
	UPDATE_VERSION UpdateType = "version"
)
