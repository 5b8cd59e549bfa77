package constants

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Default API settings.
const (
	// DefaultAPIEndpoint is the API base URL used when none is configured.
	DefaultAPIEndpoint = "https://api.github.com"

	// DefaultAccept is the media type requested from the API.
	DefaultAccept = "application/json"

	// ContentTypeJSON is the content type attached to every request.
	ContentTypeJSON = "application/json"

	// DefaultUserAgent identifies the runner to the API.
	DefaultUserAgent = "hubrun"
)

// RedactedPlaceholder replaces credential values in debug output. The real
// Authorization value must never reach a log line.
const RedactedPlaceholder = "REDACTED"

// Script discovery.
const (
	// ScriptExtension is the file extension of runnable script files.
	ScriptExtension = ".expr"
)

// HTTP status boundaries used by the transport.
const (
	// HTTPStatusOKFloor is the lowest status treated as success.
	HTTPStatusOKFloor = 200

	// HTTPStatusOKCeiling is the first status no longer treated as success.
	HTTPStatusOKCeiling = 300
)
