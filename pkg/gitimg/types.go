package gitimg

import (
	"time"
)

// Asset is one stored image, identified by its storage path. The path is the
// identity: the backing store assigns no separate ID.
type Asset struct {
	// Name is the original (sanitized) filename, recovered from the path
	// suffix after the timestamp prefix.
	Name string

	// Path is the storage path, <directory>/<epoch-millis>-<name>.
	Path string

	// SHA is the revision tag of the asset's current version.
	SHA string

	// Size is the payload size in bytes as reported by the backing store.
	Size int64

	// URL is the stable retrieval URL.
	URL string

	// UploadedAt is recovered from the timestamp prefix of the filename.
	// Zero when the filename carries no parseable prefix.
	UploadedAt time.Time
}
