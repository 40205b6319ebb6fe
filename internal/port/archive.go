package port

import (
	"context"
	"time"
)

// ExportObject is one rendered export file to be archived under Key.
type ExportObject struct {
	Key         string
	Filename    string
	ContentType string
	Data        []byte
}

// ArchivedExport points at an archived export through a time-limited download URL.
type ArchivedExport struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// ExportArchive keeps copies of exported files outside the request/response cycle.
type ExportArchive interface {
	Put(ctx context.Context, obj ExportObject) (*ArchivedExport, error)
}
