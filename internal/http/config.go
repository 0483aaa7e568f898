package http

import "github.com/mrlokans/reader/internal/storage"

// RouterConfig carries all dependencies the router needs. Optional
// dependencies left nil disable their routes.
type RouterConfig struct {
	Store    AnnotationsStore
	Exporter Exporter
	Database *storage.Database
	Version  string
}
