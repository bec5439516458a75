package tasks

import (
	"github.com/desertthunder/cinelist/internal/tmdb"
)

// Engine runs multi-request operations against a catalog.
type Engine struct {
	catalog tmdb.Catalog
}

// NewEngine creates an Engine over catalog.
func NewEngine(catalog tmdb.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
