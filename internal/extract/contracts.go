package extract

import (
	"context"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/docparse"
)

// Backend turns raw file bytes into text. One backend handles one input
// family; the router never falls back from one backend to another.
type Backend interface {
	Name() string
	Extract(ctx context.Context, data []byte) (BackendResult, error)
}

// BackendResult is the raw output of a text backend.
type BackendResult struct {
	Text       string
	Confidence float32 // percent, 0-100
	Pages      int
}

// ProgressFunc receives advisory recognition progress in percent. Callbacks
// are best-effort: a nil or slow consumer never affects the result.
type ProgressFunc func(pct int)

// Result is the combined output of the pipeline for one document.
type Result struct {
	Text       string                     `json:"text"`
	Confidence float32                    `json:"confidence"`
	Metadata   docparse.Fields            `json:"metadata"`
	Category   constants.DocumentCategory `json:"category"`
}
