// Package source defines where entity records come from.
//
// A Source loads one full snapshot of raw records; graph construction
// and validation happen downstream in pkg/catalog. Loading is the only
// I/O of a generation run.
package source

import (
	"context"

	"github.com/blattwerk/blattwerk/pkg/catalog"
)

// Source loads a complete record snapshot.
type Source interface {
	// Load reads every entity collection. The returned records are
	// owned by the caller.
	Load(ctx context.Context) (catalog.Records, error)

	// Name identifies the source in logs.
	Name() string
}
