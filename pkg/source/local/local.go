// Package local loads entity records from a JSON snapshot file.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blattwerk/blattwerk/pkg/catalog"
	"github.com/blattwerk/blattwerk/pkg/errors"
	"github.com/blattwerk/blattwerk/pkg/source"
)

// Snapshot reads a single JSON file holding all entity collections.
type Snapshot struct {
	path string
}

// New creates a snapshot source for path.
func New(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Name identifies the source in logs.
func (s *Snapshot) Name() string {
	return fmt.Sprintf("local:%s", s.path)
}

// Load reads and decodes the snapshot file.
func (s *Snapshot) Load(ctx context.Context) (catalog.Records, error) {
	var records catalog.Records

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return records, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", s.path)
		}
		return records, errors.Wrap(errors.ErrCodeSource, err, "reading %s", s.path)
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return records, errors.Wrap(errors.ErrCodeSourceDecode, err, "decoding %s", s.path)
	}
	return records, nil
}

var _ source.Source = (*Snapshot)(nil)
