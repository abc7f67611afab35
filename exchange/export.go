package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/util"
)

// ExportPath normalises a user supplied path, appending .json when missing.
func ExportPath(path string) string {
	return util.EnsureSuffix(path, Extension)
}

// Encode renders doc with two-space indentation and without HTML escaping.
func Encode(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes the whole catalog to path and returns the number of entries written.
// The file is replaced atomically.
func (e *Exchanger) Export(ctx context.Context, path string) (int, error) {
	records, err := e.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}

	doc := DocumentOf(records)

	data, err := Encode(doc)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}

	path = ExportPath(path)
	if err := filesystem.WriteAtomic(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	log.Infof("exported %d streams to %s", len(doc), path)
	return len(doc), nil
}
