package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/store"
	"github.com/quietstream/quietstream/stream"
)

// fieldAliases lists accepted keys per field, first match wins.
// The second spelling is the one used by older backups.
var fieldAliases = map[string][]string{
	"name":       {"name", "nombre"},
	"link":       {"link"},
	"categories": {"categories", "categorias"},
	"kind":       {"kind", "tipo"},
}

// CheckImportPath verifies that path names an existing regular .json file.
func CheckImportPath(path string) error {
	info, err := filesystem.API().Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	if !strings.HasSuffix(strings.ToLower(path), Extension) {
		return fmt.Errorf("%w: %s", ErrNotJSONFile, path)
	}
	return nil
}

// Decode parses an exchange document into raw elements.
// It fails when the data is not JSON or the top level is not an array.
func Decode(data []byte) ([]json.RawMessage, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if _, ok := top.([]any); !ok {
		return nil, ErrNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return elems, nil
}

// candidate turns one element into a record, or explains why it cannot be imported.
func candidate(raw json.RawMessage) (stream.Record, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return stream.Record{}, errors.New("element is not an object")
	}

	fields := make(map[string]string, len(fieldAliases))
	for field, keys := range fieldAliases {
		value, err := stringField(obj, keys)
		if err != nil {
			return stream.Record{}, fmt.Errorf("%s: %w", field, err)
		}
		fields[field] = value
	}

	kind, err := stream.ParseKind(fields["kind"])
	if err != nil {
		return stream.Record{}, err
	}

	return stream.Record{
		Name:       fields["name"],
		Link:       fields["link"],
		Categories: fields["categories"],
		Kind:       kind,
	}, nil
}

func stringField(obj map[string]any, keys []string) (string, error) {
	for _, k := range keys {
		v, ok := obj[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", errors.New("not a string")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", errors.New("empty")
		}
		return s, nil
	}
	return "", errors.New("missing")
}

// Import loads the document at path into the store.
// Document-level problems abort before any write. Element-level problems skip
// that element. Each accepted element is inserted in its own transaction.
func (e *Exchanger) Import(ctx context.Context, path string) (Report, error) {
	if err := CheckImportPath(path); err != nil {
		return Report{}, err
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read %s: %w", path, err)
	}

	return e.ImportData(ctx, data)
}

// ImportData is Import for an in-memory document.
func (e *Exchanger) ImportData(ctx context.Context, data []byte) (Report, error) {
	elems, err := Decode(data)
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: len(elems)}
	err = e.store.Exclusive(ctx, func() error {
		for i, raw := range elems {
			if err := ctx.Err(); err != nil {
				return err
			}

			r, err := candidate(raw)
			if err != nil {
				report.Skipped++
				log.Warnf("import: skipping element %d: %v", i, err)
				continue
			}

			if _, err := e.store.InsertUnique(ctx, r); err != nil {
				report.Skipped++
				if errors.Is(err, store.ErrDuplicate) {
					report.Duplicates++
					log.Debugf("import: %q already in catalog", r.Name)
				} else {
					log.Errorf("import: insert %q failed: %v", r.Name, err)
				}
				continue
			}
			report.Imported++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	log.Infof("import finished: %d imported, %d skipped of %d", report.Imported, report.Skipped, report.Total)
	return report, nil
}
