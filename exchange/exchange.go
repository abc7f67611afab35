// Package exchange moves the catalog in and out of JSON documents.
package exchange

import (
	"context"
	"errors"

	"github.com/quietstream/quietstream/stream"
)

var (
	// ErrFileNotFound is returned when the import path does not exist.
	ErrFileNotFound = errors.New("file does not exist")
	// ErrNotRegularFile is returned when the import path is a directory or device.
	ErrNotRegularFile = errors.New("path is not a regular file")
	// ErrNotJSONFile is returned when the import path lacks a .json suffix.
	ErrNotJSONFile = errors.New("file must have a .json extension")
	// ErrMalformedDocument is returned when the file is not valid JSON.
	ErrMalformedDocument = errors.New("malformed JSON document")
	// ErrNotArray is returned when the top-level JSON value is not an array.
	ErrNotArray = errors.New("document must be a JSON array of streams")
)

// Extension is appended to export paths that lack it.
const Extension = ".json"

// Store is the persistence used for bulk transfer.
type Store interface {
	List(ctx context.Context) ([]stream.Record, error)
	InsertUnique(ctx context.Context, r stream.Record) (stream.Record, error)
	Exclusive(ctx context.Context, fn func() error) error
}

// Entry is one element of an exchange document.
type Entry struct {
	ID         int64  `json:"id,omitempty" jsonschema:"description=Ignored on import"`
	Name       string `json:"name" jsonschema:"minLength=1"`
	Link       string `json:"link" jsonschema:"minLength=1,format=uri"`
	Categories string `json:"categories" jsonschema:"minLength=1,description=Comma-separated tags"`
	Kind       string `json:"kind" jsonschema:"enum=Stream,enum=Video"`
}

// Document is the top-level exchange format.
type Document []Entry

// Report summarises an import.
type Report struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
	// Duplicates is the part of Skipped caused by an existing name or link.
	Duplicates int `json:"duplicates"`
}

// Exchanger reads and writes exchange documents against a store.
type Exchanger struct {
	store Store
}

// New returns an exchanger over store.
func New(store Store) *Exchanger {
	return &Exchanger{store: store}
}

// DocumentOf converts records to their exchange form, keeping order.
func DocumentOf(records []stream.Record) Document {
	doc := make(Document, 0, len(records))
	for _, r := range records {
		doc = append(doc, entryFrom(r))
	}
	return doc
}

func entryFrom(r stream.Record) Entry {
	return Entry{
		ID:         r.ID,
		Name:       r.Name,
		Link:       r.Link,
		Categories: r.Categories,
		Kind:       r.Kind.String(),
	}
}
