// Package inline implements the non-interactive, scriptable listing of the catalog.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/quietstream/quietstream/catalog"
	"github.com/quietstream/quietstream/exchange"
	"github.com/quietstream/quietstream/log"
	"github.com/quietstream/quietstream/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type Options struct {
	Out   io.Writer
	Store catalog.Store
	Query string
	// Json writes an exchange document that import accepts back.
	Json bool
	// Links writes one link per line.
	Links  bool
	Picker mo.Option[Picker]
}

// Select loads the catalog, filters it by the query and applies the picker.
func Select(ctx context.Context, options *Options) ([]stream.Record, error) {
	snap, err := catalog.New(options.Store).Load(ctx)
	if err != nil {
		return nil, err
	}

	records := snap.Filter(options.Query)
	log.Infof("inline query %q matched %d of %d", options.Query, len(records), snap.Len())

	if picker, ok := options.Picker.Get(); ok {
		picked, found := picker(records).Get()
		if !found {
			return []stream.Record{}, nil
		}
		records = []stream.Record{picked}
	}

	return records, nil
}

// Write renders records in the format chosen by options.
func Write(records []stream.Record, options *Options) error {
	out := options.Out
	if out == nil {
		out = os.Stdout
	}

	if options.Json {
		data, err := exchange.Encode(exchange.DocumentOf(records))
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	links := lo.Map(records, func(r stream.Record, _ int) string {
		return r.Link
	})
	if !options.Links {
		links = lo.Map(records, func(r stream.Record, _ int) string {
			return fmt.Sprintf("%d\t%s\t%s", r.ID, r.Name, r.Link)
		})
	}

	for _, line := range links {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
