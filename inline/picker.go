package inline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quietstream/quietstream/stream"
	"github.com/quietstream/quietstream/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Picker chooses one record out of the filtered ones.
type Picker func([]stream.Record) mo.Option[stream.Record]

// ParsePicker reads a picker description:
// "first", "last", a 0-based index such as "2", or "@name@" for an exact name.
func ParsePicker(description string) (Picker, error) {
	switch description {
	case "first":
		return func(records []stream.Record) mo.Option[stream.Record] {
			if len(records) == 0 {
				return mo.None[stream.Record]()
			}
			return mo.Some(records[0])
		}, nil
	case "last":
		return func(records []stream.Record) mo.Option[stream.Record] {
			if len(records) == 0 {
				return mo.None[stream.Record]()
			}
			return mo.Some(records[len(records)-1])
		}, nil
	}

	if len(description) > 2 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		name := strings.TrimSpace(description[1 : len(description)-1])
		return func(records []stream.Record) mo.Option[stream.Record] {
			r, ok := lo.Find(records, func(r stream.Record) bool {
				return strings.EqualFold(strings.TrimSpace(r.Name), name)
			})
			return lo.Ternary(ok, mo.Some(r), mo.None[stream.Record]())
		}, nil
	}

	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(records []stream.Record) mo.Option[stream.Record] {
			if len(records) == 0 {
				return mo.None[stream.Record]()
			}
			return mo.Some(records[util.Min(int(idx), len(records)-1)])
		}, nil
	}

	return nil, fmt.Errorf("invalid picker: %s", description)
}
