package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/style"
	"github.com/spf13/viper"
)

// Field is a registered key with its default and help text.
type Field struct {
	Key         string
	Value       any
	Description string

	// check rejects values outside the accepted range, nil accepts anything of the right type.
	check func(v any) error
}

// Env returns the environment variable that overrides the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Parse converts command line text into a value of the field's type and checks it.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no value given", f.Key)
	}

	var (
		v   any
		err error
	)
	switch f.Value.(type) {
	case string:
		v = raw[0]
	case int:
		v, err = strconv.Atoi(raw[0])
	case bool:
		v, err = strconv.ParseBool(raw[0])
	case []string:
		v = raw
	default:
		return nil, fmt.Errorf("%s: unsupported type %T", f.Key, f.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("%s expects %s, got %q", f.Key, f.typeName(), raw[0])
	}

	if f.check != nil {
		if err := f.check(v); err != nil {
			return nil, fmt.Errorf("%s: %w", f.Key, err)
		}
	}
	return v, nil
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		if value == "" {
			return style.Faint(`""`)
		}
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

// Pretty renders the field for config info.
func (f *Field) Pretty() string {
	label := style.Fg(color.Blue)
	rows := []string{
		style.Faint(f.Description),
		label("Key:") + "     " + style.Fg(color.Purple)(f.Key),
		label("Env:") + "     " + f.Env(),
		label("Value:") + "   " + highlight(viper.Get(f.Key)),
		label("Default:") + " " + highlight(f.Value),
		label("Type:") + "    " + f.typeName(),
	}
	return strings.Join(rows, "\n")
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}
