// Package icon renders the symbols used in output and the interface.
// The variant is chosen with icons.variant: emoji, nerd, plain, kaomoji or squares.
package icon

import (
	"github.com/quietstream/quietstream/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Variant indexes, also the keys of every registry entry.
const (
	emoji = iota
	nerd
	plain
	kaomoji
	squares

	variantCount
)

var variantNames = [variantCount]string{
	emoji:   "emoji",
	nerd:    "nerd",
	plain:   "plain",
	kaomoji: "kaomoji",
	squares: "squares",
}

// AvailableVariants lists the accepted values of icons.variant.
func AvailableVariants() []string {
	return append([]string(nil), variantNames[:]...)
}

// iconDef holds one rendering per variant.
type iconDef [variantCount]string

func (d *iconDef) Get() string {
	variant := lo.IndexOf(variantNames[:], viper.GetString(key.IconsVariant))
	if variant < 0 {
		return ""
	}
	return d[variant]
}

// Get renders i in the configured variant, or returns an empty string for an unknown variant.
func Get(i Icon) string {
	return icons[i].Get()
}
