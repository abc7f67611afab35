// Package main is the entry point for quietstream.
package main

import (
	"github.com/quietstream/quietstream/cmd"
	"github.com/quietstream/quietstream/config"
	"github.com/quietstream/quietstream/internal/sweep"
	"github.com/quietstream/quietstream/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	sweep.CollectGarbage()

	cmd.Execute()
}
