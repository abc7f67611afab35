package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/quietstream/quietstream/color"
	"github.com/quietstream/quietstream/config"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

func errUnknownKey(key string) error {
	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(config.Closest(key)),
	)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

// lookupField resolves the key from the first argument or the --key flag.
func lookupField(cmd *cobra.Command, args []string) config.Field {
	k := lo.Must(cmd.Flags().GetString("key"))
	if len(args) > 0 {
		k = args[0]
	}
	if k == "" {
		handleErr(errors.New("key is required as an argument or --key flag"))
	}

	field, ok := config.Default[k]
	if !ok {
		handleErr(errUnknownKey(k))
	}
	return field
}

func printSetting(verb, k string, v any) {
	printSuccess("%s %s to %s", verb, style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprintf("%v", v)))
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change configuration",
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only show these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	lo.Must0(configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))

	configInfoCmd.SetOut(os.Stdout)
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show every key with its value, default and description",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Must(cmd.Flags().GetStringSlice("key"))
		if len(keys) == 0 {
			keys = lo.Keys(config.Default)
		}
		slices.Sort(keys)

		fields := lo.Map(keys, func(k string, _ int) *config.Field {
			field, ok := config.Default[k]
			if !ok {
				handleErr(errUnknownKey(k))
			}
			return &field
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(fields))
			return
		}

		cmd.Println(strings.Join(lo.Map(fields, func(f *config.Field, _ int) string {
			return f.Pretty()
		}), "\n\n"))
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configSetCmd.Flags().StringP("key", "k", "", "The key to set")
	configSetCmd.Flags().StringSliceP("value", "v", []string{}, "The new value")
	lo.Must0(configSetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
}

var configSetCmd = &cobra.Command{
	Use:               "set [key] [value]",
	Short:             "Set a key and write the config file",
	Example:           "  quietstream config set player.reduced_volume 20",
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field := lookupField(cmd, args)

		raw := lo.Must(cmd.Flags().GetStringSlice("value"))
		if len(args) >= 2 {
			raw = args[1:]
		}

		v, err := field.Parse(raw)
		handleErr(err)

		viper.Set(field.Key, v)
		handleErr(config.Save())
		printSetting("set", field.Key, v)
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configGetCmd.Flags().StringP("key", "k", "", "The key to print")
	lo.Must0(configGetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
	configGetCmd.SetOut(os.Stdout)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print the current value of a key",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(viper.Get(lookupField(cmd, args).Key))
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		path := config.FilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(viper.SafeWriteConfig())
		printSuccess("wrote config to %s", path)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(config.FilePath()))
		printSuccess("deleted config")
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)

	configResetCmd.Flags().StringP("key", "k", "", "The key to reset")
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
	configResetCmd.MarkFlagsMutuallyExclusive("key", "all")
	lo.Must0(configResetCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset keys to their default values",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			for k, field := range config.Default {
				viper.Set(k, field.Value)
			}
			handleErr(config.Save())
			printSuccess("reset all config values")
			return
		}

		field := lookupField(cmd, args)
		viper.Set(field.Key, field.Value)
		handleErr(config.Save())
		printSetting("reset", field.Key, field.Value)
	},
}
