// Package config registers every setting and loads them through viper
// from quietstream.toml, QUIETSTREAM_* variables and flags.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/quietstream/quietstream/constant"
	"github.com/quietstream/quietstream/filesystem"
	"github.com/quietstream/quietstream/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// Closest returns the registered key with the smallest edit distance to k.
func Closest(k string) string {
	return lo.MinBy(lo.Keys(Default), func(a string, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
}

// Seconds reads an integer key as a duration in seconds.
// Non-positive values fall back to the registered default.
func Seconds(k string) time.Duration {
	n := viper.GetInt(k)
	if n <= 0 {
		if def, ok := Default[k].Value.(int); ok {
			n = def
		}
	}
	return time.Duration(n) * time.Second
}

// FilePath is where the config file lives, whether or not it exists yet.
func FilePath() string {
	return filepath.Join(where.Config(), fmt.Sprintf("%s.%s", constant.App, "toml"))
}

// Save writes the current settings, creating the file when missing.
func Save() error {
	err := viper.WriteConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return viper.SafeWriteConfig()
	}
	return err
}
