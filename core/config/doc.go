// Package config provides configuration management for autosync.
//
// Settings come from environment variables, optionally seeded from a .env
// file, and are decoded with Viper. Defaults live in `default` struct tags
// next to each `mapstructure` key; bindValues registers them so AutomaticEnv
// can resolve nested keys (WOO_URL -> woo.url).
//
// # Configuration Structure
//
//   - Woo, Source: the four required endpoint and credential values
//   - Sync: batch size, update concurrency, purge switches, profile
//   - Transport: per-request timeout and retry ceilings
//   - Mapping: taxonomy override file
//   - Log, Database, Storage, Lock, Events, Server: optional infrastructure
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
