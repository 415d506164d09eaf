// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// registry.
//
// Supports both TOML and JSON configuration formats, with defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - StorageConfig: Record backend and data directory
//   - AIConfig: Gemini API key, model and request rate
//   - ValidateErrors: Every invalid setting found by Validate
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (GEMINI_API_KEY, API_KEY, SHUAIB_*)
//   - .env in the working directory, then in the config directory
//   - ~/.shuaib/config.toml
//   - ~/.shuaib/config.json
//   - Built-in defaults
//
// SHUAIB_HOME relocates the whole ~/.shuaib directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	backend, err := kv.Open(kv.Options{Backend: cfg.Storage.Backend, Dir: cfg.DataDir()})
package config
