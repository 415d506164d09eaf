// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides the local durable key-value storage the registry
// persists into. It plays the role browser local storage plays for a web
// page: string keys, opaque values, synchronous reads and writes.
//
// Backends:
//   - FileStorage: one JSON file per key, written atomically
//   - SQLiteStorage: a single kv table in a pure-Go SQLite database
//   - MemoryStorage: process-local map, nothing survives exit
package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Storage is a synchronous key-value store.
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file created inside Options.Dir.
const SQLiteFileName = "registry.db"

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("kv: key not found")

	// ErrInvalidKey is returned for keys that cannot be stored safely.
	ErrInvalidKey = errors.New("kv: invalid key")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kv: storage closed")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// ValidateKey rejects keys that are empty, too long, or contain characters
// other than letters, digits, dot, dash and underscore.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Options selects and configures a backend.
type Options struct {
	// Backend is one of BackendFile, BackendSQLite, BackendMemory.
	// Empty means BackendFile.
	Backend string

	// Dir is the data directory for the file and sqlite backends.
	Dir string
}

// Open creates the backend described by opts.
func Open(opts Options) (Storage, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileStorage(opts.Dir)
	case BackendSQLite:
		return NewSQLiteStorage(filepath.Join(opts.Dir, SQLiteFileName))
	case BackendMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", opts.Backend)
	}
}
