// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the student record store.
//
// The store keeps the registered students in memory, newest first, and
// writes the whole collection as one JSON array to a kv backend after every
// change. Components that display records subscribe for change notifications
// instead of polling.
//
// # Key Types
//
//   - Store: ordered record collection with Add, Remove, Clear and Import
//   - StoreError: wraps persistence failures with the failing operation
//
// # Usage
//
// Open a store over any kv backend:
//
//	backend, _ := kv.Open(kv.Options{Dir: dataDir})
//	store := storage.Open(backend, storage.WithLogger(logger))
//
// Add a record and observe changes:
//
//	unsubscribe := store.Subscribe(func(records []student.Record) { ... })
//	defer unsubscribe()
//	rec, err := store.Add(draft)
//
// # Storage Location
//
// Records live under the key "shuaib_students" of the configured backend.
// Unreadable or corrupt data is logged and treated as an empty registry.
package storage
