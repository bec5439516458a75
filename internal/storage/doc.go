// Package storage persists client state as JSON text in a string key-value store.
//
// A [Backend] is the raw store. Three are provided:
//   - [BoltBackend] : a bbolt file with a single bucket (default)
//   - [SQLBackend] : the kv_store table of the migrated SQLite database
//   - [MemoryBackend] : a map, with optional failure injection for tests
//
// The [Adapter] sits on top of a backend and never returns errors to its callers.
// Unavailable storage, corrupt JSON and failed writes are logged and otherwise absorbed:
// [Read] reports "no value" and [Adapter.Write] leaves the previous value in place.
package storage
