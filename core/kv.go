package core

import "errors"

// ErrKeyNotFound is returned by KVStore.Read when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a client-scoped durable key-value store.
// Implementations live in storage/kv; callers treat persistence as best-effort.
type KVStore interface {
	Read(key string) ([]byte, error)
	Write(key string, value []byte) error
	Delete(key string) error
}
