package types

import "errors"

// Store is the durable key-value collaborator the collections read at startup
// and write after every mutation. Each entity kind owns exactly one key whose
// value is the JSON encoding of its full record list.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// Get returns the value stored under key.
	// Returns ErrNotFound if the key has never been written.
	Get(key string) ([]byte, error)

	// Set writes value under key, replacing any previous value.
	Set(key string, value []byte) error

	// SetBatch writes every entry. Backends that support transactions apply
	// the batch all-or-nothing.
	SetBatch(entries map[string][]byte) error

	// Keys lists the keys currently present, sorted ascending.
	Keys() ([]string, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrInvalidKey      = errors.New("invalid store key")
)

// Standard store keys, one per entity kind plus process-wide state.
const (
	KeyParts            = "parts"
	KeyCategories       = "categories"
	KeyStorageLocations = "storageLocations"
	KeyBuilds           = "builds"
	KeyGalleryItems     = "galleryItems"
	KeyLinks            = "links"
	KeyTodos            = "todos"
	KeySettings         = "settings"
	KeyCustomTags       = "customTags"
)

// CollectionKeys lists the keys of the seven record collections in backup
// document order.
var CollectionKeys = []string{
	KeyParts,
	KeyCategories,
	KeyStorageLocations,
	KeyBuilds,
	KeyGalleryItems,
	KeyLinks,
	KeyTodos,
}
