// Package models defines the five replicated record types shared by the
// client replica and the server store, plus the sync metadata every record
// carries.
package models

// SyncMeta is embedded in every replicated record.
//
// UpdatedAt is the sole conflict arbiter: it is a client-wall-clock Unix
// millisecond timestamp bumped on every mutation, including soft delete.
// Deleted is a tombstone; a tombstoned record is logically absent from all
// reads but stays stored and sync-visible forever.
type SyncMeta struct {
	// ID is a globally unique, client-generated identifier (UUID), so
	// records can be created offline without a server round-trip.
	ID string `json:"id"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is bumped on every mutation; last writer wins.
	UpdatedAt int64 `json:"updatedAt"`

	// Deleted marks the record as a tombstone.
	Deleted bool `json:"deleted"`
}

// Meta gives generic code access to the embedded sync fields.
func (m *SyncMeta) Meta() *SyncMeta { return m }
