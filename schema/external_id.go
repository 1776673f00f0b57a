package schema

import "github.com/google/uuid"

// ExternalID holds a UUID string meant to be stored as an ordinary String
// column. It is not filled in automatically: Serialize and Create leave it
// as it is, and only EnsureSet assigns a fresh UUID. It supplements a record with a stable
// string handle independent of the storage-assigned autoincrement id. It
// participates in no special cache or identity semantics: the (Schema,
// i64) autoincrement identity of the cache remains the sole cache key.
type ExternalID struct {
	Value string
}

// EnsureSet assigns a fresh UUID if the id has not been set yet. Call this
// from a record's Serialize before delegating to the reflection helper,
// or from a Create hook.
func (e *ExternalID) EnsureSet() {
	if e.Value == "" {
		e.Value = uuid.NewString()
	}
}
