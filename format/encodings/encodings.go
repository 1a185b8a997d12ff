// Package encodings defines the collaborator interfaces through which
// downstream consumers interpret decoded array data. The wire codec itself
// never calls into them: encoding identifiers and metadata travel through the
// codec as opaque values and are resolved lazily, after decode, by whoever
// consumes the array.
package encodings

import (
	"sync"

	"github.com/eluv-io/errors-go"
)

// Encoding is the capability to interpret the metadata, children and buffers
// of array nodes carrying its identifier.
type Encoding interface {
	// ID returns the encoding identifier as it appears in array nodes.
	ID() uint16

	// String returns a human-readable name for the encoding.
	String() string
}

// Registry resolves encoding identifiers found in decoded array nodes.
type Registry interface {
	// Resolve returns the encoding registered for the given identifier, or
	// false if none is registered.
	Resolve(id uint16) (Encoding, bool)
}

// DTypeCodec is the external collaborator that encodes and decodes the opaque
// type descriptors carried in DType-headed messages.
type DTypeCodec interface {
	EncodeDType(dtype interface{}) ([]byte, error)
	DecodeDType(b []byte) (interface{}, error)
}

////////////////////////////////////////////////////////////////////////////////

// NewRegistry returns an empty, mutable, thread-safe Registry.
func NewRegistry() *MapRegistry {
	return &MapRegistry{m: map[uint16]Encoding{}}
}

// MapRegistry is a map-backed Registry safe for concurrent use.
type MapRegistry struct {
	mu sync.RWMutex
	m  map[uint16]Encoding
}

var _ Registry = (*MapRegistry)(nil)

// Register adds the given encoding. Registering an identifier twice is an
// error: encoding identifiers are append-only protocol constants.
func (r *MapRegistry) Register(enc Encoding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.m[enc.ID()]; ok {
		return errors.E("register encoding", errors.K.Exist,
			"id", enc.ID(),
			"encoding", enc.String(),
			"existing", prev.String())
	}
	r.m[enc.ID()] = enc
	return nil
}

func (r *MapRegistry) Resolve(id uint16) (Encoding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enc, ok := r.m[id]
	return enc, ok
}
