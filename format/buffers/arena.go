package buffers

import (
	"github.com/eluv-io/errors-go"
)

// View is a read-only, non-owning slice of a payload inside an arena's backing
// region. Views remain valid as long as the backing region is alive; callers
// that need to outlive it must call Clone.
type View struct {
	b []byte
}

// Bytes returns the viewed payload bytes. The returned slice aliases the
// arena's backing region and must not be modified.
func (v View) Bytes() []byte {
	return v.b
}

// Len returns the payload length in bytes.
func (v View) Len() int {
	return len(v.b)
}

// Clone returns an owned copy of the viewed bytes.
func (v View) Clone() []byte {
	c := make([]byte, len(v.b))
	copy(c, v.b)
	return c
}

// Arena cuts a contiguous backing region into the zero-copy payload views
// described by an ordered descriptor list. The region must start at the first
// payload's offset; descriptor order defines the payload boundaries.
type Arena struct {
	region []byte
	descs  []Descriptor
	offs   []uint64
}

// NewArena creates an arena over the given region. The region must hold at
// least TotalStride(descs) bytes; a shorter region reports a truncated stream.
func NewArena(region []byte, descs []Descriptor) (*Arena, error) {
	total := TotalStride(descs)
	if uint64(len(region)) < total {
		return nil, errors.E("buffer arena", errors.K.Invalid, ErrTruncatedStream,
			"reason", "region shorter than descriptors",
			"region_size", len(region),
			"required_size", total)
	}
	offs := make([]uint64, len(descs))
	var off uint64
	for i, d := range descs {
		offs[i] = off
		off += d.Stride()
	}
	return &Arena{region: region, descs: descs, offs: offs}, nil
}

// Count returns the number of payloads in the arena.
func (a *Arena) Count() int {
	return len(a.descs)
}

// Size returns the total number of region bytes covered by the arena's
// descriptors, including padding.
func (a *Arena) Size() uint64 {
	return TotalStride(a.descs)
}

// View returns the zero-copy view of payload i.
func (a *Arena) View(i int) (View, error) {
	if i < 0 || i >= len(a.descs) {
		return View{}, errors.E("buffer arena", errors.K.Invalid,
			"reason", "view index out of range",
			"index", i,
			"count", len(a.descs))
	}
	off := a.offs[i]
	return View{b: a.region[off : off+a.descs[i].Length]}, nil
}

// Views returns the zero-copy views of all payloads in descriptor order.
func (a *Arena) Views() []View {
	views := make([]View, len(a.descs))
	for i := range a.descs {
		views[i], _ = a.View(i)
	}
	return views
}
