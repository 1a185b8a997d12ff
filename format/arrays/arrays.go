// Package arrays defines the recursive array-node tree of the interchange
// format and its enveloping root.
//
// A node carries an opaque encoding identifier, opaque encoding-specific
// metadata, its child nodes and the indices of the physical buffers it owns
// within the envelope's flat buffer list. The codec never interprets the
// encoding identifier or the metadata: both pass through byte-for-byte so an
// external encoding registry can resolve them lazily after decode.
package arrays

import (
	goerrors "errors"

	"github.com/gammazero/deque"

	"github.com/eluv-io/arrayipc-go/format/buffers"
	"github.com/eluv-io/arrayipc-go/format/stats"
	"github.com/eluv-io/errors-go"
)

// DefaultMaxDepth is the default bound on array tree depth. It guards decode
// against adversarial or corrupt input; well-formed encoding trees are far
// shallower.
const DefaultMaxDepth = 128

var (
	// ErrInvalidBufferReference is the cause of errors reported when a node
	// references a buffer index that is out of range or already claimed by
	// another node.
	ErrInvalidBufferReference = goerrors.New("invalid buffer reference")

	// ErrBufferCountMismatch is the cause of errors reported when the
	// envelope's declared buffer count differs from the number of buffers
	// actually referenced by the tree.
	ErrBufferCountMismatch = goerrors.New("buffer count mismatch")

	// ErrTreeTooDeep is the cause of errors reported when the array tree
	// exceeds the configured depth bound.
	ErrTreeTooDeep = goerrors.New("array tree too deep")
)

// Node is a single node of the recursive encoding tree.
type Node struct {
	// Encoding is an opaque identifier into an external encoding registry.
	Encoding uint16 `codec:"encoding" json:"encoding"`

	// Metadata is opaque, encoding-specific data carried verbatim.
	Metadata []byte `codec:"metadata,omitempty" json:"metadata,omitempty"`

	// Children are the nested arrays of this node. Order is semantically
	// significant and defined by the encoding, not by this codec. Arity is
	// never assumed.
	Children []Node `codec:"children,omitempty" json:"children,omitempty"`

	// Buffers are indices into the enclosing envelope's flat buffer list.
	// They name the physical buffers belonging to this node only; children
	// carry their own indices.
	Buffers []uint16 `codec:"buffers,omitempty" json:"buffers,omitempty"`

	// Stats are optional precomputed facts about the node's values.
	Stats *stats.Block `codec:"stats,omitempty" json:"stats,omitempty"`
}

// Envelope is the root of one transmitted array: the node tree, the logical
// row count of the top-level array and the ordered descriptors of the buffer
// payloads that follow the message in the stream.
type Envelope struct {
	Array Node `codec:"array" json:"array"`

	// RowCount is the logical length of the top-level array. Children's row
	// counts are implied by their encodings and not separately transmitted.
	RowCount uint64 `codec:"row_count" json:"row_count"`

	// Buffers lists the payload descriptors in ascending order of stream
	// offset. This order is the only way a reader locates payload
	// boundaries; offsets are not stored.
	Buffers []buffers.Descriptor `codec:"buffers,omitempty" json:"buffers,omitempty"`
}

// Validate checks the envelope's referential integrity: every buffer index in
// the tree must be within the declared buffer list, no index may be claimed
// by two nodes, the total number of referenced buffers must equal the number
// of declared descriptors, and the tree must not exceed maxDepth levels
// (0 means DefaultMaxDepth).
func (e *Envelope) Validate(maxDepth int) error {
	ve := errors.Template("validate array envelope", errors.K.Invalid)
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	count := len(e.Buffers)
	claimed := make([]bool, count)
	referenced := 0

	// iterative depth-first walk: recursion depth must not scale with input
	type item struct {
		node  *Node
		depth int
	}
	var stack deque.Deque
	stack.PushBack(item{node: &e.Array, depth: 1})

	for stack.Len() > 0 {
		it := stack.PopBack().(item)
		if it.depth > maxDepth {
			return ve(ErrTreeTooDeep, "max_depth", maxDepth)
		}
		for _, idx := range it.node.Buffers {
			if int(idx) >= count {
				return ve(ErrInvalidBufferReference,
					"reason", "buffer index out of range",
					"index", idx,
					"buffer_count", count)
			}
			if claimed[idx] {
				return ve(ErrInvalidBufferReference,
					"reason", "buffer index claimed twice",
					"index", idx)
			}
			claimed[idx] = true
			referenced++
		}
		for i := len(it.node.Children) - 1; i >= 0; i-- {
			stack.PushBack(item{node: &it.node.Children[i], depth: it.depth + 1})
		}
	}

	if referenced != count {
		return ve(ErrBufferCountMismatch,
			"declared", count,
			"referenced", referenced)
	}
	return nil
}

// Clone returns a deep copy of the node with owned metadata, children, buffer
// indices and stats. Use it when the decoded tree must outlive the backing
// stream buffer.
func (n *Node) Clone() Node {
	c := Node{Encoding: n.Encoding}
	if n.Metadata != nil {
		c.Metadata = append([]byte(nil), n.Metadata...)
	}
	if n.Buffers != nil {
		c.Buffers = append([]uint16(nil), n.Buffers...)
	}
	if n.Children != nil {
		c.Children = make([]Node, len(n.Children))
		for i := range n.Children {
			c.Children[i] = n.Children[i].Clone()
		}
	}
	if n.Stats != nil {
		s := *n.Stats
		if s.Min != nil {
			m := s.Min.Clone()
			s.Min = &m
		}
		if s.Max != nil {
			m := s.Max.Clone()
			s.Max = &m
		}
		s.IsSorted = cloneBool(s.IsSorted)
		s.IsStrictSorted = cloneBool(s.IsStrictSorted)
		s.IsConstant = cloneBool(s.IsConstant)
		s.RunCount = cloneU64(s.RunCount)
		s.TrueCount = cloneU64(s.TrueCount)
		s.NullCount = cloneU64(s.NullCount)
		s.UncompressedSizeInBytes = cloneU64(s.UncompressedSizeInBytes)
		if s.BitWidthFreq != nil {
			s.BitWidthFreq = append([]uint64(nil), s.BitWidthFreq...)
		}
		if s.TrailingZeroFreq != nil {
			s.TrailingZeroFreq = append([]uint64(nil), s.TrailingZeroFreq...)
		}
		c.Stats = &s
	}
	return c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneU64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
