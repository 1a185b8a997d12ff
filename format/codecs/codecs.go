// Package codecs provides the self-describing serialization layer of the
// array interchange format.
//
// Message envelopes are encoded as CBOR, prefixed with a multicodec header
// identifying the concrete codec that produced the bytes. A MuxCodec selects
// the decoder from that header, so the producing side may be upgraded to a
// newer codec without breaking old data: readers keep decoding whatever
// header they find.
package codecs

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	cd "github.com/ugorji/go/codec"

	"github.com/eluv-io/arrayipc-go/format/stats"
	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/log-go"
)

const (
	CborPath   = "/cbor"
	CborV2Path = "/cborV2"

	// scalarTag is the CBOR tag for stats.Scalar values. Custom tags 40-60
	// are currently unassigned and encode in a single byte.
	scalarTag = 40
)

var (
	CborCodec   = makeCborCodec()
	CborV2Codec = makeCborV2Codec()

	CborMultiCodec   = NewMultiCodec(CborCodec, CborPath)
	CborV2MultiCodec = NewMultiCodec(CborV2Codec, CborV2Path)
)

// Default returns the codec used for encoding new data: it produces the
// canonical "/cbor" format and decodes both known formats.
func Default() *MuxCodec {
	return NewMuxCodec(CborMultiCodec, CborV2MultiCodec)
}

// DefaultV2 returns a codec producing the "/cborV2" format while still
// decoding both known formats.
func DefaultV2() *MuxCodec {
	return NewMuxCodec(CborV2MultiCodec, CborMultiCodec)
}

func makeCborCodec() Codec {
	handle := &cd.CborHandle{}
	handle.Canonical = true

	err := handle.SetInterfaceExt(reflect.TypeOf((*stats.Scalar)(nil)), scalarTag, &ScalarConverter{})
	if err != nil {
		panic(errors.E("create cbor codec", err))
	}
	return NewCodec(
		func(w io.Writer) Encoder {
			return cd.NewEncoder(w, handle)
		},
		func(r io.Reader) Decoder {
			return cd.NewDecoder(r, handle)
		},
	)
}

func makeCborV2Codec() Codec {
	tagSet := cbor.NewTagSet()
	err := tagSet.Add(
		cbor.TagOptions{
			DecTag: cbor.DecTagOptional, // allows decoding untagged scalars
			EncTag: cbor.EncTagRequired,
		},
		reflect.TypeOf((*stats.Scalar)(nil)),
		scalarTag,
	)
	if err != nil {
		log.Fatal("invalid cbor tag", err, "tag", scalarTag)
	}

	encOptions := cbor.CoreDetEncOptions()
	enc, err := encOptions.EncModeWithTags(tagSet)
	if err != nil {
		log.Fatal("failed to create cbor encoder mode", err)
	}

	dec, err := cbor.DecOptions{
		MaxArrayElements: 1024 * 1024,
		MaxMapPairs:      1024 * 1024,
		// Array node trees nest one CBOR map and one CBOR array per tree
		// level. 256 is the largest value the library accepts and covers
		// trees of roughly 125 levels, far deeper than well-formed encoding
		// trees, while still bounding adversarial input.
		MaxNestedLevels: 256,
	}.DecModeWithTags(tagSet)
	if err != nil {
		log.Fatal("failed to create cbor decoder mode", err)
	}

	return NewCodec(
		func(w io.Writer) Encoder {
			return enc.NewEncoder(w)
		},
		func(r io.Reader) Decoder {
			return dec.NewDecoder(r)
		},
	)
}
