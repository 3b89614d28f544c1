// Package bitstream converts H.264 and HEVC access units between the
// length-prefixed layout used by MP4 and Matroska and the start-code layout
// decoders accept without out-of-band parameter sets.
package bitstream

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when a length prefix runs past the end of the sample.
var ErrTruncated = errors.New("bitstream: truncated NAL unit")

var startCode = []byte{0, 0, 0, 1}

// LengthPrefixedToAnnexB rewrites NAL units prefixed by lengthSize-byte
// big-endian lengths (1, 2 or 4) into start-code prefixed units.
func LengthPrefixedToAnnexB(data []byte, lengthSize int) ([]byte, error) {
	if lengthSize != 1 && lengthSize != 2 && lengthSize != 4 {
		return nil, fmt.Errorf("bitstream: unsupported length size %d", lengthSize)
	}

	out := make([]byte, 0, len(data)+16)
	for off := 0; off < len(data); {
		if off+lengthSize > len(data) {
			return out, fmt.Errorf("%w: %d bytes left for a %d-byte length", ErrTruncated, len(data)-off, lengthSize)
		}
		n := 0
		for i := 0; i < lengthSize; i++ {
			n = n<<8 | int(data[off+i])
		}
		off += lengthSize

		if off+n > len(data) {
			return out, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, len(data)-off)
		}
		out = append(out, startCode...)
		out = append(out, data[off:off+n]...)
		off += n
	}
	return out, nil
}

// ParameterSetsToAnnexB concatenates parameter set groups, in the order
// given, as start-code prefixed units.
func ParameterSetsToAnnexB(sets ...[][]byte) []byte {
	var out []byte
	for _, group := range sets {
		for _, nalu := range group {
			out = append(out, startCode...)
			out = append(out, nalu...)
		}
	}
	return out
}

// PrependIfKey returns header+sample when key is set, sample otherwise.
func PrependIfKey(header, sample []byte, key bool) []byte {
	if !key || len(header) == 0 {
		return sample
	}
	out := make([]byte, len(header)+len(sample))
	copy(out, header)
	copy(out[len(header):], sample)
	return out
}

// H.264 NAL unit types of interest.
const (
	NaluTypeIDR = 5
	NaluTypeSPS = 7
	NaluTypePPS = 8
)

// ContainsIDR reports whether a length-prefixed access unit carries an IDR slice.
func ContainsIDR(data []byte, lengthSize int) bool {
	for off := 0; off+lengthSize <= len(data); {
		n := 0
		for i := 0; i < lengthSize; i++ {
			n = n<<8 | int(data[off+i])
		}
		off += lengthSize
		if n == 0 || off+n > len(data) {
			return false
		}
		if data[off]&0x1f == NaluTypeIDR {
			return true
		}
		off += n
	}
	return false
}
