package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1

	flagCreated  byte = 1 << 0
	flagDateOnly byte = 1 << 1
	flagExpires  byte = 1 << 2

	hdrLen = 4 + 1 + 1 + 8 + 8 + 4
)

var (
	ErrCorrupt = errors.New("callcache: corrupt entry")
	magic4     = [...]byte{'M', 'E', 'M', 'O'}
)

// Header carries the entry metadata framed around the codec payload.
// Times are Unix nanoseconds; a date-only creation time is the UTC midnight
// of that date.
type Header struct {
	HasCreated bool
	DateOnly   bool
	Created    int64

	HasExpires bool
	Expires    int64
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | flags(1) | created(i64 be) | expires(i64 be) | vlen(u32 be) | payload(vlen)
func EncodeEntry(h Header, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var flags byte
	if h.HasCreated {
		flags |= flagCreated
		if h.DateOnly {
			flags |= flagDateOnly
		}
	}
	if h.HasExpires {
		flags |= flagExpires
	}
	buf.WriteByte(flags)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(h.Created))
	buf.Write(u8[:])
	binary.BigEndian.PutUint64(u8[:], uint64(h.Expires))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeEntry returns the header and a sub-slice of b holding the payload.
// Anything not produced by EncodeEntry (including trailing bytes) is ErrCorrupt.
func DecodeEntry(b []byte) (Header, []byte, error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return Header{}, nil, ErrCorrupt
	}
	flags := b[5]
	if flags&^(flagCreated|flagDateOnly|flagExpires) != 0 {
		return Header{}, nil, ErrCorrupt
	}
	if flags&flagDateOnly != 0 && flags&flagCreated == 0 {
		return Header{}, nil, ErrCorrupt
	}

	off := 6
	h := Header{
		HasCreated: flags&flagCreated != 0,
		DateOnly:   flags&flagDateOnly != 0,
		HasExpires: flags&flagExpires != 0,
	}
	h.Created = int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	h.Expires = int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return Header{}, nil, ErrCorrupt
	}

	return h, b[off : off+vlen], nil
}
