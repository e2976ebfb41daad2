// Package fileid decodes the chat platform's opaque media handles and derives
// the compact catalog keys stored as record identifiers.
//
// A platform handle is a base64url string wrapping a zero-run-length-encoded
// binary buffer whose layout varies between client sessions (handle version,
// optional file reference). The catalog key depends only on the stable tuple
// {type tag, shard id, media id, access token}, so the same underlying media
// always derives the same key regardless of the surrounding handle bytes.
package fileid

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedHandle is returned when a handle cannot be decoded into the
// identity tuple. Callers must not catalog a record for such a handle.
var ErrMalformedHandle = errors.New("fileid: malformed handle")

// Handle flag bits carried in the type tag word.
const (
	webLocationFlag   = 1 << 24
	fileReferenceFlag = 1 << 25
)

// Known media type tags.
const (
	TypeThumbnail = 0
	TypeChatPhoto = 1
	TypePhoto     = 2
	TypeVoice     = 3
	TypeVideo     = 4
	TypeDocument  = 5
	TypeEncrypted = 6
	TypeTemp      = 7
	TypeSticker   = 8
	TypeAudio     = 9
	TypeAnimation = 10
	TypeVideoNote = 13
)

// Marker bytes appended to the packed identity record before compression.
// They version the key format itself, independent of the handle format.
const (
	keyMarkerA = 0x16
	keyMarkerB = 0x04
)

// Handle is the stable identity tuple decoded from an opaque platform handle.
type Handle struct {
	TypeTag     int32
	ShardID     int32
	MediaID     int64
	AccessToken int64
}

// MediaType returns a coarse media type name for the handle's type tag.
func (h Handle) MediaType() string {
	switch h.TypeTag {
	case TypePhoto, TypeChatPhoto, TypeThumbnail:
		return "photo"
	case TypeVoice:
		return "voice"
	case TypeVideo:
		return "video"
	case TypeSticker:
		return "sticker"
	case TypeAudio:
		return "audio"
	case TypeAnimation:
		return "animation"
	case TypeVideoNote:
		return "video_note"
	default:
		return "document"
	}
}

// Key derives the compact catalog key for the tuple: the four fields packed
// little-endian (4+4+8+8 bytes), two marker bytes appended, zero runs
// compressed, base64url encoded without padding.
func (h Handle) Key() string {
	buf := make([]byte, 0, 26)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.TypeTag))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.ShardID))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.MediaID))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.AccessToken))
	buf = append(buf, keyMarkerA, keyMarkerB)

	return base64.RawURLEncoding.EncodeToString(rleEncode(buf))
}

// DeriveKey decodes an opaque platform handle and derives its catalog key.
func DeriveKey(handle string) (string, error) {
	h, err := Decode(handle)
	if err != nil {
		return "", err
	}

	return h.Key(), nil
}

// Decode extracts the identity tuple from an opaque platform handle.
func Decode(handle string) (Handle, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(handle, "="))
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %v", ErrMalformedHandle, err)
	}

	data, err := rleDecode(raw)
	if err != nil {
		return Handle{}, err
	}

	// The buffer carries a one-byte format version trailer; version 4 and
	// later add a sub-version byte before it.
	if len(data) < 2 {
		return Handle{}, ErrMalformedHandle
	}

	version := data[len(data)-1]

	switch {
	case version >= 2 && version < 4:
		data = data[:len(data)-1]
	case version >= 4 && version <= maxHandleVersion:
		data = data[:len(data)-2]
	default:
		return Handle{}, fmt.Errorf("%w: unsupported handle version %d", ErrMalformedHandle, version)
	}

	r := reader{buf: data}

	typeWithFlags, ok := r.uint32()
	if !ok {
		return Handle{}, ErrMalformedHandle
	}

	if typeWithFlags&webLocationFlag != 0 {
		// Web locations carry a URL instead of a media id and cannot be
		// cataloged.
		return Handle{}, fmt.Errorf("%w: web location handle", ErrMalformedHandle)
	}

	shard, ok := r.uint32()
	if !ok {
		return Handle{}, ErrMalformedHandle
	}

	if typeWithFlags&fileReferenceFlag != 0 {
		if !r.skipBytes() {
			return Handle{}, ErrMalformedHandle
		}
	}

	mediaID, ok := r.uint64()
	if !ok {
		return Handle{}, ErrMalformedHandle
	}

	accessToken, ok := r.uint64()
	if !ok {
		return Handle{}, ErrMalformedHandle
	}

	// Trailing bytes (thumbnail source, volume info) vary per media type and
	// do not participate in identity.
	return Handle{
		TypeTag:     int32(typeWithFlags &^ (webLocationFlag | fileReferenceFlag)),
		ShardID:     int32(shard),
		MediaID:     int64(mediaID),
		AccessToken: int64(accessToken),
	}, nil
}

const maxHandleVersion = 7

// EncodeOption adjusts how Encode lays out a synthetic handle.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	version       byte
	subVersion    byte
	fileReference []byte
}

// WithVersion sets the handle format version (2..7).
func WithVersion(v byte) EncodeOption {
	return func(o *encodeOptions) { o.version = v }
}

// WithFileReference attaches a session-scoped file reference blob, which
// participates in the wire format but not in identity.
func WithFileReference(ref []byte) EncodeOption {
	return func(o *encodeOptions) { o.fileReference = ref }
}

// Encode builds an opaque handle for the tuple. It is the inverse of Decode
// and exists for tooling and tests; production handles come from the
// platform.
func Encode(h Handle, opts ...EncodeOption) string {
	o := encodeOptions{version: 4, subVersion: 32}
	for _, opt := range opts {
		opt(&o)
	}

	typeWithFlags := uint32(h.TypeTag)
	if o.fileReference != nil {
		typeWithFlags |= fileReferenceFlag
	}

	buf := make([]byte, 0, 64)
	buf = binary.LittleEndian.AppendUint32(buf, typeWithFlags)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(h.ShardID))

	if o.fileReference != nil {
		buf = appendBytesValue(buf, o.fileReference)
	}

	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.MediaID))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(h.AccessToken))

	if o.version >= 4 {
		buf = append(buf, o.subVersion)
	}

	buf = append(buf, o.version)

	return base64.RawURLEncoding.EncodeToString(rleEncode(buf))
}

// rleEncode compresses every run of zero bytes into a two-byte escape
// (0x00, run length); non-zero bytes pass through unchanged.
func rleEncode(b []byte) []byte {
	out := make([]byte, 0, len(b))
	run := 0

	flush := func() {
		for run > 0 {
			n := run
			if n > 255 {
				n = 255
			}

			out = append(out, 0x00, byte(n))
			run -= n
		}
	}

	for _, c := range b {
		if c == 0 {
			run++
			continue
		}

		flush()

		out = append(out, c)
	}

	flush()

	return out
}

// rleDecode expands the zero-run escapes produced by rleEncode.
func rleDecode(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b))

	for i := 0; i < len(b); i++ {
		if b[i] != 0 {
			out = append(out, b[i])
			continue
		}

		i++
		if i >= len(b) {
			return nil, ErrMalformedHandle
		}

		for j := byte(0); j < b[i]; j++ {
			out = append(out, 0)
		}
	}

	return out, nil
}

// reader is a bounds-checked little-endian cursor.
type reader struct {
	buf []byte
	off int
}

func (r *reader) uint32() (uint32, bool) {
	if r.off+4 > len(r.buf) {
		return 0, false
	}

	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4

	return v, true
}

func (r *reader) uint64() (uint64, bool) {
	if r.off+8 > len(r.buf) {
		return 0, false
	}

	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8

	return v, true
}

// skipBytes consumes a length-prefixed, 4-byte-aligned byte string.
func (r *reader) skipBytes() bool {
	if r.off >= len(r.buf) {
		return false
	}

	n := int(r.buf[r.off])
	consumed := 1

	if n == 254 {
		if r.off+4 > len(r.buf) {
			return false
		}

		n = int(r.buf[r.off+1]) | int(r.buf[r.off+2])<<8 | int(r.buf[r.off+3])<<16
		consumed = 4
	}

	total := consumed + n
	if pad := total % 4; pad != 0 {
		total += 4 - pad
	}

	if r.off+total > len(r.buf) {
		return false
	}

	r.off += total

	return true
}

// appendBytesValue writes a length-prefixed, 4-byte-aligned byte string.
func appendBytesValue(buf, v []byte) []byte {
	n := len(v)
	if n >= 254 {
		buf = append(buf, 254, byte(n), byte(n>>8), byte(n>>16))
	} else {
		buf = append(buf, byte(n))
	}

	buf = append(buf, v...)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}

	return buf
}
