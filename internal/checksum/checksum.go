// Package checksum computes the CRC32-Castagnoli sums that guard node
// payloads. A container manifest stores the sum of every compressed
// payload, and the S3 store sends the same sum with each upload so the
// service verifies the body before it becomes visible.
package checksum

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Of returns the checksum of a stored payload.
func Of(payload []byte) uint32 {
	return crc32.Checksum(payload, castagnoli)
}

// Base64 renders the checksum of payload as S3 expects it in the
// x-amz-checksum-crc32c header: base64 of the big-endian bytes.
func Base64(payload []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], Of(payload))
	return base64.StdEncoding.EncodeToString(b[:])
}

// MismatchError reports a payload whose sum differs from the recorded one.
type MismatchError struct {
	Got, Want uint32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("payload sums to %08x, manifest records %08x", e.Got, e.Want)
}

// Verify returns a *MismatchError when payload does not sum to want.
func Verify(payload []byte, want uint32) error {
	if got := Of(payload); got != want {
		return &MismatchError{Got: got, Want: want}
	}
	return nil
}
