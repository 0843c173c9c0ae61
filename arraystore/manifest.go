package arraystore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/seqgo/blobstore"
	"github.com/hupe1980/seqgo/codec"
)

const (
	// ManifestFileName is the blob holding a container's manifest.
	ManifestFileName = "MANIFEST"
	// CurrentVersion is the version of the manifest format.
	CurrentVersion = 1
)

var (
	// ErrIncompatibleVersion is returned when the manifest version is not supported.
	ErrIncompatibleVersion = errors.New("arraystore: incompatible manifest version")
	// ErrChecksumMismatch is returned when a node payload fails verification.
	ErrChecksumMismatch = errors.New("arraystore: checksum mismatch")
)

// Manifest describes every node of a container.
type Manifest struct {
	Version     int         `json:"version"`
	ID          string      `json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	Compression Compression `json:"compression"`
	Nodes       []NodeEntry `json:"nodes"`
}

// NodeEntry describes one stored node.
type NodeEntry struct {
	Path  string  `json:"path"`
	DType string  `json:"dtype"`
	Dims  []int32 `json:"dims"`
	// Blob names the payload blob, relative to the container.
	Blob string `json:"blob"`
	// Size is the stored (compressed) payload size in bytes.
	Size int64 `json:"size"`
	// RawSize is the encoded payload size before compression.
	RawSize  int64  `json:"raw_size"`
	Checksum uint32 `json:"checksum"`
}

// Count returns the number of elements of the node.
func (e NodeEntry) Count() int64 {
	n := int64(1)
	for _, d := range e.Dims {
		n *= int64(d)
	}
	return n
}

// The manifest blob is "<codec name>\n<encoded manifest>".
func encodeManifest(c codec.Codec, m *Manifest) ([]byte, error) {
	body, err := c.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(c.Name())+1+len(body))
	out = append(out, c.Name()...)
	out = append(out, '\n')
	return append(out, body...), nil
}

func decodeManifest(data []byte) (*Manifest, error) {
	name, body, ok := bytes.Cut(data, []byte{'\n'})
	if !ok {
		return nil, fmt.Errorf("%w: missing codec header", ErrIncompatibleVersion)
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", ErrIncompatibleVersion, name)
	}
	m := &Manifest{}
	if err := c.Unmarshal(body, m); err != nil {
		return nil, err
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrIncompatibleVersion, m.Version)
	}
	return m, nil
}

// LoadManifest reads the manifest of the container stored in store.
func LoadManifest(ctx context.Context, store blobstore.BlobStore) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, store, ManifestFileName)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ManifestFileName)
		}
		return nil, err
	}
	return decodeManifest(data)
}
