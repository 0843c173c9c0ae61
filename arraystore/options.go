package arraystore

import (
	"github.com/hupe1980/seqgo/codec"
	"github.com/hupe1980/seqgo/internal/resource"
)

type options struct {
	codec       codec.Codec
	compression Compression
	blockSize   int
	rc          *resource.Controller
}

// Option configures a Writer or Container.
type Option func(*options)

// WithCodec sets the manifest codec used by a Writer. Containers always
// decode with the codec recorded in the manifest.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the payload compression used by a Writer.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlockSize sets the uncompressed size of payload blocks.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithResourceController charges decoded payloads and blob reads against rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(opts []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionZSTD,
		blockSize:   defaultBlockSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
