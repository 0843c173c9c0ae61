package arraystore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/seqgo/internal/conv"
)

// Compression selects the block codec used for node payloads.
type Compression uint8

const (
	// CompressionNone stores payload blocks as is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD block compression.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

var errCorruptBlock = errors.New("arraystore: corrupt payload block")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block layout: [uncompressed uint32][compressed uint32][data...].
// A compressed size of 0 marks a block stored uncompressed.
const blockHeaderSize = 8

const defaultBlockSize = 256 * 1024

// appendBlock compresses one block and appends it with its header to dst.
func appendBlock(dst, data []byte, c Compression) ([]byte, error) {
	var compressed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	rawSize, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, err
	}
	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], rawSize)
	// Incompressible blocks are kept raw.
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		dst = append(dst, hdr[:]...)
		return append(dst, data...), nil
	}
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(compressed)))
	dst = append(dst, hdr[:]...)
	return append(dst, compressed...), nil
}

// compressPayload splits data into blocks of blockSize and compresses each.
func compressPayload(data []byte, c Compression, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	out := make([]byte, 0, len(data)/2+blockHeaderSize)
	for off := 0; off < len(data); off += blockSize {
		end := min(off+blockSize, len(data))
		var err error
		out, err = appendBlock(out, data[off:end], c)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// decompressPayload reverses compressPayload.
func decompressPayload(data []byte, c Compression, sizeHint int64) ([]byte, error) {
	out := make([]byte, 0, sizeHint)
	for off := 0; off < len(data); {
		if off+blockHeaderSize > len(data) {
			return nil, errCorruptBlock
		}
		rawSize := binary.LittleEndian.Uint32(data[off:])
		packedSize := binary.LittleEndian.Uint32(data[off+4:])
		off += blockHeaderSize

		if packedSize == 0 {
			if off+int(rawSize) > len(data) {
				return nil, errCorruptBlock
			}
			out = append(out, data[off:off+int(rawSize)]...)
			off += int(rawSize)
			continue
		}

		if off+int(packedSize) > len(data) {
			return nil, errCorruptBlock
		}
		packed := data[off : off+int(packedSize)]
		off += int(packedSize)

		switch c {
		case CompressionZSTD:
			dec := getZstdDecoder()
			decoded, err := dec.DecodeAll(packed, nil)
			zstdDecoderPool.Put(dec)
			if err != nil {
				return nil, err
			}
			if uint32(len(decoded)) != rawSize {
				return nil, fmt.Errorf("%w: decompressed size mismatch", errCorruptBlock)
			}
			out = append(out, decoded...)
		case CompressionLZ4:
			block := make([]byte, rawSize)
			n, err := lz4.UncompressBlock(packed, block)
			if err != nil {
				return nil, err
			}
			if uint32(n) != rawSize {
				return nil, fmt.Errorf("%w: decompressed size mismatch", errCorruptBlock)
			}
			out = append(out, block...)
		default:
			return nil, fmt.Errorf("%w: compressed block in %s payload", errCorruptBlock, c)
		}
	}
	return out, nil
}
