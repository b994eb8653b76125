// Package lzmaio implements the §4.2 compression-stage framing shared by
// every MG1/MG2 stream: a u32 uncompressed size, a u32 packed size, a
// 5-byte LZMA properties header, and the packed payload.
//
// Compression itself is delegated to github.com/ulikunitz/xz/lzma. That
// package's classic NewWriter/NewReader pair frames a full 13-byte .lzma
// header (1 properties byte + 4-byte dictionary size + 8-byte uncompressed
// size) ahead of the stream; this package keeps only the first five bytes
// of that header on the wire and reconstructs the rest from its own
// uncompressed-size field when decoding, the same manual-header technique
// games use to re-drive the library with a header the original encoder
// never wrote.
package lzmaio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/errs"
	"github.com/wangfeilong321/openctm/format"
)

// propsSize is the number of leading bytes of the classic .lzma header kept
// on the wire: one properties byte plus a 4-byte little-endian dictionary
// capacity.
const propsSize = 5

// classicHeaderSize is the full header size NewWriter/NewReader expect:
// propsSize plus an 8-byte uncompressed-size field.
const classicHeaderSize = 13

// Compress packs src at the given compression level (format.MinCompressionLevel
// to format.MaxCompressionLevel) and writes it to w as a stage frame.
func Compress(w *bitio.Writer, src []byte, level int) error {
	props := lzma.Properties{LC: 3, LP: 0, PB: 2}
	cfg := lzma.WriterConfig{
		Properties: &props,
		DictCap:    dictCapForLevel(level),
		Size:       int64(len(src)),
	}

	var packed bytes.Buffer
	lw, err := cfg.NewWriter(&packed)
	if err != nil {
		return fmt.Errorf("%w: writer init: %v", errs.ErrLZMA, err)
	}
	if _, err := lw.Write(src); err != nil {
		return fmt.Errorf("%w: compress: %v", errs.ErrLZMA, err)
	}
	if err := lw.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", errs.ErrLZMA, err)
	}

	full := packed.Bytes()
	if len(full) < classicHeaderSize {
		return fmt.Errorf("%w: lzma stream shorter than its own header", errs.ErrLZMA)
	}
	header := full[:propsSize]
	payload := full[classicHeaderSize:]

	if err := w.WriteU32(uint32(len(src))); err != nil { //nolint: gosec
		return err
	}
	if err := w.WriteU32(uint32(len(payload))); err != nil { //nolint: gosec
		return err
	}
	if err := w.WriteBytes(header); err != nil {
		return err
	}

	return w.WriteBytes(payload)
}

// Decompress reads a stage frame from r and returns the decompressed
// payload.
func Decompress(r *bitio.Reader) ([]byte, error) {
	uncompressedSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	packedSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	header, err := r.ReadBytes(propsSize)
	if err != nil {
		return nil, err
	}
	payload, err := r.ReadBytes(int(packedSize))
	if err != nil {
		return nil, err
	}

	full := make([]byte, classicHeaderSize+len(payload))
	copy(full[:propsSize], header)
	binary.LittleEndian.PutUint64(full[propsSize:classicHeaderSize], uint64(uncompressedSize))
	copy(full[classicHeaderSize:], payload)

	lr, err := lzma.NewReader(bytes.NewReader(full))
	if err != nil {
		return nil, fmt.Errorf("%w: reader init: %v", errs.ErrLZMA, err)
	}

	dst := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(lr, dst); err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: decompress: %v", errs.ErrLZMA, err)
	}

	return dst, nil
}

// dictCapForLevel maps a 0-9 compression level to an LZMA dictionary
// capacity, doubling from 64KiB at level 0 to 32MiB at level 9.
func dictCapForLevel(level int) int {
	if level < format.MinCompressionLevel {
		level = format.MinCompressionLevel
	}
	if level > format.MaxCompressionLevel {
		level = format.MaxCompressionLevel
	}

	return 1 << uint(16+level)
}
