/*
NAME
  stream.go

DESCRIPTION
  stream.go provides Stream, the byte-stream contract over which all codecs
  operate, along with the strict read/write helpers shared by them.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stream provides an indirection layer over byte sources and sinks
// so that files, in-memory buffers and user callbacks present a uniform
// interface to the codecs.
package stream

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Errors returned by Stream implementations and helpers.
var (
	ErrShortRead   = errors.New("stream: short read")
	ErrShortWrite  = errors.New("stream: short write")
	ErrNotSeekable = errors.New("stream: not seekable")
	ErrNotReadable = errors.New("stream: not readable")
	ErrNotWritable = errors.New("stream: not writable")
	ErrClosed      = errors.New("stream: closed")
)

// Stream is the byte-stream contract exposed to every codec. Codecs never
// touch the OS directly; this interface is their only I/O path, except for
// the video glue, whose capture backend opens its source by path. Short reads
// are permitted at end of stream; use StrictRead when exactly n bytes are
// required.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker

	// Tell returns the current stream position.
	Tell() (int64, error)

	// EOF reports whether the stream has been read to its end.
	EOF() bool

	// Flush forces buffered writes to the backing sink. It is a no-op on
	// read-only streams.
	Flush() error
}

// StrictRead reads exactly len(p) bytes from s, failing with ErrShortRead
// if the stream ends first.
func StrictRead(s Stream, p []byte) error {
	n, err := io.ReadFull(s, p)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return errors.Wrapf(ErrShortRead, "got %d of %d bytes", n, len(p))
	}
	return err
}

// StrictWrite writes all of p to s, failing with ErrShortWrite if fewer
// bytes are accepted.
func StrictWrite(s Stream, p []byte) error {
	n, err := s.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return errors.Wrapf(ErrShortWrite, "wrote %d of %d bytes", n, len(p))
	}
	return nil
}

// ReadU8 reads a single byte.
func ReadU8(s Stream) (uint8, error) {
	var b [1]byte
	if err := StrictRead(s, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16LE reads a little-endian 16-bit value.
func ReadU16LE(s Stream) (uint16, error) {
	var b [2]byte
	if err := StrictRead(s, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadU32LE reads a little-endian 32-bit value.
func ReadU32LE(s Stream) (uint32, error) {
	var b [4]byte
	if err := StrictRead(s, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// WriteU8 writes a single byte.
func WriteU8(s Stream, v uint8) error {
	return StrictWrite(s, []byte{v})
}

// WriteU16LE writes a little-endian 16-bit value.
func WriteU16LE(s Stream, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return StrictWrite(s, b[:])
}

// WriteU32LE writes a little-endian 32-bit value.
func WriteU32LE(s Stream, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return StrictWrite(s, b[:])
}
