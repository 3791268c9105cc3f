/*
NAME
  memory.go

DESCRIPTION
  memory.go provides a seekable Stream backed by an in-memory byte slice.

AUTHORS
  Trek Hopton <trek@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import (
	"io"

	"github.com/pkg/errors"
)

// Memory is a Stream over an in-memory buffer. A Memory constructed with
// NewMemory reads and overwrites the given data in place; one constructed
// with NewBuffer starts empty and grows as it is written.
type Memory struct {
	buf []byte
	pos int64
	eof bool
}

// NewMemory returns a Memory reading from and writing over data.
func NewMemory(data []byte) *Memory {
	return &Memory{buf: data}
}

// NewBuffer returns an empty growable Memory for writing.
func NewBuffer() *Memory {
	return &Memory{}
}

// Bytes returns the current contents of the buffer.
func (s *Memory) Bytes() []byte { return s.buf }

// Len returns the buffer length.
func (s *Memory) Len() int { return len(s.buf) }

// Read implements Stream.
func (s *Memory) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.buf)) {
		s.eof = true
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	if s.pos >= int64(len(s.buf)) {
		s.eof = true
	}
	return n, nil
}

// Write implements Stream, growing the buffer as required.
func (s *Memory) Write(p []byte) (int, error) {
	if need := s.pos + int64(len(p)); need > int64(len(s.buf)) {
		if need > int64(cap(s.buf)) {
			grown := make([]byte, need, need*2)
			copy(grown, s.buf)
			s.buf = grown
		} else {
			s.buf = s.buf[:need]
		}
	}
	n := copy(s.buf[s.pos:], p)
	s.pos += int64(n)
	return n, nil
}

// Seek implements Stream.
func (s *Memory) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = int64(len(s.buf)) + offset
	default:
		return 0, errors.Errorf("stream: invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, errors.New("stream: negative position")
	}
	s.pos = pos
	s.eof = false
	return pos, nil
}

// Tell implements Stream.
func (s *Memory) Tell() (int64, error) { return s.pos, nil }

// EOF implements Stream.
func (s *Memory) EOF() bool { return s.eof }

// Flush implements Stream. It is a no-op for memory streams.
func (s *Memory) Flush() error { return nil }
