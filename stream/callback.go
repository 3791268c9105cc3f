/*
NAME
  callback.go

DESCRIPTION
  callback.go provides a Stream whose operations are supplied by the caller
  as functions, for sources that are neither files nor memory buffers.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import "io"

// Callback is a Stream backed by user-supplied functions. Nil functions
// make the corresponding operation fail; a nil SeekFunc in particular
// makes the stream non-seekable, which magic-number probing detects.
type Callback struct {
	ReadFunc  func(p []byte) (int, error)
	WriteFunc func(p []byte) (int, error)
	SeekFunc  func(offset int64, whence int) (int64, error)
	FlushFunc func() error

	pos int64
	eof bool
}

// Read implements Stream.
func (s *Callback) Read(p []byte) (int, error) {
	if s.ReadFunc == nil {
		return 0, ErrNotReadable
	}
	n, err := s.ReadFunc(p)
	s.pos += int64(n)
	if err == io.EOF {
		s.eof = true
	}
	return n, err
}

// Write implements Stream.
func (s *Callback) Write(p []byte) (int, error) {
	if s.WriteFunc == nil {
		return 0, ErrNotWritable
	}
	n, err := s.WriteFunc(p)
	s.pos += int64(n)
	return n, err
}

// Seek implements Stream, failing with ErrNotSeekable when no SeekFunc
// was supplied.
func (s *Callback) Seek(offset int64, whence int) (int64, error) {
	if s.SeekFunc == nil {
		return 0, ErrNotSeekable
	}
	pos, err := s.SeekFunc(offset, whence)
	if err == nil {
		s.pos = pos
		s.eof = false
	}
	return pos, err
}

// Tell implements Stream. For non-seekable callbacks the position is
// tracked by counting bytes.
func (s *Callback) Tell() (int64, error) {
	if s.SeekFunc != nil {
		return s.SeekFunc(0, io.SeekCurrent)
	}
	return s.pos, nil
}

// EOF implements Stream.
func (s *Callback) EOF() bool { return s.eof }

// Flush implements Stream.
func (s *Callback) Flush() error {
	if s.FlushFunc == nil {
		return nil
	}
	return s.FlushFunc()
}
