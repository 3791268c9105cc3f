/*
NAME
  file.go

DESCRIPTION
  file.go provides a Stream backed by a file on disk.

AUTHORS
  Trek Hopton <trek@ausocean.org>

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
	"os"

	"github.com/pkg/errors"
)

// File is a Stream backed by an *os.File. The file is owned by whoever
// constructed the File; codecs never close it.
type File struct {
	f   *os.File
	eof bool
	ro  bool
}

// Open opens the named file for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file for reading")
	}
	return &File{f: f, ro: true}, nil
}

// Create creates or truncates the named file for reading and writing.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, errors.Wrap(err, "opening file for writing")
	}
	return &File{f: f}, nil
}

// Read implements Stream.
func (s *File) Read(p []byte) (int, error) {
	n, err := s.f.Read(p)
	if err == io.EOF {
		s.eof = true
	}
	return n, err
}

// Write implements Stream.
func (s *File) Write(p []byte) (int, error) {
	if s.ro {
		return 0, ErrNotWritable
	}
	return s.f.Write(p)
}

// Seek implements Stream. Seeking clears the EOF condition.
func (s *File) Seek(offset int64, whence int) (int64, error) {
	pos, err := s.f.Seek(offset, whence)
	if err == nil {
		s.eof = false
	}
	return pos, err
}

// Tell implements Stream.
func (s *File) Tell() (int64, error) {
	return s.f.Seek(0, io.SeekCurrent)
}

// EOF implements Stream.
func (s *File) EOF() bool { return s.eof }

// Flush implements Stream.
func (s *File) Flush() error {
	if s.ro {
		return nil
	}
	return s.f.Sync()
}

// Close closes the backing file. Close is for the stream's constructor, not
// for codecs.
func (s *File) Close() error { return s.f.Close() }
