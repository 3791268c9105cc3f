/*
NAME
  stream_test.go

DESCRIPTION
  stream_test.go contains tests for the stream package.

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
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadSeek(t *testing.T) {
	s := NewMemory([]byte{1, 2, 3, 4, 5})

	p := make([]byte, 3)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{1, 2, 3}, p)

	pos, err := s.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos)

	_, err = s.Seek(-2, io.SeekEnd)
	require.NoError(t, err)
	n, err = s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{4, 5}, p[:n])
	assert.True(t, s.EOF())

	_, err = s.Seek(0, io.SeekStart)
	require.NoError(t, err)
	assert.False(t, s.EOF())
}

func TestMemoryWriteGrows(t *testing.T) {
	s := NewBuffer()
	_, err := s.Write([]byte("head"))
	require.NoError(t, err)
	_, err = s.Seek(2, io.SeekStart)
	require.NoError(t, err)
	_, err = s.Write([]byte("llo world"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), s.Bytes())
}

func TestStrictReadShort(t *testing.T) {
	s := NewMemory([]byte{1, 2})
	err := StrictRead(s, make([]byte, 4))
	assert.Equal(t, ErrShortRead, errors.Cause(err))
}

func TestCallbackNotSeekable(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{9, 8, 7})
	s := &Callback{ReadFunc: buf.Read}

	p := make([]byte, 2)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.Seek(0, io.SeekStart)
	assert.Equal(t, ErrNotSeekable, errors.Cause(err))

	pos, err := s.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)
}

func TestLittleEndianHelpers(t *testing.T) {
	s := NewBuffer()
	require.NoError(t, WriteU16LE(s, 0xAF12))
	require.NoError(t, WriteU32LE(s, 0xF1FA0001))
	require.NoError(t, WriteU8(s, 0x7F))

	_, err := s.Seek(0, io.SeekStart)
	require.NoError(t, err)

	v16, err := ReadU16LE(s)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xAF12), v16)

	v32, err := ReadU32LE(s)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xF1FA0001), v32)

	v8, err := ReadU8(s)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), v8)
}
