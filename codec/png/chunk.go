/*
NAME
  chunk.go

DESCRIPTION
  chunk.go provides the PNG chunk layer: length/type/data/CRC framing for
  reading and writing.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package png

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/stream"
)

// pngSignature is the 8-byte file signature.
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Chunk type tags.
const (
	tagIHDR = "IHDR"
	tagPLTE = "PLTE"
	tagIDAT = "IDAT"
	tagIEND = "IEND"
	tagTRNS = "tRNS"
	tagTEXT = "tEXt"
	tagZTXT = "zTXt"
	tagITXT = "iTXt"
	tagEXIF = "eXIf"
	tagPHYS = "pHYs"
	tagICCP = "iCCP"
	tagGAMA = "gAMA"
	tagBKGD = "bKGD"
	tagACTL = "acTL"
	tagFCTL = "fcTL"
	tagFDAT = "fdAT"
)

// chunk is one decoded PNG chunk.
type chunk struct {
	typ  string
	data []byte
}

// readChunk reads the next chunk, verifying its CRC.
func readChunk(s stream.Stream) (chunk, error) {
	var head [8]byte
	if err := stream.StrictRead(s, head[:]); err != nil {
		return chunk{}, err
	}
	length := binary.BigEndian.Uint32(head[:4])
	if length > 1<<31-1 {
		return chunk{}, errors.Wrapf(codec.ErrBrokenImage, "chunk length %d", length)
	}

	data := make([]byte, length)
	if err := stream.StrictRead(s, data); err != nil {
		return chunk{}, err
	}
	var crcBuf [4]byte
	if err := stream.StrictRead(s, crcBuf[:]); err != nil {
		return chunk{}, err
	}

	crc := crc32.ChecksumIEEE(head[4:])
	crc = crc32.Update(crc, crc32.IEEETable, data)
	if crc != binary.BigEndian.Uint32(crcBuf[:]) {
		return chunk{}, errors.Wrapf(codec.ErrBrokenImage, "%s chunk CRC mismatch", head[4:])
	}
	return chunk{typ: string(head[4:]), data: data}, nil
}

// writeChunk frames and writes one chunk.
func writeChunk(s stream.Stream, typ string, data []byte) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[:4], uint32(len(data)))
	copy(head[4:], typ)
	if err := stream.StrictWrite(s, head[:]); err != nil {
		return err
	}
	if err := stream.StrictWrite(s, data); err != nil {
		return err
	}

	crc := crc32.ChecksumIEEE([]byte(typ))
	crc = crc32.Update(crc, crc32.IEEETable, data)
	var tail [4]byte
	binary.BigEndian.PutUint32(tail[:], crc)
	return stream.StrictWrite(s, tail[:])
}
