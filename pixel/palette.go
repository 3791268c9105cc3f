/*
NAME
  palette.go

DESCRIPTION
  palette.go provides the indexed color table associated with images whose
  pixel format is indexed.

AUTHORS
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pixel

import "github.com/pkg/errors"

// Palette associates pixel indices with colors. Format is the layout of
// each entry, one of the non-indexed byte-aligned formats such as BPP24RGB
// or BPP32RGBA.
type Palette struct {
	Format Format
	Count  int
	Data   []byte
}

// NewPalette allocates a zeroed palette of count entries.
func NewPalette(f Format, count int) (*Palette, error) {
	bpe := f.BitsPerPixel() / 8
	if bpe == 0 || f.Indexed() {
		return nil, errors.Errorf("pixel: invalid palette format %v", f)
	}
	if count <= 0 {
		return nil, errors.Errorf("pixel: invalid palette color count %d", count)
	}
	return &Palette{Format: f, Count: count, Data: make([]byte, count*bpe)}, nil
}

// BytesPerEntry returns the size of one palette entry.
func (p *Palette) BytesPerEntry() int { return p.Format.BitsPerPixel() / 8 }

// Validate checks the palette invariants.
func (p *Palette) Validate() error {
	bpe := p.BytesPerEntry()
	if bpe == 0 || p.Format.Indexed() {
		return errors.Errorf("pixel: invalid palette format %v", p.Format)
	}
	if p.Count <= 0 {
		return errors.Errorf("pixel: invalid palette color count %d", p.Count)
	}
	if len(p.Data) != p.Count*bpe {
		return errors.Errorf("pixel: palette data is %d bytes, want %d", len(p.Data), p.Count*bpe)
	}
	return nil
}

// Entry returns the bytes of entry i.
func (p *Palette) Entry(i int) []byte {
	bpe := p.BytesPerEntry()
	return p.Data[i*bpe : (i+1)*bpe]
}

// Copy returns a deep copy of the palette.
func (p *Palette) Copy() *Palette {
	if p == nil {
		return nil
	}
	d := make([]byte, len(p.Data))
	copy(d, p.Data)
	return &Palette{Format: p.Format, Count: p.Count, Data: d}
}
