/*
NAME
  interlace.go

DESCRIPTION
  interlace.go provides the Adam7 pass geometry and the bit-granular pixel
  copies used to scatter and gather interlaced pass images.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package png

// Adam7 pass origin and step tables.
var (
	passXStart = [7]int{0, 4, 0, 2, 0, 1, 0}
	passYStart = [7]int{0, 0, 4, 0, 2, 0, 1}
	passXStep  = [7]int{8, 8, 4, 4, 2, 2, 1}
	passYStep  = [7]int{8, 8, 8, 4, 4, 2, 2}
)

const nPasses = 7

// passSize returns the dimensions of pass p for a width×height image.
// Either may be zero for small images.
func passSize(p, width, height int) (int, int) {
	w := (width - passXStart[p] + passXStep[p] - 1) / passXStep[p]
	h := (height - passYStart[p] + passYStep[p] - 1) / passYStep[p]
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return w, h
}

// copyPixel copies pixel sx of src to pixel dx of dst, where rows pack
// pixels of bits bits each, most significant bits first.
func copyPixel(dst []byte, dx int, src []byte, sx int, bits int) {
	if bits >= 8 {
		n := bits / 8
		copy(dst[dx*n:(dx+1)*n], src[sx*n:(sx+1)*n])
		return
	}
	perByte := 8 / bits
	mask := uint8(1<<bits - 1)

	sShift := 8 - bits - (sx%perByte)*bits
	v := (src[sx/perByte] >> sShift) & mask

	dShift := 8 - bits - (dx%perByte)*bits
	dst[dx/perByte] = dst[dx/perByte]&^(mask<<dShift) | v<<dShift
}

// scatterPass distributes the rows of a decoded pass image into the full
// image rows. rowAt returns output row y; passRow r is the r-th row of the
// pass.
func scatterPass(p int, passRow []byte, r, width int, bits int, rowAt func(y int) []byte) {
	y := passYStart[p] + r*passYStep[p]
	out := rowAt(y)
	pw, _ := passSize(p, width, 1<<30)
	for i := 0; i < pw; i++ {
		x := passXStart[p] + i*passXStep[p]
		copyPixel(out, x, passRow, i, bits)
	}
}

// gatherPass extracts the r-th row of pass p from the full image into
// passRow.
func gatherPass(p int, passRow []byte, r, width int, bits int, rowAt func(y int) []byte) {
	y := passYStart[p] + r*passYStep[p]
	in := rowAt(y)
	pw, _ := passSize(p, width, 1<<30)
	for i := 0; i < pw; i++ {
		x := passXStart[p] + i*passXStep[p]
		copyPixel(passRow, i, in, x, bits)
	}
}
