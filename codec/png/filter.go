/*
NAME
  filter.go

DESCRIPTION
  filter.go implements the PNG scan line filters: None, Sub, Up, Average
  and Paeth, applied byte-wise against the previous row and the pixel to
  the left.

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

package png

import "github.com/pkg/errors"

// Filter type bytes.
const (
	filterNone = iota
	filterSub
	filterUp
	filterAverage
	filterPaeth
	nFilters
)

// paeth is the PNG Paeth predictor.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// unfilterRow reverses the filter of cur in place. prev is the
// reconstructed previous row, or nil on the first row. bpp is the filter
// distance in whole bytes, at least 1.
func unfilterRow(ft uint8, cur, prev []byte, bpp int) error {
	left := func(i int) uint8 {
		if i < bpp {
			return 0
		}
		return cur[i-bpp]
	}
	up := func(i int) uint8 {
		if prev == nil {
			return 0
		}
		return prev[i]
	}
	upLeft := func(i int) uint8 {
		if prev == nil || i < bpp {
			return 0
		}
		return prev[i-bpp]
	}

	switch ft {
	case filterNone:
	case filterSub:
		for i := range cur {
			cur[i] += left(i)
		}
	case filterUp:
		for i := range cur {
			cur[i] += up(i)
		}
	case filterAverage:
		for i := range cur {
			cur[i] += uint8((int(left(i)) + int(up(i))) / 2)
		}
	case filterPaeth:
		for i := range cur {
			cur[i] += paeth(left(i), up(i), upLeft(i))
		}
	default:
		return errors.Errorf("png: unknown filter type %d", ft)
	}
	return nil
}

// filterRow writes the filtered form of cur into dst using filter ft.
func filterRow(ft uint8, dst, cur, prev []byte, bpp int) {
	left := func(i int) uint8 {
		if i < bpp {
			return 0
		}
		return cur[i-bpp]
	}
	up := func(i int) uint8 {
		if prev == nil {
			return 0
		}
		return prev[i]
	}
	upLeft := func(i int) uint8 {
		if prev == nil || i < bpp {
			return 0
		}
		return prev[i-bpp]
	}

	switch ft {
	case filterNone:
		copy(dst, cur)
	case filterSub:
		for i := range cur {
			dst[i] = cur[i] - left(i)
		}
	case filterUp:
		for i := range cur {
			dst[i] = cur[i] - up(i)
		}
	case filterAverage:
		for i := range cur {
			dst[i] = cur[i] - uint8((int(left(i))+int(up(i)))/2)
		}
	case filterPaeth:
		for i := range cur {
			dst[i] = cur[i] - paeth(left(i), up(i), upLeft(i))
		}
	}
}

// chooseFilter picks the filter minimising the sum of absolute filtered
// values, the usual libpng heuristic.
func chooseFilter(scratch, cur, prev []byte, bpp int) (uint8, []byte) {
	best := uint8(filterNone)
	bestSum := -1
	bestBuf := scratch[:len(cur)]
	trial := scratch[len(cur) : 2*len(cur)]

	for ft := uint8(filterNone); ft < nFilters; ft++ {
		filterRow(ft, trial, cur, prev, bpp)
		sum := 0
		for _, v := range trial {
			sum += int(int8(v)) * sign(int(int8(v)))
		}
		if bestSum < 0 || sum < bestSum {
			bestSum = sum
			best = ft
			copy(bestBuf, trial)
		}
	}
	return best, bestBuf
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
