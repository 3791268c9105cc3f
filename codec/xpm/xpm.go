/*
NAME
  xpm.go

DESCRIPTION
  xpm.go implements the XPM3 text image format: the C-array framing, the
  "w h ncolors cpp" header string, the color table with hex and named
  colors and None transparency, and the pixel rows.

AUTHORS
  Scott Barnard <scott@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xpm implements the X PixMap text image codec.
package xpm

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/codec"
	"github.com/ausocean/pix/meta"
	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

const pkg = "xpm: "

// Symbol characters used when generating color tables, in XPM convention
// order.
const symbolSet = " .XoO+@#$%&*=-;:>,<1234567890qwertyuipasdfghjklzxcvbnmMNBVCZASDFGHJKLPIUYTREWQ!~^/()_`'][{}|"

// rgba is one color table entry.
type rgba struct {
	r, g, b, a uint8
}

// namedColors is the basic X11 color set the parser recognises.
var namedColors = map[string]rgba{
	"black":   {0, 0, 0, 255},
	"white":   {255, 255, 255, 255},
	"red":     {255, 0, 0, 255},
	"green":   {0, 255, 0, 255},
	"blue":    {0, 0, 255, 255},
	"yellow":  {255, 255, 0, 255},
	"cyan":    {0, 255, 255, 255},
	"magenta": {255, 0, 255, 255},
	"gray":    {190, 190, 190, 255},
	"grey":    {190, 190, 190, 255},
}

// parseColorValue parses a #RGB, #RRGGBB or #RRRRGGGGBBBB hex color or a
// named color. Unknown names warn and fall back to black.
func parseColorValue(s string, log logging.Logger) (rgba, bool) {
	if strings.HasPrefix(s, "#") {
		v, err := strconv.ParseUint(s[1:], 16, 64)
		if err != nil {
			return rgba{}, false
		}
		switch len(s) - 1 {
		case 6:
			return rgba{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
		case 12:
			return rgba{uint8(v >> 40), uint8(v >> 24), uint8(v >> 8), 255}, true
		case 3:
			return rgba{uint8(v>>8&0xF) * 17, uint8(v>>4&0xF) * 17, uint8(v&0xF) * 17, 255}, true
		default:
			return rgba{}, false
		}
	}
	if strings.EqualFold(s, "none") {
		return rgba{}, true
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, true
	}
	log.Warning(pkg+"unknown color name, using black", "name", s)
	return rgba{0, 0, 0, 255}, true
}

// quotedStrings yields the contents of double-quoted strings in an XPM
// stream, skipping the C scaffolding around them.
type quotedStrings struct {
	r *bufio.Reader
}

func (q *quotedStrings) next() (string, error) {
	for {
		b, err := q.r.ReadByte()
		if err != nil {
			return "", err
		}
		if b != '"' {
			continue
		}
		var sb strings.Builder
		for {
			b, err := q.r.ReadByte()
			if err != nil {
				return "", err
			}
			if b == '"' {
				return sb.String(), nil
			}
			sb.WriteByte(b)
		}
	}
}

// Decoder is an XPM load session.
type Decoder struct {
	log  logging.Logger
	sess codec.Session

	width, height int
	colors        map[string]rgba
	cpp           int
	rows          []string
	transparent   bool
	hotX, hotY    int
	hasHotspot    bool
	done          bool
}

// NewDecoder opens an XPM load session, parsing the whole document.
func NewDecoder(s stream.Stream, opts *codec.LoadOptions) (*Decoder, error) {
	if opts == nil {
		opts = &codec.LoadOptions{}
	}
	d := &Decoder{log: opts.Logger()}

	q := &quotedStrings{r: bufio.NewReader(s)}

	header, err := q.next()
	if err != nil {
		return nil, errors.Wrap(codec.ErrInvalidImage, "no XPM header string")
	}
	var ncolors int
	fields := strings.Fields(header)
	switch len(fields) {
	case 6:
		// "w h ncolors cpp x_hot y_hot".
		d.hotX, _ = strconv.Atoi(fields[4])
		d.hotY, _ = strconv.Atoi(fields[5])
		d.hasHotspot = true
		fallthrough
	case 4:
		d.width, _ = strconv.Atoi(fields[0])
		d.height, _ = strconv.Atoi(fields[1])
		ncolors, _ = strconv.Atoi(fields[2])
		d.cpp, _ = strconv.Atoi(fields[3])
	default:
		return nil, errors.Wrapf(codec.ErrBrokenImage, "XPM header %q", header)
	}
	if d.width <= 0 || d.height <= 0 {
		return nil, errors.Wrapf(codec.ErrIncorrectDimensions, "%dx%d", d.width, d.height)
	}
	if ncolors <= 0 || ncolors > 65536 || d.cpp <= 0 || d.cpp > 4 {
		return nil, errors.Wrapf(codec.ErrBrokenImage, "%d colors at %d chars per pixel", ncolors, d.cpp)
	}

	d.colors = make(map[string]rgba, ncolors)
	for i := 0; i < ncolors; i++ {
		line, err := q.next()
		if err != nil {
			return nil, errors.Wrap(codec.ErrBrokenImage, "truncated color table")
		}
		if len(line) < d.cpp {
			return nil, errors.Wrapf(codec.ErrBrokenImage, "color line %q", line)
		}
		sym := line[:d.cpp]
		c, ok := parseColor(line[d.cpp:], d.log)
		if !ok {
			return nil, errors.Wrapf(codec.ErrBrokenImage, "color line %q", line)
		}
		if c.a == 0 {
			d.transparent = true
		}
		d.colors[sym] = c
	}

	for i := 0; i < d.height; i++ {
		line, err := q.next()
		if err != nil {
			return nil, errors.Wrap(codec.ErrBrokenImage, "truncated pixel rows")
		}
		if len(line) < d.width*d.cpp {
			return nil, errors.Wrapf(codec.ErrBrokenImage, "pixel row %d is %d chars", i, len(line))
		}
		d.rows = append(d.rows, line)
	}

	d.log.Debug(pkg+"opened", "width", d.width, "height", d.height,
		"colors", ncolors, "cpp", d.cpp, "transparent", d.transparent)
	return d, nil
}

// parseColor parses the part of a color line after the symbol: typically
// "c <color>", optionally with other keys (m, g, g4, s) that are skipped
// in favor of the color key.
func parseColor(s string, log logging.Logger) (rgba, bool) {
	fields := strings.Fields(s)
	for i := 0; i < len(fields)-1; i++ {
		if fields[i] == "c" {
			return parseColorValue(fields[i+1], log)
		}
	}
	// Fall back to the last value for tables with only mono keys.
	if len(fields) >= 2 {
		return parseColorValue(fields[len(fields)-1], log)
	}
	return rgba{}, false
}

// NextFrame implements codec.Decoder.
func (d *Decoder) NextFrame() (*pixel.Image, error) {
	if err := d.sess.Seek(); err != nil {
		return nil, err
	}
	if d.done {
		d.sess.Finish()
		return nil, codec.ErrNoMoreFrames
	}

	format := pixel.BPP24RGB
	if d.transparent {
		format = pixel.BPP32RGBA
	}
	im, err := pixel.NewShell(d.width, d.height, format)
	if err != nil {
		return nil, err
	}
	special := meta.Map{}
	if d.hasHotspot {
		special["xpm-hotspot-x"] = meta.Int32Of(int32(d.hotX))
		special["xpm-hotspot-y"] = meta.Int32Of(int32(d.hotY))
	}
	im.Source = &pixel.SourceImage{
		Format:      format,
		Compression: pixel.CompressionNone,
		Special:     special,
	}
	return im, nil
}

// ReadFrame implements codec.Decoder.
func (d *Decoder) ReadFrame(im *pixel.Image) error {
	if err := d.sess.Frame(); err != nil {
		return err
	}
	if im.Pixels == nil {
		return errors.New("xpm: frame pixel buffer not allocated")
	}

	n := 3
	if d.transparent {
		n = 4
	}
	for y := 0; y < d.height; y++ {
		line := d.rows[y]
		out := im.Pixels[y*im.BytesPerLine:]
		for x := 0; x < d.width; x++ {
			sym := line[x*d.cpp : (x+1)*d.cpp]
			c, ok := d.colors[sym]
			if !ok {
				return errors.Wrapf(codec.ErrBrokenImage, "undefined symbol %q", sym)
			}
			out[x*n] = c.r
			out[x*n+1] = c.g
			out[x*n+2] = c.b
			if n == 4 {
				out[x*n+3] = c.a
			}
		}
	}
	d.done = true
	return nil
}

// Close implements codec.Decoder.
func (d *Decoder) Close() error {
	d.sess.Finish()
	d.rows = nil
	d.colors = nil
	return nil
}

// Encoder is an XPM save session.
type Encoder struct {
	s    stream.Stream
	log  logging.Logger
	sess codec.Session

	name    string
	written bool
}

// NewEncoder opens an XPM save session. The "xpm-name" knob names the
// generated C symbol.
func NewEncoder(s stream.Stream, opts *codec.SaveOptions) (*Encoder, error) {
	if opts == nil {
		opts = &codec.SaveOptions{}
	}
	e := &Encoder{s: s, log: opts.Logger(), name: "image"}
	if v, ok := opts.Tuning["xpm-name"]; ok {
		if name, isStr := v.StringVal(); isStr && name != "" {
			e.name = name
		} else {
			e.log.Warning(pkg + "xpm-name is not a string")
		}
	}
	return e, nil
}

// NextFrame implements codec.Encoder.
func (e *Encoder) NextFrame(im *pixel.Image) error {
	if err := e.sess.Seek(); err != nil {
		return err
	}
	if e.written {
		return errors.Wrap(codec.ErrNotImplemented, "xpm carries a single image")
	}
	if im.Format != pixel.BPP24RGB && im.Format != pixel.BPP32RGBA {
		return errors.Wrapf(codec.ErrUnsupportedPixelFormat, "%v", im.Format)
	}
	return nil
}

// WriteFrame implements codec.Encoder, building a color table from the
// distinct pixel values and emitting the C array.
func (e *Encoder) WriteFrame(im *pixel.Image) error {
	if err := e.sess.Frame(); err != nil {
		return err
	}
	if im.Pixels == nil {
		return errors.New("xpm: frame has no pixel buffer")
	}

	n := 3
	if im.Format == pixel.BPP32RGBA {
		n = 4
	}

	colorOf := func(x, y int) rgba {
		p := im.Pixels[y*im.BytesPerLine+x*n:]
		c := rgba{p[0], p[1], p[2], 255}
		if n == 4 && p[3] < 128 {
			// XPM has no partial transparency; threshold to None.
			return rgba{}
		}
		return c
	}

	index := map[rgba]int{}
	var order []rgba
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			c := colorOf(x, y)
			if _, ok := index[c]; !ok {
				index[c] = len(order)
				order = append(order, c)
			}
		}
	}
	cpp := 1
	if len(order) > len(symbolSet) {
		cpp = 2
	}
	if len(order) > len(symbolSet)*len(symbolSet) {
		return errors.Wrapf(codec.ErrUnsupportedProperty, "%d distinct colors", len(order))
	}

	symbol := func(i int) string {
		if cpp == 1 {
			return string(symbolSet[i])
		}
		return string(symbolSet[i/len(symbolSet)]) + string(symbolSet[i%len(symbolSet)])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "/* XPM */\nstatic char *%s[] = {\n", e.name)
	fmt.Fprintf(&sb, "\"%d %d %d %d\",\n", im.Width, im.Height, len(order), cpp)
	for i, c := range order {
		if c.a == 0 {
			fmt.Fprintf(&sb, "\"%s c None\",\n", symbol(i))
			continue
		}
		fmt.Fprintf(&sb, "\"%s c #%02X%02X%02X\",\n", symbol(i), c.r, c.g, c.b)
	}
	for y := 0; y < im.Height; y++ {
		sb.WriteByte('"')
		for x := 0; x < im.Width; x++ {
			sb.WriteString(symbol(index[colorOf(x, y)]))
		}
		sb.WriteString("\",\n")
	}
	sb.WriteString("};\n")

	if err := stream.StrictWrite(e.s, []byte(sb.String())); err != nil {
		return err
	}
	e.written = true
	return e.s.Flush()
}

// Close implements codec.Encoder.
func (e *Encoder) Close() error {
	e.sess.Finish()
	return nil
}

func init() {
	codec.Register(Info())
}

// Info returns the XPM codec descriptor.
func Info() *codec.Info {
	return &codec.Info{
		Name:        "xpm",
		Version:     "1.0.0",
		Description: "X PixMap",
		Extensions:  []string{"xpm"},
		MIMETypes:   []string{"image/x-xpixmap"},
		Magic:       []codec.Magic{{Pattern: []byte("/* XPM */")}},
		LoadFeatures: codec.LoadFeatures{
			Formats:  []pixel.Format{pixel.BPP24RGB, pixel.BPP32RGBA},
			Features: codec.FeatureStatic,
		},
		SaveFeatures: codec.SaveFeatures{
			Formats:    []pixel.Format{pixel.BPP24RGB, pixel.BPP32RGBA},
			TuningKeys: []string{"xpm-name"},
			Features:   codec.FeatureStatic,
		},
		OpenDecoder: func(s stream.Stream, opts *codec.LoadOptions) (codec.Decoder, error) {
			return NewDecoder(s, opts)
		},
		OpenEncoder: func(s stream.Stream, opts *codec.SaveOptions) (codec.Encoder, error) {
			return NewEncoder(s, opts)
		},
	}
}
