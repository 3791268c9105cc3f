/*
NAME
  registry.go

DESCRIPTION
  registry.go provides the codec registry and the dispatch rules that
  select a codec by magic number, file extension or MIME type.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codec

import (
	"io"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/pix/pixel"
	"github.com/ausocean/pix/stream"
)

// Registry holds codec descriptors and answers dispatch queries. It is
// populated during initialisation and read-only afterwards, so lookups
// need no locking.
type Registry struct {
	infos    []*Info
	maxMagic int
	log      logging.Logger
}

// NewRegistry returns an empty registry logging through l. A nil logger
// discards diagnostics.
func NewRegistry(l logging.Logger) *Registry {
	return &Registry{log: orNoop(l)}
}

// Register appends a codec descriptor. Ties on later queries are broken by
// registration order: first registered wins.
func (r *Registry) Register(ci *Info) error {
	if ci.Name == "" {
		return errors.New("codec: registering a descriptor with no name")
	}
	for _, m := range ci.Magic {
		if n := m.Offset + len(m.Pattern); n > r.maxMagic {
			r.maxMagic = n
		}
	}
	r.infos = append(r.infos, ci)
	r.log.Debug("registered codec", "name", ci.Name, "version", ci.Version)
	return nil
}

// Codecs returns the registered descriptors in registration order.
func (r *Registry) Codecs() []*Info { return r.infos }

// ByName returns the codec registered under name.
func (r *Registry) ByName(name string) (*Info, error) {
	for _, ci := range r.infos {
		if strings.EqualFold(ci.Name, name) {
			return ci, nil
		}
	}
	return nil, errors.Wrap(ErrCodecNotFound, name)
}

// ByExtension returns the first codec claiming the extension of path.
// Matching is a case-insensitive suffix match.
func (r *Registry) ByExtension(path string) (*Info, error) {
	lower := strings.ToLower(path)
	for _, ci := range r.infos {
		for _, ext := range ci.Extensions {
			if strings.HasSuffix(lower, "."+strings.ToLower(ext)) {
				return ci, nil
			}
		}
	}
	return nil, errors.Wrapf(ErrCodecNotFound, "no codec for path %q", path)
}

// ByMIME returns the first codec claiming the MIME type, compared
// case-insensitively.
func (r *Registry) ByMIME(mime string) (*Info, error) {
	for _, ci := range r.infos {
		for _, m := range ci.MIMETypes {
			if strings.EqualFold(m, mime) {
				return ci, nil
			}
		}
	}
	return nil, errors.Wrapf(ErrCodecNotFound, "no codec for MIME type %q", mime)
}

// ByMagic probes the head of s against the registered magic patterns and
// rewinds. The stream must be seekable; a non-seekable stream fails with
// stream.ErrNotSeekable.
func (r *Registry) ByMagic(s stream.Stream) (*Info, error) {
	start, err := s.Tell()
	if err != nil {
		return nil, err
	}

	head := make([]byte, r.maxMagic)
	n, err := io.ReadFull(s, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Wrap(err, "reading magic bytes")
	}
	head = head[:n]

	if _, err := s.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}

	for _, ci := range r.infos {
		for _, m := range ci.Magic {
			if m.Matches(head) {
				r.log.Debug("magic probe matched", "name", ci.Name)
				return ci, nil
			}
		}
	}
	return nil, errors.Wrap(ErrCodecNotFound, "no magic pattern matched")
}

// Probe selects a codec by magic and returns the shell of the first frame
// without decoding pixels, along with the codec that produced it.
func (r *Registry) Probe(s stream.Stream, opts *LoadOptions) (*pixel.Image, *Info, error) {
	ci, err := r.ByMagic(s)
	if err != nil {
		return nil, nil, err
	}
	if ci.OpenDecoder == nil {
		return nil, nil, errors.Wrapf(ErrNotImplemented, "codec %s cannot load", ci.Name)
	}
	dec, err := ci.OpenDecoder(s, opts)
	if err != nil {
		return nil, nil, err
	}
	defer dec.Close()

	shell, err := dec.NextFrame()
	if err != nil {
		return nil, nil, err
	}
	return shell, ci, nil
}

// The default registry, populated by codec package init functions.
var defaultRegistry = NewRegistry(nil)

// Register adds a codec to the default registry. Codec packages call this
// from init; importing a codec package for side effects registers it.
func Register(ci *Info) {
	if err := defaultRegistry.Register(ci); err != nil {
		panic(err)
	}
}

// Default returns the default registry.
func Default() *Registry { return defaultRegistry }

// SetLogger directs default-registry diagnostics to l. Call before use,
// not concurrently with dispatch.
func SetLogger(l logging.Logger) { defaultRegistry.log = orNoop(l) }
