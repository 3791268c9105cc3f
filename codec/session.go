/*
NAME
  session.go

DESCRIPTION
  session.go provides the per-session state machine shared by codec
  implementations to enforce the seek/frame call ordering.

AUTHORS
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package codec

import "github.com/pkg/errors"

// Session tracks the position of a codec session in its lifecycle:
//
//	READY ──seek──► FRAME ──frame──► READY ── ... ──finish──► DONE
//
// The zero Session is READY. Codecs embed a Session and call Seek, Frame
// and Finish at the top of the corresponding operations.
type Session struct {
	state sessionState
}

type sessionState int

const (
	stateReady sessionState = iota
	stateFrame
	stateDone
)

// Seek validates a seek-next-frame call.
func (s *Session) Seek() error {
	switch s.state {
	case stateReady:
		s.state = stateFrame
		return nil
	case stateFrame:
		return errors.Wrap(ErrState, "seek while a frame is pending")
	default:
		return errors.Wrap(ErrState, "seek on a finished session")
	}
}

// Frame validates a frame transfer call.
func (s *Session) Frame() error {
	switch s.state {
	case stateFrame:
		s.state = stateReady
		return nil
	case stateReady:
		return errors.Wrap(ErrState, "frame without a preceding seek")
	default:
		return errors.Wrap(ErrState, "frame on a finished session")
	}
}

// Finish marks the session done. Finishing is valid from any state and is
// idempotent.
func (s *Session) Finish() {
	s.state = stateDone
}

// Done reports whether the session has finished.
func (s *Session) Done() bool { return s.state == stateDone }
