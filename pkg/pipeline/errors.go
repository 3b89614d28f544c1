package pipeline

import "errors"

// Every failure that ends a run wraps exactly one of these.
var (
	ErrOpen          = errors.New("open input")
	ErrProbe         = errors.New("probe stream info")
	ErrNoVideoStream = errors.New("no decodable video stream")
	ErrDecoderInit   = errors.New("initialize decoder")
	ErrSubmission    = errors.New("submit packet")
	ErrDecode        = errors.New("decode frame")
	ErrIO            = errors.New("write frame")
)
