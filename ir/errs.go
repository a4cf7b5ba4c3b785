package ir

import "errors"

var (
	ErrConvert     = errors.New("conversion error")
	ErrUnknownType = errors.New("unknown type")
	ErrNoCodec     = errors.New("no hyperlambda codec installed")
	ErrPath        = errors.New("bad path")
)
