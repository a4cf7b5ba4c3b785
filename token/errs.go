package token

import (
	"errors"
)

var (
	ErrBadUTF8      = errors.New("bad utf8")
	ErrUnterminated = errors.New("unterminated")
	ErrBadEscape    = errors.New("bad escape")
	ErrBadUnicode   = errors.New("bad unicode")
	ErrTab          = errors.New("tab in indentation")
	ErrBadCR        = errors.New("carriage return without newline")
	ErrComment      = errors.New("bad comment")
	ErrTrailing     = errors.New("trailing content after string")
	ErrEmptyExpr    = errors.New("empty expression")
)
