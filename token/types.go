package token

import (
	"fmt"
)

type TokenType int

const (
	// TIndent starts every non blank line; Bytes holds the leading spaces.
	TIndent TokenType = iota
	TColon
	TComment
	TString
	TMString
	TLiteral

	// expression operators
	TSlash
	TPipe
	TAmp
	TCaret
	TBang
	TLParen
	TRParen
	TQuestion
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TIndent:   "TIndent",
		TColon:    "TColon",
		TComment:  "TComment",
		TString:   "TString",
		TMString:  "TMString",
		TLiteral:  "TLiteral",
		TSlash:    "TSlash",
		TPipe:     "TPipe",
		TAmp:      "TAmp",
		TCaret:    "TCaret",
		TBang:     "TBang",
		TLParen:   "TLParen",
		TRParen:   "TRParen",
		TQuestion: "TQuestion",
	}[t]
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

// Text returns the content of t with any quoting removed.
func (t *Token) Text() (string, error) {
	switch t.Type {
	case TString:
		return Unquote(string(t.Bytes))
	case TMString:
		return MUnquote(string(t.Bytes))
	default:
		return string(t.Bytes), nil
	}
}

// IsQuoted reports whether t is a string literal.
func (t *Token) IsQuoted() bool {
	return t.Type == TString || t.Type == TMString
}

// IsOp reports whether t is an expression operator.
func (t *Token) IsOp() bool {
	return t.Type >= TSlash
}

type TokenizeErr struct {
	Err error
	Pos Pos
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func ExpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("expected %s", what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("unexpected %s", what), p)
}
