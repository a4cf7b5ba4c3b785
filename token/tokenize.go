package token

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

type tkOpts struct {
	comments bool
}

type TokenOpt func(*tkOpts)

// TokenComments keeps comments as TComment tokens instead of dropping them.
func TokenComments(v bool) TokenOpt {
	return func(o *tkOpts) { o.comments = v }
}

type tkState struct {
	d      []byte
	i      int
	pd     *PosDoc
	opts   tkOpts
	dst    []Token
	colons int
}

// Tokenize splits a hyperlambda document into tokens.
//
// Every non blank line yields a TIndent token followed by the line content.
// A line reads "name", "name:value" or "name:type:value". Unquoted segments
// are trimmed; everything after the second colon is a single segment.
func Tokenize(dst []Token, src []byte, opts ...TokenOpt) ([]Token, error) {
	if !utf8.Valid(src) {
		return nil, ErrBadUTF8
	}
	ts := &tkState{d: src, pd: NewPosDoc(src), dst: dst}
	for _, o := range opts {
		o(&ts.opts)
	}
	for ts.i < len(ts.d) {
		if err := ts.line(); err != nil {
			return nil, err
		}
	}
	return ts.dst, nil
}

func (ts *tkState) emit(tt TokenType, start, end int) {
	ts.dst = append(ts.dst, Token{Type: tt, Pos: ts.pd.Pos(start), Bytes: ts.d[start:end]})
}

// eol consumes a line ending at d[i], returning false if there is none.
func (ts *tkState) eol() (bool, error) {
	d := ts.d
	switch d[ts.i] {
	case '\n':
		ts.pd.nl(ts.i)
		ts.i++
		return true, nil
	case '\r':
		if ts.i+1 < len(d) && d[ts.i+1] == '\n' {
			ts.pd.nl(ts.i + 1)
			ts.i += 2
			return true, nil
		}
		return false, NewTokenizeErr(ErrBadCR, ts.pd.Pos(ts.i))
	}
	return false, nil
}

func (ts *tkState) skipSpace() {
	for ts.i < len(ts.d) && (ts.d[ts.i] == ' ' || ts.d[ts.i] == '\t') {
		ts.i++
	}
}

func (ts *tkState) line() error {
	d := ts.d
	start := ts.i
	for ts.i < len(d) && d[ts.i] == ' ' {
		ts.i++
	}
	if ts.i == len(d) {
		return nil
	}
	if done, err := ts.eol(); done || err != nil {
		return err
	}
	if d[ts.i] == '\t' {
		return NewTokenizeErr(ErrTab, ts.pd.Pos(ts.i))
	}
	if bytes.HasPrefix(d[ts.i:], []byte("//")) || bytes.HasPrefix(d[ts.i:], []byte("/*")) {
		return ts.comment()
	}
	ts.emit(TIndent, start, ts.i)
	ts.colons = 0
	for ts.i < len(d) {
		ts.skipSpace()
		if ts.i == len(d) {
			return nil
		}
		if done, err := ts.eol(); done || err != nil {
			return err
		}
		var err error
		switch c := d[ts.i]; {
		case c == ':':
			ts.emit(TColon, ts.i, ts.i+1)
			ts.i++
			ts.colons++
			if ts.colons == 2 {
				err = ts.tail()
			}
		case c == '"' || (c == '@' && ts.i+1 < len(d) && d[ts.i+1] == '"'):
			err = ts.quoted()
		default:
			ts.segment()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (ts *tkState) comment() error {
	d := ts.d
	start := ts.i
	if d[ts.i+1] == '/' {
		for ts.i < len(d) && d[ts.i] != '\n' && d[ts.i] != '\r' {
			ts.i++
		}
		if ts.opts.comments {
			ts.emit(TComment, start, ts.i)
		}
		if ts.i < len(d) {
			_, err := ts.eol()
			return err
		}
		return nil
	}
	end := bytes.Index(d[ts.i+2:], []byte("*/"))
	if end == -1 {
		return NewTokenizeErr(fmt.Errorf("%w: unclosed comment", ErrComment), ts.pd.Pos(start))
	}
	end += ts.i + 4
	for j := ts.i; j < end; j++ {
		if d[j] == '\n' {
			ts.pd.nl(j)
		}
	}
	if ts.opts.comments {
		ts.emit(TComment, start, end)
	}
	ts.i = end
	ts.skipSpace()
	if ts.i == len(d) {
		return nil
	}
	done, err := ts.eol()
	if err != nil {
		return err
	}
	if !done {
		return NewTokenizeErr(fmt.Errorf("%w: content after comment", ErrComment), ts.pd.Pos(ts.i))
	}
	return nil
}

func (ts *tkState) quoted() error {
	d := ts.d
	start := ts.i
	var (
		end int
		err error
		tt  = TString
	)
	if d[ts.i] == '@' {
		tt = TMString
		end, err = scanMQuoted(d, ts.i, ts.pd)
	} else {
		end, err = scanQuoted(d, ts.i, ts.pd)
	}
	if err != nil {
		return err
	}
	ts.emit(tt, start, end)
	ts.i = end
	ts.skipSpace()
	if ts.i == len(d) || d[ts.i] == ':' || d[ts.i] == '\n' || d[ts.i] == '\r' {
		return nil
	}
	return NewTokenizeErr(ErrTrailing, ts.pd.Pos(ts.i))
}

func (ts *tkState) segment() {
	d := ts.d
	start := ts.i
	for ts.i < len(d) && d[ts.i] != ':' && d[ts.i] != '\n' && d[ts.i] != '\r' {
		ts.i++
	}
	ts.emitTrimmed(start, ts.i)
}

// tail reads everything after the second colon of a line as one segment.
func (ts *tkState) tail() error {
	d := ts.d
	ts.skipSpace()
	if ts.i == len(d) {
		return nil
	}
	if c := d[ts.i]; c == '"' || (c == '@' && ts.i+1 < len(d) && d[ts.i+1] == '"') {
		if err := ts.quoted(); err != nil {
			return err
		}
		if ts.i < len(d) && d[ts.i] == ':' {
			return NewTokenizeErr(ErrTrailing, ts.pd.Pos(ts.i))
		}
		return nil
	}
	start := ts.i
	for ts.i < len(d) && d[ts.i] != '\n' && d[ts.i] != '\r' {
		ts.i++
	}
	ts.emitTrimmed(start, ts.i)
	return nil
}

func (ts *tkState) emitTrimmed(start, end int) {
	for end > start && (ts.d[end-1] == ' ' || ts.d[end-1] == '\t') {
		end--
	}
	ts.emit(TLiteral, start, end)
}
