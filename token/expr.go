package token

var exprOps = map[byte]TokenType{
	'/': TSlash,
	'|': TPipe,
	'&': TAmp,
	'^': TCaret,
	'!': TBang,
	'(': TLParen,
	')': TRParen,
	'?': TQuestion,
}

// TokenizeExpr splits an expression into operator and segment tokens.
// Segments run up to the next operator character or quote and are trimmed
// of surrounding whitespace; quoted segments may hold operator characters.
func TokenizeExpr(src string) ([]Token, error) {
	d := []byte(src)
	pd := NewPosDoc(d)
	var res []Token
	i := 0
	for i < len(d) {
		switch d[i] {
		case ' ', '\t', '\r':
			i++
			continue
		case '\n':
			pd.nl(i)
			i++
			continue
		}
		if tt, ok := exprOps[d[i]]; ok {
			res = append(res, Token{Type: tt, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
			continue
		}
		if d[i] == '"' || (d[i] == '@' && i+1 < len(d) && d[i+1] == '"') {
			var (
				end int
				err error
				tt  = TString
			)
			if d[i] == '@' {
				tt = TMString
				end, err = scanMQuoted(d, i, pd)
			} else {
				end, err = scanQuoted(d, i, pd)
			}
			if err != nil {
				return nil, err
			}
			res = append(res, Token{Type: tt, Pos: pd.Pos(i), Bytes: d[i:end]})
			i = end
			continue
		}
		start := i
		for i < len(d) {
			if _, ok := exprOps[d[i]]; ok || d[i] == '"' {
				break
			}
			if d[i] == '\n' {
				pd.nl(i)
			}
			i++
		}
		end := i
		for end > start && isExprSpace(d[end-1]) {
			end--
		}
		res = append(res, Token{Type: TLiteral, Pos: pd.Pos(start), Bytes: d[start:end]})
	}
	if len(res) == 0 {
		return nil, NewTokenizeErr(ErrEmptyExpr, pd.end())
	}
	return res, nil
}

func isExprSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
