package encode

type EncodeOption func(*EncState)

// Depth sets the indentation level of the top level nodes.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.depth = n }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}

// EncodeCRLF ends lines with "\r\n".
func EncodeCRLF(v bool) EncodeOption {
	return func(es *EncState) { es.crlf = v }
}
