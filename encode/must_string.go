package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/hyperlambda/ir"
)

func MustString(nodes ...*ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := EncodeNodes(nodes, buf); err != nil {
		panic(err)
	}
	return strings.TrimRight(buf.String(), "\r\n")
}
