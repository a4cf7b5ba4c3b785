package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

type debug struct {
	Eval    bool
	Event   bool
	Native  bool
	Expr    bool
	Parse   bool
	Thread  bool
	Load    bool
	LoadEnv bool
}

var (
	d  *debug
	mu sync.Mutex
	w  io.Writer = os.Stderr
)

func init() {
	d = &debug{}
	d.Eval = boolEnv("HL_DEBUG_EVAL")
	d.Event = boolEnv("HL_DEBUG_EVENT")
	d.Native = boolEnv("HL_DEBUG_NATIVE")
	d.Expr = boolEnv("HL_DEBUG_EXPR")
	d.Parse = boolEnv("HL_DEBUG_PARSE")
	d.Thread = boolEnv("HL_DEBUG_THREAD")
	d.Load = boolEnv("HL_DEBUG_LOAD")
	d.LoadEnv = boolEnv("HL_DEBUG_LOAD_ENV")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Eval() bool {
	return d.Eval
}
func Event() bool {
	return d.Event
}
func Native() bool {
	return d.Native
}
func Expr() bool {
	return d.Expr
}
func Parse() bool {
	return d.Parse
}
func Thread() bool {
	return d.Thread
}
func Load() bool {
	return d.Load
}
func LoadEnv() bool {
	return d.LoadEnv
}

// Logf writes a trace line. Nodes given as arguments print as hyperlambda.
func Logf(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(w, format, args...)
	if len(format) == 0 || format[len(format)-1] != '\n' {
		fmt.Fprintln(w)
	}
}

// JSON renders v for a trace line.
func JSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func LogAny(v any) {
	data, err := json.Marshal(v)
	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		fmt.Fprintf(w, "%v\n", v)
		return
	}
	w.Write(append(data, '\n'))
}
