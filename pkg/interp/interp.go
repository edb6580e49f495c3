// Package interp hosts the persistent evaluation environment for the REPL.
// Code runs in a single goja (ECMAScript 5.1) runtime so variables and
// functions defined on one line are visible on the next.
package interp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"
)

// sourceName labels compiled input in error messages.
const sourceName = "<stdin>"

// Result is the outcome of one execution: captured print output, the
// rendered final expression value, or an error. Exactly one of Value and
// Err is meaningful; Output may accompany either.
type Result struct {
	Output string
	Value  string
	Err    error
}

// Interp is a persistent script runtime. It is not safe for concurrent
// use; the dispatch loop is its only caller.
type Interp struct {
	vm      *goja.Runtime
	echo    io.Writer
	capture bytes.Buffer
}

// New builds a runtime with print and console.log wired to echo. Printed
// output is written to echo as it happens and also captured for the
// session transcript.
func New(echo io.Writer) *Interp {
	it := &Interp{vm: goja.New(), echo: echo}

	printFunc := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		line := strings.Join(parts, " ") + "\n"
		if it.echo != nil {
			_, _ = io.WriteString(it.echo, line)
		}
		it.capture.WriteString(line)
		return goja.Undefined()
	}
	_ = it.vm.Set("print", printFunc)

	console := it.vm.NewObject()
	_ = console.Set("log", printFunc)
	_ = it.vm.Set("console", console)

	return it
}

// Execute runs code in the persistent runtime. Context cancellation
// interrupts a running script; the runtime stays usable afterwards.
func (it *Interp) Execute(ctx context.Context, code string) Result {
	prog, err := goja.Compile(sourceName, code, false)
	if err != nil {
		return Result{Err: fmt.Errorf("compile: %w", err)}
	}

	it.capture.Reset()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			it.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := it.vm.RunProgram(prog)
	close(done)
	it.vm.ClearInterrupt()

	output := it.capture.String()
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return Result{Output: output, Err: fmt.Errorf("execution interrupted: %v", interrupted.Value())}
		}
		return Result{Output: output, Err: err}
	}
	return Result{Output: output, Value: formatValue(val)}
}

// formatValue renders the final expression value for display. Undefined
// and null render as empty so statements stay quiet.
func formatValue(val goja.Value) string {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return ""
	}

	exported := val.Export()
	switch v := exported.(type) {
	case string:
		if len(v) > 1000 {
			return fmt.Sprintf("%q... (truncated, total %d chars)", v[:1000], len(v))
		}
		return fmt.Sprintf("%q", v)
	case []any:
		if len(v) == 0 {
			return "[]"
		}
		if len(v) > 20 {
			items := make([]string, 21)
			for i := 0; i < 20; i++ {
				items[i] = fmt.Sprintf("%v", v[i])
			}
			items[20] = fmt.Sprintf("... (%d more items)", len(v)-20)
			return "[" + strings.Join(items, ", ") + "]"
		}
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprintf("%v", item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
