// Tests for the persistent evaluation environment.
package interp

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecutePersistsVariables(t *testing.T) {
	it := New(nil)
	ctx := context.Background()

	res := it.Execute(ctx, "x = 2+2")
	if res.Err != nil {
		t.Fatalf("assignment: %v", res.Err)
	}

	res = it.Execute(ctx, "x")
	if res.Err != nil {
		t.Fatalf("lookup: %v", res.Err)
	}
	if res.Value != "4" {
		t.Fatalf("expected 4, got %q", res.Value)
	}
}

func TestExecuteCapturesAndEchoesPrint(t *testing.T) {
	var echo bytes.Buffer
	it := New(&echo)

	res := it.Execute(context.Background(), `print("hello", 42)`)
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if res.Output != "hello 42\n" {
		t.Fatalf("unexpected captured output: %q", res.Output)
	}
	if echo.String() != "hello 42\n" {
		t.Fatalf("unexpected echoed output: %q", echo.String())
	}
	if res.Value != "" {
		t.Fatalf("print should yield no value, got %q", res.Value)
	}
}

func TestExecuteConsoleLogAlias(t *testing.T) {
	it := New(nil)
	res := it.Execute(context.Background(), `console.log("ok")`)
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if res.Output != "ok\n" {
		t.Fatalf("unexpected output: %q", res.Output)
	}
}

func TestExecuteRuntimeErrorRecovers(t *testing.T) {
	it := New(nil)
	ctx := context.Background()

	res := it.Execute(ctx, "nope.field")
	if res.Err == nil {
		t.Fatalf("expected runtime error")
	}

	// The runtime must stay usable after a failure.
	res = it.Execute(ctx, "1+1")
	if res.Err != nil {
		t.Fatalf("follow-up execute: %v", res.Err)
	}
	if res.Value != "2" {
		t.Fatalf("expected 2, got %q", res.Value)
	}
}

func TestExecuteInterrupt(t *testing.T) {
	it := New(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res := it.Execute(ctx, "while(true){}")
	if res.Err == nil {
		t.Fatalf("expected interrupt error")
	}
	if !strings.Contains(res.Err.Error(), "interrupted") {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	// Interrupt must not poison the runtime.
	res = it.Execute(context.Background(), "3*3")
	if res.Err != nil {
		t.Fatalf("follow-up execute: %v", res.Err)
	}
	if res.Value != "9" {
		t.Fatalf("expected 9, got %q", res.Value)
	}
}

func TestExecuteStringValueQuoted(t *testing.T) {
	it := New(nil)
	res := it.Execute(context.Background(), `"hi"`)
	if res.Err != nil {
		t.Fatalf("execute: %v", res.Err)
	}
	if res.Value != `"hi"` {
		t.Fatalf("expected quoted string, got %q", res.Value)
	}
}
