package interp

import (
	"regexp"
	"strings"

	"github.com/dop251/goja"
)

// Kind is the dispatch verdict for one input line.
type Kind int

const (
	// Code compiles as a complete program and should be executed.
	Code Kind = iota
	// Prompt does not compile but reads as prose; send it to the model.
	Prompt
	// Invalid neither compiles nor reads as prose; report the compile
	// error, the user most likely mistyped code.
	Invalid
)

// Classification is the result of the two-stage parse attempt. CompileErr
// is set for Prompt and Invalid.
type Classification struct {
	Kind       Kind
	CompileErr error
}

// proseRe matches lines made of words and sentence punctuation, including
// %, parentheses, colons, and hyphens as they occur in ordinary questions
// ("what is 50% of 80?"). Operators like = and braces stay excluded so
// mistyped code is still reported as a compile error.
var proseRe = regexp.MustCompile(`^[a-zA-Z0-9\s,.'"!?%:;()-]+$`)

// Classify decides whether a line is code, a natural-language prompt, or
// malformed code. A line is code iff goja accepts it as a complete
// program; there is no multi-line continuation.
func Classify(line string) Classification {
	if _, err := goja.Compile(sourceName, line, false); err != nil {
		if proseRe.MatchString(strings.TrimSpace(line)) {
			return Classification{Kind: Prompt, CompileErr: err}
		}
		return Classification{Kind: Invalid, CompileErr: err}
	}
	return Classification{Kind: Code}
}

var (
	funcDeclRe  = regexp.MustCompile(`^(?:async\s+)?function\b`)
	classDeclRe = regexp.MustCompile(`^class\s+[A-Za-z_$][\w$]*`)
	assignRe    = regexp.MustCompile(`^(?:(?:let|const|var)\s+)?[A-Za-z_$][\w$]*\s*=([^=]|$)`)
)

// DefinitionsOnly reports whether every top-level statement is a function
// or class declaration or a call-free assignment. It backs the "infer"
// auto-eval strategy: definitions are safe to run, anything that could
// have side effects is not. The scan is line-based and conservative;
// ambiguous code counts as not-definitions.
func DefinitionsOnly(code string) bool {
	depth := 0
	sawDefinition := false

	for _, raw := range strings.Split(code, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if depth == 0 {
			switch {
			case funcDeclRe.MatchString(line), classDeclRe.MatchString(line):
				sawDefinition = true
			case assignRe.MatchString(line) && !strings.Contains(line, "("):
				sawDefinition = true
			case strings.HasPrefix(line, "}"):
				// closing a declaration body
			default:
				return false
			}
		}

		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth < 0 {
			depth = 0
		}
	}
	return sawDefinition
}
