// Tests for the code/prose classifier.
package interp

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		line string
		want Kind
	}{
		{"x = 2+2", Code},
		{"x", Code},
		{`print("hi")`, Code},
		{"function add(a, b) { return a + b; }", Code},
		{"what is a closure?", Prompt},
		{"explain the last error, please", Prompt},
		{"sort this list for me", Prompt},
		{"what is 50% of 80?", Prompt},
		{"how do I call greet() twice?", Prompt},
		{"explain big-O notation: is it worst-case?", Prompt},
		{"x = = 2", Invalid},
		{"for (;;) {", Invalid},
	}

	for _, tc := range cases {
		got := Classify(tc.line)
		if got.Kind != tc.want {
			t.Fatalf("Classify(%q) = %v, want %v", tc.line, got.Kind, tc.want)
		}
		if tc.want != Code && got.CompileErr == nil {
			t.Fatalf("Classify(%q) should carry the compile error", tc.line)
		}
	}
}

func TestDefinitionsOnly(t *testing.T) {
	cases := []struct {
		name string
		code string
		want bool
	}{
		{"function", "function add(a, b) {\n  return a + b;\n}", true},
		{"class", "class Point {\n  constructor(x) { this.x = x; }\n}", true},
		{"assignment", "var threshold = 10", true},
		{"mixed declarations", "const a = 1;\nfunction f() { return a; }", true},
		{"call at top level", "doWork()", false},
		{"assignment from call", "x = fetchData()", false},
		{"loop", "for (var i = 0; i < 3; i++) { print(i); }", false},
		{"empty", "", false},
		{"comment only", "// nothing here", false},
	}

	for _, tc := range cases {
		if got := DefinitionsOnly(tc.code); got != tc.want {
			t.Fatalf("%s: DefinitionsOnly(%q) = %v, want %v", tc.name, tc.code, got, tc.want)
		}
	}
}
