// Tests for code-fence extraction and structured payload parsing.
package repl

import "testing"

func TestExtractCode(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"javascript fence", "Sure:\n```javascript\nx = 1\n```\nDone.", "x = 1"},
		{"js fence", "```js\nfunction f() {}\n```", "function f() {}"},
		{"plain fence", "```\ny = 2\n```", "y = 2"},
		{"no fence", "just prose, no code here", ""},
		{"multiline", "```javascript\na = 1\nb = 2\n```", "a = 1\nb = 2"},
		{"unrecognized tag stripped", "```python\ncode = 1\n```", "code = 1"},
		{"ts tag stripped", "```ts\nlet n = 3\nn + 1\n```", "let n = 3\nn + 1"},
		{"single expression kept", "```\nx\n```", "x"},
	}

	for _, tc := range cases {
		if got := extractCode(tc.text); got != tc.want {
			t.Fatalf("%s: extractCode(%q) = %q, want %q", tc.name, tc.text, got, tc.want)
		}
	}
}

func TestUnmarshalStructured(t *testing.T) {
	var reply structuredReply
	raw := `{"reply":"hi","code":"x = 1","should_execute":true}`
	if err := unmarshalStructured(raw, &reply); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if reply.Reply != "hi" || reply.Code != "x = 1" || !reply.ShouldExecute {
		t.Fatalf("unexpected payload: %+v", reply)
	}

	if err := unmarshalStructured("nope", &reply); err == nil {
		t.Fatalf("expected parse error for malformed payload")
	}
}
