// System prompts and the structured-response schema.
package repl

import (
	"encoding/json"
	"fmt"
)

// systemPrompt steers free-text responses. The model sees the transcript
// of commands run in the session plus any loaded files on every request.
const systemPrompt = `You are a JavaScript coding assistant embedded in an interactive REPL.
Along with user prompts you receive the code the user has run, its output
and errors, and sometimes the contents of files from their system. Use all
of it to inform your responses.

Prompts will often ask for JavaScript. Generate code that runs in a plain
ECMAScript environment with a print() function and no host APIs (no DOM,
no require, no fetch). Match the style of any provided files and of the
commands the user has run. Never run code yourself; execution is the
REPL's job.

A REPL is confined to a terminal, so be brief. No pleasantries, and no
unsolicited examples: if the user asks for a function, do not add sample
invocations.`

// structuredSystemPrompt steers structured (JSON) responses.
const structuredSystemPrompt = `You are a JavaScript coding assistant embedded in an interactive REPL.
Respond with the following fields:
- reply: the text to show the user. It may include JavaScript.
- code: a JavaScript snippet the user asked for, or code performing an
  action they requested. It is not shown to the user; if the user should
  see it, include it in reply as well. Use an empty string when there is
  no code.
- should_execute: whether the user wants the code executed. Definitions
  without side effects usually should be. When in doubt, use false.
The code runs in a plain ECMAScript environment with a print() function
and no host APIs.`

// structuredReply is the machine-parseable response payload.
type structuredReply struct {
	Reply         string `json:"reply"`
	Code          string `json:"code"`
	ShouldExecute bool   `json:"should_execute"`
}

// unmarshalStructured decodes a structured payload, flagging malformed
// responses as parse failures so nothing gets executed from them.
func unmarshalStructured(raw string, out *structuredReply) error {
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("parse structured response: %w", err)
	}
	return nil
}

// replySchema is the strict JSON schema enforced for structured mode.
func replySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply":          map[string]any{"type": "string"},
			"code":           map[string]any{"type": "string"},
			"should_execute": map[string]any{"type": "boolean"},
		},
		"required":             []string{"reply", "code", "should_execute"},
		"additionalProperties": false,
	}
}

// systemPromptFor selects the system prompt for a response mode.
func systemPromptFor(structured bool) string {
	if structured {
		return structuredSystemPrompt
	}
	return systemPrompt
}
