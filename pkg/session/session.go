// Package session holds the in-memory conversation state for one REPL
// process: the message history sent to the model, the transcript of code
// run since the last prompt, loaded file fragments, and the response-mode
// and auto-eval toggles. Nothing here survives process exit.
package session

import (
	"fmt"
	"os"
	"strings"
)

// Role is the role for a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is the provider-agnostic chat message DTO.
type Message struct {
	Role    Role
	Content string
}

// Strategy controls what happens to code suggested by the model.
type Strategy string

const (
	AutoEvalAlways Strategy = "always"
	AutoEvalNever  Strategy = "never"
	AutoEvalInfer  Strategy = "infer"
)

// ParseStrategy validates a user-supplied strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case AutoEvalAlways:
		return AutoEvalAlways, nil
	case AutoEvalNever:
		return AutoEvalNever, nil
	case AutoEvalInfer:
		return AutoEvalInfer, nil
	}
	return "", fmt.Errorf("invalid strategy %q: want always, never, or infer", s)
}

// File is one loaded context fragment, kept in insertion order.
type File struct {
	Path     string
	Contents string
}

const (
	// maxFileBytes caps a single /file_to_context read.
	maxFileBytes = 1 << 20

	// retainedOutputChars bounds how much of one command's output is kept
	// for the model: roughly 1% of a 128k-token context window at about
	// four characters per token.
	retainedOutputChars = 128000 / 100 * 4
)

// Session owns all mutable REPL state. It is constructed at startup,
// mutated only between input cycles by the dispatch loop, and dropped at
// process exit.
type Session struct {
	conversation []Message
	transcript   []string
	files        []File
	structured   bool
	autoEval     Strategy
}

// New seeds a session with the system prompt for free-text mode.
func New(systemPrompt string) *Session {
	return &Session{
		conversation: []Message{{Role: RoleSystem, Content: systemPrompt}},
		autoEval:     AutoEvalAlways,
	}
}

// Structured reports whether structured (JSON) responses are requested.
func (s *Session) Structured() bool { return s.structured }

// ToggleStructured flips the response mode and restarts the conversation
// under the matching system prompt, as the mode change invalidates prior
// instructions. Returns the new mode.
func (s *Session) ToggleStructured(systemPrompt string) bool {
	s.structured = !s.structured
	s.conversation = []Message{{Role: RoleSystem, Content: systemPrompt}}
	return s.structured
}

// AutoEval returns the current strategy for model-suggested code.
func (s *Session) AutoEval() Strategy { return s.autoEval }

// SetAutoEval sets the strategy for model-suggested code.
func (s *Session) SetAutoEval(st Strategy) { s.autoEval = st }

// Reset restarts the conversation and drops pending transcript and file
// fragments. The response mode and auto-eval strategy are kept.
func (s *Session) Reset(systemPrompt string) {
	s.conversation = []Message{{Role: RoleSystem, Content: systemPrompt}}
	s.transcript = nil
	s.files = nil
}

// RecordExecution appends one transcript entry for an executed line.
// Output is truncated around the middle so a runaway command cannot
// flood the context window.
func (s *Session) RecordExecution(line, output string) {
	entry := ">>> " + line
	if out := truncateOutput(output, retainedOutputChars); out != "" {
		entry += "\n" + out
	}
	s.transcript = append(s.transcript, entry)
}

// AddFile reads path and appends its contents as a context fragment. On
// any error the session is unchanged. Reads beyond maxFileBytes are
// rejected rather than silently clipped.
func (s *Session) AddFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}
	if info.Size() > maxFileBytes {
		return fmt.Errorf("read file %s: %d bytes exceeds the %d byte context limit", path, info.Size(), maxFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}
	s.files = append(s.files, File{Path: path, Contents: string(data)})
	return nil
}

// Files returns a copy of the pending file fragments.
func (s *Session) Files() []File {
	out := make([]File, len(s.files))
	copy(out, s.files)
	return out
}

// BuildUserMessage assembles the outgoing user message: the transcript of
// commands run since the last prompt, any loaded file fragments, and the
// current input.
func (s *Session) BuildUserMessage(input string) string {
	var sb strings.Builder
	sb.WriteString("The following are the last entered commands with their outputs and errors:\n\n")
	sb.WriteString(strings.Join(s.transcript, "\n"))

	if len(s.files) > 0 {
		sb.WriteString("\n\nIncluding file contents:\n")
		for _, f := range s.files {
			sb.WriteString(fmt.Sprintf("\nFile: %s\n%s\n", f.Path, f.Contents))
		}
	}

	sb.WriteString("\n\nUser input: ")
	sb.WriteString(input)
	return sb.String()
}

// PushUser appends a user message to the conversation.
func (s *Session) PushUser(content string) {
	s.conversation = append(s.conversation, Message{Role: RoleUser, Content: content})
}

// PushAssistant appends an assistant message to the conversation.
func (s *Session) PushAssistant(content string) {
	s.conversation = append(s.conversation, Message{Role: RoleAssistant, Content: content})
}

// DropLast removes the most recent message. The loop uses it to roll back
// the user message after a failed API call so history stays consistent.
func (s *Session) DropLast() {
	if len(s.conversation) > 0 {
		s.conversation = s.conversation[:len(s.conversation)-1]
	}
}

// FlushPending clears the transcript and file fragments after they have
// been delivered in a prompt.
func (s *Session) FlushPending() {
	s.transcript = nil
	s.files = nil
}

// Conversation returns a copy of the message history.
func (s *Session) Conversation() []Message {
	out := make([]Message, len(s.conversation))
	copy(out, s.conversation)
	return out
}

// truncateOutput keeps the head and tail of oversized output with a
// marker in between.
func truncateOutput(output string, threshold int) string {
	output = strings.TrimSpace(output)
	if len(output) < threshold {
		return output
	}
	half := threshold / 2
	return output[:half] + "\n<output truncated>\n" + output[len(output)-half:]
}
