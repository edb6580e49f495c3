// Slash command handling.
package repl

import (
	"fmt"
	"strings"

	"github.com/minhyannv/replgpt-go/pkg/session"
)

const helpText = `replgpt lets you switch freely between running JavaScript and issuing
model prompts. Code you run and its output join the assistant's context,
and code the assistant suggests can be executed in your session.

Commands:
  /help                     - Show this help message.
  /file_to_context <path>   - Load a local file into the assistant's
                              context. Useful for documentation or code
                              you want to work with inside the REPL.
  /toggle_json              - Toggle structured (JSON) responses. The
                              conversation restarts under the new mode.
  /auto_eval <strategy>     - Control what happens to code the assistant
                              suggests: 'always' runs it (default),
                              'never' skips it, 'infer' runs it only when
                              it is purely definitions.
  /print_history            - Print the conversation so far.
  /clear                    - Restart the conversation and drop pending
                              context fragments.
  /quit, /exit              - Leave the REPL.`

// handleCommand executes one slash command. Returns true when the loop
// should stop.
func (r *REPL) handleCommand(input string) bool {
	parts := strings.SplitN(input, " ", 2)
	name := strings.ToLower(parts[0])
	arg := ""
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}

	switch name {
	case "/help", "/h":
		fmt.Fprintln(r.out, helpText)
		fmt.Fprintln(r.out)

	case "/quit", "/exit", "/q":
		fmt.Fprintln(r.out, "Goodbye!")
		return true

	case "/clear":
		r.sess.Reset(systemPromptFor(r.sess.Structured()))
		fmt.Fprintln(r.out, "Conversation history cleared.")
		fmt.Fprintln(r.out)

	case "/print_history":
		r.printHistory()

	case "/toggle_json":
		enabled := r.sess.ToggleStructured(systemPromptFor(!r.sess.Structured()))
		if enabled {
			fmt.Fprintln(r.out, "JSON mode enabled.")
		} else {
			fmt.Fprintln(r.out, "JSON mode disabled.")
		}

	case "/file_to_context":
		if arg == "" {
			fmt.Fprintln(r.out, errorStyle.Render("usage: /file_to_context <path>"))
			return false
		}
		if err := r.sess.AddFile(arg); err != nil {
			fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
			return false
		}
		fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf("File %q added to context.", arg)))

	case "/auto_eval":
		if arg == "" {
			fmt.Fprintln(r.out, errorStyle.Render("usage: /auto_eval <always|never|infer>"))
			return false
		}
		strategy, err := session.ParseStrategy(arg)
		if err != nil {
			fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
			return false
		}
		r.sess.SetAutoEval(strategy)
		fmt.Fprintf(r.out, "auto_eval set to %q.\n", strategy)

	default:
		fmt.Fprintf(r.out, "Unknown command: %s. Type /help for available commands.\n", input)
	}
	return false
}

// printHistory dumps the conversation for inspection.
func (r *REPL) printHistory() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Conversation History:")
	for _, m := range r.sess.Conversation() {
		fmt.Fprintf(r.out, "%s: %s\n\n", capitalize(string(m.Role)), m.Content)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
