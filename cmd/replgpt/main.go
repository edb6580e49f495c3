// replgpt is an interactive REPL that mixes local JavaScript execution
// with an OpenAI conversation sharing the same session context.
package main

func main() {
	Execute()
}
