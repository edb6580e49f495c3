// Package repl implements the interactive dispatch loop: one line in,
// classified as slash command, code, or natural language, acted on, and
// back to the prompt. No failure below missing credentials or end of
// input terminates the loop.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/minhyannv/replgpt-go/pkg/config"
	"github.com/minhyannv/replgpt-go/pkg/interp"
	"github.com/minhyannv/replgpt-go/pkg/logger"
	"github.com/minhyannv/replgpt-go/pkg/session"
)

// LineReader supplies input lines. The production implementation is a
// readline instance; tests substitute a scripted reader.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// historySaver is implemented by line readers that keep an input history
// (readline does). Executed model suggestions are appended so the user
// can recall and edit them like lines they typed themselves.
type historySaver interface {
	SaveHistory(content string) error
}

// REPL owns the session, the evaluation environment, and the model
// client for one interactive run.
type REPL struct {
	cfg    config.Config
	client openai.Client
	sess   *session.Session
	interp *interp.Interp
	log    logger.Logger
	in     LineReader
	out    io.Writer
}

// Option configures a REPL.
type Option func(*REPL)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *REPL) { r.log = l }
}

// WithLineReader sets the input source.
func WithLineReader(in LineReader) Option {
	return func(r *REPL) { r.in = in }
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(r *REPL) { r.out = w }
}

// New wires a REPL from configuration. The configuration must already be
// validated; New does not re-check credentials.
func New(cfg config.Config, opts ...Option) (*REPL, error) {
	r := &REPL{
		cfg: cfg,
		log: logger.NopLogger{},
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}

	strategy, err := session.ParseStrategy(cfg.AutoEval)
	if err != nil {
		return nil, err
	}

	r.client = newClient(cfg)
	r.sess = session.New(systemPromptFor(false))
	r.sess.SetAutoEval(strategy)
	r.interp = interp.New(r.out)

	if r.in == nil {
		in, err := NewReadline(cfg.HistoryFile)
		if err != nil {
			return nil, fmt.Errorf("init readline: %w", err)
		}
		r.in = in
	}
	return r, nil
}

// newClient builds an API client from configuration.
func newClient(cfg config.Config) openai.Client {
	clientOpts := []option.RequestOption{}
	if cfg.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	return openai.NewClient(clientOpts...)
}

// NewReadline builds the production line reader with input history and
// interrupt handling.
func NewReadline(historyFile string) (LineReader, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

// Run drives the loop until /quit, end of input, or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	defer func() { _ = r.in.Close() }()

	r.printBanner()

	for ctx.Err() == nil {
		line, err := r.in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := r.dispatch(ctx, line); quit {
			return nil
		}
	}

	fmt.Fprintln(r.out, "Exiting.")
	return nil
}

// dispatch classifies one line and acts on it. Returns true when the loop
// should stop.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	if strings.HasPrefix(line, "/") {
		return r.handleCommand(line)
	}

	c := interp.Classify(line)
	logger.Debugf(r.cfg.Verbose, r.log, "dispatch: kind=%d bytes=%d", c.Kind, len(line))
	switch c.Kind {
	case interp.Code:
		r.runCode(ctx, line)
	case interp.Prompt:
		r.promptModel(ctx, line)
	case interp.Invalid:
		// goja errors already carry the SyntaxError prefix.
		fmt.Fprintln(r.out, errorStyle.Render(c.CompileErr.Error()))
	}
	return false
}

// runCode executes one line in the persistent environment and records the
// exchange for the next model request.
func (r *REPL) runCode(ctx context.Context, line string) {
	res := r.interp.Execute(ctx, line)

	record := res.Output
	switch {
	case res.Err != nil:
		fmt.Fprintln(r.out, errorStyle.Render(res.Err.Error()))
		if record != "" && !strings.HasSuffix(record, "\n") {
			record += "\n"
		}
		record += res.Err.Error()
	case res.Value != "":
		fmt.Fprintln(r.out, res.Value)
		if record != "" && !strings.HasSuffix(record, "\n") {
			record += "\n"
		}
		record += res.Value
	}

	r.sess.RecordExecution(line, record)
}

// promptModel sends the session context plus the current input to the
// model. On failure the user message is rolled back and the loop goes on.
func (r *REPL) promptModel(ctx context.Context, input string) {
	r.sess.PushUser(r.sess.BuildUserMessage(input))

	var err error
	if r.sess.Structured() {
		err = r.promptStructured(ctx)
	} else {
		err = r.promptText(ctx)
	}
	if err != nil {
		r.sess.DropLast()
		fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("model request failed: %v", err)))
		fmt.Fprintln(r.out, noticeStyle.Render("Returning to the prompt."))
		return
	}

	r.sess.FlushPending()
}

func (r *REPL) promptText(ctx context.Context) error {
	reply, streamed, err := r.chatText(ctx)
	if err != nil {
		return err
	}

	if !streamed {
		fmt.Fprintln(r.out, reply)
	} else if !strings.HasSuffix(reply, "\n") {
		// Streamed deltas end mid-line; close it before the next prompt.
		fmt.Fprintln(r.out)
	}

	r.sess.PushAssistant(reply)
	if code := extractCode(reply); code != "" {
		r.maybeExecute(ctx, code)
	}
	return nil
}

func (r *REPL) promptStructured(ctx context.Context) error {
	raw, err := r.chatStructured(ctx)
	if err != nil {
		return err
	}

	var reply structuredReply
	if err := unmarshalStructured(raw, &reply); err != nil {
		return err
	}

	fmt.Fprintln(r.out, reply.Reply)
	r.sess.PushAssistant(raw)

	if reply.ShouldExecute && strings.TrimSpace(reply.Code) != "" {
		r.maybeExecute(ctx, reply.Code)
	}
	return nil
}

// maybeExecute dispatches model-suggested code per the auto-eval strategy.
func (r *REPL) maybeExecute(ctx context.Context, code string) {
	switch r.sess.AutoEval() {
	case session.AutoEvalNever:
		fmt.Fprintln(r.out, noticeStyle.Render("auto_eval is 'never'; suggested code not executed."))
		return
	case session.AutoEvalInfer:
		if !interp.DefinitionsOnly(code) {
			fmt.Fprintln(r.out, noticeStyle.Render("auto_eval is 'infer'; suggested code may have side effects, not executed."))
			return
		}
	}

	fmt.Fprintln(r.out, noticeStyle.Render("Executing suggested code..."))
	res := r.interp.Execute(ctx, code)
	if res.Err != nil {
		fmt.Fprintln(r.out, errorStyle.Render(fmt.Sprintf("error executing suggested code: %v", res.Err)))
		return
	}
	if res.Value != "" {
		fmt.Fprintln(r.out, res.Value)
	}

	if saver, ok := r.in.(historySaver); ok {
		_ = saver.SaveHistory(code)
	}

	record := res.Output
	if res.Value != "" {
		if record != "" && !strings.HasSuffix(record, "\n") {
			record += "\n"
		}
		record += res.Value
	}
	r.sess.RecordExecution(code, record)
	fmt.Fprintln(r.out, successStyle.Render("Code executed successfully."))
}

func (r *REPL) printBanner() {
	fmt.Fprintln(r.out, bannerStyle.Render("Welcome to replgpt, the LLM-enhanced REPL!"))
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Enter JavaScript to run it in a persistent session; code and output")
	fmt.Fprintln(r.out, "join your assistant's context. Enter natural language to talk to the")
	fmt.Fprintln(r.out, "model. Run /help to see the available commands.")
	fmt.Fprintln(r.out)
}
