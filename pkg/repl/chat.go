// Chat completion requests against the OpenAI API.
package repl

import (
	"context"
	"errors"
	"io"

	"github.com/openai/openai-go"

	"github.com/minhyannv/replgpt-go/pkg/logger"
	"github.com/minhyannv/replgpt-go/pkg/session"
)

// messages converts the session conversation into API params.
func (r *REPL) messages() []openai.ChatCompletionMessageParamUnion {
	conv := r.sess.Conversation()
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(conv))
	for _, m := range conv {
		switch m.Role {
		case session.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case session.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case session.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		}
	}
	return out
}

// chatText requests a free-text completion. When streaming, deltas are
// written to r.out as they arrive; streamed reports whether any were.
func (r *REPL) chatText(ctx context.Context) (content string, streamed bool, err error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(r.cfg.Model),
		Messages: r.messages(),
	}

	if !r.cfg.Stream {
		logger.Debugf(r.cfg.Verbose, r.log, "chat: sending non-streaming request with %d messages", len(params.Messages))
		completion, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", false, err
		}
		if len(completion.Choices) == 0 {
			return "", false, errors.New("empty completion choices")
		}
		return completion.Choices[0].Message.Content, false, nil
	}

	logger.Debugf(r.cfg.Verbose, r.log, "chat: sending streaming request with %d messages", len(params.Messages))
	stream := r.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		if !acc.AddChunk(chunk) {
			return "", streamed, errors.New("failed to accumulate stream")
		}
		if len(chunk.Choices) > 0 {
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				_, _ = io.WriteString(r.out, delta)
				streamed = true
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", streamed, err
	}
	if len(acc.Choices) == 0 {
		return "", streamed, errors.New("empty streamed completion choices")
	}
	return acc.Choices[0].Message.Content, streamed, nil
}

// chatStructured requests a completion constrained to the reply schema and
// returns the raw JSON payload.
func (r *REPL) chatStructured(ctx context.Context) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(r.cfg.Model),
		Messages: r.messages(),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "repl_reply",
					Strict: openai.Bool(true),
					Schema: replySchema(),
				},
			},
		},
	}

	logger.Debugf(r.cfg.Verbose, r.log, "chat: sending structured request with %d messages", len(params.Messages))
	completion, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty completion choices")
	}
	return completion.Choices[0].Message.Content, nil
}
