// Package llm is the LLM client (L2): free-text generation and
// tool-constrained structured generation, with retry/backoff and usage
// aggregation. Grounded on the original AIClient (tenacity retry,
// _track_usage) and the teacher's tool-invocation-loop shape in
// ai/providers/openaiv2/chat_model.go, collapsed to a single forced
// tool call since every extractor here wants exactly one tool result.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/nexusrfp/engine/internal/errkind"
)

// Tool describes a forced tool-use call: Name/Description/Schema define the
// tool, exactly as the original's *_EXTRACTION_TOOL constants do. The tool
// schema is the contract — widening it is additive, narrowing or renaming a
// field is a breaking change, per spec §4.4.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
}

// Usage reports token counts for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Client is the LLM port injected into every extractor, classifier, and
// generator (§9: explicit struct injection, not a global singleton).
type Client interface {
	// Generate performs free-text completion.
	Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
	// GenerateStructured forces exactly one call to the named tool and
	// returns its raw JSON input, decoded by the caller into a typed struct.
	GenerateStructured(ctx context.Context, system, user string, tool Tool, maxTokens int) (json.RawMessage, error)
	// UsageStats returns the lifetime aggregate of tokens consumed by this client.
	UsageStats() Usage
}

// AnthropicClient implements Client over the Anthropic Messages API.
type AnthropicClient struct {
	api     anthropic.Client
	model   string
	breaker *gobreaker.CircuitBreaker

	mu    sync.Mutex
	usage Usage
}

// New constructs an AnthropicClient with the spec's retry policy
// (3 attempts, 2s base, 30s cap) wrapped behind a circuit breaker that
// opens after a run of failures so a degraded provider fails fast instead
// of burning through every pipeline's retry budget simultaneously.
func New(apiKey, model string) *AnthropicClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "anthropic-llm",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &AnthropicClient{
		api:     anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		breaker: cb,
	}
}

func (c *AnthropicClient) retryPolicy(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.Multiplier = 2
	return backoff.WithContext(backoff.WithMaxRetries(b, 2), ctx) // 2 retries => 3 attempts total
}

func (c *AnthropicClient) addUsage(in, out int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.usage.InputTokens += int(in)
	c.usage.OutputTokens += int(out)
}

func (c *AnthropicClient) UsageStats() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

func (c *AnthropicClient) Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	var out string
	op := func() error {
		res, err := c.breaker.Execute(func() (any, error) {
			return c.api.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     anthropic.Model(c.model),
				MaxTokens: int64(maxTokens),
				System: []anthropic.TextBlockParam{
					{Text: system},
				},
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
				},
				Temperature: anthropic.Float(temperature),
			})
		})
		if err != nil {
			return classifyRetry(err)
		}
		msg := res.(*anthropic.Message)
		c.addUsage(msg.Usage.InputTokens, msg.Usage.OutputTokens)
		for _, block := range msg.Content {
			if block.Type == "text" {
				out += block.Text
			}
		}
		return nil
	}
	if err := backoff.Retry(op, c.retryPolicy(ctx)); err != nil {
		return "", errkind.Wrap(errkind.Transient, "llm", "generate", err)
	}
	return out, nil
}

// GenerateStructured forces a single tool call (tool_choice=tool, the named
// tool) and returns the decoded tool-input JSON, or InvalidInput if the
// model declines to call the tool (never happens with a forced choice, but
// guarded defensively since it is the sole contract boundary).
func (c *AnthropicClient) GenerateStructured(ctx context.Context, system, user string, tool Tool, maxTokens int) (json.RawMessage, error) {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	schemaBytes, _ := json.Marshal(tool.Schema)
	var inputSchema anthropic.ToolInputSchemaParam
	_ = json.Unmarshal(schemaBytes, &inputSchema)

	var result json.RawMessage
	op := func() error {
		res, err := c.breaker.Execute(func() (any, error) {
			return c.api.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     anthropic.Model(c.model),
				MaxTokens: int64(maxTokens),
				System:    []anthropic.TextBlockParam{{Text: system}},
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
				},
				Tools: []anthropic.ToolUnionParam{
					{OfTool: &anthropic.ToolParam{
						Name:        tool.Name,
						Description: anthropic.String(tool.Description),
						InputSchema: inputSchema,
					}},
				},
				ToolChoice: anthropic.ToolChoiceUnionParam{
					OfTool: &anthropic.ToolChoiceToolParam{Name: tool.Name},
				},
			})
		})
		if err != nil {
			return classifyRetry(err)
		}
		msg := res.(*anthropic.Message)
		c.addUsage(msg.Usage.InputTokens, msg.Usage.OutputTokens)
		for _, block := range msg.Content {
			if block.Type == "tool_use" && block.Name == tool.Name {
				result = block.Input
				return nil
			}
		}
		return backoff.Permanent(errkind.New(errkind.InvalidInput, "model did not invoke the required tool"))
	}
	if err := backoff.Retry(op, c.retryPolicy(ctx)); err != nil {
		if errkind.Of(err) == errkind.InvalidInput {
			return nil, err
		}
		return nil, errkind.Wrap(errkind.Transient, "llm", "generate structured", err)
	}
	return result, nil
}

// classifyRetry marks rate-limit/connection errors as retryable and
// everything else as permanent, matching spec §5's "other API errors
// bubble up" rule.
func classifyRetry(err error) error {
	if apiErr, ok := err.(*anthropic.Error); ok {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return err
		}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return err
	}
	return backoff.Permanent(err)
}
