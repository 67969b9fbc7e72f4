package marketintel

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const generatorSystemPrompt = "You are a senior market research analyst. Respond with strict JSON only."

// DefaultGeneratorTimeout bounds a single generator call. The caller's
// context may cancel earlier; both cases are treated as a generator failure
// and fall through to the curated/fallback tiers.
const DefaultGeneratorTimeout = 45 * time.Second

// Generator failure taxonomy. All are non-fatal to the orchestrator.
var (
	ErrGeneratorUnavailable = errors.New("generator unavailable")
	ErrGeneratorTimeout     = errors.New("generator timeout")
	ErrGeneratorEmpty       = errors.New("generator returned empty content")
)

// Generator produces free-form text from a prompt. Implementations should
// return raw model text; JSON awareness lives in ParseTree, not here.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicGenerator calls the Anthropic Messages API under a bounded
// timeout and strips a single markdown fence pair from the response.
type AnthropicGenerator struct {
	messages AnthropicMessager
	timeout  time.Duration
}

type anthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient anthropicClientCreator = defaultAnthropicCreator

func NewAnthropicGeneratorFromEnv() (*AnthropicGenerator, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY not configured", ErrGeneratorUnavailable)
	}
	return &AnthropicGenerator{messages: newAnthropicClient(apiKey), timeout: DefaultGeneratorTimeout}, nil
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	timeout := g.timeout
	if timeout <= 0 {
		timeout = DefaultGeneratorTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.ModelClaudeSonnet4_20250514,
		MaxTokens:   4096,
		System:      []anthropic.TextBlockParam{{Text: generatorSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0.1),
	})
	if err != nil {
		return "", classifyGeneratorError(err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	text := stripFences(sb.String())
	if strings.TrimSpace(text) == "" {
		return "", ErrGeneratorEmpty
	}
	return text, nil
}

func classifyGeneratorError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrGeneratorTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrGeneratorTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrGeneratorUnavailable, err)
}
