package eino

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultModel     = "gemini-2.5-flash"
	DefaultSecretRef = "gemini://default/api_key"
	DefaultTimeout   = 2 * time.Minute

	jsonTemperature = float32(0.2)
	jsonInstruction = "Reply with a single JSON object and nothing else."
)

var (
	ErrMissingAPIKey = errors.New("model api key is not configured (run: npmk auth set --api-key ...)")
	ErrEmptyReply    = errors.New("model returned an empty reply")
)

type Config struct {
	BaseURL   string
	Model     string
	SecretRef string
	Timeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.SecretRef == "" {
		c.SecretRef = DefaultSecretRef
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	return c
}

type chatModelFactory func(ctx context.Context, cfg *openai.ChatModelConfig) (model.BaseChatModel, error)

func newOpenAIChatModel(ctx context.Context, cfg *openai.ChatModelConfig) (model.BaseChatModel, error) {
	return openai.NewChatModel(ctx, cfg)
}

// Generator talks to an OpenAI compatible chat endpoint through eino. The
// chat model is built on first use so commands that never call the model do
// not need an API key.
type Generator struct {
	cfg      Config
	secrets  ports.SecretStore
	newModel chatModelFactory

	mu   sync.Mutex
	chat model.BaseChatModel
}

var _ ports.TextGenerator = (*Generator)(nil)

func NewGenerator(cfg Config, secrets ports.SecretStore) *Generator {
	return &Generator{
		cfg:      cfg.withDefaults(),
		secrets:  secrets,
		newModel: newOpenAIChatModel,
	}
}

func (g *Generator) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	chat, err := g.chatModel(ctx)
	if err != nil {
		return "", err
	}

	var opts []model.Option
	if req.JSON {
		opts = append(opts, model.WithTemperature(jsonTemperature))
	}

	out, err := chat.Generate(ctx, toMessages(req), opts...)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", ErrEmptyReply
	}

	return out.Content, nil
}

func (g *Generator) chatModel(ctx context.Context) (model.BaseChatModel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.chat != nil {
		return g.chat, nil
	}

	apiKey, err := g.secrets.Get(ctx, g.cfg.SecretRef)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return nil, ErrMissingAPIKey
		}
		return nil, fmt.Errorf("read model api key: %w", err)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	chat, err := g.newModel(ctx, &openai.ChatModelConfig{
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: g.cfg.BaseURL,
		Model:   g.cfg.Model,
		Timeout: g.cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model %s: %w", g.cfg.Model, err)
	}

	g.chat = chat
	return chat, nil
}

func toMessages(req ports.GenerateRequest) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.Turns)+1)

	system := req.System
	if req.JSON {
		system = strings.TrimSpace(system + "\n\n" + jsonInstruction)
	}
	if system != "" {
		messages = append(messages, schema.SystemMessage(system))
	}

	for _, turn := range req.Turns {
		switch turn.Role {
		case domain.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Content))
		}
	}

	return messages
}
