package eino

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
	portmocks "github.com/bnema/novelpia-prompt-maker/internal/ports/mocks"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply    *schema.Message
	err      error
	messages []*schema.Message
	options  []model.Option
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.messages = input
	f.options = opts
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming is not used")
}

func newFakeGenerator(t *testing.T, chat *fakeChatModel) (*Generator, *portmocks.MockSecretStore, *[]*openai.ChatModelConfig) {
	t.Helper()

	secrets := portmocks.NewMockSecretStore(t)
	generator := NewGenerator(Config{}, secrets)

	var built []*openai.ChatModelConfig
	generator.newModel = func(_ context.Context, cfg *openai.ChatModelConfig) (model.BaseChatModel, error) {
		built = append(built, cfg)
		return chat, nil
	}

	return generator, secrets, &built
}

func TestGeneratorBuildsModelOnceWithDefaults(t *testing.T) {
	t.Parallel()

	chat := &fakeChatModel{reply: schema.AssistantMessage("hello", nil)}
	generator, secrets, built := newFakeGenerator(t, chat)
	secrets.EXPECT().Get(mock.Anything, DefaultSecretRef).Return(" AIza-test\n", nil).Once()

	for range 2 {
		reply, err := generator.Generate(context.Background(), ports.GenerateRequest{
			Turns: []domain.ChatTurn{{Role: domain.RoleUser, Content: "hi"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "hello", reply)
	}

	require.Len(t, *built, 1)
	cfg := (*built)[0]
	assert.Equal(t, "AIza-test", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestGeneratorMapsTurnsToMessages(t *testing.T) {
	t.Parallel()

	chat := &fakeChatModel{reply: schema.AssistantMessage("{}", nil)}
	generator, secrets, _ := newFakeGenerator(t, chat)
	secrets.EXPECT().Get(mock.Anything, DefaultSecretRef).Return("AIza-test", nil).Once()

	_, err := generator.Generate(context.Background(), ports.GenerateRequest{
		System: "be brief",
		Turns: []domain.ChatTurn{
			{Role: domain.RoleUser, Content: "one"},
			{Role: domain.RoleAssistant, Content: "two"},
			{Role: domain.RoleUser, Content: "three"},
		},
		JSON: true,
	})
	require.NoError(t, err)

	require.Len(t, chat.messages, 4)
	assert.Equal(t, schema.System, chat.messages[0].Role)
	assert.Contains(t, chat.messages[0].Content, "be brief")
	assert.Contains(t, chat.messages[0].Content, jsonInstruction)
	assert.Equal(t, schema.User, chat.messages[1].Role)
	assert.Equal(t, schema.Assistant, chat.messages[2].Role)
	assert.Equal(t, "three", chat.messages[3].Content)
	assert.Len(t, chat.options, 1)
}

func TestGeneratorMissingKey(t *testing.T) {
	t.Parallel()

	generator, secrets, built := newFakeGenerator(t, &fakeChatModel{})
	secrets.EXPECT().Get(mock.Anything, DefaultSecretRef).Return("", fmt.Errorf("file: %w", domain.ErrSecretNotFound)).Once()

	_, err := generator.Generate(context.Background(), ports.GenerateRequest{})
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Empty(t, *built)
}

func TestGeneratorEmptyReply(t *testing.T) {
	t.Parallel()

	generator, secrets, _ := newFakeGenerator(t, &fakeChatModel{reply: schema.AssistantMessage("  ", nil)})
	secrets.EXPECT().Get(mock.Anything, DefaultSecretRef).Return("AIza-test", nil).Once()

	_, err := generator.Generate(context.Background(), ports.GenerateRequest{})
	require.ErrorIs(t, err, ErrEmptyReply)
}

func TestGeneratorWrapsModelError(t *testing.T) {
	t.Parallel()

	modelErr := errors.New("429 resource exhausted")
	generator, secrets, _ := newFakeGenerator(t, &fakeChatModel{err: modelErr})
	secrets.EXPECT().Get(mock.Anything, DefaultSecretRef).Return("AIza-test", nil).Once()

	_, err := generator.Generate(context.Background(), ports.GenerateRequest{})
	require.ErrorIs(t, err, modelErr)
	assert.ErrorContains(t, err, "chat completion")
}

func TestGeneratorAgainstOpenAICompatibleServer(t *testing.T) {
	t.Parallel()

	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer AIza-test", r.Header.Get("Authorization"))

		data, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(data, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1772357400,
			"model": "gemini-2.5-flash",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "silver hair, scar"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
		}`)
	}))
	defer server.Close()

	secrets := portmocks.NewMockSecretStore(t)
	secrets.EXPECT().Get(mock.Anything, "gemini://work/api_key").Return("AIza-test", nil).Once()
	generator := NewGenerator(Config{BaseURL: server.URL, SecretRef: "gemini://work/api_key"}, secrets)

	reply, err := generator.Generate(context.Background(), ports.GenerateRequest{
		System: "tags only",
		Turns:  []domain.ChatTurn{{Role: domain.RoleUser, Content: "Ha-eun"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "silver hair, scar", reply)

	assert.Equal(t, DefaultModel, body.Model)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "user", body.Messages[1].Role)
	assert.Equal(t, "Ha-eun", body.Messages[1].Content)
}
