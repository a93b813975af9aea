package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	einollm "github.com/bnema/novelpia-prompt-maker/internal/adapters/llm/eino"
	"github.com/bnema/novelpia-prompt-maker/internal/adapters/render/markdown"
	workspaceadapter "github.com/bnema/novelpia-prompt-maker/internal/adapters/render/workspace"
	tomlrepo "github.com/bnema/novelpia-prompt-maker/internal/adapters/repo/toml"
	chainstore "github.com/bnema/novelpia-prompt-maker/internal/adapters/secrets/chain"
	filestore "github.com/bnema/novelpia-prompt-maker/internal/adapters/secrets/file"
	passstore "github.com/bnema/novelpia-prompt-maker/internal/adapters/secrets/pass"
	"github.com/bnema/novelpia-prompt-maker/internal/application"
	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
	"github.com/spf13/viper"
)

const (
	envPrefix = "NPMK"

	keySecretsDir     = "secrets.dir"
	keySecretsBackend = "secrets.backend"
	keyModelBaseURL   = "model.base_url"
	keyModelName      = "model.name"
	keyModelSecretRef = "model.secret_ref"
	keyModelTimeout   = "model.timeout"
	keySplitterMax    = "splitter.max_chars"
	keyLogLevel       = "log.level"
	keyMarkdownStyle  = "render.markdown_style"
)

// writeClipboard is swapped in tests, where no clipboard is available.
var writeClipboard = clipboard.WriteAll

type app struct {
	repo        *tomlrepo.Repository
	service     *application.Service
	analysis    *application.AnalysisService
	director    *application.DirectorService
	credentials *application.CredentialService
	logger      *slog.Logger

	secretRef        string
	maxChars         int
	workspaceRender  func(domain.Workspace, workspaceadapter.RenderOptions) (string, error)
	markdownRenderer *markdown.Renderer
}

func newConfig() (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(keySecretsDir, filepath.Join(homeDir, ".novelpia", "secrets"))
	cfg.SetDefault(keySecretsBackend, "chain")
	cfg.SetDefault(keyModelBaseURL, einollm.DefaultBaseURL)
	cfg.SetDefault(keyModelName, einollm.DefaultModel)
	cfg.SetDefault(keyModelSecretRef, einollm.DefaultSecretRef)
	cfg.SetDefault(keyModelTimeout, einollm.DefaultTimeout)
	cfg.SetDefault(keySplitterMax, application.DefaultMaxChars)
	cfg.SetDefault(keyLogLevel, "warn")
	cfg.SetDefault(keyMarkdownStyle, markdown.StyleAuto)

	return cfg, nil
}

func wireApp() (*app, error) {
	cfg, err := newConfig()
	if err != nil {
		return nil, err
	}

	// NewRepository reads config.toml into cfg, so every other key is
	// resolved after it.
	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire workspace repository: %w", err)
	}

	logger, err := newLogger(cfg.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}

	secretStore, err := newSecretStore(cfg.GetString(keySecretsBackend), cfg.GetString(keySecretsDir))
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	secretRef := cfg.GetString(keyModelSecretRef)
	generator := einollm.NewGenerator(einollm.Config{
		BaseURL:   cfg.GetString(keyModelBaseURL),
		Model:     cfg.GetString(keyModelName),
		SecretRef: secretRef,
		Timeout:   cfg.GetDuration(keyModelTimeout),
	}, secretStore)

	clock := ports.SystemClock{}
	service := application.NewService(repo, clock, logger)

	return &app{
		repo:             repo,
		service:          service,
		analysis:         application.NewAnalysisService(service, generator, logger),
		director:         application.NewDirectorService(service, generator, clock, logger),
		credentials:      application.NewCredentialService(secretStore),
		logger:           logger,
		secretRef:        secretRef,
		maxChars:         cfg.GetInt(keySplitterMax),
		workspaceRender:  workspaceadapter.Render,
		markdownRenderer: markdown.NewRenderer(cfg.GetString(keyMarkdownStyle), markdown.DefaultWordWrap),
	}, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse %s: %w", keyLogLevel, err)
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func newSecretStore(backend, dir string) (ports.SecretStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "chain":
		return chainstore.NewPassFirstWithFileFallback(dir)
	case "file":
		return filestore.NewStore(dir), nil
	case "pass":
		return passstore.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported %s %q (want chain|file|pass)", keySecretsBackend, backend)
	}
}
