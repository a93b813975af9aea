package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
)

var ErrMalformedAnalysis = errors.New("malformed analysis reply")

type generatorTransition = func(context.Context, func(domain.GeneratorState) (domain.GeneratorState, error)) (domain.GeneratorState, error)

// ChunkReader loads the text of one source file.
type ChunkReader func(ctx context.Context, file domain.SourceFile) (string, error)

func readChunkFile(_ context.Context, file domain.SourceFile) (string, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// AnalysisService drives the generator state machine of one project over its
// files, one model call per file.
type AnalysisService struct {
	workspace *Service
	model     ports.TextGenerator
	read      ChunkReader
	logger    *slog.Logger
}

func NewAnalysisService(workspace *Service, model ports.TextGenerator, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = discardLogger()
	}

	return &AnalysisService{
		workspace: workspace,
		model:     model,
		read:      readChunkFile,
		logger:    logger,
	}
}

// WithReader replaces how file contents are loaded.
func (s *AnalysisService) WithReader(read ChunkReader) *AnalysisService {
	s.read = read
	return s
}

// Run analyzes the active project's files. The run stays bound to the project
// that was active when it started, and every transition is persisted.
func (s *AnalysisService) Run(ctx context.Context) (domain.GeneratorState, error) {
	return s.RunWithProgress(ctx, nil)
}

// RunWithProgress is Run with a callback invoked after every persisted
// transition. Once the run is RUNNING it always ends in DONE or ERROR, also
// when ctx is canceled.
func (s *AnalysisService) RunWithProgress(ctx context.Context, progress func(domain.GeneratorState)) (domain.GeneratorState, error) {
	project, err := s.workspace.ActiveProject(ctx)
	if err != nil {
		return domain.GeneratorState{}, err
	}
	id := project.ID
	transition := s.workspace.GeneratorTransition(id)

	notify := func(state domain.GeneratorState) {
		if progress != nil {
			progress(state)
		}
	}

	state, err := transition(ctx, domain.GeneratorState.Start)
	if err != nil {
		return project.Generator, fmt.Errorf("start analysis: %w", err)
	}
	notify(state)
	s.logger.Debug("analysis started", "project", id, "files", len(state.Files))

	state, err = s.process(ctx, transition, state, notify)
	if err != nil {
		return s.fail(ctx, id, transition, err, notify)
	}
	s.logger.Debug("analysis finished", "project", id, "characters", len(state.Result.Characters))

	return state, nil
}

func (s *AnalysisService) process(ctx context.Context, transition generatorTransition, state domain.GeneratorState, notify func(domain.GeneratorState)) (domain.GeneratorState, error) {
	files := state.Files

	var master string
	for i, item := range files {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		next, err := transition(ctx, func(g domain.GeneratorState) (domain.GeneratorState, error) {
			return g.BeginFile(i)
		})
		if err != nil {
			return state, fmt.Errorf("begin %s: %w", item.File.Name, err)
		}
		state = next
		notify(state)

		result, err := s.analyzeFile(ctx, item.File, master, i, len(files))
		if err != nil {
			return state, fmt.Errorf("analyze %s: %w", item.File.Name, err)
		}
		master = result.Raw

		next, err = transition(ctx, func(g domain.GeneratorState) (domain.GeneratorState, error) {
			return g.CompleteFile(i)
		})
		if err != nil {
			return state, fmt.Errorf("complete %s: %w", item.File.Name, err)
		}
		state = next
		notify(state)
	}

	result, err := parseAnalysis(master)
	if err != nil {
		return state, err
	}
	if err := ctx.Err(); err != nil {
		return state, err
	}

	next, err := transition(ctx, func(g domain.GeneratorState) (domain.GeneratorState, error) {
		return g.Finish(result)
	})
	if err != nil {
		return state, fmt.Errorf("finish analysis: %w", err)
	}
	notify(next)

	return next, nil
}

func (s *AnalysisService) analyzeFile(ctx context.Context, file domain.SourceFile, master string, index, total int) (domain.AnalysisResult, error) {
	chunk, err := s.read(ctx, file)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("read chunk: %w", err)
	}

	if master == "" {
		master = "{}"
	}
	content := fmt.Sprintf("Chunk %d of %d (%s)\n\nMaster JSON:\n%s\n\nChunk:\n%s", index+1, total, file.Name, master, chunk)

	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	reply, err := s.model.Generate(ctx, ports.GenerateRequest{
		System: analysisSystemPrompt,
		Turns:  []domain.ChatTurn{{Role: domain.RoleUser, Content: content}},
		JSON:   true,
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("generate: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	return parseAnalysis(reply)
}

// fail records cause on the project and returns it. The failure is persisted
// even when ctx is already canceled; a state that is no longer RUNNING (files
// were handed over again meanwhile) is left alone.
func (s *AnalysisService) fail(ctx context.Context, id domain.ProjectID, transition generatorTransition, cause error, notify func(domain.GeneratorState)) (domain.GeneratorState, error) {
	s.logger.Warn("analysis failed", "project", id, "error", cause)

	state, err := transition(context.WithoutCancel(ctx), func(g domain.GeneratorState) (domain.GeneratorState, error) {
		if g.Status != domain.AnalysisRunning {
			return g, nil
		}
		return g.Fail(cause.Error())
	})
	if err != nil {
		return state, errors.Join(cause, fmt.Errorf("record failure: %w", err))
	}
	notify(state)

	return state, cause
}

type analysisDocument struct {
	Summary    string                    `json:"summary"`
	Characters []domain.CharacterProfile `json:"characters"`
}

// parseAnalysis extracts the JSON object from a model reply, tolerating
// Markdown code fences and surrounding prose.
func parseAnalysis(reply string) (domain.AnalysisResult, error) {
	raw := extractJSONObject(reply)
	if raw == "" {
		return domain.AnalysisResult{}, fmt.Errorf("%w: no JSON object", ErrMalformedAnalysis)
	}

	var doc analysisDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
	}
	if doc.Characters == nil {
		doc.Characters = []domain.CharacterProfile{}
	}

	return domain.AnalysisResult{
		Summary:    doc.Summary,
		Characters: doc.Characters,
		Raw:        raw,
	}, nil
}

func extractJSONObject(reply string) string {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}

	return strings.TrimSpace(text[start : end+1])
}
