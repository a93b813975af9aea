package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
	"github.com/google/uuid"
)

// DirectorService chats with the model about the active project and builds
// image prompts from its analysis result.
type DirectorService struct {
	workspace *Service
	model     ports.TextGenerator
	clock     ports.Clock
	newID     func() string
	logger    *slog.Logger
}

func NewDirectorService(workspace *Service, model ports.TextGenerator, clock ports.Clock, logger *slog.Logger) *DirectorService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = discardLogger()
	}

	return &DirectorService{
		workspace: workspace,
		model:     model,
		clock:     clock,
		newID:     uuid.NewString,
		logger:    logger,
	}
}

// Chat sends message with the project's history and appends both the user
// turn and the reply. Nothing is recorded when the model call fails.
func (s *DirectorService) Chat(ctx context.Context, message string) (domain.ChatTurn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.ChatTurn{}, domain.ErrEmptyMessage
	}

	project, err := s.workspace.ActiveProject(ctx)
	if err != nil {
		return domain.ChatTurn{}, err
	}

	userTurn := s.turn(domain.RoleUser, message)
	history := project.Director.Append(userTurn)

	reply, err := s.model.Generate(ctx, ports.GenerateRequest{
		System: directorSystem(project.Generator.Result),
		Turns:  history,
	})
	if err != nil {
		return domain.ChatTurn{}, fmt.Errorf("director reply: %w", err)
	}

	assistantTurn := s.turn(domain.RoleAssistant, strings.TrimSpace(reply))
	if err := s.workspace.AppendDirectorTurns(ctx, project.ID, userTurn, assistantTurn); err != nil {
		return domain.ChatTurn{}, err
	}
	s.logger.Debug("director turn recorded", "project", project.ID, "turns", len(history)+1)

	return assistantTurn, nil
}

func (s *DirectorService) History(ctx context.Context) (domain.DirectorSession, error) {
	project, err := s.workspace.ActiveProject(ctx)
	if err != nil {
		return nil, err
	}

	return project.Director, nil
}

// ClearHistory empties the active project's transcript.
func (s *DirectorService) ClearHistory(ctx context.Context) error {
	project, err := s.workspace.ActiveProject(ctx)
	if err != nil {
		return err
	}

	return s.workspace.SetDirectorHistory(ctx, project.ID, domain.DirectorSession{})
}

// ImagePrompt returns appearance tags for one character of the active
// project's analysis result. The prompt is not stored.
func (s *DirectorService) ImagePrompt(ctx context.Context, character, notes string) (string, error) {
	project, err := s.workspace.ActiveProject(ctx)
	if err != nil {
		return "", err
	}
	if project.Generator.Result == nil {
		return "", domain.ErrNoAnalysisResult
	}

	profile, ok := project.Generator.Result.Character(character)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCharacter, character)
	}

	encoded, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode character: %w", err)
	}

	content := "Character:\n" + string(encoded)
	if notes = strings.TrimSpace(notes); notes != "" {
		content += "\n\nExtra direction: " + notes
	}

	reply, err := s.model.Generate(ctx, ports.GenerateRequest{
		System: imageSystemPrompt,
		Turns:  []domain.ChatTurn{s.turn(domain.RoleUser, content)},
	})
	if err != nil {
		return "", fmt.Errorf("image prompt: %w", err)
	}

	return strings.TrimSpace(reply), nil
}

func (s *DirectorService) turn(role domain.Role, content string) domain.ChatTurn {
	return domain.ChatTurn{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		CreatedAt: s.clock.Now(),
	}
}

func directorSystem(result *domain.AnalysisResult) string {
	if result == nil || result.Raw == "" {
		return directorSystemPrompt + "\n\nMaster JSON: none yet."
	}

	return directorSystemPrompt + "\n\nMaster JSON:\n" + result.Raw
}
