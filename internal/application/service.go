package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
)

// Service is the single dispatch path for workspace state. Every mutation
// loads the workspace, applies one domain transition and saves it back while
// holding the service lock.
type Service struct {
	repo   ports.WorkspaceRepository
	clock  ports.Clock
	logger *slog.Logger

	mu sync.Mutex
}

func NewService(repo ports.WorkspaceRepository, clock ports.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = discardLogger()
	}

	return &Service{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

func (s *Service) Workspace(ctx context.Context) (domain.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *Service) ActiveProject(ctx context.Context) (domain.Project, error) {
	workspace, err := s.Workspace(ctx)
	if err != nil {
		return domain.Project{}, err
	}

	project, ok := workspace.ActiveProject()
	if !ok {
		return domain.Project{}, domain.ErrProjectNotFound
	}

	return project, nil
}

func (s *Service) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	workspace, err := s.Workspace(ctx)
	if err != nil {
		return nil, err
	}

	active, _ := workspace.ActiveProject()
	summaries := make([]ProjectSummary, 0, len(workspace.Projects))
	for _, project := range workspace.Projects {
		summaries = append(summaries, summarize(project, project.ID == active.ID))
	}

	return summaries, nil
}

func (s *Service) CreateProject(ctx context.Context, name string) (domain.Project, error) {
	name = strings.TrimSpace(name)

	var created domain.Project
	err := s.mutate(ctx, "create project", func(workspace domain.Workspace) (domain.Workspace, error) {
		next, project, err := workspace.CreateProject(name, s.clock.Now())
		if err != nil {
			return workspace, err
		}
		created = project
		return next, nil
	})
	if err != nil {
		return domain.Project{}, err
	}

	s.logger.Debug("project created", "id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateProject merges patch into the project matching id. An unknown id is
// a no-op and is not an error.
func (s *Service) UpdateProject(ctx context.Context, id domain.ProjectID, patch domain.ProjectPatch) error {
	return s.mutate(ctx, "update project", func(workspace domain.Workspace) (domain.Workspace, error) {
		next, ok := workspace.UpdateProject(id, patch)
		if !ok {
			s.logger.Debug("update skipped, project not found", "id", id)
			return workspace, errNoChange
		}
		return next, nil
	})
}

func (s *Service) RenameProject(ctx context.Context, id domain.ProjectID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyProjectName
	}

	return s.mutate(ctx, "rename project", func(workspace domain.Workspace) (domain.Workspace, error) {
		next, ok := workspace.UpdateProject(id, domain.ProjectPatch{Name: &name})
		if !ok {
			return workspace, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
		}
		return next, nil
	})
}

func (s *Service) SelectProject(ctx context.Context, id domain.ProjectID) error {
	return s.mutate(ctx, "select project", func(workspace domain.Workspace) (domain.Workspace, error) {
		next, err := workspace.SelectProject(id)
		if err != nil {
			return workspace, fmt.Errorf("%w: %s", err, id)
		}
		return next, nil
	})
}

func (s *Service) SwitchTab(ctx context.Context, tab domain.Tab) error {
	return s.mutate(ctx, "switch tab", func(workspace domain.Workspace) (domain.Workspace, error) {
		return workspace.SwitchTab(tab)
	})
}

// ToggleNavigation flips the navigation overlay and returns its new state.
func (s *Service) ToggleNavigation(ctx context.Context) (bool, error) {
	var open bool
	err := s.mutate(ctx, "toggle navigation", func(workspace domain.Workspace) (domain.Workspace, error) {
		next := workspace.ToggleNavigation()
		open = next.NavigationOpen
		return next, nil
	})

	return open, err
}

// FilesGenerated hands files to the active project and brings the generator
// view forward.
func (s *Service) FilesGenerated(ctx context.Context, files []domain.SourceFile) (domain.Project, error) {
	var updated domain.Project
	err := s.mutate(ctx, "files generated", func(workspace domain.Workspace) (domain.Workspace, error) {
		next, project, err := workspace.FilesGenerated(files)
		if err != nil {
			return workspace, err
		}
		updated = project
		return next, nil
	})
	if err != nil {
		return domain.Project{}, err
	}

	s.logger.Debug("files handed to generator", "project", updated.ID, "files", len(files))
	return updated, nil
}

// UpdateGenerator merges patch into the generator state of project id.
func (s *Service) UpdateGenerator(ctx context.Context, id domain.ProjectID, patch domain.GeneratorPatch) error {
	_, err := s.TransitionGenerator(ctx, id, func(state domain.GeneratorState) (domain.GeneratorState, error) {
		return state.Apply(patch), nil
	})

	return err
}

// TransitionGenerator applies fn to the generator state of project id and
// persists the result. fn sees the state as currently stored.
func (s *Service) TransitionGenerator(ctx context.Context, id domain.ProjectID, fn func(domain.GeneratorState) (domain.GeneratorState, error)) (domain.GeneratorState, error) {
	var state domain.GeneratorState
	err := s.mutate(ctx, "update generator", func(workspace domain.Workspace) (domain.Workspace, error) {
		project, ok := workspace.Project(id)
		if !ok {
			return workspace, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
		}

		next, err := fn(project.Generator)
		if err != nil {
			return workspace, err
		}
		state = next

		updated, _ := workspace.UpdateProject(id, domain.ProjectPatch{Generator: &next})
		return updated, nil
	})

	return state, err
}

// GeneratorTransition binds TransitionGenerator to one project. It is the
// update callback handed to a view that drives the generator, so the view
// keeps writing to the same project when another one is selected.
func (s *Service) GeneratorTransition(id domain.ProjectID) func(context.Context, func(domain.GeneratorState) (domain.GeneratorState, error)) (domain.GeneratorState, error) {
	return func(ctx context.Context, fn func(domain.GeneratorState) (domain.GeneratorState, error)) (domain.GeneratorState, error) {
		return s.TransitionGenerator(ctx, id, fn)
	}
}

func (s *Service) SetDirectorHistory(ctx context.Context, id domain.ProjectID, session domain.DirectorSession) error {
	return s.UpdateProject(ctx, id, domain.ProjectPatch{Director: &session})
}

func (s *Service) AppendDirectorTurns(ctx context.Context, id domain.ProjectID, turns ...domain.ChatTurn) error {
	return s.mutate(ctx, "append director turns", func(workspace domain.Workspace) (domain.Workspace, error) {
		project, ok := workspace.Project(id)
		if !ok {
			return workspace, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
		}

		session := project.Director.Append(turns...)
		next, _ := workspace.UpdateProject(id, domain.ProjectPatch{Director: &session})
		return next, nil
	})
}

func (s *Service) load(ctx context.Context) (domain.Workspace, error) {
	workspace, ok, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Workspace{}, fmt.Errorf("load workspace: %w", err)
	}
	if !ok || len(workspace.Projects) == 0 {
		return domain.NewWorkspace(s.clock.Now()), nil
	}

	return workspace, nil
}

func (s *Service) mutate(ctx context.Context, op string, fn func(domain.Workspace) (domain.Workspace, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	workspace, err := s.load(ctx)
	if err != nil {
		return err
	}

	next, err := fn(workspace)
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("%s: save workspace: %w", op, err)
	}

	return nil
}
