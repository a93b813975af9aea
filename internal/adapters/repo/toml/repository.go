package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/bnema/novelpia-prompt-maker/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName          = "config"
	configType          = "toml"
	WorkspacePathKey    = "workspace.path"
	workspaceFileMode   = 0o600
	workspaceDirMode    = 0o700
	workspaceConfigDir  = ".novelpia"
	workspaceConfigFile = "workspace.toml"
	tempFilePattern     = ".workspace-*.toml.tmp"
)

// Repository stores the whole workspace in one TOML file. Writes go through
// a temp file and a rename so readers never see a partial file.
type Repository struct {
	workspacePath string
	mu            *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.WorkspaceRepository = (*Repository)(nil)

// NewRepository reads ~/.novelpia/config.toml into cfg when present and
// resolves the workspace file from the workspace.path key.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, workspaceConfigDir))
	cfg.SetDefault(WorkspacePathKey, filepath.Join(homeDir, workspaceConfigDir, workspaceConfigFile))

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return NewRepositoryAt(cfg.GetString(WorkspacePathKey))
}

func NewRepositoryAt(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("workspace path is empty")
	}

	workspacePath, err := normalizeWorkspacePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{workspacePath: workspacePath, mu: lockForPath(workspacePath)}, nil
}

func (r *Repository) Path() string {
	return r.workspacePath
}

func (r *Repository) Load(ctx context.Context) (domain.Workspace, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Workspace{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, ok, err := r.readSchema()
	if err != nil || !ok {
		return domain.Workspace{}, false, err
	}

	workspace, err := fromSchema(file)
	if err != nil {
		return domain.Workspace{}, false, fmt.Errorf("decode workspace file: %w", err)
	}

	return workspace, true, nil
}

func (r *Repository) Save(ctx context.Context, workspace domain.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(toSchema(workspace))
}

func (r *Repository) readSchema() (fileSchema, bool, error) {
	data, err := os.ReadFile(r.workspacePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, false, nil
		}
		return fileSchema{}, false, fmt.Errorf("read workspace file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, false, fmt.Errorf("decode workspace file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, false, err
	}
	file.applyDefaults()

	return file, true, nil
}

func normalizeWorkspacePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve workspace path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	dir := filepath.Dir(r.workspacePath)
	if err := os.MkdirAll(dir, workspaceDirMode); err != nil {
		return fmt.Errorf("create workspace directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode workspace file: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp workspace file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp workspace file: %w", err)
	}

	if err := tempFile.Chmod(workspaceFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp workspace file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp workspace file: %w", err)
	}

	if err := os.Rename(tempName, r.workspacePath); err != nil {
		return fmt.Errorf("replace workspace file: %w", err)
	}
	cleanup = false

	return nil
}

func toSchema(workspace domain.Workspace) fileSchema {
	projects := make([]projectSchema, 0, len(workspace.Projects))
	for _, project := range workspace.Projects {
		projects = append(projects, toProjectSchema(project))
	}

	return fileSchema{
		Version:         currentSchemaVersion,
		ActiveProjectID: string(workspace.ActiveProjectID),
		ActiveTab:       string(workspace.ActiveTab),
		NavigationOpen:  workspace.NavigationOpen,
		Projects:        projects,
	}
}

func toProjectSchema(project domain.Project) projectSchema {
	generator := project.Generator

	files := make([]fileEntrySchema, 0, len(generator.Files))
	for _, file := range generator.Files {
		files = append(files, fileEntrySchema{
			Name:   file.File.Name,
			Path:   file.File.Path,
			Size:   file.File.Size,
			Status: string(file.Status),
		})
	}

	var result *resultSchema
	if generator.Result != nil {
		characters := make([]characterSchema, 0, len(generator.Result.Characters))
		for _, character := range generator.Result.Characters {
			characters = append(characters, characterSchema(character))
		}
		result = &resultSchema{
			Summary:    generator.Result.Summary,
			Raw:        generator.Result.Raw,
			Characters: characters,
		}
	}

	turns := make([]turnSchema, 0, len(project.Director))
	for _, turn := range project.Director {
		turns = append(turns, turnSchema{
			ID:        turn.ID,
			Role:      string(turn.Role),
			Content:   turn.Content,
			CreatedAt: formatTime(turn.CreatedAt),
		})
	}

	return projectSchema{
		ID:        string(project.ID),
		Name:      project.Name,
		CreatedAt: formatTime(project.CreatedAt),
		Generator: generatorSchema{
			Status:           string(generator.Status),
			Error:            generator.Error,
			CurrentFileIndex: generator.CurrentFileIndex,
			Files:            files,
			Result:           result,
		},
		Director: turns,
	}
}

func fromSchema(file fileSchema) (domain.Workspace, error) {
	tab, err := domain.ParseTab(file.ActiveTab)
	if err != nil {
		return domain.Workspace{}, err
	}

	projects := make([]domain.Project, 0, len(file.Projects))
	for _, entry := range file.Projects {
		project, err := fromProjectSchema(entry)
		if err != nil {
			return domain.Workspace{}, fmt.Errorf("project %q: %w", entry.ID, err)
		}
		projects = append(projects, project)
	}

	return domain.Workspace{
		Projects:        projects,
		ActiveProjectID: domain.ProjectID(file.ActiveProjectID),
		ActiveTab:       tab,
		NavigationOpen:  file.NavigationOpen,
	}, nil
}

func fromProjectSchema(entry projectSchema) (domain.Project, error) {
	status := domain.AnalysisStatus(entry.Generator.Status)
	if !status.Valid() {
		return domain.Project{}, fmt.Errorf("unknown generator status %q", entry.Generator.Status)
	}

	files := make([]domain.ProcessingFile, 0, len(entry.Generator.Files))
	for _, file := range entry.Generator.Files {
		files = append(files, domain.ProcessingFile{
			File:   domain.SourceFile{Name: file.Name, Path: file.Path, Size: file.Size},
			Status: domain.FileStatus(file.Status),
		})
	}

	index := entry.Generator.CurrentFileIndex
	if index < 0 || index >= len(files) {
		index = domain.NoFileIndex
	}

	var result *domain.AnalysisResult
	if entry.Generator.Result != nil {
		characters := make([]domain.CharacterProfile, 0, len(entry.Generator.Result.Characters))
		for _, character := range entry.Generator.Result.Characters {
			characters = append(characters, domain.CharacterProfile(character))
		}
		result = &domain.AnalysisResult{
			Summary:    entry.Generator.Result.Summary,
			Raw:        entry.Generator.Result.Raw,
			Characters: characters,
		}
	}

	session := make(domain.DirectorSession, 0, len(entry.Director))
	for _, turn := range entry.Director {
		role, err := domain.ParseRole(turn.Role)
		if err != nil {
			return domain.Project{}, err
		}
		session = append(session, domain.ChatTurn{
			ID:        turn.ID,
			Role:      role,
			Content:   turn.Content,
			CreatedAt: parseTime(turn.CreatedAt),
		})
	}

	return domain.Project{
		ID:        domain.ProjectID(entry.ID),
		Name:      entry.Name,
		CreatedAt: parseTime(entry.CreatedAt),
		Generator: domain.GeneratorState{
			Status:           status,
			Files:            files,
			Result:           result,
			Error:            entry.Generator.Error,
			CurrentFileIndex: index,
		},
		Director: session,
	}, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
