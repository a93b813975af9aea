package toml

import (
	"fmt"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version         int             `toml:"version"`
	ActiveProjectID string          `toml:"active_project_id"`
	ActiveTab       string          `toml:"active_tab"`
	NavigationOpen  bool            `toml:"navigation_open"`
	Projects        []projectSchema `toml:"projects"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	if s.ActiveTab == "" {
		s.ActiveTab = string(domain.TabSplitter)
	}
	for i := range s.Projects {
		if s.Projects[i].Generator.Status == "" {
			s.Projects[i].Generator.Status = string(domain.AnalysisIdle)
		}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported workspace schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type projectSchema struct {
	ID        string          `toml:"id"`
	Name      string          `toml:"name"`
	CreatedAt string          `toml:"created_at"`
	Generator generatorSchema `toml:"generator"`
	Director  []turnSchema    `toml:"director,omitempty"`
}

type generatorSchema struct {
	Status           string            `toml:"status"`
	Error            string            `toml:"error,omitempty"`
	CurrentFileIndex int               `toml:"current_file_index"`
	Files            []fileEntrySchema `toml:"files,omitempty"`
	Result           *resultSchema     `toml:"result,omitempty"`
}

type fileEntrySchema struct {
	Name   string `toml:"name"`
	Path   string `toml:"path"`
	Size   int64  `toml:"size"`
	Status string `toml:"status"`
}

type resultSchema struct {
	Summary    string            `toml:"summary"`
	Raw        string            `toml:"raw"`
	Characters []characterSchema `toml:"characters,omitempty"`
}

type characterSchema struct {
	Name        string `toml:"name"`
	Role        string `toml:"role,omitempty"`
	Appearance  string `toml:"appearance,omitempty"`
	Personality string `toml:"personality,omitempty"`
	Speech      string `toml:"speech,omitempty"`
}

type turnSchema struct {
	ID        string `toml:"id"`
	Role      string `toml:"role"`
	Content   string `toml:"content"`
	CreatedAt string `toml:"created_at"`
}
