package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"gopkg.in/yaml.v3"
)

const exportVersion = 1

type projectExport struct {
	Version    int         `json:"version" yaml:"version"`
	ExportedAt time.Time   `json:"exported_at" yaml:"exported_at"`
	Project    projectView `json:"project" yaml:"project"`
}

type projectView struct {
	ID        string        `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Generator generatorView `json:"generator" yaml:"generator"`
	Director  []turnView    `json:"director" yaml:"director"`
}

type generatorView struct {
	Status           string      `json:"status" yaml:"status"`
	CurrentFileIndex int         `json:"current_file_index" yaml:"current_file_index"`
	Error            string      `json:"error,omitempty" yaml:"error,omitempty"`
	FilesDone        int         `json:"files_done" yaml:"files_done"`
	FilesTotal       int         `json:"files_total" yaml:"files_total"`
	Files            []fileView  `json:"files" yaml:"files"`
	Result           *resultView `json:"result,omitempty" yaml:"result,omitempty"`
}

type fileView struct {
	Name   string `json:"name" yaml:"name"`
	Path   string `json:"path" yaml:"path"`
	Size   int64  `json:"size" yaml:"size"`
	Status string `json:"status" yaml:"status"`
}

type resultView struct {
	Summary    string                    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Characters []domain.CharacterProfile `json:"characters" yaml:"characters"`
}

type turnView struct {
	ID        string    `json:"id" yaml:"id"`
	Role      string    `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func newProjectView(project domain.Project) projectView {
	turns := make([]turnView, 0, len(project.Director))
	for _, turn := range project.Director {
		turns = append(turns, turnView{
			ID:        turn.ID,
			Role:      string(turn.Role),
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		})
	}

	return projectView{
		ID:        string(project.ID),
		Name:      project.Name,
		CreatedAt: project.CreatedAt,
		Generator: newGeneratorView(project.Generator),
		Director:  turns,
	}
}

func newGeneratorView(state domain.GeneratorState) generatorView {
	done, total := state.Progress()
	files := make([]fileView, 0, len(state.Files))
	for _, file := range state.Files {
		files = append(files, fileView{
			Name:   file.File.Name,
			Path:   file.File.Path,
			Size:   file.File.Size,
			Status: string(file.Status),
		})
	}

	view := generatorView{
		Status:           string(state.Status),
		CurrentFileIndex: state.CurrentFileIndex,
		Error:            state.Error,
		FilesDone:        done,
		FilesTotal:       total,
		Files:            files,
	}
	if state.Result != nil {
		characters := state.Result.Characters
		if characters == nil {
			characters = []domain.CharacterProfile{}
		}
		view.Result = &resultView{Summary: state.Result.Summary, Characters: characters}
	}

	return view
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeYAML(w io.Writer, value any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(value); err != nil {
		return err
	}

	return enc.Close()
}

func writeExport(w io.Writer, format string, doc projectExport) error {
	switch format {
	case "yaml", "yml":
		return writeYAML(w, doc)
	case "json":
		return writeJSON(w, doc)
	default:
		return fmt.Errorf("unsupported export format %q (want yaml|json)", format)
	}
}
