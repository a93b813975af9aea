package application

import (
	"time"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
)

type ProjectSummary struct {
	ID         domain.ProjectID      `json:"id"`
	Name       string                `json:"name"`
	CreatedAt  time.Time             `json:"created_at"`
	Active     bool                  `json:"active"`
	Status     domain.AnalysisStatus `json:"status"`
	FilesDone  int                   `json:"files_done"`
	FilesTotal int                   `json:"files_total"`
	Turns      int                   `json:"turns"`
}

func summarize(project domain.Project, active bool) ProjectSummary {
	done, total := project.Generator.Progress()

	return ProjectSummary{
		ID:         project.ID,
		Name:       project.Name,
		CreatedAt:  project.CreatedAt,
		Active:     active,
		Status:     project.Generator.Status,
		FilesDone:  done,
		FilesTotal: total,
		Turns:      len(project.Director),
	}
}
