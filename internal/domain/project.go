package domain

import (
	"strings"
	"time"
)

type ProjectID string

type Project struct {
	ID        ProjectID
	Name      string
	CreatedAt time.Time
	Generator GeneratorState
	Director  DirectorSession
}

func NewProject(id ProjectID, name string, createdAt time.Time) (Project, error) {
	if strings.TrimSpace(name) == "" {
		return Project{}, ErrEmptyProjectName
	}

	return Project{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		Generator: NewGeneratorState(),
		Director:  DirectorSession{},
	}, nil
}

// ProjectPatch carries the fields of a partial project update. Nil fields are
// left as they are.
type ProjectPatch struct {
	Name      *string
	Generator *GeneratorState
	Director  *DirectorSession
}

func (p Project) Apply(patch ProjectPatch) Project {
	next := p.clone()
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Generator != nil {
		next.Generator = patch.Generator.clone()
	}
	if patch.Director != nil {
		next.Director = patch.Director.Clone()
	}

	return next
}

func (p Project) clone() Project {
	next := p
	next.Generator = p.Generator.clone()
	next.Director = p.Director.Clone()
	return next
}
