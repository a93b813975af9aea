package domain

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultProjectID   ProjectID = "p1"
	DefaultProjectName           = "My First Web Novel"
)

// Workspace is the project store together with the view selection. Every
// mutating method returns a new Workspace and leaves the receiver untouched.
type Workspace struct {
	Projects        []Project
	ActiveProjectID ProjectID
	ActiveTab       Tab
	NavigationOpen  bool
}

func NewWorkspace(now time.Time) Workspace {
	return Workspace{
		Projects: []Project{{
			ID:        DefaultProjectID,
			Name:      DefaultProjectName,
			CreatedAt: now,
			Generator: NewGeneratorState(),
			Director:  DirectorSession{},
		}},
		ActiveProjectID: DefaultProjectID,
		ActiveTab:       TabSplitter,
	}
}

// ActiveProject resolves the active id, falling back to the first project
// when the id does not match. ok is false only for an empty workspace.
func (w Workspace) ActiveProject() (Project, bool) {
	if len(w.Projects) == 0 {
		return Project{}, false
	}
	if project, ok := w.Project(w.ActiveProjectID); ok {
		return project, true
	}

	return w.Projects[0], true
}

func (w Workspace) Project(id ProjectID) (Project, bool) {
	for _, project := range w.Projects {
		if project.ID == id {
			return project, true
		}
	}

	return Project{}, false
}

// CreateProject appends a new project named name and makes it active. A
// blank name is rejected and the workspace is returned unchanged.
func (w Workspace) CreateProject(name string, now time.Time) (Workspace, Project, error) {
	project, err := NewProject(w.nextProjectID(now), name, now)
	if err != nil {
		return w, Project{}, err
	}

	next := w.clone()
	next.Projects = append(next.Projects, project)
	next.ActiveProjectID = project.ID
	next.NavigationOpen = false

	return next, project, nil
}

// UpdateProject merges patch into the project matching id. The second result
// reports whether a project matched; when it did not, w is returned as is.
func (w Workspace) UpdateProject(id ProjectID, patch ProjectPatch) (Workspace, bool) {
	index := w.indexOf(id)
	if index < 0 {
		return w, false
	}

	next := w.clone()
	next.Projects[index] = next.Projects[index].Apply(patch)

	return next, true
}

func (w Workspace) SelectProject(id ProjectID) (Workspace, error) {
	if w.indexOf(id) < 0 {
		return w, ErrProjectNotFound
	}

	next := w.clone()
	next.ActiveProjectID = id

	return next, nil
}

// SwitchTab selects tab and closes the navigation overlay.
func (w Workspace) SwitchTab(tab Tab) (Workspace, error) {
	if !tab.Valid() {
		return w, ErrInvalidTab
	}

	next := w.clone()
	next.ActiveTab = tab
	next.NavigationOpen = false

	return next, nil
}

func (w Workspace) ToggleNavigation() Workspace {
	next := w.clone()
	next.NavigationOpen = !w.NavigationOpen
	return next
}

// FilesGenerated hands files to the active project's generator, resetting
// its result, error and index, and brings the generator view forward.
func (w Workspace) FilesGenerated(files []SourceFile) (Workspace, Project, error) {
	active, ok := w.ActiveProject()
	if !ok {
		return w, Project{}, ErrProjectNotFound
	}

	generator := active.Generator.WithFiles(files)
	next, _ := w.UpdateProject(active.ID, ProjectPatch{Generator: &generator})
	next.ActiveTab = TabGenerator

	updated, _ := next.Project(active.ID)
	return next, updated, nil
}

func (w Workspace) indexOf(id ProjectID) int {
	return slices.IndexFunc(w.Projects, func(p Project) bool { return p.ID == id })
}

// nextProjectID uses the creation time in milliseconds and bumps it past the
// largest numeric id already taken, so ids stay unique and increasing.
func (w Workspace) nextProjectID(now time.Time) ProjectID {
	candidate := now.UnixMilli()
	for _, project := range w.Projects {
		n, err := strconv.ParseInt(strings.TrimSpace(string(project.ID)), 10, 64)
		if err != nil {
			continue
		}
		if n >= candidate {
			candidate = n + 1
		}
	}

	return ProjectID(strconv.FormatInt(candidate, 10))
}

func (w Workspace) clone() Workspace {
	next := w
	next.Projects = make([]Project, len(w.Projects))
	for i, project := range w.Projects {
		next.Projects[i] = project.clone()
	}

	return next
}
