package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func TestNewWorkspaceHasActiveDefaultProject(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)

	active, ok := ws.ActiveProject()
	require.True(t, ok)
	assert.Equal(t, DefaultProjectID, active.ID)
	assert.Equal(t, DefaultProjectName, active.Name)
	assert.Equal(t, TabSplitter, ws.ActiveTab)
	assert.False(t, ws.NavigationOpen)
	assert.Equal(t, AnalysisIdle, active.Generator.Status)
	assert.Equal(t, NoFileIndex, active.Generator.CurrentFileIndex)
	assert.Empty(t, active.Director)
}

func TestCreateProjectAppendsAndActivates(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)
	ws.NavigationOpen = true

	next, project, err := ws.CreateProject("Second Story", testNow)
	require.NoError(t, err)

	assert.Len(t, next.Projects, len(ws.Projects)+1)
	assert.Equal(t, project.ID, next.ActiveProjectID)
	assert.Equal(t, "Second Story", project.Name)
	assert.Equal(t, ProjectID("1772357400000"), project.ID)
	assert.False(t, next.NavigationOpen)
	assert.Len(t, ws.Projects, 1, "receiver must not change")
}

func TestCreateProjectRejectsBlankName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "spaces", input: "   "},
		{name: "tabs and newlines", input: "\t\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ws := NewWorkspace(testNow)
			next, _, err := ws.CreateProject(tc.input, testNow)
			require.ErrorIs(t, err, ErrEmptyProjectName)
			assert.Equal(t, ws, next)
		})
	}
}

func TestCreateProjectIDsStayUniqueWithinSameMillisecond(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)
	ws, first, err := ws.CreateProject("one", testNow)
	require.NoError(t, err)
	ws, second, err := ws.CreateProject("two", testNow)
	require.NoError(t, err)
	_, third, err := ws.CreateProject("three", testNow.Add(-time.Second))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, ProjectID("1772357400001"), second.ID)
	assert.Equal(t, ProjectID("1772357400002"), third.ID)
}

func TestUpdateProjectOnlyTouchesMatchingProject(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)
	ws, created, err := ws.CreateProject("other", testNow)
	require.NoError(t, err)

	name := "renamed"
	running := NewGeneratorState()
	running.Status = AnalysisRunning
	next, ok := ws.UpdateProject(DefaultProjectID, ProjectPatch{Name: &name, Generator: &running})
	require.True(t, ok)

	updated, _ := next.Project(DefaultProjectID)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, AnalysisRunning, updated.Generator.Status)

	untouched, _ := next.Project(created.ID)
	original, _ := ws.Project(created.ID)
	assert.Equal(t, original, untouched)

	before, _ := ws.Project(DefaultProjectID)
	assert.Equal(t, DefaultProjectName, before.Name, "receiver must not change")
}

func TestUpdateProjectUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)
	name := "ghost"

	next, ok := ws.UpdateProject("missing", ProjectPatch{Name: &name})
	assert.False(t, ok)
	assert.Equal(t, ws, next)
}

func TestActiveProjectFallsBackToFirst(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)
	ws, _, err := ws.CreateProject("second", testNow)
	require.NoError(t, err)
	ws.ActiveProjectID = "dangling"

	active, ok := ws.ActiveProject()
	require.True(t, ok)
	assert.Equal(t, DefaultProjectID, active.ID)
	assert.Equal(t, ProjectID("dangling"), ws.ActiveProjectID)
}

func TestActiveProjectOnEmptyWorkspace(t *testing.T) {
	t.Parallel()

	_, ok := Workspace{}.ActiveProject()
	assert.False(t, ok)
}

func TestSelectProject(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)
	ws, created, err := ws.CreateProject("second", testNow)
	require.NoError(t, err)

	next, err := ws.SelectProject(DefaultProjectID)
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectID, next.ActiveProjectID)

	_, err = ws.SelectProject("missing")
	require.ErrorIs(t, err, ErrProjectNotFound)
	assert.Equal(t, created.ID, ws.ActiveProjectID)
}

func TestSwitchTabClosesNavigationOnly(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow).ToggleNavigation()
	require.True(t, ws.NavigationOpen)

	next, err := ws.SwitchTab(TabDirector)
	require.NoError(t, err)
	assert.Equal(t, TabDirector, next.ActiveTab)
	assert.False(t, next.NavigationOpen)
	assert.Equal(t, ws.Projects, next.Projects)
	assert.Equal(t, ws.ActiveProjectID, next.ActiveProjectID)

	_, err = ws.SwitchTab(Tab("settings"))
	require.ErrorIs(t, err, ErrInvalidTab)
}

func TestFilesGeneratedResetsGeneratorAndSwitchesTab(t *testing.T) {
	t.Parallel()

	ws := NewWorkspace(testNow)
	failed := GeneratorState{
		Status:           AnalysisError,
		Files:            []ProcessingFile{{File: SourceFile{Name: "old.txt"}, Status: FileError}},
		Result:           &AnalysisResult{Summary: "stale"},
		Error:            "quota exceeded",
		CurrentFileIndex: 0,
	}
	ws, _ = ws.UpdateProject(DefaultProjectID, ProjectPatch{Generator: &failed})

	next, project, err := ws.FilesGenerated([]SourceFile{{Name: "a_part_01.txt"}, {Name: "a_part_02.txt"}})
	require.NoError(t, err)

	assert.Equal(t, TabGenerator, next.ActiveTab)
	assert.Equal(t, AnalysisIdle, project.Generator.Status)
	assert.Nil(t, project.Generator.Result)
	assert.Empty(t, project.Generator.Error)
	assert.Equal(t, NoFileIndex, project.Generator.CurrentFileIndex)
	require.Len(t, project.Generator.Files, 2)
	for _, file := range project.Generator.Files {
		assert.Equal(t, FilePending, file.Status)
	}
}
