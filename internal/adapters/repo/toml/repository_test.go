package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestRepository(t *testing.T, path string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set(WorkspacePathKey, path)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func sampleWorkspace(t *testing.T) domain.Workspace {
	t.Helper()

	workspace := domain.NewWorkspace(testNow)
	workspace, second, err := workspace.CreateProject("Sword Saint", testNow.Add(time.Minute))
	require.NoError(t, err)

	workspace, _, err = workspace.FilesGenerated([]domain.SourceFile{
		{Name: "novel_part_01.txt", Path: "/novels/novel_part_01.txt", Size: 1200},
		{Name: "novel_part_02.txt", Path: "/novels/novel_part_02.txt", Size: 800},
	})
	require.NoError(t, err)

	project, _ := workspace.Project(second.ID)
	generator, err := project.Generator.Start()
	require.NoError(t, err)
	generator, err = generator.BeginFile(0)
	require.NoError(t, err)
	generator, err = generator.CompleteFile(0)
	require.NoError(t, err)
	generator, err = generator.BeginFile(1)
	require.NoError(t, err)
	generator, err = generator.CompleteFile(1)
	require.NoError(t, err)
	generator, err = generator.Finish(domain.AnalysisResult{
		Summary:    "A swordsman returns.",
		Characters: []domain.CharacterProfile{{Name: "Ha-eun", Role: "lead", Appearance: "silver hair"}},
		Raw:        `{"summary":"A swordsman returns.","characters":[{"name":"Ha-eun"}]}`,
	})
	require.NoError(t, err)

	session := domain.DirectorSession{
		{ID: "b7c1", Role: domain.RoleUser, Content: "Write a \"greeting\"\nplease", CreatedAt: testNow.Add(2 * time.Minute)},
		{ID: "b7c2", Role: domain.RoleAssistant, Content: "**Hello**", CreatedAt: testNow.Add(3 * time.Minute)},
	}
	workspace, ok := workspace.UpdateProject(second.ID, domain.ProjectPatch{Generator: &generator, Director: &session})
	require.True(t, ok)

	workspace, err = workspace.SwitchTab(domain.TabDirector)
	require.NoError(t, err)
	return workspace.ToggleNavigation()
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "workspace.toml"))
	want := sampleWorkspace(t)

	require.NoError(t, repo.Save(context.Background(), want))

	got, ok, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRepositoryRoundTripFreshWorkspace(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "workspace.toml"))
	want := domain.NewWorkspace(testNow)

	require.NoError(t, repo.Save(context.Background(), want))

	got, ok, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRepositoryMissingFileReportsNotFound(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "workspace.toml"))

	_, ok, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepositorySaveCreatesDirectoryAndEnforcesPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "workspace.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.NewWorkspace(testNow)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(workspaceFileMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestRepositorySerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "workspace.toml")
	repo := newTestRepository(t, path)

	require.NoError(t, repo.Save(context.Background(), domain.NewWorkspace(testNow)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "active_tab = 'splitter'")
}

func TestRepositoryAppliesDefaultsToSparseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "workspace.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"active_project_id = 'p9'",
		"",
		"[[projects]]",
		"id = 'p9'",
		"name = 'Hand written'",
		"",
	}, "\n")), 0o600))

	got, ok, err := newTestRepository(t, path).Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, domain.TabSplitter, got.ActiveTab)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, domain.AnalysisIdle, got.Projects[0].Generator.Status)
	assert.Equal(t, domain.NoFileIndex, got.Projects[0].Generator.CurrentFileIndex)
	assert.Empty(t, got.Projects[0].Director)
}

func TestRepositoryAcceptsModelRoleAlias(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "workspace.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"version = 1",
		"active_project_id = 'p1'",
		"",
		"[[projects]]",
		"id = 'p1'",
		"name = 'Novel'",
		"",
		"[[projects.director]]",
		"id = 't1'",
		"role = 'model'",
		"content = 'hi'",
		"",
	}, "\n")), 0o600))

	got, _, err := newTestRepository(t, path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, got.Projects[0].Director[0].Role)
}

func TestRepositoryRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "tab", body: "active_tab = 'settings'\n", wantErr: "invalid tab"},
		{name: "status", body: "[[projects]]\nid = 'p1'\n[projects.generator]\nstatus = 'PAUSED'\n", wantErr: "unknown generator status"},
		{name: "role", body: "[[projects]]\nid = 'p1'\n[[projects.director]]\nrole = 'system'\n", wantErr: "unsupported chat role"},
		{name: "malformed", body: "projects = [", wantErr: "decode workspace file"},
		{name: "future version", body: "version = 999\n", wantErr: "unsupported workspace schema version"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "workspace.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o600))

			_, _, err := newTestRepository(t, path).Load(context.Background())
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "workspace.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, domain.NewWorkspace(testNow))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRepositoryConcurrentSavesAcrossInstancesNeverCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "workspace.toml")
	repoA := newTestRepository(t, path)
	repoB := newTestRepository(t, path)
	assert.Same(t, repoA.mu, repoB.mu)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*4)
	var wg sync.WaitGroup

	for _, repo := range []*Repository{repoA, repoB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := 0; i < perRepoWrites; i++ {
				workspace, _, err := domain.NewWorkspace(testNow).CreateProject("Novel", testNow.Add(time.Duration(i)*time.Millisecond))
				if err != nil {
					errCh <- err
					continue
				}
				errCh <- repo.Save(context.Background(), workspace)
				_, _, err = repo.Load(context.Background())
				errCh <- err
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	got, ok, err := repoA.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Projects, 2)
}

func TestRepositoryWatchNotifiesOnSave(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "workspace.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- repo.Watch(ctx, func() {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	assert.Eventually(t, func() bool {
		if err := repo.Save(context.Background(), domain.NewWorkspace(testNow)); err != nil {
			return false
		}
		select {
		case <-changed:
			return true
		case <-time.After(300 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
