package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	require.NoError(t, writeWorkspaceFixture(home))

	input := filepath.Join(t.TempDir(), "novel.txt")
	require.NoError(t, os.WriteFile(input, []byte("Chapter 1\n\nThe knight woke."), 0o600))

	_, stderr, err := runNPMK(t, binaryPath, home, "files", "split", input)
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runNPMK(t, binaryPath, home, "status", "--files")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Moonlit Knight (1772357400000)")
	assert.Contains(t, stdout, "novel_part_01.txt")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "npmk-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/npmk")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build npmk binary: %s", string(output))
	return binaryPath
}

func runNPMK(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home, "NPMK_SECRETS_BACKEND=file")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func writeWorkspaceFixture(home string) error {
	configDir := filepath.Join(home, ".novelpia")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	workspace := `version = 1
active_project_id = "1772357400000"
active_tab = "splitter"

[[projects]]
id = "1772357400000"
name = "Moonlit Knight"
created_at = "2026-03-01T09:30:00Z"

[projects.generator]
status = "IDLE"
current_file_index = -1
`

	return os.WriteFile(filepath.Join(configDir, "workspace.toml"), []byte(workspace), 0o600)
}
