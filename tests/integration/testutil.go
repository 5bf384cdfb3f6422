// Package integration provides CLI integration tests for typelayout.
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// typelayoutBin is the path to the built typelayout binary.
	typelayoutBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// cleanEnv returns os.Environ() with all TYPELAYOUT_* and XDG_* variables
// removed, providing a clean baseline for subprocess isolation.
func cleanEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "TYPELAYOUT_") || strings.HasPrefix(e, "XDG_") {
			continue
		}
		env = append(env, e)
	}
	return env
}

// TestEnv provides an isolated test environment with its own config and data directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
	// Env is appended to the cleaned process environment.
	Env []string
}

// NewTestEnv creates a new isolated test environment with a config.yaml
// selecting the sqlite backend.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build typelayout: %v", buildErr)
	}
	if typelayoutBin == "" {
		t.Fatal("typelayout binary not built (typelayoutBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "backend: sqlite\ndata_dir: " + dataDir + "\ncolor: false\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a typelayout command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the typelayout CLI with the given arguments.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()
	return e.RunWithInput("", args...)
}

// RunWithInput executes the typelayout CLI feeding input on stdin.
func (e *TestEnv) RunWithInput(input string, args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config}, args...)
	cmd := exec.Command(typelayoutBin, allArgs...)
	cmd.Env = append(cleanEnv(), e.Env...)
	cmd.Stdin = strings.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run typelayout: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes the typelayout CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("typelayout %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Layout mirrors one per-policy layout in describe --json output.
type Layout struct {
	Size      uint64 `json:"size"`
	Alignment uint64 `json:"alignment"`
	Wasted    uint64 `json:"wasted"`
}

// Report represents describe --json output.
type Report struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	Members        []string `json:"members"`
	Unpacked       Layout   `json:"unpacked"`
	Packed         Layout   `json:"packed"`
	Optimized      Layout   `json:"optimized"`
	OptimizedOrder []string `json:"optimized_order"`
}

// DefinitionRecord represents one line of definitions.jsonl.
type DefinitionRecord struct {
	DefinitionID string   `json:"definition_id"`
	Kind         string   `json:"kind"`
	Name         string   `json:"name"`
	Members      []string `json:"members"`
}

// ReadJSONLFile reads a JSONL file (one JSON object per line) and returns a slice.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open JSONL file %s: %v", path, err)
	}
	defer f.Close()

	var results []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("failed to parse JSONL line in %s: %v", path, err)
		}
		results = append(results, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan JSONL file %s: %v", path, err)
	}
	return results
}
