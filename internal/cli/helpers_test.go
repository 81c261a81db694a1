package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-segment/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// mockConfigLoader - injectable config for CLI tests
// ---------------------------------------------------------------------------

// mockConfigLoader implements ConfigLoader with an optional override.
// The zero value loads an empty config.
type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

var _ ConfigLoader = (*mockConfigLoader)(nil)

// configWith returns a ConfigLoader that always returns cfg.
func configWith(cfg config.Config) *mockConfigLoader {
	return &mockConfigLoader{
		LoadFunc: func() (config.Config, error) {
			return cfg, nil
		},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	now    func() time.Time
	config *mockConfigLoader
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStdout(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stdout = w }
}

func withTestStderr(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stderr = w }
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

func withTestConfig(loader *mockConfigLoader) testEnvOption {
	return func(o *testEnvOptions) { o.config = loader }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the config loader mock for assertions.
func testEnv(opts ...testEnvOption) (*Env, *mockConfigLoader) {
	options := &testEnvOptions{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		getenv: staticEnv(nil),
		now: func() time.Time {
			return time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)
		},
		config: &mockConfigLoader{},
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdout:       options.stdout,
		Stderr:       options.stderr,
		Getenv:       options.getenv,
		Now:          options.now,
		ConfigLoader: options.config,
	}

	return env, options.config
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// createTestInputFile creates a temporary text file for testing.
// Returns the file path. The file is automatically cleaned up after the test.
func createTestInputFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test input file: %v", err)
	}
	return path
}

// neverChanged reports every flag as unset.
func neverChanged(string) bool { return false }

// changedOnly reports the given flags as explicitly set.
func changedOnly(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

// executeCommand runs cmd with args under a background context, discarding
// cobra's own output streams. Command output still goes through Env.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	return executeCommandContext(t, context.Background(), cmd, args...)
}

// executeCommandContext is executeCommand with a caller-supplied context.
func executeCommandContext(t *testing.T, ctx context.Context, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
