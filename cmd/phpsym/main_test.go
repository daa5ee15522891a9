package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/goleak"

	"github.com/standardbeagle/phpsym/internal/config"
	"github.com/standardbeagle/phpsym/internal/debug"
	"github.com/standardbeagle/phpsym/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var projectDir = filepath.Join("testdata", "project")

// runApp runs the CLI in-process and returns stdout, stderr and the exit code
func runApp(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	exitCode := 0

	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(_ *cli.Context, err error) {
		if coder, ok := err.(cli.ExitCoder); ok {
			exitCode = coder.ExitCode()
		}
	}

	err := app.Run(append([]string{"phpsym"}, args...))
	if err != nil && exitCode == 0 {
		exitCode = 1
		stderr.WriteString(err.Error())
	}
	return stdout.String(), stderr.String(), exitCode
}

func TestIndexCommand(t *testing.T) {
	stdout, _, code := runApp(t, "index", filepath.Join(projectDir, "src", "Models", "User.php"))
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `App\Models\User`)
	assert.Contains(t, stdout, `App\Models\user_factory`)
	assert.Contains(t, stdout, "namespaces:       1")
}

func TestIndexCommand_JSON(t *testing.T) {
	stdout, _, code := runApp(t, "index", "--json", filepath.Join(projectDir, "src", "bootstrap.php"))
	require.Equal(t, 0, code)

	var report IndexReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Empty(t, report.Classes)
	assert.Equal(t, 1, report.ConstStatements)
	assert.Equal(t, 1, report.DefineCalls)
	assert.Len(t, report.Hash, 16)
}

func TestIndexCommand_Errors(t *testing.T) {
	_, stderr, code := runApp(t, "index")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "exactly one FILE")

	_, stderr, code = runApp(t, "index", filepath.Join(projectDir, "lib", "broken.php"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "syntax error")

	_, _, code = runApp(t, "index", filepath.Join(projectDir, "missing.php"))
	assert.Equal(t, 1, code)
}

func TestResolveCommand(t *testing.T) {
	file := filepath.Join(projectDir, "src", "Models", "User.php")

	stdout, _, code := runApp(t, "resolve", "--kind", "class", "--name", `\app\models\USER`, file)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, `class App\Models\User`)
	assert.Contains(t, stdout, "location: "+file+":5-11")

	stdout, _, code = runApp(t, "resolve", "-k", "fn", "-n", `App\Models\user_factory`, file)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "returns:  User")
}

func TestResolveCommand_NotFoundSuggests(t *testing.T) {
	file := filepath.Join(projectDir, "src", "Models", "User.php")

	stdout, _, code := runApp(t, "resolve", "--kind", "class", "--name", `App\Models\Usr`, file)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "not found")
	assert.Contains(t, stdout, "did you mean:")
	assert.Contains(t, stdout, `App\Models\User`)
}

func TestResolveCommand_JSON(t *testing.T) {
	file := filepath.Join(projectDir, "src", "bootstrap.php")

	stdout, _, code := runApp(t, "resolve", "--json", "--kind", "constant", "--name", "APP_ROOT", file)
	require.Equal(t, 0, code)

	var report struct {
		Found      bool           `json:"found"`
		Kind       string         `json:"kind"`
		Reflection map[string]any `json:"reflection"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.True(t, report.Found)
	assert.Equal(t, "constant", report.Kind)
	assert.Equal(t, "APP_ROOT", report.Reflection["name"])
	assert.Equal(t, "__DIR__", report.Reflection["value"])
}

func TestResolveCommand_InvalidKind(t *testing.T) {
	_, stderr, code := runApp(t, "resolve", "--kind", "method", "--name", "x", "file.php")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "method")
}

func TestScanCommand(t *testing.T) {
	stdout, stderr, code := runApp(t, "scan", "--kind", "class", "--name", `App\Models\User`, projectDir)
	require.Equal(t, 0, code)

	// vendor is excluded by the project config, broken.php is reported
	assert.Equal(t, filepath.Join(projectDir, "src", "Models", "User.php")+":5\n", stdout)
	assert.Contains(t, stderr, "1 files skipped")
	assert.Contains(t, stderr, "broken.php")
}

func TestScanCommand_FlagsOverrideConfig(t *testing.T) {
	noConfig := filepath.Join(t.TempDir(), "none.kdl")
	stdout, _, code := runApp(t, "--config", noConfig, "scan", "--kind", "class", "--name", `App\Models\User`,
		"--include", "vendor/**/*.php", "--workers", "1", projectDir)
	require.Equal(t, 0, code)
	assert.Equal(t, filepath.Join(projectDir, "vendor", "acme", "User.php")+":6\n", stdout)
}

func TestScanCommand_NoHits(t *testing.T) {
	stdout, _, code := runApp(t, "scan", "--kind", "function", "--name", "nowhere", projectDir)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
}

func TestScanCommand_InvalidPattern(t *testing.T) {
	_, stderr, code := runApp(t, "scan", "--kind", "class", "--name", "X", "--include", "[", projectDir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "scan.pattern")
}

func TestCollectFiles(t *testing.T) {
	scan := config.Default().Scan
	files, err := collectFiles(projectDir, scan)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(projectDir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{
		"lib/broken.php",
		"src/Models/User.php",
		"src/bootstrap.php",
		"vendor/acme/User.php",
	}, rel)
}

func TestScanFiles_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{filepath.Join(projectDir, "src", "bootstrap.php")}
	_, err := scanFiles(ctx, config.Default(), files, types.NewIdentifier(types.KindConstant, "APP_ROOT"), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVersionCommand(t *testing.T) {
	stdout, _, code := runApp(t, "version")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "phpsym ")
}

func TestDebugFlag(t *testing.T) {
	t.Cleanup(func() {
		debug.SetEnabled(false)
		debug.SetDebugOutput(nil)
	})

	_, stderr, code := runApp(t, "--debug", "index", filepath.Join(projectDir, "src", "bootstrap.php"))
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "[DEBUG:INDEX]")
}
