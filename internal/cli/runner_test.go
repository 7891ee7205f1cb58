package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/noctua/internal/cli"
	"github.com/oxhq/noctua/internal/render"
	"github.com/oxhq/noctua/internal/store"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeReportsErrorWhenNoFixturesMatch(t *testing.T) {
	dir := t.TempDir()
	r := &cli.Runner{}

	_, code := r.Analyze(dir, "")
	assert.Equal(t, 1, code)
}

func TestAnalyzeSucceedsOnEmptyStmtList(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "empty.nunit.json", `{"kind": "stmt-list"}`)

	r := &cli.Runner{}
	results, code := r.Analyze(dir, "")

	require.Equal(t, 0, code)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, 0, results[0].Diagnostic)
}

func TestAnalyzeFailsOnInvalidFixture(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "bad.nunit.json", `{"kind": "not-a-kind"}`)

	r := &cli.Runner{}
	results, code := r.Analyze(dir, "")

	require.Equal(t, 1, code)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, string(cli.ECFixtureParse), results[0].ErrorCode)
}

// TestAnalyzeInstallsParameterDefaultThroughFixturePath guards against a
// regression where fixture-loaded nodes never pass through the arena's
// NewNode registration: a parameter symbol's Node back-reference would
// then resolve to coreid.NoNode, defaultFor would read it back as nil,
// and a call omitting the defaulted argument would be misreported as
// "missing argument" instead of having the default installed.
func TestAnalyzeInstallsParameterDefaultThroughFixturePath(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "defaults.nunit.json", `{
		"kind": "stmt-list",
		"kids": [
			{
				"kind": "proc-def",
				"kids": [
					{"kind": "ident", "ident": "f"},
					{
						"kind": "formal-params",
						"kids": [
							{"kind": "ident-defs", "kids": [
								{"kind": "ident", "ident": "x"},
								{"kind": "ident", "ident": "int"},
								null
							]},
							{"kind": "ident-defs", "kids": [
								{"kind": "ident", "ident": "y"},
								{"kind": "ident", "ident": "int"},
								{"kind": "int32-lit", "intVal": 5}
							]}
						]
					},
					null,
					null
				]
			},
			{
				"kind": "call",
				"kids": [
					{"kind": "ident", "ident": "f"},
					{"kind": "int32-lit", "intVal": 3}
				]
			}
		]
	}`)

	r := &cli.Runner{StdoutMode: true}
	results, code := r.Analyze(dir, "")

	require.Equal(t, 0, code)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, "call omitting a defaulted argument must not be rejected")
	assert.Equal(t, 0, results[0].Diagnostic)
	assert.Contains(t, results[0].Rendered, "5", "the installed default value should appear in the rendered call")
}

func TestAnalyzeSucceedsWhenStoreConfigured(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "empty.nunit.json", `{"kind": "stmt-list"}`)

	db, err := store.Open(filepath.Join(dir, "cache.db"), false)
	require.NoError(t, err)

	r := &cli.Runner{Store: store.New(db)}
	_, code := r.Analyze(dir, "")
	assert.Equal(t, 0, code)
}

func TestRenderWritesSourceForEmptyStmtList(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "empty.nunit.json", `{"kind": "stmt-list"}`)

	r := &cli.Runner{}
	var buf bytes.Buffer
	require.NoError(t, r.Render(path, render.FlagNone, &buf))
	assert.Equal(t, "", buf.String())
}

func TestRenderHonoursConfiguredRenderWidth(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "call.nunit.json", `{
		"kind": "call",
		"kids": [
			{"kind": "ident", "ident": "f"},
			{"kind": "ident", "ident": "alpha"},
			{"kind": "ident", "ident": "beta"},
			{"kind": "ident", "ident": "gamma"}
		]
	}`)

	var wide bytes.Buffer
	require.NoError(t, (&cli.Runner{}).Render(path, render.FlagNone, &wide))
	assert.NotContains(t, wide.String(), "\n")

	var narrow bytes.Buffer
	require.NoError(t, (&cli.Runner{RenderWidth: 10}).Render(path, render.FlagNone, &narrow))
	assert.Contains(t, narrow.String(), "\n")
}

func TestRenderReturnsErrorForInvalidFixture(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "bad.nunit.json", `{"kind": "not-a-kind"}`)

	r := &cli.Runner{}
	var buf bytes.Buffer
	err := r.Render(path, render.FlagNone, &buf)
	assert.Error(t, err)
}

func TestCLIErrorJSONRoundTrips(t *testing.T) {
	err := cli.CLIError{Code: cli.ECAnalysis, Message: "boom", Detail: "inner"}
	assert.Contains(t, err.JSON(), "ERR_ANALYSIS")
	assert.Equal(t, "boom: inner", err.Error())
}

func TestWrapBuildsCLIErrorWithDetail(t *testing.T) {
	err := cli.Wrap(cli.ECStore, "saving cache", assert.AnError)
	var ce cli.CLIError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, cli.ECStore, ce.Code)
}
