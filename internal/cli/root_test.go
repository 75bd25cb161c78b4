package cli

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smoke_testing/internal/frontend"
)

func init() {
	// 测试输出不带颜色
	os.Setenv("NO_COLOR", "1")
}

// execute 运行命令，返回输出和退出码
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	dir := t.TempDir()
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.json"),
		"--env-file", filepath.Join(dir, ".env"),
	}, args...))
	code := exitCode(cmd.Execute(), &stderr)
	return stdout.String() + stderr.String(), code
}

func backend(t *testing.T, failing string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch {
		case r.URL.Path == "/api/v1/health":
			_, _ = io.WriteString(w, `{"status": "ok"}`)
		case failing != "" && strings.HasPrefix(r.URL.Path, failing):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = io.WriteString(w, `{"success": true, "data": {"items": [1, 2]}}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestAPICommandAllPass(t *testing.T) {
	srv, hits := backend(t, "")

	out, code := execute(t, NewRootCmd(io.Discard), "api", "--base-url", srv.URL)

	assert.Equal(t, ExitOK, code, out)
	assert.Equal(t, int32(15), hits.Load())
	assert.Contains(t, out, "通过：15")
	assert.Contains(t, out, "所有测试通过")
}

func TestAPICommandFailureExitsNonZero(t *testing.T) {
	srv, _ := backend(t, "/api/v1/reports/coupon")

	out, code := execute(t, NewRootCmd(io.Discard), "api", "--base-url", srv.URL)

	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, out, "HTTP 500")
	assert.Contains(t, out, "失败：1")
}

func TestAPICommandUnreachableBackendAborts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out, code := execute(t, NewRootCmd(io.Discard), "api", "--base-url", url)

	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, out, "后端未运行，退出测试")
	assert.Contains(t, out, "通过：0")
	assert.Contains(t, out, "失败：1")
}

func TestAPICommandYAMLSuite(t *testing.T) {
	srv, hits := backend(t, "")
	suitePath := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(suitePath, []byte(`
cases:
  - name: health
    path: /health
  - name: mall-user
    path: /reports/mall-user/query
    body: {date: "2026-02-26"}
    expect: .data.items | length == 2
`), 0o644))

	out, code := execute(t, NewRootCmd(io.Discard), "api", "--base-url", srv.URL, "--suite", suitePath)

	assert.Equal(t, ExitOK, code, out)
	assert.Equal(t, int32(2), hits.Load())
}

func TestAPICommandBadSuiteIsUsageError(t *testing.T) {
	out, code := execute(t, NewRootCmd(io.Discard), "api", "--suite", "cases.csv")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, out, "加载用例失败")
}

func TestCasesCommandListsWithoutRequests(t *testing.T) {
	srv, hits := backend(t, "")

	out, code := execute(t, NewRootCmd(io.Discard), "cases", "--base-url", srv.URL)

	assert.Equal(t, ExitOK, code)
	assert.Zero(t, hits.Load())
	assert.Contains(t, out, srv.URL+"/api/v1/health")
	assert.Contains(t, out, "导出任务列表")
	assert.Equal(t, 15, strings.Count(out, "\n"))
}

type stubLauncher struct{ err error }

func (s stubLauncher) Launch() (frontend.Page, func() error, error) {
	return nil, nil, s.err
}

func TestFrontendCommandLaunchFailure(t *testing.T) {
	g := &globalFlags{}
	root := &cobra.Command{Use: "smoke", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", "", "")
	root.AddCommand(frontendCmd(g, stubLauncher{err: errors.New("no chromium")}))

	out, code := execute(t, root, "frontend", "--skip-preflight", "--screenshot-dir", t.TempDir())

	assert.Equal(t, ExitFailed, code)
	assert.Contains(t, out, "前端未就绪，退出测试")
	assert.NotContains(t, out, "截图已保存到")
}

func TestExitCode(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, ExitOK, exitCode(nil, &buf))
	assert.Equal(t, ExitFailed, exitCode(ErrTestsFailed, &buf))
	assert.Empty(t, buf.String())
	assert.Equal(t, ExitUsage, exitCode(errors.New("bad flag"), &buf))
	assert.Contains(t, buf.String(), "smoke: bad flag")
}
