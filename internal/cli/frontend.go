package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"smoke_testing/internal/config"
	"smoke_testing/internal/frontend"
	"smoke_testing/internal/reporter"
)

type frontendFlags struct {
	skipPreflight bool
	install       bool
	headed        bool
}

// newFrontendCmd 的 launcher 为 nil 时使用 playwright
func newFrontendCmd(g *globalFlags) *cobra.Command {
	return frontendCmd(g, nil)
}

func frontendCmd(g *globalFlags, launcher frontend.Launcher) *cobra.Command {
	var (
		overrides config.FlagOverrides
		flags     frontendFlags
	)

	cmd := &cobra.Command{
		Use:   "frontend",
		Short: "前端浏览器巡检",
		Long:  "用无头浏览器访问首页、菜单、订单查询和报表中心，保存截图并检查控制台错误。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, overrides)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.ScreenshotDir, 0o755); err != nil {
				return fmt.Errorf("创建截图目录失败: %w", err)
			}
			if flags.install {
				if err := frontend.InstallBrowsers(); err != nil {
					return err
				}
			}

			l := launcher
			if l == nil {
				l = frontend.PlaywrightLauncher{Headless: !flags.headed}
			}

			out := cmd.OutOrStdout()
			rep := reporter.New(out, reporter.ThemeFor(out), cfg.Verbose).WithAbortNotice(reporter.FrontendAbortNotice)
			rep.Banner("🧪 鲸选自助报表平台 - 前端测试")

			w := frontend.NewWalker(cfg, l, rep)
			if !flags.skipPreflight {
				w.WithPreflight()
			}
			run := w.Run(cmd.Context())
			rep.Summary(run)
			if !run.Aborted {
				fmt.Fprintf(out, "截图已保存到：%s\n", strings.Join(frontend.Screenshots(cfg), ", "))
			}

			if !run.OK() {
				return ErrTestsFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&overrides.FrontendURL, "url", "", "前端地址（默认 http://localhost:3000）")
	cmd.Flags().StringVar(&overrides.ScreenshotDir, "screenshot-dir", "", "截图目录（默认 /tmp）")
	cmd.Flags().BoolVar(&flags.skipPreflight, "skip-preflight", false, "跳过启动浏览器前的页面检查")
	cmd.Flags().BoolVar(&flags.install, "install-browsers", false, "运行前安装 chromium")
	cmd.Flags().BoolVar(&flags.headed, "headed", false, "显示浏览器窗口")
	return cmd
}
