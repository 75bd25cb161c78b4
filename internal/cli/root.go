// Package cli 组装 smoke 的各个子命令
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"smoke_testing/internal/config"
)

// 进程退出码
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// ErrTestsFailed 表示有用例失败或运行被中止
var ErrTestsFailed = errors.New("测试失败")

// globalFlags 所有子命令共享的参数
type globalFlags struct {
	configPath string
	envFile    string
	verbose    bool
}

// NewRootCmd 创建根命令并挂载所有子命令
func NewRootCmd(stdout io.Writer) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "smoke",
		Short:         "报表平台冒烟测试",
		Long:          "smoke 对已部署的报表平台执行接口冒烟测试和前端浏览器巡检。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", config.DefaultPath, "配置文件路径")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, ".env 文件路径")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "输出每个请求的 curl 命令")

	cmd.AddCommand(newAPICmd(&flags))
	cmd.AddCommand(newFrontendCmd(&flags))
	cmd.AddCommand(newCasesCmd(&flags))
	return cmd
}

// Execute 运行命令行并返回退出码
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd(os.Stdout)
	return exitCode(cmd.ExecuteContext(ctx), os.Stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrTestsFailed):
		return ExitFailed
	default:
		logger := log.New(stderr, "smoke: ", 0)
		logger.Print(err)
		return ExitUsage
	}
}

func loadConfig(g *globalFlags, overrides config.FlagOverrides) (*config.Config, error) {
	overrides.Verbose = g.verbose
	cfg, err := config.Load(g.configPath, g.envFile, overrides)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	return cfg, nil
}
