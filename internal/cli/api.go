package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"smoke_testing/internal/config"
	"smoke_testing/internal/model"
	"smoke_testing/internal/reporter"
	"smoke_testing/internal/runner"
	"smoke_testing/internal/suite"
)

func newAPICmd(g *globalFlags) *cobra.Command {
	var overrides config.FlagOverrides

	cmd := &cobra.Command{
		Use:   "api",
		Short: "接口冒烟测试",
		Long:  "按顺序请求每个接口用例，第一个用例为健康检查，失败时直接退出。",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, overrides)
			if err != nil {
				return err
			}
			cases, err := loadCases(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rep := reporter.New(out, reporter.ThemeFor(out), cfg.Verbose)
			rep.Banner("🧪 鲸选报表平台 - API 测试")
			rep.AlignNames(caseNames(cases))

			run := runner.New(cfg, rep).RunAll(cmd.Context(), cases)
			rep.Summary(run)
			if !run.OK() {
				return ErrTestsFailed
			}
			return nil
		},
	}
	bindSuiteFlags(cmd.Flags(), &overrides)
	cmd.Flags().DurationVar(&overrides.Timeout, "timeout", 0, "单个请求超时时间（默认 10s）")
	return cmd
}

func bindSuiteFlags(fs *pflag.FlagSet, o *config.FlagOverrides) {
	fs.StringVar(&o.BaseURL, "base-url", "", "后端地址（默认 http://localhost:4000）")
	fs.StringVar(&o.APIPrefix, "api-prefix", "", "接口前缀（默认 /api/v1）")
	fs.StringVar(&o.SuitePath, "suite", "", "用例文件（.xlsx/.yaml），不指定时使用内置用例")
	fs.StringVar(&o.SheetName, "sheet", "", "Excel 工作表名称")
	fs.IntVar(&o.HeaderRow, "header-row", 0, "Excel 表头行数")
}

func loadCases(cfg *config.Config) ([]model.TestCase, error) {
	if cfg.SuitePath == "" {
		return suite.Default(cfg.APIBase()), nil
	}
	cases, err := suite.Load(cfg.SuitePath, cfg.SheetName, cfg.HeaderRow, cfg.APIBase())
	if err != nil {
		return nil, fmt.Errorf("加载用例失败: %w", err)
	}
	return cases, nil
}

func caseNames(cases []model.TestCase) []string {
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	return names
}
