package cli

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"smoke_testing/internal/config"
)

func newCasesCmd(g *globalFlags) *cobra.Command {
	var overrides config.FlagOverrides

	cmd := &cobra.Command{
		Use:   "cases",
		Short: "列出将要执行的接口用例，不发送请求",
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

			width := 0
			for _, c := range cases {
				width = max(width, runewidth.StringWidth(c.Name))
			}

			out := cmd.OutOrStdout()
			for i, c := range cases {
				check := ""
				if !c.ExpectSuccess {
					check = " (不校验success)"
				}
				fmt.Fprintf(out, "%2d. %s  %-4s %s%s\n", i+1, runewidth.FillRight(c.Name, width), c.Method, c.URL, check)
			}
			return nil
		},
	}
	bindSuiteFlags(cmd.Flags(), &overrides)
	return cmd
}
