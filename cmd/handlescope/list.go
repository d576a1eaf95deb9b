package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"handlescope/internal/evidence"
	"handlescope/internal/loader"
	"handlescope/internal/runner"
)

func newPlatformsCmd(f *flags, stdout io.Writer) *cobra.Command {
	var export bool
	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "List the platforms that are probed",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			platforms, err := loadPlatforms(cfg)
			if err != nil {
				return err
			}

			if export {
				data, err := loader.ExportYAML(platforms)
				if err != nil {
					return err
				}
				_, err = stdout.Write(data)
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(stdout)
			t.SetStyle(table.StyleLight)
			t.Style().Format.Footer = text.FormatDefault
			t.AppendHeader(table.Row{"#", "Platform", "Kind", "URL"})
			for i, p := range platforms.Platforms() {
				t.AppendRow(table.Row{i + 1, p.Label, p.ProbeKind(), p.URL})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d platforms", platforms.Len()), "", ""})
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, "print the table as a platforms YAML file")
	return cmd
}

func newToolsCmd(f *flags, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Show which external tools and browsers are installed",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Tool", "Installed", "Enabled", "Path"})
			for _, info := range newToolRegistry(cfg, "", zap.NewNop()).ListAdapters() {
				t.AppendRow(table.Row{info.Name, yesNo(info.Available), yesNo(info.Enabled && cfg.Tools.Enabled), info.Path})
			}

			t.AppendSeparator()
			found := runner.Detect(runner.NewExec(), evidence.Browsers...)
			for _, name := range evidence.Browsers {
				path, ok := found[name]
				t.AppendRow(table.Row{name, yesNo(ok), yesNo(ok && cfg.Screenshots.Enabled), path})
			}
			t.Render()
			return nil
		},
	}
}

func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unexpected arguments: %v", args)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
