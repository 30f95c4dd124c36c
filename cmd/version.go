/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/stylelint-provision/pkg/buildinfo"
	"github.com/fulmenhq/stylelint-provision/pkg/provision"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show stylelint-provision version",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("extended", false, "Show build details and provisioning defaults")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	version := buildinfo.Version()

	if jsonOutput {
		info := map[string]interface{}{
			"version":   version,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			info["moduleVersion"] = buildinfo.ModuleVersion()
			info["linterVersion"] = provision.DefaultLinterVersion
		}
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	_, _ = fmt.Fprintf(out, "stylelint-provision %s\n", version)
	if extended {
		_, _ = fmt.Fprintf(out, "Module version: %s\n", buildinfo.ModuleVersion())
		_, _ = fmt.Fprintf(out, "Default stylelint: %s\n", provision.DefaultLinterVersion)
		_, _ = fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		_, _ = fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	return nil
}
