package internal

import (
	"fmt"
	"sort"

	"github.com/hyperk/hkpilot/pkgs/env"
	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the workspace settings",
	Long:  `Env prints the workspace root and system identifier, and the folders used for the package.`,
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

func init() {
	addTargetFlags(envCmd)
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	e, err := env.Resolve(nil)
	if err != nil {
		return err
	}
	t, err := loadTarget(cmd, e)
	if err != nil {
		return err
	}

	vars := e.Vars()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := cmd.OutOrStdout()
	for _, k := range keys {
		fmt.Fprintf(out, "%s=%q\n", k, vars[k])
	}
	fmt.Fprintf(out, "PACKAGE=%q\n", t.Name)
	fmt.Fprintf(out, "BUILD_DIR=%q\n", t.BuildDir)
	fmt.Fprintf(out, "INSTALL_DIR=%q\n", t.InstallDir)
	return nil
}
