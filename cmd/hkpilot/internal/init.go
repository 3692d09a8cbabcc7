package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperk/hkpilot/pkgs/deps"
	"github.com/hyperk/hkpilot/pkgs/env"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Initialize a dependency declaration file",
	Long:  `Init creates an empty dependencies.json next to the build descriptor.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	addTargetFlags(initCmd)
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	e, err := env.Resolve(nil)
	if err != nil {
		return err
	}
	t, err := loadTarget(cmd, e)
	if err != nil {
		return err
	}
	dir := t.DescriptorDir()
	path := filepath.Join(dir, deps.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	name := t.Name
	if len(args) > 0 {
		name = args[0]
	}
	f := &deps.File{
		Name:         name,
		Dependencies: map[string]deps.Dependency{},
	}

	data, err := json.MarshalIndent(f, "", "\t")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", deps.FileName, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", deps.FileName, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s for %s\n", path, name)
	return nil
}
