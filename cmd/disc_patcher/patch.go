package main

import (
	"github.com/spf13/cobra"

	"github.com/mogaika/disc_patcher/config"
	"github.com/mogaika/disc_patcher/patches"
	"github.com/mogaika/disc_patcher/status"
	"github.com/mogaika/disc_patcher/vfs"
)

func NewPatchCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Apply patch config to disc",
		Long: `Reads disc from --input (image or extracted directory), applies
config and writes patched extracted tree into empty --output directory.
Flags override values from config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return runPatch(cfg)
		},
	}

	// only changed flags override config, defaults here are for help output
	def := config.Default()
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "patch config yaml")
	f.StringP("input", "i", "", "disc image or extracted disc directory")
	f.StringP("output", "o", "", "output directory, must be empty")
	f.String("externAssetsDir", "", "directory with extern models and substituted files")
	f.String("layerOverflow", def.LayerOverflow, "what to do when room has no free layer: redirect or reject")
	f.String("encoding", def.Encoding, "text encoding of game strings")
	f.String("startingVisor", "", "visor selected on new game")
	f.Int("startingMissiles", 0, "missiles on new game")
	f.String("startingMemo", "", "message shown in starting room")
	return cmd
}

func runPatch(cfg *config.PatchConfig) error {
	in, err := openInput(cfg.Input)
	if err != nil {
		return err
	}
	out, err := vfs.NewOutputDirectoryDriver(cfg.Output)
	if err != nil {
		return err
	}
	if err := patches.Patch(cfg, in, out); err != nil {
		status.Error("Patching failed: %v", err)
		return err
	}
	status.Info("Done, patched disc written to '%s'", cfg.Output)
	return nil
}
