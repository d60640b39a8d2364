package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/disc_patcher/status"
	"github.com/mogaika/disc_patcher/vfs"
)

var quiet bool

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "disc_patcher",
		Short:         "Randomizer patcher for extracted game discs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			status.Quiet = quiet
		},
	}
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "do not log status messages")

	cmd.AddCommand(NewPatchCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewReplaceCmd())
	return cmd
}

// openInput opens disc image file or extracted disc directory
func openInput(path string) (vfs.Directory, error) {
	if path == "" {
		return nil, errors.Errorf("Input is not set")
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open input")
	}
	if st.IsDir() {
		return vfs.NewDirectoryDriver(path), nil
	}
	return vfs.OpenIso(path)
}
