package main

import (
	"github.com/spf13/cobra"

	"github.com/mogaika/disc_patcher/web"
)

func NewServeCmd() *cobra.Command {
	var input, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web inspector for disc",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := openInput(input)
			if err != nil {
				return err
			}
			return web.StartServer(addr, in)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "disc image or extracted disc directory")
	cmd.Flags().StringVar(&addr, "addr", ":8000", "address of server")
	return cmd
}
