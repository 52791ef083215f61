package main

import (
	"github.com/chris/growthcoach/internal/service"
	"github.com/spf13/cobra"
)

func newServiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the launchd agent that keeps `coach run` alive (macOS)",
	}
	actions := []struct {
		use, short string
		fn         func(*service.Service) error
	}{
		{"install", "Install the binary and load the launchd agent", (*service.Service).Install},
		{"uninstall", "Unload the agent and remove the binary", (*service.Service).Uninstall},
		{"start", "Start the agent", (*service.Service).Start},
		{"stop", "Stop the agent", (*service.Service).Stop},
		{"status", "Show whether the agent is loaded", (*service.Service).Status},
		{"logs", "Follow the agent's logs", (*service.Service).Logs},
	}
	for _, a := range actions {
		a := a
		cmd.AddCommand(&cobra.Command{
			Use:   a.use,
			Short: a.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.fn(service.Default())
			},
		})
	}
	return cmd
}
