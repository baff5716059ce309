package cli

import (
	"github.com/spf13/cobra"

	"github.com/evcraddock/campsite-finder/internal/client"
)

func newListCmd() *cobra.Command {
	var featured bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all campsites",
		Long:  "List the campsite directory, optionally only featured campsites.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, featured)
		},
	}

	cmd.Flags().BoolVar(&featured, "featured", false, "only show featured campsites")

	return cmd
}

func runList(cmd *cobra.Command, featured bool) error {
	campsites, err := newAPIClient().ListCampsites(client.ListOptions{FeaturedOnly: featured})
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), campsites)
	}

	return printCampsiteTable(cmd.OutOrStdout(), campsites)
}
