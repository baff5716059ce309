package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/campsite-finder/internal/view"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show campsite details",
		Long:  "Show a campsite with its description and all comments.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cs, err := newAPIClient().GetCampsite(id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(cmd.OutOrStdout(), cs)
	}

	printDetail(cmd.OutOrStdout(), view.Render(view.Props{Campsite: cs}))
	return nil
}

// parseID parses a campsite ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid campsite ID: %s", arg)
	}
	return id, nil
}
