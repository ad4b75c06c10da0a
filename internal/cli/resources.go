package cli

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/learning-planner/internal/tutor/resources"
)

func newResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Extract classified resources from line-oriented search results",
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, _ := cmd.Flags().GetString("topic")
			text, err := readInput(cmd)
			if err != nil {
				return err
			}
			return printJSON(cmd, resources.Extract(text, topic))
		},
	}
	cmd.Flags().String("topic", "", "Learning topic")
	return cmd
}
