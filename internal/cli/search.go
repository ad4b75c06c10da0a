package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/learning-planner/internal/tutor/searchgate"
)

type shouldSearchOutput struct {
	ShouldSearch bool   `json:"should_search"`
	Vocabulary   string `json:"vocabulary,omitempty"`
}

func newShouldSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "should-search [message]",
		Short: "Report whether a learner message would trigger a web search",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, _ := cmd.Flags().GetString("topic")
			var msg string
			if len(args) == 1 {
				msg = args[0]
			} else {
				in, err := readInput(cmd)
				if err != nil {
					return err
				}
				msg = strings.TrimSpace(in)
			}
			v := searchgate.Decide(msg, topic)
			return printJSON(cmd, shouldSearchOutput{ShouldSearch: v != searchgate.VocabularyNone, Vocabulary: string(v)})
		},
	}
	cmd.Flags().String("topic", "", "Learning topic (does not change the decision)")
	return cmd
}
