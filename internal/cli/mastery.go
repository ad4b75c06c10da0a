package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/learning-planner/internal/tutor/mastery"
	"github.com/yungbote/learning-planner/internal/types"
)

type masteryOutput struct {
	Depth    int                 `json:"depth"`
	Concepts []string            `json:"concepts"`
	Scores   types.ConceptScores `json:"scores"`
}

func newMasteryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mastery",
		Short: "Apply one conversation turn to a concept score table",
		Long:  "Applies one question/response turn to the scores given by --scores. The response is read from --response, or from stdin/--file when the flag is empty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			question, _ := cmd.Flags().GetString("question")
			response, _ := cmd.Flags().GetString("response")
			topic, _ := cmd.Flags().GetString("topic")
			rawScores, _ := cmd.Flags().GetString("scores")

			if response == "" {
				in, err := readInput(cmd)
				if err != nil {
					return err
				}
				response = in
			}
			current := types.ConceptScores{}
			if rawScores != "" {
				if err := json.Unmarshal([]byte(rawScores), &current); err != nil {
					return fmt.Errorf("--scores must be a JSON object of concept to score: %w", err)
				}
			}

			concepts := mastery.ExtractConcepts(question+" "+response, topic)
			names := make([]string, 0, len(concepts))
			for _, c := range concepts {
				names = append(names, c.Name)
			}
			return printJSON(cmd, masteryOutput{
				Depth:    mastery.ConversationDepth(question, response),
				Concepts: names,
				Scores:   mastery.Update(types.ConversationTurn{Question: question, Response: response, Topic: topic}, current),
			})
		},
	}
	cmd.Flags().String("question", "", "Learner question")
	cmd.Flags().String("response", "", "Tutor response (defaults to input)")
	cmd.Flags().String("topic", "", "Learning topic")
	cmd.Flags().String("scores", "", `Current scores as JSON, e.g. {"python":10}`)
	return cmd
}
