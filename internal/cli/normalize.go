package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yungbote/learning-planner/internal/tutor/normalize"
)

var errUnparseable = errors.New("no normalizer stage could parse the input")

type normalizeOutput struct {
	OK    bool   `json:"ok"`
	Stage string `json:"stage"`
	Value any    `json:"value"`
}

func newNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Run raw model output through the normalizer ladder",
		RunE: func(cmd *cobra.Command, args []string) error {
			hint, _ := cmd.Flags().GetString("hint")
			raw, err := readInput(cmd)
			if err != nil {
				return err
			}
			res, ok := normalize.Normalize(raw, hint)
			if err := printJSON(cmd, normalizeOutput{OK: ok, Stage: string(res.Stage), Value: res.Value}); err != nil {
				return err
			}
			if !ok {
				return errUnparseable
			}
			return nil
		},
	}
	cmd.Flags().String("hint", "", "Schema hint, e.g. flashcards or roadmap")
	return cmd
}
