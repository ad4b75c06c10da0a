package cli

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/learning-planner/internal/tutor/codeblock"
	"github.com/yungbote/learning-planner/internal/types"
)

type extractionOutput struct {
	Text   string            `json:"text"`
	Blocks []types.CodeBlock `json:"blocks"`
}

func newCodeBlocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codeblocks",
		Short: "Extract fenced code blocks into placeholders",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd)
			if err != nil {
				return err
			}
			if process, _ := cmd.Flags().GetBool("process"); process {
				return printJSON(cmd, codeblock.Process(raw))
			}
			ex := codeblock.Extract(raw)
			return printJSON(cmd, extractionOutput{Text: ex.Text, Blocks: ex.Blocks})
		},
	}
	cmd.Flags().Bool("process", false, "Print the processed answer (blocks reinstated) instead of the placeholder text")
	return cmd
}
