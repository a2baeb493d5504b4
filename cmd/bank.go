package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studybuddy/internal/bank"
	"github.com/abhisek/studybuddy/internal/topic"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and validate the question bank",
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate question bank JSON files",
	Long:  "Validate checks every JSON file in dir against the bank schema and the cross-question rules (unique IDs, known topics, answers present). Without a dir it checks the built-in bank.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, label, err := bankFor(args)
		if err != nil {
			return err
		}
		fmt.Printf("%s: OK (%d questions across %d topics)\n", label, b.Len(), len(b.Topics()))
		return nil
	},
}

var bankStatsCmd = &cobra.Command{
	Use:   "stats [dir]",
	Short: "Show question counts by topic and difficulty",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, label, err := bankFor(args)
		if err != nil {
			return err
		}

		levels := topic.AllDifficulties()

		fmt.Println(label)
		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%-20s", "Topic")
		for _, d := range levels {
			fmt.Printf("  %12s", d)
		}
		fmt.Printf("  %6s\n", "Total")
		fmt.Println(strings.Repeat("─", 64))

		totals := make([]int, len(levels))
		for _, tp := range b.Topics() {
			fmt.Printf("%-20s", tp.DisplayName())
			for i, d := range levels {
				n := b.CellCount(tp, d)
				totals[i] += n
				fmt.Printf("  %12d", n)
			}
			fmt.Printf("  %6d\n", b.TopicCount(tp))
		}

		fmt.Println(strings.Repeat("─", 64))
		fmt.Printf("%-20s", "TOTAL")
		for _, n := range totals {
			fmt.Printf("  %12d", n)
		}
		fmt.Printf("  %6d\n", b.Len())
		return nil
	},
}

// bankFor loads the bank named by the optional dir argument.
func bankFor(args []string) (*bank.Bank, string, error) {
	if len(args) == 0 {
		return bank.Default(), "built-in bank", nil
	}
	b, err := bank.LoadDir(args[0])
	if err != nil {
		return nil, "", err
	}
	return b, args[0], nil
}

func init() {
	bankCmd.AddCommand(bankValidateCmd)
	bankCmd.AddCommand(bankStatsCmd)
}
