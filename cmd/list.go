package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scourlabs/scour/internal/core"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show loaded cleaners and their options",
	Long: `List the cleaners loaded from the rule document directory, one line
per option, in 'cleaner.option' form as accepted by clean and preview.

Options whose rules do not apply to this machine are hidden unless
--all is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup()
		if err != nil {
			return err
		}
		defer s.Close()

		if s.reg.Len() == 0 {
			fmt.Printf("No cleaners loaded from %s\n", s.cfg.CleanersDir)
			return nil
		}

		tags := core.Tags()
		for _, c := range s.reg.List(!listAll) {
			fmt.Println(paint(styleTitle, c.ID) + paint(styleMuted, "  "+c.Label))
			for i := range c.Options {
				o := &c.Options[i]
				if !listAll && !o.Applies(tags) {
					continue
				}
				line := fmt.Sprintf("  %s.%s", c.ID, o.ID)
				if o.Label != "" {
					line += paint(styleMuted, "  "+o.Label)
				}
				if listAll && !o.Applies(tags) {
					line += paint(styleWarn, "  (not for this system)")
				}
				fmt.Println(line)
			}
		}

		if errs := s.reg.LoadErrors(); len(errs) > 0 {
			fmt.Println()
			for _, e := range errs {
				fmt.Println(paint(styleWarn, fmt.Sprintf("skipped: %v", e)))
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include cleaners and options for other systems")
}
