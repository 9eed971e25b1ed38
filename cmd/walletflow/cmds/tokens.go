package cmds

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *Cmd) tokensCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tokens [query]",
		Short: "list tokens, optionally filtered by name or symbol",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := c.loadTokens(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				matched := tokens[:0]
				for _, t := range tokens {
					if t.Matches(args[0]) {
						matched = append(matched, t)
					}
				}

				tokens = matched
			}

			if asJSON {
				return jsonPrint(cmd, tokens)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SYMBOL\tNAME\tBALANCE\tUSD")
			for _, t := range tokens {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Symbol, t.Name, t.Balance, t.USDValue.StringFixed(2))
			}

			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print json")
	return cmd
}
