package cmds

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/pandodao/walletflow/controller/send"
	"github.com/pandodao/walletflow/core"
	"github.com/spf13/cobra"
)

func (c *Cmd) sendCmd() *cobra.Command {
	var (
		route core.Route
		path  string
		memo  string
		all   bool
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "validate and submit a transfer",
		Long: `send fills the send form from flags or from a route printed by scan
(--route "/send?recipient=..."), asks for confirmation and submits it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if path != "" {
				r, err := parseRoute(path)
				if err != nil {
					return err
				}

				route = mergeRoute(*r, route)
			}

			route.Target = core.RouteSend

			tokens, err := c.loadTokens(ctx)
			if err != nil {
				return err
			}

			ctrl := send.New(c.Transferz, c.Logger, c.Recorder, c.SendConfig)
			defer ctrl.Close()

			if err := ctrl.Prefill(&route, tokens); err != nil {
				return err
			}

			if err := ctrl.SetMemo(memo); err != nil {
				return err
			}

			if all {
				if err := ctrl.SetMax(); err != nil {
					return err
				}
			}

			in := bufio.NewScanner(cmd.InOrStdin())

			for {
				result, err := ctrl.RequestSend()
				if errors.Is(err, send.ErrInvalidForm) {
					printErrors(cmd, result)
					return err
				} else if err != nil {
					return err
				}

				printSummary(cmd, ctrl)

				if !yes && !ask(cmd, in, "Confirm? [y/N] ") {
					return ctrl.CancelConfirmation()
				}

				receipt, err := ctrl.Confirm(ctx)
				if err == nil {
					return jsonPrint(cmd, receipt)
				}

				cmd.PrintErrln(core.Message(err))
				if err := ctrl.Acknowledge(); err != nil {
					return err
				}

				if yes || !ask(cmd, in, "Retry? [y/N] ") {
					return err
				}
			}
		},
	}

	cmd.Flags().StringVar(&route.Recipient, "to", "", "recipient address")
	cmd.Flags().StringVar(&route.Amount, "amount", "", "amount to send")
	cmd.Flags().StringVar(&route.Token, "token", "", "token symbol")
	cmd.Flags().StringVar(&path, "route", "", "route printed by scan")
	cmd.Flags().StringVar(&memo, "memo", "", "memo")
	cmd.Flags().BoolVar(&all, "max", false, "send the whole balance")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func parseRoute(path string) (*core.Route, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, err
	}

	if u.Path != "/send" {
		return nil, fmt.Errorf("route %s does not lead to send", path)
	}

	q := u.Query()
	return &core.Route{
		Target:    core.RouteSend,
		Recipient: q.Get("recipient"),
		Amount:    q.Get("amount"),
		Token:     q.Get("token"),
	}, nil
}

// mergeRoute fills the blanks of flags with the route values.
func mergeRoute(r, flags core.Route) core.Route {
	if flags.Recipient != "" {
		r.Recipient = flags.Recipient
	}

	if flags.Amount != "" {
		r.Amount = flags.Amount
	}

	if flags.Token != "" {
		r.Token = flags.Token
	}

	return r
}

func printErrors(cmd *cobra.Command, result send.Result) {
	msgs := result.Messages()

	fields := make([]string, 0, len(msgs))
	for field := range msgs {
		fields = append(fields, string(field))
	}

	sort.Strings(fields)
	for _, field := range fields {
		cmd.PrintErrf("%s: %s\n", field, msgs[send.Field(field)])
	}
}

func printSummary(cmd *cobra.Command, ctrl *send.Controller) {
	v := ctrl.Snapshot()

	line := fmt.Sprintf("Send %s %s to %s", v.Pending.Amount, v.Pending.Token, core.ShortAddress(v.Pending.Recipient))
	if usd, ok := ctrl.Estimate(); ok && usd.IsPositive() {
		line += fmt.Sprintf(" (~$%s)", usd.StringFixed(2))
	}

	if v.Pending.Memo != "" {
		line += fmt.Sprintf(" memo %q", v.Pending.Memo)
	}

	cmd.PrintErrln(line)
}

func ask(cmd *cobra.Command, in *bufio.Scanner, prompt string) bool {
	cmd.PrintErr(prompt)
	if !in.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}
