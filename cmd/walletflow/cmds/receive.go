package cmds

import (
	"fmt"

	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/service/payment"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

func (c *Cmd) receiveCmd() *cobra.Command {
	var req core.PaymentRequest

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "print a payment request code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if checksum, ok := core.ChecksumAddress(req.Address); ok {
				req.Address = checksum
			}

			payload, err := payment.Encode(&req)
			if err != nil {
				return err
			}

			code, err := qrcode.New(payload, qrcode.Medium)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, code.ToSmallString(false))
			fmt.Fprintln(out, payload)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Address, "address", "", "receiving address")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "requested amount")
	cmd.Flags().StringVar(&req.Token, "token", "", "token symbol")
	return cmd
}
