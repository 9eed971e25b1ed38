package cmds

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/pandodao/walletflow/controller/scan"
	"github.com/pandodao/walletflow/core"
	"github.com/spf13/cobra"
)

func (c *Cmd) scanCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "scan a code, payloads are read line by line from stdin",
		Long: `scan opens the camera and classifies every decoded payload read from stdin,
for example "zbarcam --raw | walletflow scan". The lines "flash" and "manual"
toggle the torch and leave for manual entry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := scan.ParseMode(mode)
			if err != nil {
				return err
			}

			session := scan.New(c.Camera, c.Logger, c.Recorder, c.ScanConfig)
			defer session.Stop()

			go func() {
				for e := range session.Events() {
					c.Logger.Debug("scan event", "kind", e.Kind, "state", e.State)
				}
			}()

			if err := session.Start(ctx, m); err != nil {
				cmd.PrintErrln(core.Message(err))
				return err
			}

			cmd.PrintErrf("scanning for %s codes\n", m)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())

				switch line {
				case "":
					continue
				case "flash":
					if err := session.ToggleFlash(ctx); err != nil {
						cmd.PrintErrln(core.Message(err))
						continue
					}

					cmd.PrintErrf("flash on: %v\n", session.Snapshot().FlashOn)
					continue
				case "manual":
					return printRoute(cmd, session.Manual())
				}

				route, err := session.OnDecode(line)
				if err != nil {
					cmd.PrintErrln(core.Message(err))
					continue
				}

				return printRoute(cmd, route)
			}

			if err := scanner.Err(); err != nil {
				return err
			}

			return errors.New("input closed before a code was accepted")
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(scan.ModeAddress), "scan mode: address or payment")
	return cmd
}

func printRoute(cmd *cobra.Command, route *core.Route) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), route.Path())
	return err
}
