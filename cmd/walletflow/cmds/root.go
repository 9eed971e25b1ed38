package cmds

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/pandodao/walletflow/controller/scan"
	"github.com/pandodao/walletflow/controller/send"
	"github.com/pandodao/walletflow/core"
	"github.com/pandodao/walletflow/metrics"
	"github.com/pandodao/walletflow/worker/syncer"
	"github.com/spf13/cobra"
)

type Cmd struct {
	Tokens     core.TokenStore
	Syncer     *syncer.Syncer
	Camera     core.Camera
	Transferz  core.TransferService
	Recorder   metrics.Recorder
	Logger     *slog.Logger
	ScanConfig scan.Config
	SendConfig send.Config
	Server     *http.Server
}

func (c *Cmd) Run(ctx context.Context, args []string) error {
	root := &cobra.Command{
		Use:           "walletflow",
		Short:         "scan and send flows of the wallet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(c.scanCmd())
	root.AddCommand(c.sendCmd())
	root.AddCommand(c.tokensCmd())
	root.AddCommand(c.receiveCmd())
	root.AddCommand(c.serveCmd())

	root.SetArgs(args)
	root.SetIn(os.Stdin)
	root.SetOut(os.Stdout)

	return root.ExecuteContext(ctx)
}

// loadTokens fills the token snapshot once for one-shot commands.
func (c *Cmd) loadTokens(ctx context.Context) ([]*core.TokenRef, error) {
	if err := c.Syncer.Sync(ctx); err != nil {
		return nil, err
	}

	return c.Tokens.List(ctx)
}

func jsonPrint(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
