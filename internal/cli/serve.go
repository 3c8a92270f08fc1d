package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/isotower/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve isomorphism queries over HTTP",
		Long: `Serve isomorphism queries over HTTP until interrupted.

  GET  /healthz
  POST /v1/isomorphic
  POST /v1/isomorphisms/count
  POST /v1/automorphisms/count

The [algorithm] settings are the defaults for every request. A request may
override them but cannot raise max_nodes or timeout above the server's.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.settings.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv, err := server.New(server.Options{
				Config: c.settings.Algorithm,
				Runner: runner,
				Logger: c.Logger,
				TTL:    c.ttl(),
			})
			if err != nil {
				return err
			}
			printInfo("Listening on http://%s", addr)
			printNextStep("Try", "curl http://"+addr+"/healthz")
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache answers")
	return cmd
}
