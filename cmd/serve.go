package cmd

import (
	"fmt"

	"venue-cli/api"
	"venue-cli/web"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func serveCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.Config.Web.Addr
			}
			if a.Config.Environment == "production" {
				gin.SetMode(gin.ReleaseMode)
			}
			client := api.NewClient(a.Config.APIBaseURL, nil)
			client.HTTP.Timeout = a.Config.Timeout()
			client.Logger = a.Logger

			server := web.NewServer(client, web.Options{
				Logger:       a.Logger,
				Guard:        a.Guard,
				SecureCookie: a.Config.Web.SecureCookie,
				Now:          a.Now,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving on %s\n", addr)
			return server.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: $VENUE_WEB_ADDR or :3000)")
	return cmd
}
