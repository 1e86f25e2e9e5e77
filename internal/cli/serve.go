package cli

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve finished backtest results over a websocket for dashboards",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			output := NewOutput(cmd)

			mux := http.NewServeMux()
			mux.HandleFunc("/results", func(w http.ResponseWriter, r *http.Request) {
				if err := app.Hub.ServeWS(w, r); err != nil {
					app.Logger.Warn().Err(err).Msg("websocket connection closed")
				}
			})

			output.Info("Serving results on ws://%s/results — run `run`/`compare` from another terminal to publish", addr)
			return http.ListenAndServe(addr, mux)
		},
	}
	cmd.Flags().String("addr", "localhost:8765", "address to listen on")
	return cmd
}
