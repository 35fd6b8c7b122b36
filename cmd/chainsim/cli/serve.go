package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tevinokafor/chainsim/internal/httpapi"
)

var (
	serveAddr          string
	serveCORSOrigin    string
	serveRatePerSecond float64
	serveRateBurst     int
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP run-trigger and NDJSON streaming API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&serveCORSOrigin, "cors-origin", "*", "allowed CORS origin")
	cmd.Flags().Float64Var(&serveRatePerSecond, "rate", 1, "allowed run submissions per second")
	cmd.Flags().IntVar(&serveRateBurst, "burst", 2, "run submission burst size")
	return cmd
}

func serve() error {
	srv := httpapi.NewServer(serveRatePerSecond, serveRateBurst, []string{serveCORSOrigin})

	if verbose {
		fmt.Printf("🚀 chainsim serving on %s\n", serveAddr)
	}

	if err := http.ListenAndServe(serveAddr, srv.Handler()); err != nil {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}
