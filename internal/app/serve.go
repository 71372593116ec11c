package app

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ditherit/ditherit/configs"
	"github.com/ditherit/ditherit/internal/dithering"
	"github.com/ditherit/ditherit/internal/server"
)

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveHost, "host", "H", "", "server host")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "server port")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("host") {
			configs.Config.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			configs.Config.Server.Port = servePort
		}

		// The configured defaults must be usable before accepting requests
		if _, err := configs.Pipeline(); err != nil {
			return err
		}

		s := server.New("/")
		dithering.Routes(s)

		log.WithFields(log.Fields{
			"host":      configs.Config.Server.Host,
			"port":      configs.Config.Server.Port,
			"algorithm": configs.Config.Dither.Algorithm,
		}).Info("Starting server")

		if err := s.ListenAndServe(cmd.Context()); err != nil {
			return err
		}
		log.Info("Bye!")
		return nil
	},
}
