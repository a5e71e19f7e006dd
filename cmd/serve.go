package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"thermal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve plant sessions to renderers over websocket.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := server.LoadConfig(path)
		if err != nil {
			log.WithError(err).Warn("using default configuration")
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if err := cfg.ApplyLogLevel(); err != nil {
			return err
		}

		upgrader := websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.NewServer(cfg, upgrader).Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("config", "conf/config.ini", "path of the ini configuration")
	serveCmd.Flags().String("addr", "", "listen address, overrides the configuration")
	rootCmd.AddCommand(serveCmd)
}
