package warzish

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/usman-wf/warzish-sub000/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve day summaries, plan nutrition, goal status and targets as read-only JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" && cfg != nil {
			addr = cfg.APIAddr
		}
		loc, err := location()
		if err != nil {
			return err
		}
		gin.SetMode(gin.ReleaseMode)
		return withDB(func(sqldb *sql.DB) error {
			return serve(cmd.Context(), cmd, sqldb, addr, loc)
		})
	},
}

func serve(parent context.Context, cmd *cobra.Command, sqldb *sql.DB, addr string, loc *time.Location) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewHandler(sqldb, loc).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}
	logrus.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default api.addr)")
}
