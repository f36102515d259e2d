package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"

	"receipt-processor/api"
	"receipt-processor/internal/config"
	"receipt-processor/internal/receipt"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file to load before reading the environment")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.WithError(err).Fatal("receipt processor failed")
	}
	log.Info("receipt processor stopped")
}

// run serves the receipt API until ctx is done or the listener fails, then
// shuts the server down and closes the store.
func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	// in memory database unless RECEIPTS_DB_PATH names a file
	db, err := buntdb.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open receipt database %q: %w", cfg.DBPath, err)
	}

	repo, err := receipt.NewBuntDBReceiptRepository(db, log)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("init receipt repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("close receipt database")
		}
	}()

	// mux route handler
	handler := mux.NewRouter()

	// Receipt API /receipts
	receiptApi := api.NewReceiptApi(repo, log)
	receiptApi.InitializeRoutes(handler)

	server := &http.Server{Addr: cfg.Addr, Handler: handler}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("receipt processor listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
