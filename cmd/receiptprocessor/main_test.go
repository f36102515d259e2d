package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/buntdb"

	"receipt-processor/internal/config"
)

func TestRunStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipts.db")
	log, _ := test.NewNullLogger()
	cfg := config.Config{Addr: "127.0.0.1:0", DBPath: path, ShutdownTimeout: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, run(ctx, cfg, log))

	// the store file was created and released
	db, err := buntdb.Open(path)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestRunReturnsListenError(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := config.Config{Addr: "127.0.0.1:-1", DBPath: ":memory:", ShutdownTimeout: time.Second}

	err := run(context.Background(), cfg, log)
	assert.ErrorContains(t, err, "http server")
}

func TestRunReturnsDatabaseError(t *testing.T) {
	log, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "missing", "receipts.db")
	cfg := config.Config{Addr: "127.0.0.1:0", DBPath: path, ShutdownTimeout: time.Second}

	err := run(context.Background(), cfg, log)
	assert.ErrorContains(t, err, "open receipt database")
}
