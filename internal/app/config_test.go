package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/CuongMinh72/bakery-sys/internal/inventory"
	"github.com/CuongMinh72/bakery-sys/internal/platform/lock"
	"github.com/CuongMinh72/bakery-sys/internal/store/filestore"
	"github.com/CuongMinh72/bakery-sys/internal/store/memory"
	"github.com/CuongMinh72/bakery-sys/internal/store/redisstore"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, StoreFile, cfg.StoreBackend)
	require.Equal(t, LockLocal, cfg.LockBackend)
	require.Equal(t, 30*time.Second, cfg.LockTTL)
	require.True(t, cfg.MarkupPct.Equal(decimal.RequireFromString("66.66")))
	require.True(t, cfg.SeedDefaults)
	require.Equal(t, inventory.PolicyStrict, cfg.Policy())
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("STOCK_POLICY", "permissive")
	t.Setenv("MARKUP_PCT", "50")
	t.Setenv("LOCK_WAIT", "250ms")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.True(t, cfg.NeedsRedis())
	require.Equal(t, inventory.PolicyPermissive, cfg.Policy())
	require.True(t, cfg.MarkupPct.Equal(decimal.NewFromInt(50)))
	require.Equal(t, 250*time.Millisecond, cfg.LockWait)
}

func TestLoadConfigRejectsUnknownValues(t *testing.T) {
	tests := map[string]string{
		"STORE_BACKEND": "mongo",
		"LOCK_BACKEND":  "etcd",
		"STOCK_POLICY":  "lenient",
		"MARKUP_PCT":    "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&Config{LogFormat: "json"}, &buf).Info("hello", slog.String("order_id", "ORD-1"))
	require.Contains(t, buf.String(), `"order_id":"ORD-1"`)

	buf.Reset()
	newLogger(nil, &buf).Info("hello")
	require.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	newLogger(&Config{AppEnv: "production", LogFormat: "pretty"}, &buf).Info("hello")
	require.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestRefreshTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	require.True(t, InTestMode())
	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	require.False(t, InTestMode())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenBackendsLocal(t *testing.T) {
	ctx := context.Background()
	b, err := OpenBackends(ctx, &Config{StoreBackend: StoreMemory, LockBackend: LockLocal}, discardLogger())
	require.NoError(t, err)
	defer b.Close()
	require.IsType(t, &memory.Adapter{}, b.Adapter)
	require.IsType(t, &lock.Local{}, b.Locker)
	require.False(t, b.Shared)

	b, err = OpenBackends(ctx, &Config{StoreBackend: StoreFile, DataDir: t.TempDir(), LockBackend: LockLocal}, discardLogger())
	require.NoError(t, err)
	defer b.Close()
	require.IsType(t, &filestore.Adapter{}, b.Adapter)
}

func TestOpenBackendsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &Config{
		StoreBackend: StoreRedis,
		LockBackend:  LockRedis,
		RedisAddr:    mr.Addr(),
		RedisPrefix:  "t:",
		LockTTL:      time.Second,
		LockWait:     50 * time.Millisecond,
	}
	b, err := OpenBackends(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer b.Close()
	require.IsType(t, &redisstore.Store{}, b.Adapter)
	require.True(t, b.Shared)

	release, err := b.Locker.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, mr.Exists("t:lock:state"))
	require.NoError(t, release(context.Background()))
}
