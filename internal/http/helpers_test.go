package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"devicecover/internal/cache"
	"devicecover/internal/config"
	"devicecover/internal/events"
	applog "devicecover/internal/log"
	"devicecover/internal/repos"
	"devicecover/internal/server"
)

const adminToken = "s3cret-admin-token"

var (
	adminHashOnce sync.Once
	adminHash     string
)

func testAdminHash(t *testing.T) string {
	t.Helper()
	adminHashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
		require.NoError(t, err)
		adminHash = string(b)
	})
	return adminHash
}

type recordingPublisher struct {
	mu   sync.Mutex
	evts []events.QuoteIssued
}

func (p *recordingPublisher) PublishQuote(_ context.Context, evt events.QuoteIssued) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evts = append(p.evts, evt)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.evts)
}

type testApp struct {
	app *fiber.App
	db  *sqlx.DB
	pub *recordingPublisher
}

func newTestApp(t *testing.T, tweak func(*config.Config)) testApp {
	t.Helper()
	cfg := config.Config{
		DBDSN:          ":memory:",
		TemplatesDir:   "../../web/templates",
		QuoteCacheTTL:  3600,
		RateLimit:      600,
		AdminTokenHash: testAdminHash(t),
	}
	if tweak != nil {
		tweak(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pub := &recordingPublisher{}
	app := server.New(cfg, db, cache.NewMemoryCache(), pub, server.Options{})
	return testApp{app: app, db: db, pub: pub}
}

// captureLogs routes the process logger into an observer for the duration of fn.
func captureLogs(t *testing.T, fn func()) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := applog.SetLogger(zap.New(core))
	defer applog.SetLogger(prev)
	fn()
	return logs
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), "body=%s", body)
	return env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v), "data=%s", env.Data)
}
