package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubikabot/ingestcore/internal/dedup"
	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/queue"
	"github.com/rubikabot/ingestcore/internal/ratelimit"
	"github.com/rubikabot/ingestcore/internal/stats"
	"github.com/rubikabot/ingestcore/internal/workerpool"
)

func newTestRouter(t *testing.T, secret string) (*fiber.App, *Router) {
	t.Helper()
	ingress := ratelimit.NewIngressLimiter(100, time.Minute)
	d := dedup.New(time.Minute)
	t.Cleanup(d.Close)
	q := queue.New(10, queue.PolicyReject, d)
	collector := stats.New()
	pool := workerpool.New(0, q, func(domain.Job) error { return nil }, collector, logrus.New())
	r := New(secret, ingress, q, collector, pool, 10, logrus.New())

	app := fiber.New()
	app.Use(Recovery())
	r.Register(app)
	return app, r
}

func TestHandleUpdate_AcceptsValidRequest(t *testing.T) {
	app, _ := newTestRouter(t, "")
	body := []byte(`{"update_id":"1","message":{"message_id":"m1","chat":{"id":"c1"},"sender":{"id":"u1"},"text":"hi"}}`)
	req := httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandleUpdate_RejectsInvalidJSON(t *testing.T) {
	app, _ := newTestRouter(t, "")
	req := httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader([]byte("not-json")))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleUpdate_RejectsBadSignature(t *testing.T) {
	app, _ := newTestRouter(t, "secret")
	body := []byte(`{"update_id":"1"}`)
	req := httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader(body))
	req.Header.Set("X-Rubika-Signature", "deadbeef")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleUpdate_AcceptsValidSignature(t *testing.T) {
	app, _ := newTestRouter(t, "secret")
	body := []byte(`{"update_id":"1"}`)

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader(body))
	req.Header.Set("X-Rubika-Signature", sig)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandleUpdate_DuplicateIncrementsDedupedStat(t *testing.T) {
	app, r := newTestRouter(t, "")
	body := []byte(`{"update_id":"1","message":{"message_id":"m1","chat":{"id":"c1"},"sender":{"id":"u1"},"text":"hi"}}`)

	resp1, err := app.Test(httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader(body)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp1.StatusCode)

	resp2, err := app.Test(httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader(body)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp2.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&payload))
	assert.Equal(t, true, payload["deduped"])
	assert.Equal(t, int64(1), r.stats.Snapshot().TotalDeduped)
}

func TestHandleUpdate_DropOldestEvictionIncrementsDroppedStat(t *testing.T) {
	ingress := ratelimit.NewIngressLimiter(100, time.Minute)
	d := dedup.New(time.Minute)
	t.Cleanup(d.Close)
	q := queue.New(1, queue.PolicyDropOldest, d)
	collector := stats.New()
	pool := workerpool.New(0, q, func(domain.Job) error { return nil }, collector, logrus.New())
	r := New("", ingress, q, collector, pool, 1, logrus.New())

	app := fiber.New()
	app.Use(Recovery())
	r.Register(app)

	body1 := []byte(`{"update_id":"1","message":{"message_id":"m1","chat":{"id":"c1"},"sender":{"id":"u1"},"text":"hi"}}`)
	body2 := []byte(`{"update_id":"2","message":{"message_id":"m2","chat":{"id":"c1"},"sender":{"id":"u1"},"text":"hi"}}`)

	resp1, err := app.Test(httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader(body1)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp1.StatusCode)

	resp2, err := app.Test(httptest.NewRequest("POST", "/receiveUpdate", bytes.NewReader(body2)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp2.StatusCode)

	snap := collector.Snapshot()
	assert.Equal(t, int64(1), snap.TotalDropped)
	assert.Equal(t, int64(2), snap.TotalEnqueued)
}

func TestHandleHealth_ReturnsOk(t *testing.T) {
	app, _ := newTestRouter(t, "")
	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
