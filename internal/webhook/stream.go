package webhook

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterStream mounts GET /health/queue/stream, pushing a queue/worker
// snapshot once a second, adapting the teacher's ui/websocket upgrade
// guard + per-connection write loop to push telemetry instead of chat
// presence events (spec §1 SPEC_FULL "Supplemented features").
func (r *Router) RegisterStream(app *fiber.App) {
	app.Use("/health/queue/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})

	app.Get("/health/queue/stream", websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for range ticker.C {
			snap := r.stats.Snapshot()
			high, normal := r.queue.LaneLens()
			payload := map[string]any{
				"queue_size":   r.queue.Len(),
				"high_size":    high,
				"normal_size":  normal,
				"workers":      r.pool.Statuses(),
				"total_updates": snap.TotalUpdates,
			}
			b, err := json.Marshal(payload)
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		}
	}))
}

// RegisterMetrics mounts GET /metrics, exposing the Prometheus registry
// built alongside the stats collector (spec §3 domain stack).
func RegisterMetrics(app *fiber.App, reg *prometheus.Registry) {
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	app.Get("/metrics", adaptor.HTTPHandler(handler))
}
