// Package webhook implements the HTTP surface from spec §4.11 and §6:
// the two inbound update endpoints, health/queue observability, and the
// manual drain trigger, built on the teacher's fiber router and recovery
// middleware idiom (ui/rest/app.go, ui/rest/middleware/recovery.go).
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rubikabot/ingestcore/internal/domain"
	"github.com/rubikabot/ingestcore/internal/queue"
	"github.com/rubikabot/ingestcore/internal/ratelimit"
	"github.com/rubikabot/ingestcore/internal/stats"
	"github.com/rubikabot/ingestcore/internal/workerpool"
	pkgerror "github.com/rubikabot/ingestcore/pkg/error"
)

// highPriorityCommands classifies a job high-priority regardless of link
// content (spec §4.11 step 7).
var highPriorityCommands = map[string]bool{
	"ban": true, "unban": true, "del": true, "antilink": true,
	"filter": true, "settings": true, "admins": true, "setcmd": true, "panel": true,
}

// Router wires the two inbound endpoints plus observability endpoints.
type Router struct {
	secret  string
	ingress *ratelimit.IngressLimiter
	queue   *queue.Queue
	stats   *stats.Collector
	pool    *workerpool.Pool
	maxSize int
	log     *logrus.Entry
}

// New builds a Router. secret may be empty, in which case signature
// verification is skipped (spec §4.11 step 2).
func New(secret string, ingress *ratelimit.IngressLimiter, q *queue.Queue, collector *stats.Collector, pool *workerpool.Pool, maxSize int, log *logrus.Logger) *Router {
	return &Router{
		secret:  secret,
		ingress: ingress,
		queue:   q,
		stats:   collector,
		pool:    pool,
		maxSize: maxSize,
		log:     log.WithField("component", "WEBHOOK"),
	}
}

// Register mounts every route onto app.
func (r *Router) Register(app *fiber.App) {
	app.Post("/receiveUpdate", r.handleUpdate)
	app.Post("/receiveInlineMessage", r.handleUpdate)
	app.Get("/health", r.handleHealth)
	app.Get("/health/queue", r.handleHealthQueue)
	app.Post("/health/queue/drain", r.handleDrain)
}

func (r *Router) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (r *Router) handleUpdate(c *fiber.Ctx) error {
	body := c.Body()

	if r.secret != "" {
		sig := c.Get("X-Rubika-Signature")
		if !verifySignature(body, r.secret, sig) {
			panic(pkgerror.UnauthorizedError("signature mismatch"))
		}
	}

	// Every inbound chat is treated as one bucket for ingress admission
	// (spec §4.2 "not per-client; guards the bot process as a whole").
	if !r.ingress.Allow("global") {
		panic(pkgerror.TooManyRequestsError("ingress rate limit exceeded"))
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		panic(pkgerror.BadRequestError("invalid JSON body"))
	}

	job := buildJob(payload)
	r.stats.RecordUpdate()

	switch r.queue.Enqueue(job) {
	case queue.Deduped:
		r.stats.RecordDeduped()
		return c.JSON(fiber.Map{"ok": true, "deduped": true})
	case queue.Rejected:
		r.stats.RecordDropped()
		panic(pkgerror.QueueFullError("queue is full"))
	case queue.DroppedOldest:
		r.stats.RecordDropped()
		r.stats.RecordEnqueued(r.queue.Len())
		return c.JSON(fiber.Map{"ok": true})
	default:
		r.stats.RecordEnqueued(r.queue.Len())
		return c.JSON(fiber.Map{"ok": true})
	}
}

func (r *Router) handleHealthQueue(c *fiber.Ctx) error {
	snap := r.stats.Snapshot()
	high, normal := r.queue.LaneLens()
	return c.JSON(fiber.Map{
		"queue": fiber.Map{
			"size":           r.queue.Len(),
			"high_size":      high,
			"normal_size":    normal,
			"max_size":       r.maxSize,
			"total_enqueued": snap.TotalEnqueued,
			"total_dropped":  snap.TotalDropped,
			"total_deduped":  snap.TotalDeduped,
		},
		"workers": r.pool.Statuses(),
		"stats": fiber.Map{
			"total_updates":   snap.TotalUpdates,
			"total_errors":    snap.TotalErrors,
			"avg_dispatch_ms": snap.AverageDispatchMs(),
			"last_dispatch_ms": snap.LastDispatchMs,
		},
	})
}

func (r *Router) handleDrain(c *fiber.Ctx) error {
	// Reports whatever was already queued across both lanes at the moment
	// of the call (spec §6 POST /health/queue/drain); stop is pre-closed so
	// Dequeue never blocks past what is currently present.
	high, normal := 0, 0
	stop := make(chan struct{})
	close(stop)
	for {
		job, ok := r.queue.Dequeue(stop)
		if !ok {
			break
		}
		if job.Priority == domain.PriorityHigh {
			high++
		} else {
			normal++
		}
	}
	return c.JSON(fiber.Map{"drained": fiber.Map{"high": high, "normal": normal}})
}

func verifySignature(body []byte, secret, sigHex string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	decoded, err := hex.DecodeString(sigHex)
	if err != nil {
		return false
	}
	expectedBytes, _ := hex.DecodeString(expected)
	return hmac.Equal(decoded, expectedBytes)
}

// buildJob extracts the fields spec §4.11 step 5-7 name and classifies
// priority and dedup key.
func buildJob(payload map[string]any) domain.Job {
	message, _ := firstNonNilMap(payload, "message", "data", "inline_message")

	chatID := stringField(message, "chat", "id")
	chatType := stringField(message, "chat", "type")
	chatTitle := stringField(message, "chat", "title")
	messageID := stringField(message, "", "message_id")
	senderID := stringField(message, "sender", "id")
	text, _ := message["text"].(string)
	updateType, _ := payload["type"].(string)
	buttonID, _ := message["button_id"].(string)

	isCallback := updateType == "callback_query" || message["callback_query"] != nil
	callbackData := ""
	if cq, ok := message["callback_query"].(map[string]any); ok {
		callbackData, _ = cq["data"].(string)
	}

	jobID := firstNonEmpty(
		stringTop(payload, "update_id"),
		stringTop(payload, "message_id"),
		messageID,
	)
	if jobID == "" {
		jobID = uuid.NewString()
	}

	dedupKey := dedupKeyFor(chatID, messageID, updateType, buttonID, jobID)
	priority := classifyPriority(text)

	return domain.Job{
		JobID:        jobID,
		ReceivedAt:   time.Now().UTC(),
		ChatID:       chatID,
		ChatType:     chatType,
		ChatTitle:    chatTitle,
		MessageID:    messageID,
		SenderID:     senderID,
		UpdateType:   updateType,
		Text:         text,
		ButtonID:     buttonID,
		IsCallback:   isCallback,
		CallbackData: callbackData,
		RawPayload:   payload,
		DedupKey:     dedupKey,
		Priority:     priority,
	}
}

func dedupKeyFor(chatID, messageID, updateType, buttonID, jobID string) string {
	if chatID == "" && messageID == "" {
		return jobID
	}
	key := chatID + ":" + messageID + ":" + updateType
	if buttonID != "" {
		key += ":" + buttonID
	}
	return key
}

func classifyPriority(text string) domain.Priority {
	name, _, ok := firstCommandToken(text)
	if ok && highPriorityCommands[name] {
		return domain.PriorityHigh
	}
	lower := containsAny(text, "http", "t.me", "rubika.ir")
	if lower {
		return domain.PriorityHigh
	}
	return domain.PriorityNormal
}
