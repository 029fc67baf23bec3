package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/events"
	"github.com/spec-kit/dashboard-gateway/internal/service"
)

// StartAuditWorker registers audit handlers and, when a webhook is
// configured, starts delivering forwarded events until ctx is done.
func StartAuditWorker(ctx context.Context, auditService *service.AuditService, webhook *WebhookForwarder) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
	if webhook != nil {
		go webhook.Run(ctx)
	}
}

// WebhookForwarder queues audit events and POSTs them as JSON to a webhook.
// A full queue drops events instead of blocking the request that produced them.
type WebhookForwarder struct {
	url     string
	timeout time.Duration
	queue   chan events.Event
	logger  *zap.Logger
}

// NewWebhookForwarder builds a forwarder with a queue of queueSize events.
func NewWebhookForwarder(url string, timeout time.Duration, queueSize int, logger *zap.Logger) *WebhookForwarder {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookForwarder{
		url:     url,
		timeout: timeout,
		queue:   make(chan events.Event, queueSize),
		logger:  logger,
	}
}

// Forward implements service.EventForwarder.
func (w *WebhookForwarder) Forward(event events.Event) bool {
	select {
	case w.queue <- event:
		return true
	default:
		return false
	}
}

// Run delivers queued events until ctx is done.
func (w *WebhookForwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.queue:
			if err := w.deliver(event); err != nil {
				w.logger.Warn("audit webhook delivery failed",
					zap.String("event", string(event.Type)),
					zap.Error(err))
			}
		}
	}
}

func (w *WebhookForwarder) deliver(event events.Event) error {
	agent := fiber.Post(w.url)
	agent.JSON(event)
	if w.timeout > 0 {
		agent.Timeout(w.timeout)
	}
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("audit webhook: %w", err)
	}
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("audit webhook: %w", errs[0])
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("audit webhook: unexpected status %d", status)
	}
	return nil
}
