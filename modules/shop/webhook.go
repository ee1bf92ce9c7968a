package shop

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/Vinnie-Palazeti/fast-polar/pkg/logger"
)

// maxWebhookBody bounds the raw payload read for signature verification.
const maxWebhookBody = 1 << 20

// handleWebhook gates inbound billing events on their signature. Verification
// runs over the raw body exactly as received. Events are acknowledged and
// logged, never processed: the entitlement view re-reads provider state on
// every render, so there is nothing to apply here.
func (m *Module) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	event, err := m.verifier.Verify(body, r.Header)
	if err != nil {
		m.log.WarnContext(ctx, "webhook rejected", logger.Error(err))
		w.WriteHeader(http.StatusForbidden)
		return
	}

	m.log.InfoContext(ctx, "webhook accepted",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)
	w.WriteHeader(http.StatusAccepted)
}
