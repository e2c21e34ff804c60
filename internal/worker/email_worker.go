package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stain603/industrial-inventory-manager/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJob is the payload of a QueueEmail job.
type EmailJob struct {
	To             []string `json:"to"`
	Subject        string   `json:"subject"`
	Body           string   `json:"body"`
	AttachmentPath string   `json:"attachment_path,omitempty"`
}

// EmailWorker delivers EmailJobs through SMTP behind a circuit breaker.
type EmailWorker struct {
	sender  infra.Sender
	breaker *infra.Breaker
}

func NewEmailWorker(sender infra.Sender, breaker *infra.Breaker) *EmailWorker {
	return &EmailWorker{sender: sender, breaker: breaker}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		// retrying will not fix a malformed payload
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if len(job.To) == 0 {
		log.Warn().Str("subject", job.Subject).Msg("email_worker: no recipients, skipping")
		return nil
	}

	err := w.breaker.Do(func() error {
		return w.sender.Send(job.To, job.Subject, job.Body, job.AttachmentPath)
	})
	if errors.Is(err, infra.ErrBreakerOpen) {
		return fmt.Errorf("email_worker: smtp unavailable: %w", err)
	}
	if err != nil {
		return fmt.Errorf("email_worker: send: %w", err)
	}
	log.Info().Strs("to", job.To).Str("subject", job.Subject).Msg("email_worker: sent")
	return nil
}
