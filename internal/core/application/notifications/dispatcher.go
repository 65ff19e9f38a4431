// Package notifications contains the fan-out dispatcher that carries
// domain events to their recipients over push and email.
package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Outcome is the result of one (recipient, channel) send attempt.
type Outcome string

const (
	// OutcomeSent means the channel accepted the message.
	OutcomeSent Outcome = "SENT"
	// OutcomeFailed means the send errored or timed out.
	OutcomeFailed Outcome = "FAILED"
	// OutcomeSkipped means the recipient has no address for the channel.
	OutcomeSkipped Outcome = "SKIPPED"
)

// Channel names the transport of one send attempt.
type Channel string

const (
	// ChannelPush is device push messaging.
	ChannelPush Channel = "push"
	// ChannelEmail is SMTP email.
	ChannelEmail Channel = "email"
)

// SendResult is one attempt in a dispatch report.
type SendResult struct {
	Role    notification.Role
	Channel Channel
	Outcome Outcome

	// Reason holds the failure detail for FAILED outcomes.
	Reason string
}

// Report is the complete outcome of one event dispatch. Results are in
// deterministic order: recipients as given, push before email per
// recipient.
type Report struct {
	EventType notification.EventType
	Results   []SendResult
}

// Failed reports whether any send attempt failed.
func (r Report) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Summary renders the report as a compact single line, suitable for a
// timeline note: "push:customer=SENT, email:shop=FAILED".
func (r Report) Summary() string {
	parts := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		parts = append(parts, fmt.Sprintf("%s:%s=%s", res.Channel, res.Role, res.Outcome))
	}
	return strings.Join(parts, ", ")
}

// Dispatcher fans one event out to every (recipient, channel) pair.
//
// Sends run concurrently, each under its own timeout. A failing channel
// never fails the dispatch: the failure lands in the report and the caller
// decides what to record. Dispatch itself returns no error.
type Dispatcher struct {
	push    ports.PushSender
	email   ports.EmailSender
	timeout time.Duration
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher with a per-send timeout.
func NewDispatcher(push ports.PushSender, email ports.EmailSender, timeout time.Duration, logger *slog.Logger) (*Dispatcher, error) {
	if push == nil {
		return nil, errs.NewValueIsRequiredError("push")
	}
	if email == nil {
		return nil, errs.NewValueIsRequiredError("email")
	}
	if timeout <= 0 {
		return nil, errs.NewValueIsRequiredError("timeout")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &Dispatcher{
		push:    push,
		email:   email,
		timeout: timeout,
		logger:  logger.With("component", "notification_dispatcher"),
	}, nil
}

// Dispatch sends the event to all recipients over all channels they have
// an address for. Blocks until every attempt finished or timed out.
func (d *Dispatcher) Dispatch(ctx context.Context, event notification.Event) Report {
	if event.Payload == nil {
		return Report{}
	}
	report := Report{EventType: event.Payload.Type()}

	// Two slots per recipient keep the report order deterministic while
	// the sends themselves run concurrently.
	results := make([]SendResult, 2*len(event.Recipients))
	g, gctx := errgroup.WithContext(ctx)

	for i, recipient := range event.Recipients {
		pushSlot, emailSlot := 2*i, 2*i+1
		recipient := recipient

		results[pushSlot] = SendResult{Role: recipient.Role, Channel: ChannelPush, Outcome: OutcomeSkipped}
		if recipient.PushTarget != "" {
			g.Go(func() error {
				results[pushSlot] = d.sendPush(gctx, recipient, event.Payload)
				return nil
			})
		}

		results[emailSlot] = SendResult{Role: recipient.Role, Channel: ChannelEmail, Outcome: OutcomeSkipped}
		if recipient.Email != "" {
			g.Go(func() error {
				results[emailSlot] = d.sendEmail(gctx, recipient, event.Payload)
				return nil
			})
		}
	}

	_ = g.Wait()

	report.Results = results
	return report
}

func (d *Dispatcher) sendPush(ctx context.Context, to notification.Recipient, payload notification.Payload) SendResult {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result := SendResult{Role: to.Role, Channel: ChannelPush, Outcome: OutcomeSent}
	if err := d.push.SendPush(sendCtx, to.PushTarget, payload); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		d.logger.WarnContext(ctx, "push send failed",
			"event", payload.Type().String(), "role", to.Role.String(), "error", err)
	}
	return result
}

func (d *Dispatcher) sendEmail(ctx context.Context, to notification.Recipient, payload notification.Payload) SendResult {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result := SendResult{Role: to.Role, Channel: ChannelEmail, Outcome: OutcomeSent}
	if err := d.email.SendEmail(sendCtx, to.Email, payload.EmailSubject(), payload.EmailHTML()); err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		d.logger.WarnContext(ctx, "email send failed",
			"event", payload.Type().String(), "role", to.Role.String(), "error", err)
	}
	return result
}
