package services

import (
	"time"

	"github.com/Art-Code2025/perfumes-sub001/internal/common"
	"github.com/Art-Code2025/perfumes-sub001/pkg/models"
	"github.com/Art-Code2025/perfumes-sub001/pkg/util"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

// WebhookNotifier pushes submitted orders to the fulfillment endpoint. It is
// strictly fire-and-forget: delivery failures are logged and counted, never
// surfaced to the buyer, and the breaker stops hammering a dead endpoint.
type WebhookNotifier struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	url     string
}

func NewWebhookNotifier() *WebhookNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fulfillment-webhook",
		MaxRequests: 3,
		Interval:    15 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			util.LogWarning("circuit breaker " + name + " moved from " + from.String() + " to " + to.String())
		},
	})

	return &WebhookNotifier{
		client:  client,
		breaker: breaker,
		url:     util.LoadEnvFor("FULFILLMENT_WEBHOOK_URL"),
	}
}

// NotifyOrderSubmitted posts the order to the fulfillment webhook. Safe to
// call from a goroutine; a missing URL disables delivery entirely.
func (n *WebhookNotifier) NotifyOrderSubmitted(order models.Order) {
	if common.IsEmptyString(n.url) {
		return
	}

	_, err := n.breaker.Execute(func() (any, error) {
		resp, err := n.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(order).
			Post(n.url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, errors.Errorf("fulfillment webhook returned status %d", resp.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		util.LogError("failed to deliver order "+order.Reference+" to fulfillment webhook", err)
	}
}
