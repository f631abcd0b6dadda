package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var ChannelStorefront = "STOREFRONT_EVENTS"

type MessageType string

const (
	CartCountChanged MessageType = "cart.count.changed"
	WishlistUpdated  MessageType = "wishlist.updated"

	CacheInvalidateProduct    MessageType = "product.invalidate"
	CacheInvalidateCategories MessageType = "categories.invalidate"
	CacheInvalidateZones      MessageType = "shipping.zones.invalidate"
)

type Message struct {
	Type      MessageType `json:"type"`
	Payload   string      `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Publisher fans storefront change events out to Redis pub/sub so other
// processes (and open tabs polling through them) can react without polling
// the stores themselves.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, messageType MessageType, payload string) error {
	msg := Message{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}

	messageJSON, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal event message: %v", err)
		return err
	}

	err = p.client.Publish(ctx, ChannelStorefront, string(messageJSON)).Err()
	if err != nil {
		log.Printf("Failed to publish event message: %v", err)
		return err
	}

	return nil
}
