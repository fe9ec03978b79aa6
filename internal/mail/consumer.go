package mail

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers rendered mail. *gomail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Consumer renders and sends queued messages.
type Consumer struct {
	renderer *Renderer
	sender   Sender
	logger   *zap.Logger
}

func NewConsumer(renderer *Renderer, sender Sender, logger *zap.Logger) *Consumer {
	return &Consumer{renderer: renderer, sender: sender, logger: logger.Named("mail")}
}

// Handle processes one queue body. requeue is true only when the failure was in
// delivery; malformed messages are never retried.
func (c *Consumer) Handle(ctx context.Context, body []byte) (requeue bool, err error) {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return false, fmt.Errorf("failed to decode mail message: %w", err)
	}

	m, err := c.renderer.Render(msg)
	if err != nil {
		return false, err
	}

	if err := c.sender.DialAndSendWithContext(ctx, m); err != nil {
		return true, fmt.Errorf("failed to send %s mail to %s: %w", msg.Type, msg.To, err)
	}

	c.logger.Info("mail sent", zap.String("type", msg.Type), zap.String("to", msg.To))
	return false, nil
}

// Serve acks or nacks deliveries until ctx is done or the channel closes.
func (c *Consumer) Serve(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("delivery channel closed")
				return
			}

			requeue, err := c.Handle(ctx, d.Body)
			if err != nil {
				c.logger.Error("mail delivery failed",
					zap.Bool("requeue", requeue),
					zap.Error(err),
				)
				if nackErr := d.Nack(false, requeue); nackErr != nil {
					c.logger.Error("failed to nack delivery", zap.Error(nackErr))
				}
				continue
			}
			if ackErr := d.Ack(false); ackErr != nil {
				c.logger.Error("failed to ack delivery", zap.Error(ackErr))
			}
		}
	}
}
