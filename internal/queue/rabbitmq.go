package queue

import (
	"context"
	"encoding/json"

	"github.com/streadway/amqp"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

const FeedUpdatesQueue = "feed_updates"

// * channel is the subset of *amqp.Channel used here
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.New(
			"QUEUE_CONNECTION_ERROR",
			"Failed to connect to RabbitMQ",
			"Could not dial the broker",
			err,
			errors.LevelError,
		)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.New(
			"QUEUE_CONNECTION_ERROR",
			"Failed to open RabbitMQ channel",
			"",
			err,
			errors.LevelError,
		)
	}

	logger.Info("connected to RabbitMQ successfully 🐇")
	return &RabbitMQ{
		conn:    conn,
		channel: ch,
	}, nil
}

func (r *RabbitMQ) declare() (amqp.Queue, error) {
	return r.channel.QueueDeclare(
		FeedUpdatesQueue,
		true,
		false,
		false,
		false,
		nil,
	)
}

// * PublishFeedUpdated announces a freshly stored feed
func (r *RabbitMQ) PublishFeedUpdated(ctx context.Context, update models.FeedUpdate) error {
	queue, err := r.declare()
	if err != nil {
		return err
	}

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}

	err = r.channel.Publish(
		"",
		queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return errors.New(
			"QUEUE_PUBLISH_ERROR",
			"Failed to publish feed update",
			"",
			err,
			errors.LevelError,
		)
	}

	logger.Info("📣 Published feed update (%d repositories)", update.Count)
	return nil
}

// * ConsumeFeedUpdates calls handler for every announced feed until ctx is done
// * or the delivery channel closes
func (r *RabbitMQ) ConsumeFeedUpdates(ctx context.Context, handler func(update models.FeedUpdate) error) error {
	queue, err := r.declare()
	if err != nil {
		return err
	}

	msgs, err := r.channel.Consume(
		queue.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					logger.Warn("feed update deliveries closed")
					return
				}

				var update models.FeedUpdate
				if err := json.Unmarshal(d.Body, &update); err != nil {
					logger.Error("error decoding feed update: %v", err)
					continue
				}

				if err := handler(update); err != nil {
					logger.Error("error handling feed update: %v", err)
				}
			}
		}
	}()

	return nil
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}
