package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/keya254/smart-serve/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the fanout exchange change signals are published to.
const ExchangeName = "smartserve.events"

const publishTimeout = 5 * time.Second

type brokerMessage struct {
	Event     Event  `json:"event"`
	EmittedAt string `json:"emitted_at"`
}

func encodeBrokerMessage(event Event, at time.Time) ([]byte, error) {
	return json.Marshal(brokerMessage{Event: event, EmittedAt: at.UTC().Format(time.RFC3339Nano)})
}

type publishFunc func(ctx context.Context, routingKey string, body []byte) error

// AMQPPublisher forwards change signals to a RabbitMQ fanout exchange so other
// processes can follow the same events as WebSocket clients. Publishing
// happens on the Run goroutine; Notify only queues.
type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   chan Event
	publish publishFunc
	now     func() time.Time
}

// DialAMQP connects to the broker at url and declares the exchange.
func DialAMQP(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening rabbitmq channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ExchangeName, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange %s: %w", ExchangeName, err)
	}

	p := newAMQPPublisher(nil)
	p.conn = conn
	p.channel = channel
	p.publish = func(ctx context.Context, routingKey string, body []byte) error {
		return channel.PublishWithContext(ctx,
			ExchangeName, // exchange
			routingKey,   // routing key
			false,        // mandatory
			false,        // immediate
			amqp.Publishing{
				ContentType: "application/json",
				Timestamp:   p.now(),
				Body:        body,
			})
	}
	utils.LogInfo("Connected to RabbitMQ", map[string]interface{}{"exchange": ExchangeName})
	return p, nil
}

func newAMQPPublisher(publish publishFunc) *AMQPPublisher {
	return &AMQPPublisher{
		queue:   make(chan Event, broadcastBuffer),
		publish: publish,
		now:     time.Now,
	}
}

// Notify queues event for publishing and drops it when the queue is full.
func (p *AMQPPublisher) Notify(event Event) {
	select {
	case p.queue <- event:
	default:
		utils.LogWarn("Broker publish queue full, dropping event", map[string]interface{}{"event": string(event)})
	}
}

// Run publishes queued events until ctx is cancelled. Publish failures are
// logged and the event is not retried.
func (p *AMQPPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-p.queue:
			body, err := encodeBrokerMessage(event, p.now())
			if err != nil {
				utils.LogError(err, "Failed to encode broker message")
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			err = p.publish(pubCtx, string(event), body)
			cancel()
			if err != nil {
				utils.LogError(err, "Failed to publish event", map[string]interface{}{"event": string(event)})
			}
		}
	}
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
