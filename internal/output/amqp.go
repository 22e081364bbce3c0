package output

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPOutput publishes to a topic exchange; the topic becomes the routing key.
type AMQPOutput struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPOutput(url, exchange string) (*AMQPOutput, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPOutput{conn: conn, channel: ch, exchange: exchange}, nil
}

func (a *AMQPOutput) WriteMessage(topic string, msg []byte) error {
	return a.channel.Publish(a.exchange, topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
}

func (a *AMQPOutput) Close() error {
	if err := a.channel.Close(); err != nil {
		a.conn.Close()
		return err
	}
	return a.conn.Close()
}
