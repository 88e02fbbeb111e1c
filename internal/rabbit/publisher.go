package rabbit

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"

	"samarithanna-api/internal/mailer"
)

const emailQueue = "samarithanna_email_jobs"

// Publisher encola EmailJobs. Es el lado productor de la frontera
// fire-and-forget: si publicar falla, el caller solo lo loguea.
type Publisher struct {
	ch *amqp091.Channel
}

func NewPublisher(ch *amqp091.Channel) (*Publisher, error) {
	_, err := ch.QueueDeclare(
		emailQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Publish(ctx context.Context, job mailer.EmailJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx,
		"",         // exchange por defecto
		emailQueue, // routing key = nombre de la cola
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Body:         body,
		},
	)
}
