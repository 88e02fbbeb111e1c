// setup.go
package rabbit

import (
	"log"

	"github.com/rabbitmq/amqp091-go"

	"samarithanna-api/internal/mailer"
)

// SetupConsumer suscribe el worker de correo a la cola de jobs.
func SetupConsumer(ch *amqp091.Channel, worker *mailer.Worker) {
	// 1. Declarar la queue (idempotente, misma que el publisher)
	q, err := ch.QueueDeclare(
		emailQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error declarando queue:", err)
		return
	}

	// 2. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true, // autoAck: un correo perdido no amerita redelivery
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error al consumir queue:", err)
		return
	}

	go func() {
		for m := range msgs {
			worker.Handle(m.Body)
		}
	}()

	log.Println("🐰 Worker de correo suscrito a", q.Name)
}
