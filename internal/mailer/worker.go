package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"samarithanna-api/internal/metrics"
)

// Worker consume EmailJobs de la cola, los renderiza y los envía.
// Un fallo se registra y se cuenta; no hay reintentos.
type Worker struct {
	sender  Sender
	log     *logrus.Logger
	metrics metrics.Recorder
	timeout time.Duration
}

func NewWorker(sender Sender, log *logrus.Logger, rec metrics.Recorder) *Worker {
	return &Worker{
		sender:  sender,
		log:     log,
		metrics: rec,
		timeout: 15 * time.Second,
	}
}

func (w *Worker) Handle(body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.log.WithError(err).Error("Mensaje de correo inválido")
		return err
	}

	subject, html, err := Render(job)
	if err != nil {
		w.metrics.RecordEmailSendFailed(job.Kind)
		w.log.WithError(err).WithField("kind", job.Kind).Error("Error renderizando correo")
		return err
	}

	// El request HTTP que originó el job ya respondió; el envío corre con su
	// propio timeout, sin cancelación del caller.
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.sender.Send(ctx, job.RecipientName, job.RecipientEmail, subject, html); err != nil {
		w.metrics.RecordEmailSendFailed(job.Kind)
		w.log.WithError(err).WithFields(logrus.Fields{
			"kind": job.Kind,
			"to":   job.RecipientEmail,
		}).Error("Error enviando correo")
		return err
	}

	w.metrics.RecordEmailSent(job.Kind)
	w.log.WithFields(logrus.Fields{
		"kind": job.Kind,
		"to":   job.RecipientEmail,
	}).Info("Correo enviado")
	return nil
}
