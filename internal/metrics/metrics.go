// Package metrics expone los contadores Prometheus del pipeline de correos.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder es la interfaz que consumen el motor de órdenes y el worker de
// correo. Los fallos de despacho solo se ven aquí y en los logs, nunca en la
// respuesta HTTP.
type Recorder interface {
	RecordEmailEnqueued(kind string)
	RecordEmailEnqueueFailed(kind string)
	RecordEmailSent(kind string)
	RecordEmailSendFailed(kind string)
}

type Collector struct {
	emailEnqueued      *prometheus.CounterVec
	emailEnqueueFailed *prometheus.CounterVec
	emailSent          *prometheus.CounterVec
	emailSendFailed    *prometheus.CounterVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		emailEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "samarithanna_email_enqueued_total",
			Help: "Correos encolados por tipo",
		}, []string{"kind"}),
		emailEnqueueFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "samarithanna_email_enqueue_fail_total",
			Help: "Fallos al encolar correos por tipo",
		}, []string{"kind"}),
		emailSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "samarithanna_email_sent_total",
			Help: "Correos enviados por tipo",
		}, []string{"kind"}),
		emailSendFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "samarithanna_email_send_fail_total",
			Help: "Fallos de envío de correo por tipo",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		c.emailEnqueued,
		c.emailEnqueueFailed,
		c.emailSent,
		c.emailSendFailed,
	)

	return c
}

func (c *Collector) RecordEmailEnqueued(kind string) {
	c.emailEnqueued.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordEmailEnqueueFailed(kind string) {
	c.emailEnqueueFailed.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordEmailSent(kind string) {
	c.emailSent.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordEmailSendFailed(kind string) {
	c.emailSendFailed.WithLabelValues(kind).Inc()
}

// NopRecorder descarta todo; útil en pruebas.
type NopRecorder struct{}

func (NopRecorder) RecordEmailEnqueued(string)      {}
func (NopRecorder) RecordEmailEnqueueFailed(string) {}
func (NopRecorder) RecordEmailSent(string)          {}
func (NopRecorder) RecordEmailSendFailed(string)    {}
