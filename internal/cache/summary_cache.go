// Package cache decora servicios de lectura con Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"samarithanna-api/internal/dto"
	"samarithanna-api/internal/service"
)

const summaryKey = "reports:summary"

// CachingSummary guarda el resumen admin unos minutos en Redis. El resumen
// recorre todas las órdenes; no hace falta recalcularlo en cada refresh del
// dashboard. Errores de Redis degradan a consultar directo.
type CachingSummary struct {
	inner service.SummaryProvider
	rdb   *redis.Client
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCachingSummary(inner service.SummaryProvider, rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *CachingSummary {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingSummary{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   log,
	}
}

func (c *CachingSummary) Summary(ctx context.Context) (dto.SummaryResponse, error) {
	if c.rdb == nil {
		return c.inner.Summary(ctx)
	}

	if b, err := c.rdb.Get(ctx, summaryKey).Bytes(); err == nil && len(b) > 0 {
		var out dto.SummaryResponse
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Entrada corrupta: se recalcula abajo
	}

	out, err := c.inner.Summary(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.rdb.Set(ctx, summaryKey, b, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("No se pudo cachear el resumen")
		}
	}
	return out, nil
}
