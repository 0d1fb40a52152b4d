package grpc

import (
	"context"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName — имя сервиса в ответах health-check.
const ServiceName = "store.ProductService"

// Probe проверяет доступность зависимости, например ping хранилища.
type Probe func(ctx context.Context) error

// MonitorHealth выставляет статус ServiceName по результату probe каждые interval, пока ctx не отменён.
func (s *GRPCServer) MonitorHealth(ctx context.Context, probe Probe, interval time.Duration) {
	s.checkOnce(ctx, probe, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkOnce(ctx, probe, interval)
		}
	}
}

func (s *GRPCServer) checkOnce(ctx context.Context, probe Probe, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	next := healthpb.HealthCheckResponse_SERVING
	if err := probe(ctx); err != nil {
		s.logger.Warnf("health probe failed: %v", err)
		next = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus(ServiceName, next)
	s.health.SetServingStatus("", next)
}
