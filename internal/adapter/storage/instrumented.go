package storage

import (
	"context"
	"mime/multipart"

	"todopro/internal/core/port"
	"todopro/pkg/telemetry"
)

// InstrumentedStore wraps an ImageStore and counts every save per
// backend and outcome.
type InstrumentedStore struct {
	inner   port.ImageStore
	backend string
	metrics *telemetry.AppMetrics
}

// NewInstrumentedStore decorates inner with upload metrics. The backend
// label names the concrete store ("local", "gcs"). With nil metrics the
// inner store is returned unwrapped.
func NewInstrumentedStore(inner port.ImageStore, backend string, metrics *telemetry.AppMetrics) port.ImageStore {
	if metrics == nil {
		return inner
	}

	return &InstrumentedStore{
		inner:   inner,
		backend: backend,
		metrics: metrics,
	}
}

func (s *InstrumentedStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	name, err := s.inner.Save(ctx, file)

	if err != nil {
		s.metrics.RecordUpload(ctx, s.backend, "error")
		return "", err
	}

	s.metrics.RecordUpload(ctx, s.backend, "success")

	return name, nil
}

func (s *InstrumentedStore) Remove(ctx context.Context, filename string) error {
	return s.inner.Remove(ctx, filename)
}
