package storage

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"todopro/pkg/telemetry"
)

type stubStore struct {
	name string
	err  error
}

func (s *stubStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	return s.name, s.err
}

func (s *stubStore) Remove(ctx context.Context, filename string) error {
	return nil
}

func uploadCount(t *testing.T, registry *prometheus.Registry, backend, outcome string) float64 {
	t.Helper()

	families, err := registry.Gather()
	assert.NoError(t, err)

	for _, family := range families {
		if family.GetName() != "upload_operations_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			labels := map[string]string{}

			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}

			if labels["backend"] == backend && labels["outcome"] == outcome {
				return metric.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func TestInstrumentedStore_CountsSaves(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)

	store := NewInstrumentedStore(&stubStore{name: "stored.png"}, "local", metrics)

	name, err := store.Save(context.Background(), &multipart.FileHeader{Filename: "shot.png"})

	assert.NoError(t, err)
	assert.Equal(t, "stored.png", name)
	assert.Equal(t, 1.0, uploadCount(t, registry, "local", "success"))
	assert.Equal(t, 0.0, uploadCount(t, registry, "local", "error"))
}

func TestInstrumentedStore_CountsFailures(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)

	store := NewInstrumentedStore(&stubStore{err: assert.AnError}, "gcs", metrics)

	_, err := store.Save(context.Background(), &multipart.FileHeader{Filename: "shot.png"})

	assert.Error(t, err)
	assert.Equal(t, 1.0, uploadCount(t, registry, "gcs", "error"))
}

func TestNewInstrumentedStore_NilMetricsPassthrough(t *testing.T) {
	inner := &stubStore{name: "stored.png"}

	store := NewInstrumentedStore(inner, "local", nil)

	assert.Same(t, inner, store)
}
