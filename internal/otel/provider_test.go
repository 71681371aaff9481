package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewDisabled(t *testing.T) {
	p, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewEnabledRequiresWriter(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "cartomark"})
	assert.Error(t, err)
}

func TestFlushExportsCounters(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{
		Enabled:       true,
		ServiceName:   "cartomark-test",
		FlushInterval: time.Hour,
		MetricWriter:  &buf,
	})
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	meter := otel.Meter("provider-test")
	counter, err := meter.Int64Counter("gestures_handled")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	require.NoError(t, p.Flush(context.Background()))
	assert.Contains(t, buf.String(), "gestures_handled")
	assert.Contains(t, buf.String(), "cartomark-test")
}
