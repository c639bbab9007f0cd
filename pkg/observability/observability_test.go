package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycitadel/citadelkit/pkg/model"
	"github.com/mycitadel/citadelkit/pkg/status"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR", "debug", "bogus", ""} {
		assert.NotNil(t, NewLogger(level))
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.RecordClassification(context.Background(), status.Ok, model.KindAddress)
		m.RecordForeignCall(context.Background(), "citadel_address_parse", time.Millisecond, true)
	})
}

func TestNewMetrics_GlobalMeter(t *testing.T) {
	m, err := NewMetrics(nil)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NotPanics(t, func() {
		m.RecordClassification(context.Background(), status.InvalidStructuredData, model.KindUnknown)
		m.RecordForeignCall(context.Background(), "citadel_encoding_parse", time.Millisecond, false)
	})
}
