package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)

	DocumentOperations.WithLabelValues("add", "ok").Inc()
	require.Equal(t, 1, testutil.CollectAndCount(DocumentOperations, "docregistry_document_operations_total"))

	// registering twice on the same registry panics
	require.Panics(t, func() { RegisterCollectors(reg) })
}
