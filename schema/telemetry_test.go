package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwithnall/walbottle/schema"
)

func TestTelemetryRecordsInvocationsAndIsSideEffectFree(t *testing.T) {
	s := mustLoad(t, `{
		"properties": {
			"a": {"enum": [1, 2]},
			"b": {"enum": ["x", "y"]}
		}
	}`)

	tel := schema.NewTelemetry()
	withTel := s.Generate(schema.GenerateOptions{Telemetry: tel, MaxCandidates: 100})
	withoutTel := s.Generate(schema.GenerateOptions{MaxCandidates: 100})

	require.Equal(t, len(withoutTel), len(withTel), "attaching Telemetry must not change what Generate produces")

	report := tel.Report()
	require.NotEmpty(t, report)
	for i := 1; i < len(report); i++ {
		assert.GreaterOrEqual(t, report[i-1].TotalElapsed, report[i].TotalElapsed, "Report must be sorted by elapsed time descending")
	}

	assert.NotEmpty(t, tel.String())
}
