package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

func TestRouteCriticalityBuckets(t *testing.T) {
	cases := []struct {
		fleetNumber string
		want        domain.IssueSeverity
	}{
		{"400", domain.SeverityCritical},
		{"449", domain.SeverityCritical},
		{"300", domain.SeverityHigh},
		{"399", domain.SeverityHigh},
		{"200", domain.SeverityMedium},
		{"299", domain.SeverityMedium},
		{"199", domain.SeverityLow},
		{"450", domain.SeverityLow},
		{"101", domain.SeverityLow},
		{"not-a-number", domain.SeverityLow},
		{"", domain.SeverityLow},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, RouteCriticality(tc.fleetNumber), "fleet number %q", tc.fleetNumber)
	}
}
