package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplateSubstitutesKnownTokens(t *testing.T) {
	data := EventData{
		"fleetNumber": "412",
		"category":    "BRAKES",
		"driverName":  "Dana Ortiz",
		"location":    "Depot 3",
	}

	rendered := RenderTemplate("New {category} issue on vehicle {fleetNumber}, reported by {driverName} at {location}", data)
	assert.Equal(t, "New BRAKES issue on vehicle 412, reported by Dana Ortiz at Depot 3", rendered)
}

func TestRenderTemplateFallsBackForMissingFields(t *testing.T) {
	rendered := RenderTemplate("Vehicle {fleetNumber} issue, cost {estimatedCost}", EventData{})
	assert.Equal(t, "Vehicle Unknown issue, cost 0", rendered)
}

func TestRenderTemplateLeavesUnknownTokensLiteral(t *testing.T) {
	rendered := RenderTemplate("Hello {somebody}, vehicle {fleetNumber}", EventData{"fleetNumber": "101"})
	assert.Equal(t, "Hello {somebody}, vehicle 101", rendered)
}

func TestRenderTemplateCoercesNonStringValues(t *testing.T) {
	rendered := RenderTemplate("{totalIssues} issues, {criticalCount} critical", EventData{
		"totalIssues":   17,
		"criticalCount": 3,
	})
	assert.Equal(t, "17 issues, 3 critical", rendered)
}

func TestRenderTemplateNeverPanicsOnNilData(t *testing.T) {
	assert.NotPanics(t, func() {
		rendered := RenderTemplate("Vehicle {fleetNumber}", nil)
		assert.Equal(t, "Vehicle Unknown", rendered)
	})
}
