package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pivot/internal/models"
)

func TestSectionDocNormalizesLegacyFields(t *testing.T) {
	d := sectionDoc{
		LegacyText:  "old body text",
		LegacyOrder: 4,
	}
	d.ID = "s1"

	sec := d.normalized()
	assert.Equal(t, "old body text", sec.SelectedText)
	assert.Equal(t, "old body text", sec.TextContent)
	assert.Equal(t, 4, sec.PositionOrder)
	assert.Equal(t, models.StatusNotSetup, sec.Status)
}

func TestSectionDocTitleFallback(t *testing.T) {
	d := sectionDoc{LegacyTitle: "heading only row"}

	sec := d.normalized()
	assert.Equal(t, "heading only row", sec.SelectedText)
	assert.Equal(t, "heading only row", sec.TextContent)
}

func TestSectionDocCurrentSchemaUntouched(t *testing.T) {
	d := sectionDoc{
		Section: models.Section{
			ID:            "s1",
			SelectedText:  "current text",
			TextContent:   "current text",
			PositionOrder: 2,
			Status:        models.StatusActive,
		},
		LegacyText:  "stale legacy text",
		LegacyOrder: 9,
	}

	sec := d.normalized()
	assert.Equal(t, "current text", sec.SelectedText)
	assert.Equal(t, 2, sec.PositionOrder)
	assert.Equal(t, models.StatusActive, sec.Status)
}
