package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentLabels(t *testing.T) {
	assert.Nil(t, segmentLabels(nil))
	assert.Equal(t, []string{"Tech"}, segmentLabels([]string{"62.010"}))
	assert.Equal(t, []string{"Annet"}, segmentLabels([]string{"01.110"}))
	assert.Equal(t, []string{"Energi", "Tech"}, segmentLabels([]string{"62.010", "35.110"}))
	assert.Equal(t, []string{"Industri"}, segmentLabels([]string{"25.620"}))
}

func TestMatchesSegments(t *testing.T) {
	assert.True(t, matchesSegments(nil, nil))
	assert.True(t, matchesSegments([]string{"Tech"}, nil))
	assert.True(t, matchesSegments([]string{"Tech", "Energi"}, []string{"Energi"}))
	assert.False(t, matchesSegments([]string{"Annet"}, []string{"Tech"}))
}

func TestRoleCategoryFor(t *testing.T) {
	label, keep := roleCategoryFor("LEDE", []string{"Styreleder"})
	assert.True(t, keep)
	assert.Equal(t, "Styreleder", label)

	label, keep = roleCategoryFor("STYRELEDER", []string{"Daglig leder"})
	assert.False(t, keep)
	assert.Empty(t, label)

	label, keep = roleCategoryFor("PROK", nil)
	assert.True(t, keep)
	assert.Equal(t, "PROK", label)
}

func TestMatchesSector(t *testing.T) {
	assert.True(t, matchesSector("Privat", true, true))
	assert.True(t, matchesSector("Offentlig", false, false))
	assert.True(t, matchesSector("Privat", true, false))
	assert.False(t, matchesSector("Offentlig", true, false))
	assert.True(t, matchesSector("Offentlig", false, true))
}

func TestHasSite(t *testing.T) {
	assert.False(t, hasSite(""))
	assert.False(t, hasSite("  x  "))
	assert.True(t, hasSite("eksempel.no"))
}
