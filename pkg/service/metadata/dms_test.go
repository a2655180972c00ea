package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDMSToDecimal(t *testing.T) {
	tests := []struct {
		name          string
		deg, min, sec float64
		ref           string
		want          float64
	}{
		{"north", 37, 33, 59.4, "N", 37.5665},
		{"east", 126, 58, 40.8, "E", 126.978},
		{"south", 33, 52, 4.0, "S", -33.867778},
		{"west lower-case", 122, 25, 9.8, "w", -122.419389},
		{"no ref", 10, 30, 0, "", 10.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DMSToDecimal(tt.deg, tt.min, tt.sec, tt.ref), 1e-6)
		})
	}
}

func TestDecimalToDMSRoundTrip(t *testing.T) {
	for _, v := range []float64{37.5665, -33.867778, 126.978, -122.419389, 0, 89.999999} {
		d, m, s, ref := DecimalToDMS(v, "N", "S")
		assert.InDelta(t, v, DMSToDecimal(d, m, s, ref), 1e-9, "value %v", v)
	}
}

func TestParseDMSText(t *testing.T) {
	parts, err := parseDMSText("[37/1 33/1 5940/100]")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{37, 33, 59.4}, parts, 1e-9)

	parts, err = parseDMSText("126/1,58/1,408/10")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{126, 58, 40.8}, parts, 1e-9)

	_, err = parseDMSText("[1/0 2/1 3/1]")
	assert.Error(t, err)

	_, err = parseDMSText("")
	assert.Error(t, err)
}

func TestComponentsToDecimal_ScalarIsDegrees(t *testing.T) {
	v, err := componentsToDecimal([]float64{37.5665}, "N")
	require.NoError(t, err)
	assert.InDelta(t, 37.5665, v, 1e-9)

	v, err = componentsToDecimal([]float64{126.978}, "W")
	require.NoError(t, err)
	assert.InDelta(t, -126.978, v, 1e-9)
}
