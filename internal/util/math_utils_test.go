package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.5, Clamp(42.5, 0, 100))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.InDelta(t, 20.0, Mean([]float64{10, 20, 30}), 0.001)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	// Population deviation of 10, 20, 30.
	assert.InDelta(t, 8.1650, StdDev([]float64{10, 20, 30}), 0.001)
	assert.Equal(t, 0.0, StdDev([]float64{7, 7, 7}))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{0, 0}))
	assert.InDelta(t, 0.4082, CoefficientOfVariation([]float64{10, 20, 30}), 0.001)
}

func TestPercentile(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))

	values := []float64{50, 10, 40, 20, 30}
	assert.Equal(t, 10.0, Percentile(values, 0))
	assert.Equal(t, 30.0, Percentile(values, 50))
	assert.Equal(t, 50.0, Percentile(values, 100))
	// The input slice stays untouched.
	assert.Equal(t, []float64{50, 10, 40, 20, 30}, values)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 89.3, Round1(89.333))
	assert.Equal(t, 89.4, Round1(89.351))
	assert.Equal(t, 4.33, Round2(4.3333))
	assert.Equal(t, 0.76, Round2(0.7561))
}
