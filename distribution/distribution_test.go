package distribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicDistribution(t *testing.T) {
	d := New()
	assert.NoError(t, d.AddSample(1.0))
	assert.NoError(t, d.AddSample(2.0))
	assert.NoError(t, d.AddSample(3.0))

	assert.Equal(t, int64(3), d.NumberOfSamples())
	assert.InEpsilon(t, 1.0, d.GetMinimum(), 0.000001)
	assert.InEpsilon(t, 3.0, d.GetMaximum(), 0.000001)
	assert.InEpsilon(t, 2.0, d.GetAverage(), 0.000001)
	assert.InEpsilon(t, 1.0, d.GetVariance(), 0.000001)
	assert.InEpsilon(t, 1.0, d.GetStandardDeviation(), 0.000001)
	assert.InEpsilon(t, 2.0, d.GetMedian(), 0.000001)
	assert.InEpsilon(t, 1.0, d.GetPercentile(10.0), 0.000001)
	assert.InEpsilon(t, 3.0, d.GetPercentile(90.0), 0.000001)
}

func TestRejectsInvalidSamples(t *testing.T) {
	d := New()
	assert.Error(t, d.AddSample(-1.0))
	assert.Equal(t, int64(0), d.NumberOfSamples())
	// Zero is a legitimate observation (e.g. zero loss).
	assert.NoError(t, d.AddSample(0.0))
	assert.Equal(t, int64(1), d.NumberOfSamples())
}

func TestEmptyDistributionHasNoNaNs(t *testing.T) {
	d := New()
	assert.Equal(t, int64(0), d.NumberOfSamples())
	assert.Equal(t, 0.0, d.GetAverage())
	assert.Equal(t, 0.0, d.GetVariance())
	assert.Equal(t, 0.0, d.GetStandardDeviation())
}

func TestSingleSampleHasNoSpread(t *testing.T) {
	d := New()
	assert.NoError(t, d.AddSample(200.0))
	assert.InEpsilon(t, 200.0, d.GetAverage(), 0.000001)
	assert.Equal(t, 0.0, d.GetVariance())
	assert.Equal(t, 0.0, d.GetStandardDeviation())
	assert.InEpsilon(t, 200.0, d.GetMinimum(), 0.000001)
	assert.InEpsilon(t, 200.0, d.GetMaximum(), 0.000001)
}

func TestMerge(t *testing.T) {
	left := New()
	right := New()
	assert.NoError(t, left.AddSample(1.0))
	assert.NoError(t, left.AddSample(2.0))
	assert.NoError(t, right.AddSample(3.0))

	assert.NoError(t, left.Merge(right))
	assert.Equal(t, int64(3), left.NumberOfSamples())
	assert.InEpsilon(t, 2.0, left.GetAverage(), 0.000001)
	assert.InEpsilon(t, 1.0, left.GetMinimum(), 0.000001)
	assert.InEpsilon(t, 3.0, left.GetMaximum(), 0.000001)
}
