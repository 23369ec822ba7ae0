// Implements an empirical distribution tracker for metric series.

package distribution

import (
	"fmt"
	"math"

	"github.com/influxdata/tdigest"
)

// Distribution accumulates samples of one metric (RTT, throughput) and
// answers the descriptive-statistics questions the summary generator
// asks. Quantiles come from a t-digest sketch; mean and variance come
// from offset sums, which keeps them numerically stable for values far
// from zero.
type Distribution struct {
	empirical          *tdigest.TDigest
	offset             float64
	offsetSum          float64
	offsetSumOfSquares float64
	numberOfSamples    int64
	minimum            float64
	maximum            float64
}

func New() *Distribution {
	return &Distribution{
		empirical: tdigest.NewWithCompression(50),
		offset:    0.1,
	}
}

// AddSample records one observation. Negative or non-finite values
// cannot be valid metric observations and are rejected.
func (d *Distribution) AddSample(sample float64) error {
	if sample < 0.0 || math.IsNaN(sample) || math.IsInf(sample, 0) {
		return fmt.Errorf("sample is negative or not finite")
	}
	if d.numberOfSamples == 0 || sample < d.minimum {
		d.minimum = sample
	}
	if d.numberOfSamples == 0 || sample > d.maximum {
		d.maximum = sample
	}
	d.numberOfSamples++
	d.empirical.Add(sample, 1)
	d.offsetSum += sample - d.offset
	d.offsetSumOfSquares += (sample - d.offset) * (sample - d.offset)
	return nil
}

func (d *Distribution) NumberOfSamples() int64 {
	return d.numberOfSamples
}

// GetAverage of an empty distribution is 0, not NaN.
func (d *Distribution) GetAverage() float64 {
	if d.numberOfSamples == 0 {
		return 0
	}
	return d.offsetSum/float64(d.numberOfSamples) + d.offset
}

// GetVariance is the sample variance. Fewer than two samples have no
// spread to estimate and yield 0.
func (d *Distribution) GetVariance() float64 {
	n := float64(d.numberOfSamples)
	if n < 2 {
		return 0
	}
	return (d.offsetSumOfSquares - (d.offsetSum * d.offsetSum / n)) / (n - 1)
}

func (d *Distribution) GetStandardDeviation() float64 {
	return math.Sqrt(d.GetVariance())
}

func (d *Distribution) GetMinimum() float64 {
	return d.minimum
}

func (d *Distribution) GetMaximum() float64 {
	return d.maximum
}

func (d *Distribution) GetPercentile(percentile float64) float64 {
	return d.empirical.Quantile(percentile / 100)
}

func (d *Distribution) GetMedian() float64 {
	return d.GetPercentile(50.0)
}

// Merge folds other into d. Both must have been created with the same
// offset; they are assumed to be measurements of the same thing.
func (d *Distribution) Merge(other *Distribution) error {
	if d.offset != other.offset {
		return fmt.Errorf("merge of distributions with different offsets")
	}
	for _, centroid := range other.empirical.Centroids() {
		d.empirical.Add(centroid.Mean, centroid.Weight)
	}
	d.offsetSum += other.offsetSum
	d.offsetSumOfSquares += other.offsetSumOfSquares
	if other.numberOfSamples > 0 {
		if d.numberOfSamples == 0 || other.minimum < d.minimum {
			d.minimum = other.minimum
		}
		if d.numberOfSamples == 0 || other.maximum > d.maximum {
			d.maximum = other.maximum
		}
	}
	d.numberOfSamples += other.numberOfSamples
	return nil
}
