package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // 10 items over 3 buckets: imbalance of at most one
		pm := NewPartitionMap(3, 10)
		var total, prev int
		for n := 0; n < 3; n++ {
			lo, hi := pm.GetBucketRange(n)
			d := hi - lo
			assert.True(t, d == 3 || d == 4)
			// buckets tile the range contiguously
			assert.Equal(t, prev, lo)
			total += d
			prev = hi
		}
		assert.Equal(t, 10, total)
		assert.Equal(t, 10, prev)
	}
	{ // degree clamped to the index count
		pm := NewPartitionMap(8, 3)
		assert.Equal(t, 3, pm.ParallelDegree)
	}
}

func TestScalar(t *testing.T) {
	assert.Equal(t, 9.0, SQR(3))
	assert.Equal(t, 8.0, POW(2, 3))
	assert.Equal(t, 1.0, POW(5, 0))
	assert.InDelta(t, math.Pow(1.7, 7), POW(1.7, 7), 1.e-12)
}

func TestNorms(t *testing.T) {
	v := []float64{3, -4, 0, 0}
	assert.InDelta(t, 7.0/4.0, L1Norm(v), 1.e-14)
	assert.InDelta(t, 5.0/2.0, L2Norm(v), 1.e-14)
	assert.Equal(t, 4.0, LInfNorm(v))
	assert.Equal(t, -1.0, Sum(v))
}
