// Package datasets provides the small deterministic datasets the lessons
// train on: a literal study-hours table and seeded synthetic generators.
// Given the same seed the generators always return the same data.
package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/mltour/mltour/pkg/errors"
)

// StudyHours returns the four-student study table: hours studied against a
// pass/fail label. The hours are symmetric around 1.75, which keeps the
// fitted decision boundary there.
func StudyHours() (X, y *mat.Dense) {
	X = mat.NewDense(4, 1, []float64{0.5, 1.0, 2.5, 3.0})
	y = mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	return X, y
}

// MakeBlobs draws Gaussian clusters around the given centers, one label per
// center. Rows are grouped by center in the given order; the label column
// holds the center index.
func MakeBlobs(samplesPerCenter int, centers [][]float64, clusterStd float64, seed int64) (X, y *mat.Dense, err error) {
	if samplesPerCenter < 1 {
		return nil, nil, errors.NewValidationError("samples_per_center", "must be at least 1", samplesPerCenter)
	}
	if len(centers) == 0 {
		return nil, nil, errors.NewValueError("MakeBlobs", "no centers given")
	}
	if clusterStd <= 0 {
		return nil, nil, errors.NewValidationError("cluster_std", "must be positive", clusterStd)
	}
	nFeatures := len(centers[0])
	if nFeatures == 0 {
		return nil, nil, errors.NewValueError("MakeBlobs", "centers need at least one coordinate")
	}
	for _, center := range centers {
		if len(center) != nFeatures {
			return nil, nil, errors.NewDimensionError("MakeBlobs", nFeatures, len(center), 1)
		}
	}

	noise := distuv.Normal{
		Mu:    0,
		Sigma: clusterStd,
		Src:   rand.NewPCG(uint64(seed), uint64(seed)),
	}

	n := samplesPerCenter * len(centers)
	X = mat.NewDense(n, nFeatures, nil)
	y = mat.NewDense(n, 1, nil)

	row := 0
	for label, center := range centers {
		for s := 0; s < samplesPerCenter; s++ {
			for j := 0; j < nFeatures; j++ {
				X.Set(row, j, center[j]+noise.Rand())
			}
			y.Set(row, 0, float64(label))
			row++
		}
	}
	return X, y, nil
}

// MakeRegression draws standard normal features, a random coefficient
// vector, and targets y = X*coef plus Gaussian noise. The drawn
// coefficients are returned for inspection.
func MakeRegression(nSamples, nFeatures int, noise float64, seed int64) (X, y *mat.Dense, coef []float64, err error) {
	if nSamples < 1 {
		return nil, nil, nil, errors.NewValidationError("n_samples", "must be at least 1", nSamples)
	}
	if nFeatures < 1 {
		return nil, nil, nil, errors.NewValidationError("n_features", "must be at least 1", nFeatures)
	}
	if noise < 0 {
		return nil, nil, nil, errors.NewValidationError("noise", "must not be negative", noise)
	}

	src := rand.NewPCG(uint64(seed), uint64(seed))
	standard := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	coef = make([]float64, nFeatures)
	for j := range coef {
		coef[j] = standard.Rand() * 10
	}

	X = mat.NewDense(nSamples, nFeatures, nil)
	y = mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		target := 0.0
		for j := 0; j < nFeatures; j++ {
			v := standard.Rand()
			X.Set(i, j, v)
			target += v * coef[j]
		}
		if noise > 0 {
			target += standard.Rand() * noise
		}
		y.Set(i, 0, target)
	}
	return X, y, coef, nil
}
