// Package modelselect provides the model selection toolkit: train/test
// splitting, k-fold cross-validation and hyperparameter search. Everything
// is seeded and enumeration orders are fixed, so repeated runs produce
// identical splits, scores and winners.
package modelselect

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/pkg/errors"
)

// Fold holds the row indices of one cross-validation split.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// Splitter generates cross-validation folds.
type Splitter interface {
	Split(X, y mat.Matrix) []Fold
	GetNSplits() int
}

// TrainTestSplit shuffles the rows with a seeded generator and splits them
// into a train part and a held-out test part. testSize is the test fraction
// in (0, 1); the test row count is rounded up. Row order within each part
// follows the original data.
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	if X == nil || y == nil {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "X and y must not be nil")
	}

	n, _ := X.Dims()
	yRows, _ := y.Dims()
	if n == 0 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "empty data")
	}
	if yRows != n {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", n, yRows, 0)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, errors.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}

	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest >= n {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "not enough samples for a non-empty train set")
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	XTest, yTest = subset(X, y, indices[:nTest])
	XTrain, yTrain = subset(X, y, indices[nTest:])
	return XTrain, XTest, yTrain, yTest, nil
}

// KFold splits rows into k consecutive folds, optionally shuffling first.
// Without shuffling the folds are contiguous row ranges.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewKFold creates a k-fold splitter. Fewer than 2 splits falls back to the
// conventional 5.
func NewKFold(nSplits int, shuffle bool, seed int64) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// GetNSplits returns the number of folds.
func (kf *KFold) GetNSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold. The first
// nSamples%NSplits folds receive one extra test row.
func (kf *KFold) Split(X, _ mat.Matrix) []Fold {
	n, _ := X.Dims()

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(kf.Seed), uint64(kf.Seed)))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := n / kf.NSplits
	remainder := n % kf.NSplits

	current := 0
	for i := 0; i < kf.NSplits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}

		testIndices := make([]int, testSize)
		copy(testIndices, indices[current:current+testSize])

		inTest := make(map[int]bool, testSize)
		for _, idx := range testIndices {
			inTest[idx] = true
		}
		trainIndices := make([]int, 0, n-testSize)
		for _, idx := range indices {
			if !inTest[idx] {
				trainIndices = append(trainIndices, idx)
			}
		}

		folds[i] = Fold{TrainIndices: trainIndices, TestIndices: testIndices}
		current += testSize
	}

	return folds
}

// StratifiedKFold splits rows into k folds while keeping each fold's label
// proportions close to the full data's.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    int64
}

// NewStratifiedKFold creates a stratified k-fold splitter. Fewer than 2
// splits falls back to 5.
func NewStratifiedKFold(nSplits int, shuffle bool, seed int64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// GetNSplits returns the number of folds.
func (skf *StratifiedKFold) GetNSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold. Classes are
// processed in sorted label order so the result is reproducible.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) []Fold {
	n, _ := X.Dims()

	classIndices := make(map[float64][]int)
	for i := 0; i < n; i++ {
		label := y.At(i, 0)
		classIndices[label] = append(classIndices[label], i)
	}

	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	if skf.Shuffle {
		r := rand.New(rand.NewPCG(uint64(skf.Seed), uint64(skf.Seed)))
		for _, label := range labels {
			indices := classIndices[label]
			r.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
	}

	folds := make([]Fold, skf.NSplits)
	for i := range folds {
		folds[i] = Fold{
			TrainIndices: make([]int, 0),
			TestIndices:  make([]int, 0),
		}
	}

	// Hand out each class's rows across the folds, extras to the first ones.
	for _, label := range labels {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.NSplits
		remainder := nClass % skf.NSplits

		current := 0
		for i := 0; i < skf.NSplits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			for j := 0; j < testSize && current < nClass; j++ {
				folds[i].TestIndices = append(folds[i].TestIndices, indices[current])
				current++
			}
		}
	}

	for i := range folds {
		inTest := make(map[int]bool, len(folds[i].TestIndices))
		for _, idx := range folds[i].TestIndices {
			inTest[idx] = true
		}
		for j := 0; j < n; j++ {
			if !inTest[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}

	return folds
}

// subset copies the selected rows of X and y into fresh matrices. Indices
// are sorted first so the subset preserves the original row order.
func subset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	xSub := mat.NewDense(rows, xCols, nil)
	ySub := mat.NewDense(rows, yCols, nil)
	for i, idx := range sorted {
		for j := 0; j < xCols; j++ {
			xSub.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySub.Set(i, j, y.At(idx, j))
		}
	}
	return xSub, ySub
}
