package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/pkg/errors"
)

// dcg computes the discounted cumulative gain of the first k pairs in the
// order given, with gain 2^rel - 1 and discount log2(position + 2).
func dcg(pairs []struct {
	score     float64
	relevance float64
}, k int) float64 {
	limit := len(pairs)
	if k > 0 && k < limit {
		limit = k
	}

	var sum float64
	for i := 0; i < limit; i++ {
		gain := math.Pow(2, pairs[i].relevance) - 1
		sum += gain / math.Log2(float64(i)+2)
	}
	return sum
}

// NDCG computes the normalized discounted cumulative gain at cutoff k.
// k = -1 scores the full ranking. Items are ranked by predicted score, the
// ideal ranking by true relevance. All-zero relevance scores 0.
func NDCG(yTrue, yPred *mat.VecDense, k int) (float64, error) {
	n, err := validatePair("NDCG", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if k != -1 && k < 1 {
		return 0, errors.NewValueError("NDCG", "k must be -1 (all items) or at least 1")
	}

	pairs := make([]struct {
		score     float64
		relevance float64
	}, n)
	for i := 0; i < n; i++ {
		rel := yTrue.AtVec(i)
		if rel < 0 {
			return 0, errors.NewValueError("NDCG", "relevance must be non-negative")
		}
		pairs[i].score = yPred.AtVec(i)
		pairs[i].relevance = rel
	}

	ranked := make([]struct {
		score     float64
		relevance float64
	}, n)
	copy(ranked, pairs)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	ideal := make([]struct {
		score     float64
		relevance float64
	}, n)
	copy(ideal, pairs)
	sort.SliceStable(ideal, func(a, b int) bool {
		return ideal[a].relevance > ideal[b].relevance
	})

	idcg := dcg(ideal, k)
	if idcg == 0 {
		return 0, nil
	}

	return dcg(ranked, k) / idcg, nil
}

// NDCGMatrix computes NDCG for column-vector matrices. Multi-column input
// uses the first column.
func NDCGMatrix(yTrue, yPred mat.Matrix, k int) (float64, error) {
	yTrueVec, err := firstColumn("NDCGMatrix", yTrue)
	if err != nil {
		return 0, err
	}

	yPredVec, err := firstColumn("NDCGMatrix", yPred)
	if err != nil {
		return 0, err
	}

	return NDCG(yTrueVec, yPredVec, k)
}

// AveragePrecision computes the mean of precision values at each relevant
// item's rank, items ordered by descending predicted score. Binary relevance
// only. No relevant items scores 0.
func AveragePrecision(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("AveragePrecision", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	totalRelevant := 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 0:
		case 1:
			totalRelevant++
		default:
			return 0, errors.NewValueError("AveragePrecision", "labels must be 0 or 1")
		}
	}

	if totalRelevant == 0 {
		return 0, nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return yPred.AtVec(idx[a]) > yPred.AtVec(idx[b])
	})

	hits := 0
	var sum float64
	for rank, i := range idx {
		if yTrue.AtVec(i) == 1 {
			hits++
			sum += float64(hits) / float64(rank+1)
		}
	}

	return sum / float64(totalRelevant), nil
}

// MeanAveragePrecision averages AveragePrecision over a list of queries.
func MeanAveragePrecision(yTrueList, yPredList []*mat.VecDense) (float64, error) {
	if len(yTrueList) == 0 {
		return 0, errors.NewValueError("MeanAveragePrecision", "empty query list")
	}

	if len(yTrueList) != len(yPredList) {
		return 0, errors.NewDimensionError("MeanAveragePrecision", len(yTrueList), len(yPredList), 0)
	}

	var sum float64
	for i := range yTrueList {
		ap, err := AveragePrecision(yTrueList[i], yPredList[i])
		if err != nil {
			return 0, err
		}
		sum += ap
	}

	return sum / float64(len(yTrueList)), nil
}
