package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/pkg/errors"
)

// validatePair checks that both vectors are usable and equally sized.
func validatePair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, errors.NewValueError(op, "nil vector")
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}

	return n, nil
}

// firstColumn extracts column 0 of a matrix as a vector.
func firstColumn(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}

	rows, cols := m.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.NewValueError(op, "empty matrix")
	}

	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}

// Accuracy computes the fraction of exactly matching labels.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// AccuracyMatrix computes accuracy for column-vector matrices. Multi-column
// input uses the first column.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, err := firstColumn("AccuracyMatrix", yTrue)
	if err != nil {
		return 0, err
	}

	yPredVec, err := firstColumn("AccuracyMatrix", yPred)
	if err != nil {
		return 0, err
	}

	return Accuracy(yTrueVec, yPredVec)
}

// ClassificationError computes the misclassification rate, 1 - accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix counts label agreements. Rows index the true class, columns
// the predicted class, both in ascending label order. The returned slice holds
// that label order. Labels must be whole numbers.
func ConfusionMatrix(yTrue, yPred *mat.VecDense) (*mat.Dense, []int, error) {
	n, err := validatePair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, nil, err
	}

	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		for _, v := range []float64{yTrue.AtVec(i), yPred.AtVec(i)} {
			if v != math.Trunc(v) {
				return nil, nil, errors.NewValueError("ConfusionMatrix", "labels must be whole numbers")
			}
			seen[int(v)] = true
		}
	}

	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	index := make(map[int]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	cm := mat.NewDense(len(labels), len(labels), nil)
	for i := 0; i < n; i++ {
		r := index[int(yTrue.AtVec(i))]
		c := index[int(yPred.AtVec(i))]
		cm.Set(r, c, cm.At(r, c)+1)
	}

	return cm, labels, nil
}

// binaryCounts tallies true/false positives and negatives for labels {0, 1}.
func binaryCounts(op string, yTrue, yPred *mat.VecDense) (tp, fp, fn, tn int, err error) {
	n, err := validatePair(op, yTrue, yPred)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		if (t != 0 && t != 1) || (p != 0 && p != 1) {
			return 0, 0, 0, 0, errors.NewValueError(op, "labels must be 0 or 1")
		}

		switch {
		case t == 1 && p == 1:
			tp++
		case t == 0 && p == 1:
			fp++
		case t == 1 && p == 0:
			fn++
		default:
			tn++
		}
	}

	return tp, fp, fn, tn, nil
}

// Precision computes TP / (TP + FP) for the positive class 1. When nothing is
// predicted positive the metric is undefined; a warning is emitted and 0 is
// returned.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	tp, fp, _, _, err := binaryCounts("Precision", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0, nil
	}

	return float64(tp) / float64(tp+fp), nil
}

// Recall computes TP / (TP + FN) for the positive class 1. When no positive
// labels are present the metric is undefined; a warning is emitted and 0 is
// returned.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	tp, _, fn, _, err := binaryCounts("Recall", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no actual positives", 0))
		return 0, nil
	}

	return float64(tp) / float64(tp+fn), nil
}

// F1Score computes the harmonic mean of precision and recall. When both are
// zero the metric is undefined; a warning is emitted and 0 is returned.
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	tp, fp, fn, _, err := binaryCounts("F1Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var precision, recall float64
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}

	if precision+recall == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1", "precision and recall are both zero", 0))
		return 0, nil
	}

	return 2 * precision * recall / (precision + recall), nil
}

// AUC computes the area under the ROC curve with the rank statistic
// formulation. Tied scores receive their average rank. Single-class input has
// no pair ordering to measure and scores 0.5.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("AUC", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	nPos := 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 0:
		case 1:
			nPos++
		default:
			return 0, errors.NewValueError("AUC", "labels must be 0 or 1")
		}
	}

	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		return 0.5, nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return yPred.AtVec(idx[a]) < yPred.AtVec(idx[b])
	})

	// Average 1-based ranks across tie groups.
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && yPred.AtVec(idx[j]) == yPred.AtVec(idx[i]) {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}

	var sumPos float64
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			sumPos += ranks[i]
		}
	}

	// Mann-Whitney U statistic normalized by the number of pos/neg pairs.
	u := sumPos - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), nil
}

// AUCMatrix computes AUC for column-vector matrices. Multi-column input uses
// the first column.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, err := firstColumn("AUCMatrix", yTrue)
	if err != nil {
		return 0, err
	}

	yPredVec, err := firstColumn("AUCMatrix", yPred)
	if err != nil {
		return 0, err
	}

	return AUC(yTrueVec, yPredVec)
}

// BinaryLogLoss computes the negative log likelihood of binary labels under
// predicted probabilities. Probabilities are clipped away from 0 and 1 so the
// logarithm stays finite.
func BinaryLogLoss(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := validatePair("BinaryLogLoss", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	const eps = 1e-15

	var sum float64
	for i := 0; i < n; i++ {
		t := yTrue.AtVec(i)
		if t != 0 && t != 1 {
			return 0, errors.NewValueError("BinaryLogLoss", "labels must be 0 or 1")
		}

		p := yPred.AtVec(i)
		if p < eps {
			p = eps
		}
		if p > 1-eps {
			p = 1 - eps
		}

		sum += t*math.Log(p) + (1-t)*math.Log(1-p)
	}

	return -sum / float64(n), nil
}
