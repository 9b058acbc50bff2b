// Package stats implements the two-sample comparison used by the t_test operation.
package stats

import (
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"math"
)

// Result is a two-sample t-test outcome. TStat, PValue and DF are NaN when both samples have no
// variance.
type Result struct {
	NA     int
	NB     int
	MeanA  float64
	MeanB  float64
	TStat  float64
	PValue float64
	DF     float64
}

// TwoSample runs Student's t-test (equalVar) or Welch's t-test on two samples. Both samples must
// hold more than one value; ok is false otherwise.
func TwoSample(a, b []float64, equalVar bool) (Result, bool) {
	if len(a) < 2 || len(b) < 2 {
		return Result{}, false
	}

	na, nb := float64(len(a)), float64(len(b))
	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)

	var se, df float64
	if equalVar {
		df = na + nb - 2
		pooled := ((na-1)*varA + (nb-1)*varB) / df
		se = math.Sqrt(pooled * (1/na + 1/nb))
	} else {
		qa, qb := varA/na, varB/nb
		se = math.Sqrt(qa + qb)
		df = (qa + qb) * (qa + qb) / (qa*qa/(na-1) + qb*qb/(nb-1))
	}

	res := Result{
		NA:     len(a),
		NB:     len(b),
		MeanA:  meanA,
		MeanB:  meanB,
		TStat:  (meanA - meanB) / se,
		PValue: math.NaN(),
		DF:     df,
	}
	if !math.IsNaN(res.TStat) && !math.IsNaN(df) && df > 0 {
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		res.PValue = 2 * dist.Survival(math.Abs(res.TStat))
	}
	return res, true
}
