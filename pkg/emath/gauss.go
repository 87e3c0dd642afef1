package emath

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PivotEpsilon is the smallest pivot magnitude SolveGauss will divide by.
const PivotEpsilon = 1e-12

var ErrSingular = errors.New("matrix is singular")

// SolveGauss solves the augmented system [A|b] held in an n x (n+1)
// matrix, using Gaussian elimination with partial pivoting followed by
// back substitution. The matrix is overwritten.
//
// Pivot rows are chosen by largest magnitude in the column; on a tie the
// first such row wins. A pivot smaller than PivotEpsilon, or a result that
// is not finite, gives ErrSingular rather than Inf/NaN values.
func SolveGauss(a *mat.Dense) ([]float64, error) {
	n, cols := a.Dims()
	if cols != n+1 {
		return nil, fmt.Errorf("augmented matrix must be n x (n+1), got %d x %d", n, cols)
	}

	raw := a.RawMatrix()
	A, stride := raw.Data, raw.Stride
	row := func(r int) []float64 { return A[r*stride : r*stride+cols] }

	for k := 0; k < n; k++ {
		maxEl := math.Abs(A[k*stride+k])
		maxRow := k
		for r := k + 1; r < n; r++ {
			if v := math.Abs(A[r*stride+k]); v > maxEl {
				maxEl = v
				maxRow = r
			}
		}
		if maxEl < PivotEpsilon {
			return nil, fmt.Errorf("%w: pivot %g in column %d", ErrSingular, maxEl, k)
		}

		if maxRow != k {
			rk, rm := row(k), row(maxRow)
			for c := 0; c < cols; c++ {
				rk[c], rm[c] = rm[c], rk[c]
			}
		}

		pivot := row(k)
		for r := k + 1; r < n; r++ {
			rr := row(r)
			c := -rr[k] / pivot[k]
			rr[k] = 0 // exactly zero, no rounding residue
			for j := k + 1; j < cols; j++ {
				rr[j] += c * pivot[j]
			}
		}
	}

	// Upper triangular now; back substitute into the last column
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		xi := A[i*stride+n] / A[i*stride+i]
		if math.IsNaN(xi) || math.IsInf(xi, 0) {
			return nil, fmt.Errorf("%w: x[%d] = %g", ErrSingular, i, xi)
		}
		for k := i - 1; k >= 0; k-- {
			A[k*stride+n] -= A[k*stride+i] * xi
		}
		x[i] = xi
	}

	return x, nil
}
