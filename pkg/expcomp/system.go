package expcomp

import (
	"gonum.org/v1/gonum/mat"
)

// BuildSystem assembles the N x (N+1) augmented matrix whose solution
// minimises
//
//	sum_{i<j} alpha*n_ij*(g_i*I_ij - g_j*I_ji)^2  +  sum_i beta*n_ij*(g_i - 1)^2
//
// The last column is the right hand side.
func BuildSystem(st Statistics, alpha, beta float64) *mat.Dense {
	n := st.N
	a := mat.NewDense(n, n+1, nil)

	for i := 0; i < n; i++ {
		rowCount := 0.0
		for j := 0; j < n; j++ {
			rowCount += float64(st.Cnt(i, j))
		}
		a.Set(i, n, beta*rowCount)
		a.Set(i, i, beta*rowCount)

		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			nij := float64(st.Cnt(i, j))
			a.Set(i, i, a.At(i, i) + 2*alpha*st.I(i, j)*st.I(i, j)*nij)
			a.Set(i, j, a.At(i, j) - 2*alpha*st.I(i, j)*st.I(j, i)*nij)
		}
	}

	return a
}

// SystemFromAccumulated builds the same system from per-pair intensity sums
// and pixel counts gathered elsewhere (for example by a blender that has
// already walked the overlaps). sums[i*n+j] is camera i's sum over its
// overlap with j. Intensities are taken as sum*16/count in integer
// arithmetic. A pair with a zero count keeps its raw sum as the intensity
// and is weighted as one pixel. The diagonal counts only feed the
// regularisation term.
func SystemFromAccumulated(alpha, beta float64, sums, counts []uint32, n int) *mat.Dense {
	st := NewStatistics(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i*n + j
			c := counts[k]
			st.Count[k] = max(c, 1)
			if i == j {
				continue
			}
			if c == 0 {
				st.Intensity[k] = float64(sums[k])
			} else {
				st.Intensity[k] = float64(uint64(sums[k]) * 16 / uint64(c))
			}
		}
	}
	return BuildSystem(st, alpha, beta)
}
