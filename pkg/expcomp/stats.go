package expcomp

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/expcomp/pkg/ecolor"
)

// Statistics are the per-frame overlap measurements that the gain system is
// built from. Entries are indexed [i*N+j]; Intensity[i*N+j] is camera i's
// mean over its overlap with camera j, so the count is symmetric but the
// intensity isn't.
type Statistics struct {
	N         int
	Count     []uint32
	Intensity []float64

	// What the single-image scan of each camera's own region found. These
	// don't feed the gain system (its diagonal is fixed at count 1,
	// intensity 0) but are useful for reporting.
	SelfCount     []uint32
	SelfIntensity []float64
}

func NewStatistics(n int) Statistics {
	st := Statistics{
		N:             n,
		Count:         make([]uint32, n*n),
		Intensity:     make([]float64, n*n),
		SelfCount:     make([]uint32, n),
		SelfIntensity: make([]float64, n),
	}
	for i := range st.Count {
		st.Count[i] = 1
	}
	return st
}

func (st Statistics) Cnt(i, j int) uint32 { return st.Count[i*st.N+j] }
func (st Statistics) I(i, j int) float64 { return st.Intensity[i*st.N+j] }

// CountMatrix and IntensityMatrix lay the statistics out as N x N
// matrices, rows indexed by camera i.
func (st Statistics) CountMatrix() *mat.Dense {
	m := mat.NewDense(st.N, st.N, nil)
	for k, c := range st.Count {
		m.Set(k/st.N, k%st.N, float64(c))
	}
	return m
}

func (st Statistics) IntensityMatrix() *mat.Dense {
	return mat.NewDense(st.N, st.N, append([]float64{}, st.Intensity...))
}

func (st Statistics) String() string {
	str := fmt.Sprintf("Statistics[%d] [\n", st.N)
	for i := 0; i < st.N; i++ {
		str += fmt.Sprintf("  cam%d self: n=%d, I=%.2f\n", i, st.SelfCount[i], st.SelfIntensity[i])
		for j := 0; j < st.N; j++ {
			if i != j && st.Cnt(i, j) > 1 {
				str += fmt.Sprintf("  cam%d vs cam%d: n=%d, I=%.2f\n", i, j, st.Cnt(i, j), st.I(i, j))
			}
		}
	}
	return str + "]\n"
}

// ScanParams control how the statistics scan walks the frame.
type ScanParams struct {
	Intensity  ecolor.IntensityFunc
	TileWidth  int
	TileHeight int
	Workers    int // <= 0 means one per CPU
}

type scanJob struct {
	i, j int
}

type scanResult struct {
	count      uint64
	sumI, sumJ uint64
}

// CollectStatistics scans every non-empty overlap (and every camera's own
// region) of a stacked frame. Camera i lives in rows [i*bandHeight,
// (i+1)*bandHeight) and the overlap rectangles are in band coordinates.
// Scans run on a bounded pool of goroutines; sums are integers, so the
// result doesn't depend on scheduling.
func CollectStatistics(img *image.RGBA, bandHeight int, ov OverlapMatrix, sp ScanParams) Statistics {
	n := ov.N()
	st := NewStatistics(n)

	jobs := []scanJob{}
	for i := 0; i < n; i++ {
		jobs = append(jobs, scanJob{i, i})
		for j := i + 1; j < n; j++ {
			if ov.Has(i, j) {
				jobs = append(jobs, scanJob{i, j})
			}
		}
	}

	results := make([]scanResult, len(jobs))
	nWorkers := sp.Workers
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	nWorkers = min(nWorkers, len(jobs))

	queue := make(chan int, len(jobs))
	for idx := range jobs {
		queue <- idx
	}
	close(queue)

	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				job := jobs[idx]
				if job.i == job.j {
					results[idx] = scanSingle(img, bandHeight, job.i, ov.At(job.i, job.i), sp)
				} else {
					results[idx] = scanPair(img, bandHeight, job.i, job.j, ov.At(job.i, job.j), sp)
				}
			}
		}()
	}
	wg.Wait()

	for idx, job := range jobs {
		res := results[idx]
		if job.i == job.j {
			st.SelfCount[job.i] = uint32(res.count)
			if res.count > 0 {
				st.SelfIntensity[job.i] = float64(res.sumI) / float64(res.count)
			}
			continue
		}
		if res.count == 0 {
			// Nothing valid to compare; leave count 1 and intensity 0.
			continue
		}
		ij, ji := job.i*n+job.j, job.j*n+job.i
		st.Count[ij] = uint32(res.count)
		st.Count[ji] = uint32(res.count)
		st.Intensity[ij] = float64(res.sumI) / float64(res.count)
		st.Intensity[ji] = float64(res.sumJ) / float64(res.count)
	}

	return st
}

// scanPair compares the two bands pixel by pixel over the overlap. A
// position only counts if both cameras have data there.
func scanPair(img *image.RGBA, bandHeight, i, j int, r image.Rectangle, sp ScanParams) scanResult {
	res := scanResult{}
	oi := bandOrigin(img.Rect, bandHeight, i)
	oj := bandOrigin(img.Rect, bandHeight, j)

	for _, t := range Tiles(r, sp.TileWidth, sp.TileHeight) {
		for y := t.Min.Y; y < t.Max.Y; y++ {
			pi := img.PixOffset(oi.X+t.Min.X, oi.Y+y)
			pj := img.PixOffset(oj.X+t.Min.X, oj.Y+y)
			for x := t.Min.X; x < t.Max.X; x++ {
				a, b := ecolor.Load(img.Pix[pi:]), ecolor.Load(img.Pix[pj:])
				if a.IsValid() && b.IsValid() {
					res.count++
					res.sumI += uint64(sp.Intensity(a))
					res.sumJ += uint64(sp.Intensity(b))
				}
				pi += 4
				pj += 4
			}
		}
	}

	return res
}

func scanSingle(img *image.RGBA, bandHeight, i int, r image.Rectangle, sp ScanParams) scanResult {
	res := scanResult{}
	o := bandOrigin(img.Rect, bandHeight, i)

	for _, t := range Tiles(r, sp.TileWidth, sp.TileHeight) {
		for y := t.Min.Y; y < t.Max.Y; y++ {
			p := img.PixOffset(o.X+t.Min.X, o.Y+y)
			for x := t.Min.X; x < t.Max.X; x++ {
				if v := ecolor.Load(img.Pix[p:]); v.IsValid() {
					res.count++
					res.sumI += uint64(sp.Intensity(v))
				}
				p += 4
			}
		}
	}

	return res
}
