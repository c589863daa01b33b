package engine

import (
	"context"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/mds"
)

// Spring-electrical parameters for gonum's EadesR2 optimizer.
const (
	eadesUpdates   = 100
	eadesRepulsion = 1
	eadesRate      = 0.05
	eadesTheta     = 0.2
)

// Stress majorization stops after stressIterations sweeps or when no vertex
// moves further than stressTolerance.
const (
	stressIterations = 300
	stressTolerance  = 1e-4
)

func circle(n int) []r2.Vec {
	pts := make([]r2.Vec, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = r2.Vec{X: math.Cos(a), Y: math.Sin(a)}
	}
	return pts
}

// sphere spreads n points along a spiral from the south to the north pole of
// the unit sphere and drops the z coordinate.
func sphere(n int) []r2.Vec {
	pts := make([]r2.Vec, n)
	phi := 0.0
	for i := range pts {
		h := -1.0
		if n > 1 {
			h = -1 + 2*float64(i)/float64(n-1)
		}
		theta := math.Acos(h)
		if i == 0 || i == n-1 {
			phi = 0
		} else {
			phi = math.Mod(phi+3.6/math.Sqrt(float64(n)*(1-h*h)), 2*math.Pi)
		}
		pts[i] = r2.Vec{X: math.Cos(phi) * math.Sin(theta), Y: math.Sin(phi) * math.Sin(theta)}
	}
	return pts
}

// classicalScaling embeds the hop-distance matrix with Torgerson scaling,
// keeping the two leading dimensions. Falls back to a circle when the
// scaling has no positive eigenvalue.
func classicalScaling(a *adjacency) []r2.Vec {
	switch a.n {
	case 0:
		return nil
	case 1:
		return []r2.Vec{{}}
	}

	d := a.hopDistances()
	dis := mat.NewSymDense(a.n, nil)
	for i := range a.n {
		for j := i + 1; j < a.n; j++ {
			dis.SetSym(i, j, d[i][j])
		}
	}

	var coords mat.Dense
	k, _ := mds.TorgersonScaling(&coords, nil, dis)
	if k == 0 || coords.IsEmpty() {
		return circle(a.n)
	}
	_, cols := coords.Dims()
	pts := make([]r2.Vec, a.n)
	for i := range pts {
		pts[i].X = coords.At(i, 0)
		if k >= 2 && cols >= 2 {
			pts[i].Y = coords.At(i, 1)
		}
	}
	return pts
}

// springElectrical runs gonum's Eades spring embedder from seeded random
// starting positions.
func springElectrical(ctx context.Context, a *adjacency, seed uint64) ([]r2.Vec, error) {
	if a.n <= 1 {
		return make([]r2.Vec, a.n), nil
	}
	eades := layout.EadesR2{
		Updates:   eadesUpdates,
		Repulsion: eadesRepulsion,
		Rate:      eadesRate,
		Theta:     eadesTheta,
		Src:       rand.NewSource(seed),
	}
	o := layout.NewOptimizerR2(ordered{a.plain}, eades.Update)
	for o.Update() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	pts := make([]r2.Vec, a.n)
	for i := range pts {
		pts[i] = o.Coord2(int64(i))
	}
	return pts, nil
}

// stressMajorization minimizes the layout stress
//
//	sum over i<j of d_ij^-2 * (|x_i - x_j| - d_ij)^2
//
// over hop distances d_ij with localized SMACOF updates, starting from the
// classical scaling embedding plus a small seeded jitter.
func stressMajorization(ctx context.Context, a *adjacency, seed uint64) ([]r2.Vec, error) {
	if a.n <= 1 {
		return make([]r2.Vec, a.n), nil
	}
	d := a.hopDistances()
	pts := classicalScaling(a)

	rnd := rand.New(rand.NewSource(seed))
	for i := range pts {
		pts[i].X += (rnd.Float64() - 0.5) * 1e-3
		pts[i].Y += (rnd.Float64() - 0.5) * 1e-3
	}

	for range stressIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		moved := 0.0
		for i := range pts {
			var num r2.Vec
			den := 0.0
			for j := range pts {
				if i == j || d[i][j] == 0 {
					continue
				}
				w := 1 / (d[i][j] * d[i][j])
				diff := r2.Sub(pts[i], pts[j])
				target := pts[j]
				if dist := r2.Norm(diff); dist > 0 {
					target = r2.Add(target, r2.Scale(d[i][j]/dist, diff))
				}
				num = r2.Add(num, r2.Scale(w, target))
				den += w
			}
			if den == 0 {
				continue
			}
			next := r2.Scale(1/den, num)
			moved = max(moved, r2.Norm(r2.Sub(next, pts[i])))
			pts[i] = next
		}
		if moved < stressTolerance {
			break
		}
	}
	return pts, nil
}

// rescale maps each axis of pts linearly onto [-1, 1]. A degenerate axis
// collapses to 0.
func rescale(pts []r2.Vec) {
	if len(pts) == 0 {
		return
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	scale := func(v, lo, hi float64) float64 {
		if hi-lo == 0 {
			return 0
		}
		return 2*(v-lo)/(hi-lo) - 1
	}
	for i, p := range pts {
		pts[i] = r2.Vec{X: scale(p.X, lo.X, hi.X), Y: scale(p.Y, lo.Y, hi.Y)}
	}
}
