package genome

import (
	"fmt"
	"math"
	"sort"
)

// FitTolerance is the maximum relative difference allowed between a
// segment's recorded genetic length and the sum of its member partitions'
// estimated lengths after a successful fit.
const FitTolerance = 1e-6

const (
	// Convergence is checked against a tighter bound than FitTolerance so
	// a converged fit has slack for later float summation order.
	fitConvergence = 1e-9
	maxFitSweeps   = 10000
)

// RateFitError reports that the per-partition genetic lengths on a
// chromosome admit no non-negative solution consistent with the recorded
// segment lengths.
type RateFitError struct {
	Chromosome string
	SegmentIDs []int64
}

func (e *RateFitError) Error() string {
	return fmt.Sprintf("no non-negative rate fit on chromosome %s (segments %v)", e.Chromosome, e.SegmentIDs)
}

// FitRates estimates a genetic length for every partition in the arena.
//
// Each non-imputed segment contributes one linear constraint: the sum of its
// member partitions' lengths equals its recorded length. The over-determined
// system is solved by weighted Kaczmarz sweeps: constraints are visited in a
// fixed order and each residual is distributed across the constraint's
// partitions in proportion to physical length, clamping at zero. Longer
// segments carry proportionally larger corrections, so they dominate the
// reconciliation. The iteration is deterministic, making rebuilds
// reproducible.
//
// Physical and genetic distance are not linearly related, which is the whole
// reason this model exists: imputed segments have only physical coordinates
// and need per-partition rates to be assigned a genetic length.
func (a *Arena) FitRates(segments []Segment) error {
	type constraint struct {
		seg  Segment
		run  Run
		phys float64
	}

	var constraints []constraint
	for _, s := range segments {
		if s.Imputed || s.Chromosome != a.Chromosome {
			continue
		}
		run := a.SegmentRun(s)
		if run.Empty() {
			continue
		}
		constraints = append(constraints, constraint{seg: s, run: run, phys: float64(a.PhysLength(run))})
	}
	sort.Slice(constraints, func(i, j int) bool {
		ci, cj := constraints[i], constraints[j]
		if ci.seg.StartBP != cj.seg.StartBP {
			return ci.seg.StartBP < cj.seg.StartBP
		}
		if ci.seg.EndBP != cj.seg.EndBP {
			return ci.seg.EndBP < cj.seg.EndBP
		}
		return ci.seg.ID < cj.seg.ID
	})

	n := len(a.Partitions)
	phys := make([]float64, n)
	for i, p := range a.Partitions {
		phys[i] = float64(p.EndBP - p.StartBP)
	}

	// Initial estimate: each partition starts at its physical share of the
	// mean rate of the segments covering it, weighted by segment length.
	x := make([]float64, n)
	rateNum := make([]float64, n)
	rateDen := make([]float64, n)
	for _, c := range constraints {
		rate := c.seg.LengthCM / c.phys
		for i := c.run.Lo; i < c.run.Hi; i++ {
			rateNum[i] += c.phys * rate
			rateDen[i] += c.phys
		}
	}
	for i := 0; i < n; i++ {
		if rateDen[i] > 0 {
			x[i] = phys[i] * rateNum[i] / rateDen[i]
		}
	}

	residual := func(c constraint) float64 {
		sum := 0.0
		for i := c.run.Lo; i < c.run.Hi; i++ {
			sum += x[i]
		}
		return c.seg.LengthCM - sum
	}

	converged := false
	for sweep := 0; sweep < maxFitSweeps && !converged; sweep++ {
		for _, c := range constraints {
			r := residual(c)
			for i := c.run.Lo; i < c.run.Hi; i++ {
				x[i] += r * phys[i] / c.phys
				if x[i] < 0 {
					x[i] = 0
				}
			}
		}

		converged = true
		for _, c := range constraints {
			if relativeResidual(residual(c), c.seg.LengthCM) > fitConvergence {
				converged = false
				break
			}
		}
	}

	if !converged {
		err := &RateFitError{Chromosome: a.Chromosome}
		for _, c := range constraints {
			if relativeResidual(residual(c), c.seg.LengthCM) > FitTolerance {
				err.SegmentIDs = append(err.SegmentIDs, c.seg.ID)
			}
		}
		return err
	}

	for i := range a.Partitions {
		a.Partitions[i].LengthCM = x[i]
	}
	return nil
}

func relativeResidual(residual, length float64) float64 {
	denom := math.Abs(length)
	if denom < 1 {
		denom = 1
	}
	return math.Abs(residual) / denom
}
