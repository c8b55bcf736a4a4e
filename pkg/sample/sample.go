// Package sample draws random interior points of a detector by rejection
// sampling.
//
// Candidates are drawn uniformly and independently in r, φ and z. This is
// not uniform in volume: small radii are over-represented relative to a
// Cartesian-uniform draw. Callers needing volume-uniform points must
// reweight.
package sample

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/chazu/detgeom/pkg/detector"
	"github.com/chazu/detgeom/pkg/kernel"
)

// ErrAttemptsExhausted is returned when an attempt budget runs out before
// enough points were accepted.
var ErrAttemptsExhausted = errors.New("sample: attempt budget exhausted")

// Region is the query surface the sampler needs. *detector.Detector
// satisfies it.
type Region interface {
	IsInsideCyl(p kernel.CylPoint) bool
	IsInsideClassCyl(c detector.Class, p kernel.CylPoint) bool
}

var _ Region = (*detector.Detector)(nil)

// Bounds is the cylindrical box candidates are drawn from, in metres and
// radians.
type Bounds struct {
	R   [2]float64
	Phi [2]float64
	Z   [2]float64
}

// WorldBounds returns bounds covering the world volume of a cylindrical
// detector.
func WorldBounds(d *detector.Detector) (Bounds, error) {
	if d.Coordinates() != detector.Cylindrical {
		return Bounds{}, fmt.Errorf("sample: world bounds need a cylindrical detector, got %s", d.Coordinates())
	}
	w := d.World().Tube
	return Bounds{
		R:   [2]float64{w.R.From, w.R.To},
		Phi: [2]float64{w.Phi.From, w.Phi.To},
		Z:   [2]float64{w.Z.From, w.Z.To},
	}, nil
}

func (b Bounds) draw(rng *rand.Rand) kernel.CylPoint {
	return kernel.CylPoint{
		R:   uniform(rng, b.R),
		Phi: uniform(rng, b.Phi),
		Z:   uniform(rng, b.Z),
	}
}

func uniform(rng *rand.Rand, iv [2]float64) float64 {
	return iv[0] + rng.Float64()*(iv[1]-iv[0])
}

// Option configures a sampling run.
type Option func(*settings)

type settings struct {
	maxAttempts int
	metrics     *Metrics
}

// WithMaxAttempts caps the number of candidate draws. Zero or negative
// means unbounded.
func WithMaxAttempts(n int) Option {
	return func(s *settings) { s.maxAttempts = n }
}

// WithMetrics records draw and rejection counts.
func WithMetrics(m *Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

func newSettings(opts []Option) settings {
	var s settings
	for _, o := range opts {
		o(&s)
	}
	return s
}

// rejection reasons, also used as metric labels.
const (
	reasonContact   = "contact"
	reasonOutside   = "outside"
	reasonClearance = "clearance"
)

// accept applies the acceptance rules to a candidate and returns the
// rejection reason, or "" if it is accepted.
func accept(d Region, p kernel.CylPoint, clearance float64) string {
	if d.IsInsideClassCyl(detector.Contact, p) {
		return reasonContact
	}
	if !d.IsInsideCyl(p) {
		return reasonOutside
	}
	for _, q := range [4]kernel.CylPoint{
		{R: p.R + clearance, Phi: p.Phi, Z: p.Z},
		{R: p.R - clearance, Phi: p.Phi, Z: p.Z},
		{R: p.R, Phi: p.Phi, Z: p.Z + clearance},
		{R: p.R, Phi: p.Phi, Z: p.Z - clearance},
	} {
		if !d.IsInsideCyl(q) {
			return reasonClearance
		}
	}
	return ""
}

// Sample returns n points drawn from b that lie inside d, outside every
// contact, and whose ±clearance neighbours along r and z are inside d.
// Points are returned in acceptance order.
//
// Without WithMaxAttempts the loop runs until n points are accepted; a
// region with no admissible points never terminates. With a budget, the
// points accepted so far are returned together with ErrAttemptsExhausted.
// The result is deterministic for a fixed rng state.
func Sample(d Region, n int, b Bounds, clearance float64, rng *rand.Rand, opts ...Option) ([]kernel.CylPoint, error) {
	s := newSettings(opts)
	return run(d, n, b, clearance, rng, s, nil)
}

// run is the shared rejection loop. stop, if non-nil, is polled between
// draws and aborts the loop with its error.
func run(d Region, n int, b Bounds, clearance float64, rng *rand.Rand, s settings, stop func() error) ([]kernel.CylPoint, error) {
	if n <= 0 {
		return nil, nil
	}
	out := make([]kernel.CylPoint, 0, n)
	for attempts := 0; len(out) < n; attempts++ {
		if s.maxAttempts > 0 && attempts >= s.maxAttempts {
			return out, fmt.Errorf("%w: %d of %d points after %d draws",
				ErrAttemptsExhausted, len(out), n, attempts)
		}
		if stop != nil {
			if err := stop(); err != nil {
				return out, err
			}
		}
		p := b.draw(rng)
		reason := accept(d, p, clearance)
		s.metrics.observe(reason)
		if reason != "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
