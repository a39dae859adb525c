package laser

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/coldatoms/motsim/internal/engine"
	"github.com/coldatoms/motsim/internal/phys"
	"github.com/coldatoms/motsim/internal/species"
)

func singleAtom(t *testing.T, nBeams int, vel r3.Vec) (*engine.World, engine.Entity) {
	t.Helper()
	w := engine.NewWorld(nBeams)
	q := w.Buffer().NewQueue()
	q.Create(engine.NewAtom{Vel: vel, Mass: species.Rubidium87().Mass})
	e := w.Buffer().Apply()[0]
	return w, e
}

func ctxFor(w *engine.World, dt float64, seed uint64) *engine.Ctx {
	rng, src := engine.NewStream(seed)
	return &engine.Ctx{
		World: w, Lo: 0, Hi: w.Cap(),
		Dt: dt, Rand: rng, Src: src,
		Buf: w.Buffer().NewQueue(),
	}
}

func TestResonantBeamPushesAlongBeam(t *testing.T) {
	sp := species.Rubidium87()
	w, e := singleAtom(t, 1, r3.Vec{})
	beam := Beam{Wavelength: sp.Wavelength, Detuning: 0, Intensity: sp.SaturationIntensity, Direction: r3.Vec{X: 1}}
	sys := ForceSystem{Beams: []Beam{beam}, Table: []species.Species{sp}}
	sys.UpdateBatch(ctxFor(w, 1e-6, 1))

	// At resonance with I = I_sat, s = 1 and the scattering rate is
	// Gamma/4.
	wantRate := sp.Gamma() / 4
	got := w.Beams[e.Index][0]
	if math.Abs(got.Rate-wantRate)/wantRate > 1e-9 {
		t.Errorf("scattering rate: got %g, want %g", got.Rate, wantRate)
	}
	if got.Detuning != 0 {
		t.Errorf("effective detuning at rest should be zero, got %g", got.Detuning)
	}
	f := w.Force[e.Index]
	wantF := phys.HBar * beam.Wavenumber() * wantRate
	if math.Abs(f.X-wantF)/wantF > 1e-9 || f.Y != 0 || f.Z != 0 {
		t.Errorf("force: got %v, want (%g, 0, 0)", f, wantF)
	}
}

func TestZeroLinewidthScattersNothing(t *testing.T) {
	sp := species.Species{Name: "inert", Mass: 1e-25, Wavelength: 500e-9}
	w, e := singleAtom(t, 1, r3.Vec{X: 3})
	beam := Beam{Wavelength: 500e-9, Intensity: 100, Direction: r3.Vec{X: 1}}
	sys := ForceSystem{Beams: []Beam{beam}, Table: []species.Species{sp}}
	sys.UpdateBatch(ctxFor(w, 1e-6, 1))

	if f := w.Force[e.Index]; r3.Norm(f) != 0 {
		t.Errorf("zero-linewidth species should feel no force, got %v", f)
	}
	if s := w.Beams[e.Index][0]; s.Rate != 0 || s.Detuning != 0 {
		t.Errorf("expected empty beam sample, got %+v", s)
	}
}

func TestDopplerShiftCools(t *testing.T) {
	// Red-detuned counter-propagating pair: a moving atom is closer to
	// resonance with the opposing beam, so the net force opposes motion.
	sp := species.Rubidium87()
	w, e := singleAtom(t, 2, r3.Vec{X: 5})
	beams := []Beam{
		{Wavelength: sp.Wavelength, Detuning: -6e6, Intensity: sp.SaturationIntensity, Direction: r3.Vec{X: 1}},
		{Wavelength: sp.Wavelength, Detuning: -6e6, Intensity: sp.SaturationIntensity, Direction: r3.Vec{X: -1}},
	}
	sys := ForceSystem{Beams: beams, Table: []species.Species{sp}}
	sys.UpdateBatch(ctxFor(w, 1e-6, 1))

	if f := w.Force[e.Index]; f.X >= 0 {
		t.Errorf("net force should oppose the motion, got %v", f)
	}
	if co, counter := w.Beams[e.Index][0].Rate, w.Beams[e.Index][1].Rate; counter <= co {
		t.Errorf("opposing beam should scatter faster: co %g, counter %g", co, counter)
	}
}

func TestZeemanShiftSign(t *testing.T) {
	sp := species.Rubidium87()
	w, e := singleAtom(t, 1, r3.Vec{})
	b0 := 1e-4
	w.Field[e.Index] = engine.FieldSample{B: r3.Vec{Z: b0}, Norm: b0}

	beam := Beam{Wavelength: sp.Wavelength, Detuning: 0, Intensity: sp.SaturationIntensity, Direction: r3.Vec{X: 1}, Polarization: 1}
	sys := ForceSystem{Beams: []Beam{beam}, Table: []species.Species{sp}}
	sys.UpdateBatch(ctxFor(w, 1e-6, 1))

	want := -sp.MuEff * b0 / phys.HBar
	got := w.Beams[e.Index][0].Detuning
	if math.Abs(got-want) > math.Abs(want)*1e-9 {
		t.Errorf("Zeeman-shifted detuning: got %g, want %g", got, want)
	}
}

func TestDarkAtomFeelsNoForce(t *testing.T) {
	sp := species.Rubidium87()
	w, e := singleAtom(t, 1, r3.Vec{})
	w.Flags[e.Index] |= engine.FlagDark
	w.Beams[e.Index][0] = engine.BeamSample{Rate: 99}

	beam := Beam{Wavelength: sp.Wavelength, Intensity: sp.SaturationIntensity, Direction: r3.Vec{X: 1}}
	sys := ForceSystem{Beams: []Beam{beam}, Table: []species.Species{sp}}
	sys.UpdateBatch(ctxFor(w, 1e-6, 1))

	if f := w.Force[e.Index]; r3.Norm(f) != 0 {
		t.Errorf("dark atom should feel no light force, got %v", f)
	}
	if s := w.Beams[e.Index][0]; s.Rate != 0 {
		t.Error("stale beam sample not cleared for dark atom")
	}
}

func TestBeamValidate(t *testing.T) {
	good := Beam{Wavelength: 780e-9, Intensity: 1, Direction: r3.Vec{X: 1}}
	if err := good.Validate(); err != nil {
		t.Errorf("valid beam rejected: %v", err)
	}
	cases := []Beam{
		{Wavelength: 0, Intensity: 1, Direction: r3.Vec{X: 1}},
		{Wavelength: 780e-9, Intensity: -1, Direction: r3.Vec{X: 1}},
		{Wavelength: 780e-9, Intensity: 1},
	}
	for i, b := range cases {
		if err := b.Validate(); err == nil {
			t.Errorf("case %d: invalid beam accepted", i)
		}
	}
}
