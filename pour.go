package databar

import (
	"errors"
	"math/rand/v2"
	"time"
)

// ErrNoEnergy is returned by PourBehavior.Start when the depth source has no
// values to pour against.
var ErrNoEnergy = errors.New("databar: no energy for pour")

// PourConfig tunes the pour simulation. Zero fields take the defaults
// listed on each field.
type PourConfig struct {
	// ParticleRadius is the radius used against walls. Default 2.
	ParticleRadius float64
	// CollideRadius is the radius used between particles. Default 5.
	CollideRadius float64
	// SlopeDX is the half-width in pixels of the slope estimate. Default 10.
	SlopeDX float64
	// PerInject is the number of particles added per injection. Default 2.
	PerInject int
	// InjectEvery is the number of ticks between injections. Default 5.
	InjectEvery int
	// Spread is the standard deviation in pixels of the injection x. Default 1.
	Spread float64
	// FallStrength pulls particles toward the depth field. Default 0.1.
	FallStrength float64
	// RollStrength pushes particles downhill. Default 0.1.
	RollStrength float64
	// VelocityDecay is the fraction of velocity lost per tick. Default 0.4.
	VelocityDecay float64
	// Elasticity scales the bounce off walls. Default 1.
	Elasticity float64
	// MaxParticles caps injection. Default 600.
	MaxParticles int
	// Step is the simulated time per tick in seconds. Default 1/60.
	Step float64
	// FadeDuration is how long particles take to fade after End, in
	// seconds. Default 0.75.
	FadeDuration float32
	// Seed seeds the injection and jiggle RNG. Zero picks a random seed.
	Seed uint64
}

func (c *PourConfig) defaults() {
	if c.ParticleRadius <= 0 {
		c.ParticleRadius = 2
	}
	if c.CollideRadius <= 0 {
		c.CollideRadius = 5
	}
	if c.SlopeDX <= 0 {
		c.SlopeDX = 10
	}
	if c.PerInject <= 0 {
		c.PerInject = 2
	}
	if c.InjectEvery <= 0 {
		c.InjectEvery = 5
	}
	if c.Spread <= 0 {
		c.Spread = 1
	}
	if c.FallStrength <= 0 {
		c.FallStrength = 0.1
	}
	if c.RollStrength <= 0 {
		c.RollStrength = 0.1
	}
	if c.VelocityDecay <= 0 {
		c.VelocityDecay = 0.4
	}
	if c.Elasticity <= 0 {
		c.Elasticity = 1
	}
	if c.MaxParticles <= 0 {
		c.MaxParticles = 600
	}
	if c.Step <= 0 {
		c.Step = 1.0 / 60
	}
	if c.FadeDuration <= 0 {
		c.FadeDuration = 0.75
	}
}

// SimulationState is a snapshot of the pour after a Tick.
type SimulationState struct {
	Running   bool
	Ticks     int
	Particles int
	// Label is the label being poured, nil when not running.
	Label *Label
}

// PourBehavior grows a label by dropping particles that settle into the
// depth field, stopped by the frame and by the walls of every other label.
type PourBehavior struct {
	cfg      PourConfig
	labeller *Labeller
	scales   *Scales
	frame    Frame
	depth    DepthScale
	renderer LabelRenderer

	rng     *rand.Rand
	field   *particleField
	running bool
	current *Label
	clickX  float64
	ticks   int
	accum   float64
	ys      func(float64) float64
	roll    func(float64) float64
	walls   []Surface
	bounds  []Surface
	started time.Time
	posBuf  []Vec2
}

// NewPourBehavior creates an idle pour. renderer may be nil.
func NewPourBehavior(cfg PourConfig, labeller *Labeller, scales *Scales, frame Frame, depth DepthScale, renderer LabelRenderer) *PourBehavior {
	cfg.defaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return &PourBehavior{
		cfg:      cfg,
		labeller: labeller,
		scales:   scales,
		frame:    frame,
		depth:    depth,
		renderer: renderer,
		rng:      rng,
		field:    newParticleField(rng, cfg.ParticleRadius, cfg.CollideRadius, cfg.VelocityDecay, cfg.Elasticity),
		bounds:   boundaryWalls(frame.Width, frame.Height),
	}
}

// SetDepth replaces the depth source used by the next Start.
func (p *PourBehavior) SetDepth(depth DepthScale) { p.depth = depth }

// Pouring reports whether a simulation is running.
func (p *PourBehavior) Pouring() bool { return p.running }

// Current returns the label being poured, or nil.
func (p *PourBehavior) Current() *Label { return p.current }

// Start begins pouring at frame-local pixel x with label type key. If a pour
// is already running it is ended instead and Start returns without starting
// a new one.
func (p *PourBehavior) Start(px float64, key TypeKey) error {
	if !p.depth.HasEnergy() {
		return ErrNoEnergy
	}
	if p.running {
		logger().Warn("pour already in progress", "ticks", p.ticks, "particles", len(p.field.particles))
		p.End()
		return nil
	}
	x := p.scales.X
	walls := labelWalls(p.labeller.Labels(), x, p.frame.Height)
	lbl, err := p.labeller.Add(px, key, 1)
	if err != nil {
		return err
	}
	logger().Debug("pour start", "x", px, "label", lbl.ID)

	p.ys = p.depth.Field(x)
	p.roll = rollField(p.ys, p.cfg.SlopeDX)
	p.walls = walls
	p.current = lbl
	p.clickX = px
	p.ticks = 0
	p.accum = 0
	p.field.reset()
	p.running = true
	p.started = time.Now()
	return nil
}

// End stops the pour, fades out its particles and forgets the label being
// poured. Safe to call at any time, any number of times.
func (p *PourBehavior) End() {
	if p.running {
		logger().Debug("pour end", "ticks", p.ticks, "particles", len(p.field.particles),
			"elapsed", time.Since(p.started))
	}
	if p.renderer != nil && len(p.field.particles) > 0 {
		p.renderer.FadeParticles(p.field.positions(nil), p.cfg.FadeDuration)
	}
	p.running = false
	p.current = nil
	p.field.reset()
	p.walls = nil
	p.ys, p.roll = nil, nil
}

// Tick advances the simulation by dt seconds in fixed steps.
func (p *PourBehavior) Tick(dt float64) SimulationState {
	if p.running {
		p.accum += dt
		for p.accum >= p.cfg.Step && p.running {
			p.accum -= p.cfg.Step
			p.step()
		}
		if p.renderer != nil {
			p.posBuf = p.field.positions(p.posBuf[:0])
			p.renderer.DrawParticles(p.posBuf)
		}
	}
	return p.State()
}

// State reports the current simulation state.
func (p *PourBehavior) State() SimulationState {
	return SimulationState{
		Running:   p.running,
		Ticks:     p.ticks,
		Particles: len(p.field.particles),
		Label:     p.current,
	}
}

// step runs one simulation tick: forces, integration, injection and growth.
func (p *PourBehavior) step() {
	f := p.field
	f.collide(1)
	f.contain(p.bounds, p.impact)
	f.contain(p.walls, p.impact)
	f.pullY(p.ys, p.cfg.FallStrength)
	f.pullX(p.roll, p.cfg.RollStrength)
	f.integrate()

	if p.ticks%p.cfg.InjectEvery == 0 {
		p.inject()
	}
	if len(f.particles) == 0 {
		logger().Warn("pour has no particles", "ticks", p.ticks)
		return
	}
	lo, hi, _ := f.extent()
	if _, err := p.labeller.Grow(p.current, lo, hi); err != nil {
		logger().Warn("pour grow failed", "ticks", p.ticks, "err", err)
		p.End()
		return
	}
	p.ticks++
}

func (p *PourBehavior) inject() {
	for range p.cfg.PerInject {
		if len(p.field.particles) >= p.cfg.MaxParticles {
			return
		}
		p.field.add(p.clickX+p.rng.NormFloat64()*p.cfg.Spread, 1)
	}
}

// impact grows the poured label toward the vertical wall that was hit.
func (p *PourBehavior) impact(s Surface) {
	if p.current == nil || !s.Vertical() {
		return
	}
	side := SideLeft
	if s.LeftWall() {
		side = SideRight
	}
	if err := p.labeller.GrowTo(p.current, side, s.To.X); err != nil {
		logger().Warn("pour impact not applied", "side", side, "x", s.To.X, "err", err)
	}
}
