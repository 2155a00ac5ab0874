package databar

import (
	"math"
	"math/rand/v2"
)

// particle holds per-particle simulation state. Unexported; managed by
// particleField.
type particle struct {
	x, y   float64
	vx, vy float64
}

// Surface is a one-way wall segment. Particles collide only when
// approaching from the front, which is the side of the right-hand normal
// of From→To.
type Surface struct {
	From, To Vec2
}

// Vertical reports whether the surface is a vertical wall.
func (s Surface) Vertical() bool { return s.From.X == s.To.X }

// LeftWall reports whether the surface is the left edge of a label, i.e.
// it runs bottom to top.
func (s Surface) LeftWall() bool { return s.From.Y > s.To.Y }

// normal returns the unit front-facing normal.
func (s Surface) normal() (nx, ny float64) {
	dx, dy := s.To.X-s.From.X, s.To.Y-s.From.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dy / l, -dx / l
}

// boundaryWalls returns the four frame walls, each facing inward.
func boundaryWalls(w, h float64) []Surface {
	return []Surface{
		{From: Vec2{0, 0}, To: Vec2{0, h}},
		{From: Vec2{0, h}, To: Vec2{w, h}},
		{From: Vec2{w, h}, To: Vec2{w, 0}},
		{From: Vec2{w, 0}, To: Vec2{0, 0}},
	}
}

// labelWalls erects a pair of outward-facing walls at the pixel edges of
// every label.
func labelWalls(labels []*Label, x Scale, h float64) []Surface {
	out := make([]Surface, 0, 2*len(labels))
	for _, l := range labels {
		xl, xr := x.Map(l.Start), x.Map(l.End)
		out = append(out,
			Surface{From: Vec2{xl, h}, To: Vec2{xl, 0}},
			Surface{From: Vec2{xr, 0}, To: Vec2{xr, h}},
		)
	}
	return out
}

// particleField is a small velocity-Verlet force simulation. Forces
// accumulate into velocities, then velocities decay and are integrated into
// positions once per tick.
type particleField struct {
	particles []particle
	rng       *rand.Rand

	radius        float64
	collideRadius float64
	velocityDecay float64
	elasticity    float64
}

func newParticleField(rng *rand.Rand, radius, collideRadius, velocityDecay, elasticity float64) *particleField {
	return &particleField{
		rng:           rng,
		radius:        radius,
		collideRadius: collideRadius,
		velocityDecay: velocityDecay,
		elasticity:    elasticity,
	}
}

func (f *particleField) add(x, y float64) {
	f.particles = append(f.particles, particle{x: x, y: y})
}

func (f *particleField) reset() {
	f.particles = f.particles[:0]
}

func (f *particleField) jiggle() float64 {
	return (f.rng.Float64() - 0.5) * 1e-6
}

// collide pushes apart every pair of particles whose predicted positions are
// closer than twice the collide radius.
func (f *particleField) collide(strength float64) {
	ri := f.collideRadius
	rj2 := ri * ri
	split := rj2 / (ri*ri + rj2)
	r := 2 * ri
	for i := range f.particles {
		a := &f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := &f.particles[j]
			x := (a.x + a.vx) - (b.x + b.vx)
			y := (a.y + a.vy) - (b.y + b.vy)
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = f.jiggle()
				l += x * x
			}
			if y == 0 {
				y = f.jiggle()
				l += y * y
			}
			d := math.Sqrt(l)
			k := (r - d) / d * strength
			x *= k
			y *= k
			a.vx += x * split
			a.vy += y * split
			b.vx -= x * (1 - split)
			b.vy -= y * (1 - split)
		}
	}
}

// contain reflects particles whose next step would cross a surface from its
// front side, calling onImpact for every collision.
func (f *particleField) contain(surfaces []Surface, onImpact func(Surface)) {
	for i := range f.particles {
		p := &f.particles[i]
		for _, s := range surfaces {
			if f.crosses(p, s) {
				nx, ny := s.normal()
				vn := p.vx*nx + p.vy*ny
				p.vx -= (1 + f.elasticity) * vn * nx
				p.vy -= (1 + f.elasticity) * vn * ny
				if onImpact != nil {
					onImpact(s)
				}
			}
		}
	}
}

// crosses reports whether p moving by its velocity passes through s, with s
// pushed out along its normal by the particle radius.
func (f *particleField) crosses(p *particle, s Surface) bool {
	nx, ny := s.normal()
	if nx == 0 && ny == 0 {
		return false
	}
	ox, oy := s.From.X+nx*f.radius, s.From.Y+ny*f.radius
	d0 := (p.x-ox)*nx + (p.y-oy)*ny
	d1 := (p.x+p.vx-ox)*nx + (p.y+p.vy-oy)*ny
	if d0 < 0 || d1 >= 0 {
		return false
	}
	t := d0 / (d0 - d1)
	cx := p.x + p.vx*t - ox
	cy := p.y + p.vy*t - oy
	tx, ty := s.To.X-s.From.X, s.To.Y-s.From.Y
	seg := tx*tx + ty*ty
	along := (cx*tx + cy*ty) / seg
	return along >= 0 && along <= 1
}

// pullX nudges every particle's x velocity toward target(x).
func (f *particleField) pullX(target func(x float64) float64, strength float64) {
	for i := range f.particles {
		p := &f.particles[i]
		p.vx += (target(p.x) - p.x) * strength
	}
}

// pullY nudges every particle's y velocity toward target(x).
func (f *particleField) pullY(target func(x float64) float64, strength float64) {
	for i := range f.particles {
		p := &f.particles[i]
		p.vy += (target(p.x) - p.y) * strength
	}
}

// integrate decays velocities and advances positions.
func (f *particleField) integrate() {
	keep := 1 - f.velocityDecay
	for i := range f.particles {
		p := &f.particles[i]
		p.vx *= keep
		p.vy *= keep
		p.x += p.vx
		p.y += p.vy
	}
}

// extent returns the smallest and largest particle x.
func (f *particleField) extent() (lo, hi float64, ok bool) {
	if len(f.particles) == 0 {
		return 0, 0, false
	}
	lo, hi = f.particles[0].x, f.particles[0].x
	for _, p := range f.particles[1:] {
		lo = math.Min(lo, p.x)
		hi = math.Max(hi, p.x)
	}
	return lo, hi, true
}

// positions appends every particle's position to buf.
func (f *particleField) positions(buf []Vec2) []Vec2 {
	for _, p := range f.particles {
		buf = append(buf, Vec2{p.x, p.y})
	}
	return buf
}

// rollField returns the lateral target for the depth field ys: x shifted by
// the symmetric slope of ys sampled dx pixels to either side, so particles
// drift downhill.
func rollField(ys func(float64) float64, dx float64) func(float64) float64 {
	return func(x float64) float64 {
		y0 := ys(x)
		left := (y0 - ys(x-dx)) / (dx * 2)
		right := (y0 - ys(x+dx)) / (dx * 2)
		return x + left - right
	}
}
