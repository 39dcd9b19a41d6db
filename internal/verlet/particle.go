package verlet

// Particle is a single circular body. Velocity is never stored: it is
// implicit in the spread between Pos and PrevPos, which is what makes
// the Verlet scheme stable under positional constraint corrections.
type Particle struct {
	Pos     Vec2
	PrevPos Vec2
	Acc     Vec2
	Radius  float64
}

// Accelerate accumulates a force-equivalent for the current substep.
func (p *Particle) Accelerate(a Vec2) {
	p.Acc = p.Acc.Add(a)
}

// Velocity derives the implicit velocity over the given substep length.
func (p *Particle) Velocity(dt float64) Vec2 {
	return p.Pos.Sub(p.PrevPos).Scale(1 / dt)
}

// Speed is the implicit velocity magnitude over the given substep length.
func (p *Particle) Speed(dt float64) float64 {
	return p.Pos.Sub(p.PrevPos).Len() / dt
}

// integrate performs one Verlet position update and resets the
// accumulated acceleration for the next substep.
func (p *Particle) integrate(dt float64) {
	disp := p.Pos.Sub(p.PrevPos)
	p.PrevPos = p.Pos
	p.Pos = p.Pos.Add(disp).Add(p.Acc.Scale(dt * dt))
	p.Acc = Vec2{}
}
