package verlet

// Arena constrains particles to a bounded region. Contain repositions a
// single escaped particle; it mutates Pos only, so the correction is
// absorbed implicitly by the next integration step.
type Arena interface {
	Contain(p *Particle)
}

// CircleArena keeps every particle inside a disk.
type CircleArena struct {
	Center Vec2
	Radius float64
}

func (a CircleArena) Contain(p *Particle) {
	to := p.Pos.Sub(a.Center)
	limit := a.Radius - p.Radius
	if limit < 0 {
		limit = 0
	}
	dist := to.Len()
	if dist <= limit {
		return
	}
	if dist == 0 {
		// Center exactly on arena center with an oversized particle.
		p.Pos = a.Center
		return
	}
	p.Pos = a.Center.Add(to.Scale(limit / dist))
}

// BoxArena keeps every particle inside an axis-aligned rectangle.
type BoxArena struct {
	Min, Max Vec2
}

func (a BoxArena) Contain(p *Particle) {
	if p.Pos.X-p.Radius < a.Min.X {
		p.Pos.X = a.Min.X + p.Radius
	}
	if p.Pos.X+p.Radius > a.Max.X {
		p.Pos.X = a.Max.X - p.Radius
	}
	if p.Pos.Y-p.Radius < a.Min.Y {
		p.Pos.Y = a.Min.Y + p.Radius
	}
	if p.Pos.Y+p.Radius > a.Max.Y {
		p.Pos.Y = a.Max.Y - p.Radius
	}
}
