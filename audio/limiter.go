package audio

// Limiter is the emergency soft-limiter: repeated safety violations pull the
// output gain down instead of hard-cutting audio, and calm stretches restore
// it gradually.
type Limiter struct {
	gain          float32
	lastViolation int
}

const (
	limiterFloor   = 0.1  // Gain never drops below this
	limiterDuck    = 0.85 // Multiplier applied per new violation
	limiterRecover = 0.05 // Per-second restore rate toward unity
)

// NewLimiter returns a limiter at unity gain.
func NewLimiter() *Limiter {
	return &Limiter{gain: 1}
}

// Observe takes the guard's cumulative violation count once per tick and
// ducks the gain once per newly seen violation.
func (l *Limiter) Observe(violations int) {
	for v := l.lastViolation; v < violations; v++ {
		l.gain *= limiterDuck
	}
	if l.gain < limiterFloor {
		l.gain = limiterFloor
	}
	l.lastViolation = violations
}

// Step restores gain toward unity. Called once per tick with the tick dt.
func (l *Limiter) Step(dt float32) {
	l.gain += (1 - l.gain) * limiterRecover * dt * 60
	if l.gain > 1 {
		l.gain = 1
	}
}

// Apply attenuates one sample.
func (l *Limiter) Apply(sample float32) float32 {
	return sample * l.gain
}

// Gain exposes the current gain for the HUD.
func (l *Limiter) Gain() float32 { return l.gain }
