// Package ratelimit limita eventos por clave (p. ej. teléfono) con token bucket.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Keyed un token bucket por clave. Las claves inactivas se descartan en Sweep.
type Keyed struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

// PerMinute permite n eventos por minuto y clave, con ráfaga n.
func PerMinute(n int) *Keyed {
	if n <= 0 {
		n = 1
	}
	return New(rate.Every(time.Minute/time.Duration(n)), n)
}

func New(r rate.Limit, burst int) *Keyed {
	return &Keyed{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		idle:     3 * time.Minute,
		now:      time.Now,
	}
}

// Allow consume un evento de la clave.
func (k *Keyed) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	v, ok := k.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(k.rate, k.burst)}
		k.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Sweep elimina las claves sin actividad reciente. Devuelve cuántas quedaron.
func (k *Keyed) Sweep() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	cutoff := k.now().Add(-k.idle)
	for key, v := range k.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(k.visitors, key)
		}
	}
	return len(k.visitors)
}

// Run barre periódicamente hasta que stop se cierre.
func (k *Keyed) Run(stop <-chan struct{}) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			k.Sweep()
		}
	}
}
