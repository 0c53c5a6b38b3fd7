// Package cache contém o cache com expiração usado pelo motor de análises
package cache

import (
	"sync"
	"time"
)

type item[V any] struct {
	value    V
	storedAt time.Time
}

// Expiring é um cache em memória com TTL único para todas as chaves.
// Seguro para uso concorrente.
type Expiring[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]item[V]
	ttl   time.Duration
	now   func() time.Time
}

// Option configura um cache Expiring
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock substitui o relógio usado para calcular a expiração
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewExpiring cria um cache com o TTL informado
func NewExpiring[K comparable, V any](ttl time.Duration, opts ...Option) *Expiring[K, V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Expiring[K, V]{
		items: make(map[K]item[V]),
		ttl:   ttl,
		now:   o.now,
	}
}

// Get retorna o valor se ele existir e ainda estiver dentro do TTL
func (c *Expiring[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || c.expired(it) {
		var zero V
		return zero, false
	}

	return it.value, true
}

// Set publica o valor, substituindo qualquer valor anterior da chave
func (c *Expiring[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item[V]{value: value, storedAt: c.now()}
}

func (c *Expiring[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear remove todas as entradas
func (c *Expiring[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]item[V])
}

// Purge remove as entradas expiradas e retorna quantas foram removidas
func (c *Expiring[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, it := range c.items {
		if c.expired(it) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Len retorna a quantidade de entradas válidas
func (c *Expiring[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, it := range c.items {
		if !c.expired(it) {
			count++
		}
	}
	return count
}

// Age retorna há quanto tempo a chave foi gravada
func (c *Expiring[K, V]) Age(key K) (time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok {
		return 0, false
	}
	return c.now().Sub(it.storedAt), true
}

func (c *Expiring[K, V]) TTL() time.Duration {
	return c.ttl
}

func (c *Expiring[K, V]) expired(it item[V]) bool {
	return c.ttl > 0 && c.now().Sub(it.storedAt) >= c.ttl
}
