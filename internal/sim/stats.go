package sim

import (
	"sync"

	"entertablock.io/internal/registry"
)

// Counter tallies accepted purchases. It is safe for concurrent use.
type Counter struct {
	mu      sync.Mutex
	orders  int
	tickets int64
	spend   int64
	byBuyer map[registry.Identity]int64
}

func (c *Counter) Add(p Purchase, price int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byBuyer == nil {
		c.byBuyer = make(map[registry.Identity]int64)
	}
	c.orders++
	c.tickets += p.Quantity
	c.spend += p.Quantity * price
	c.byBuyer[p.Buyer] += p.Quantity
}

// Totals returns orders, tickets and spend recorded so far.
func (c *Counter) Totals() (orders int, tickets, spend int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orders, c.tickets, c.spend
}

// Held is the number of tickets bought by id.
func (c *Counter) Held(id registry.Identity) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byBuyer[id]
}
