// Package sim generates ticket-market traffic for load runs against the API.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"entertablock.io/internal/registry"
)

// Fan is a buyer with a prepaid credit budget.
type Fan struct {
	Identity registry.Identity
	Label    string
	Budget   int64
}

// Purchase is one generated ticket order.
type Purchase struct {
	Buyer    registry.Identity
	Quantity int64
}

type Scenario struct {
	Name        string
	EventName   string
	TicketPrice int64
	Organizer   registry.Identity
	Payees      []registry.Identity
	Fans        []Fan
}

// ident derives a stable address for the n-th simulated participant.
func ident(n int) registry.Identity {
	return registry.MustIdentity(fmt.Sprintf("0x%040x", 0x5eed0000+n))
}

// SoldOutShowScenario is a single event with a crowd of fans competing for seats.
func SoldOutShowScenario(fans int) Scenario {
	if fans < 1 {
		fans = 1
	}
	s := Scenario{
		Name:        "SoldOutShow",
		EventName:   "Warehouse Live",
		TicketPrice: 25,
		Organizer:   ident(0),
		Payees:      []registry.Identity{ident(0), ident(1)},
	}
	for i := 0; i < fans; i++ {
		s.Fans = append(s.Fans, Fan{
			Identity: ident(100 + i),
			Label:    fmt.Sprintf("fan-%03d", i),
			Budget:   1_000,
		})
	}
	return s
}

type Generator struct {
	scenario Scenario
	rnd      *rand.Rand
}

func NewGenerator(scenario Scenario, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{scenario: scenario, rnd: rand.New(rand.NewSource(seed))}
}

// NextPurchase picks a fan and a quantity between 1 and 4.
func (g *Generator) NextPurchase() Purchase {
	fans := g.scenario.Fans
	if len(fans) == 0 {
		panic("scenario requires at least one fan")
	}
	return Purchase{
		Buyer:    fans[g.rnd.Intn(len(fans))].Identity,
		Quantity: int64(g.rnd.Intn(4) + 1),
	}
}

func (g *Generator) Scenario() Scenario {
	s := g.scenario
	s.Fans = append([]Fan(nil), g.scenario.Fans...)
	s.Payees = append([]registry.Identity(nil), g.scenario.Payees...)
	return s
}
