package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	// Clock provides the current instant. The ledger and the payment
	// lifecycle never call time.Now directly so tests can freeze time.
	Clock interface {
		Now() time.Time
	}

	// IDGenerator produces record ids: a monotonic-enough token made of a
	// timestamp plus a random suffix. Collision handling is a non-goal.
	IDGenerator interface {
		NextID() string
	}
)

type realClock struct{}

func NewClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now().UTC() }

type uuidIDGenerator struct {
	clock Clock
}

func NewIDGenerator(clock Clock) IDGenerator {
	return &uuidIDGenerator{clock: clock}
}

func (g *uuidIDGenerator) NextID() string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", g.clock.Now().UnixNano(), suffix)
}
