package savings

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Clock tells current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is a clock backed by time.Now
var SystemClock Clock = systemClock{}

// CodeGenerator produces transaction codes
type CodeGenerator interface {
	NewCode(now time.Time) string
}

// CodeLength is a length of every generated transaction code
const CodeLength = len("TXN") + len("20060102150405") + 4

type randomCodeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCode returns TXN followed by UTC timestamp and 4 random digits
func (g *randomCodeGenerator) NewCode(now time.Time) string {
	g.mu.Lock()
	suffix := 1000 + g.rnd.Intn(9000)
	g.mu.Unlock()
	return fmt.Sprintf("TXN%v%04d", now.UTC().Format("20060102150405"), suffix)
}

// NewRandomCodeGenerator returns a code generator seeded with a given seed
func NewRandomCodeGenerator(seed int64) CodeGenerator {
	return &randomCodeGenerator{rnd: rand.New(rand.NewSource(seed))}
}
