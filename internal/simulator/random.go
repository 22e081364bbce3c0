package simulator

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"
	"sync"

	"github.com/chrisdamba/menusight/internal/models"
)

// LockedRand is a *rand.Rand safe for concurrent use.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *LockedRand) Int63() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Int63()
}

// ContentSeed mixes base with the content of items, so that the same menu
// always draws the same estimates and series jitter.
func ContentSeed(base int64, items []models.RawMenuItem) int64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 128)
	for _, item := range items {
		buf = buf[:0]
		buf = append(buf, item.Name...)
		buf = append(buf, 0)
		buf = append(buf, item.Category...)
		buf = append(buf, 0)
		buf = strconv.AppendUint(buf, math.Float64bits(item.Cost), 16)
		buf = strconv.AppendUint(buf, math.Float64bits(item.Price), 16)
		buf = strconv.AppendInt(buf, int64(item.SalesCount), 10)
		if item.WastePercentage != nil {
			buf = strconv.AppendUint(buf, math.Float64bits(*item.WastePercentage), 16)
		}
		buf = append(buf, '\n')
		h.Write(buf)
	}
	return base ^ int64(h.Sum64())
}

// NewContentRand returns a generator seeded by ContentSeed.
func NewContentRand(base int64, items []models.RawMenuItem) *rand.Rand {
	return rand.New(rand.NewSource(ContentSeed(base, items)))
}
