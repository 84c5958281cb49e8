package scenario

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/limaJavier/sessionplanner/pkg/model"
	"github.com/samber/lo"
)

type RandomOptions struct {
	Sessions  int
	MaxSlots  int     // Candidate slots per session, between 1 and MaxSlots
	MustRatio float64 // Probability of a session being must-attend
}

func DefaultRandomOptions() RandomOptions {
	return RandomOptions{Sessions: 12, MaxSlots: 3, MustRatio: 0.4}
}

// Random generates a conference day from the seed: slots start on a quarter-hour between 8:00 and 17:45 and
// last 30 to 90 minutes at one of the venues. The same seed always yields the same input
func Random(seed uint64, options RandomOptions) (model.Input, error) {
	if options.Sessions < 0 || options.MaxSlots < 1 || options.MustRatio < 0 || options.MustRatio > 1 {
		return model.Input{}, fmt.Errorf("%w: invalid random scenario options %+v", model.ErrInvalidInput, options)
	}

	random := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := newBuilder(time.December, 9)

	for i := range options.Sessions {
		priority := model.Optional
		if random.Float64() < options.MustRatio {
			priority = model.MustAttend
		}

		slots := lo.Times(random.IntN(options.MaxSlots)+1, func(_ int) model.TimeSlot {
			start := 8*60 + random.IntN(40)*15
			end := start + 30 + random.IntN(5)*15
			return b.slot(start/60, start%60, end/60, end%60, random.IntN(len(b.locations)))
		})

		b.add(fmt.Sprintf("session-%02d", i+1), fmt.Sprintf("Generated Session %d", i+1), priority, slots...)
	}

	return b.input(), nil
}
