package spiral

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chewxy/math32"
)

// DefaultSlopeStep is added to the slope of every second pair of strands.
const DefaultSlopeStep float32 = -0.5

var (
	ErrSpiralCount = errors.New("spiral: spiral count must be positive")
	ErrColorCount  = errors.New("spiral: color count does not match spiral count")
)

type composerOptions struct {
	slopeStep float32
	parallel  bool
}

// ComposerOption configures NewComposer.
type ComposerOption func(*composerOptions)

// WithSlopeStep overrides DefaultSlopeStep.
func WithSlopeStep(step float32) ComposerOption {
	return func(o *composerOptions) { o.slopeStep = step }
}

// WithParallelUpdate runs each strand's Update on its own goroutine.
func WithParallelUpdate() ComposerOption {
	return func(o *composerOptions) { o.parallel = true }
}

// Composer owns a fixed set of strands that together form the tree.
type Composer struct {
	models   []*Model
	parallel bool
}

// NewComposer builds count strands from template. Strands come in pairs:
// strand i uses slope template.Slope + step*(i/2) and angle offset
// template.AngleOffset + π*(i/2), and colors[i].
func NewComposer(count int, template Params, colors []Color, opts ...ComposerOption) (*Composer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrSpiralCount, count)
	}
	if len(colors) != count {
		return nil, fmt.Errorf("%w: %d colors for %d spirals", ErrColorCount, len(colors), count)
	}
	o := composerOptions{slopeStep: DefaultSlopeStep}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Composer{
		models:   make([]*Model, 0, count),
		parallel: o.parallel,
	}
	for i := 0; i < count; i++ {
		pair := float32(i / 2)
		p := template
		p.Slope = template.Slope + o.slopeStep*pair
		p.AngleOffset = template.AngleOffset + math32.Pi*pair
		p.Color = colors[i]
		m, err := New(p)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("spiral %d: %w", i, err)
		}
		c.models = append(c.models, m)
	}
	return c, nil
}

// Update forwards dtMs to every strand.
func (c *Composer) Update(dtMs uint32) {
	if !c.parallel || len(c.models) < 2 {
		for _, m := range c.models {
			m.Update(dtMs)
		}
		return
	}
	var wg sync.WaitGroup
	wg.Add(len(c.models))
	for _, m := range c.models {
		go func(m *Model) {
			defer wg.Done()
			m.Update(dtMs)
		}(m)
	}
	wg.Wait()
}

// Render submits every strand to sink in construction order.
func (c *Composer) Render(sink Sink) {
	for _, m := range c.models {
		m.Render(sink)
	}
}

// Wrapped sums the lanes that restarted across all strands in the last Update.
func (c *Composer) Wrapped() int {
	n := 0
	for _, m := range c.models {
		n += m.Wrapped()
	}
	return n
}

// Models returns the strands in construction order.
func (c *Composer) Models() []*Model { return c.models }

// Len is the number of strands.
func (c *Composer) Len() int { return len(c.models) }

// Close closes every strand. Safe to call more than once.
func (c *Composer) Close() {
	for _, m := range c.models {
		m.Close()
	}
	c.models = nil
}
