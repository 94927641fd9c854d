// Package carousel implements the auto-rotating testimonial carousel.
//
// A carousel starts in the Autoplaying state and advances on a fixed period. Any manual
// navigation moves it to Manual for the rest of its life: the ticker is stopped and never
// restarted. Close releases the ticker and the loop goroutine.
package carousel

import (
	"errors"
	"sync"
	"time"
)

// DefaultPeriod is the autoplay period used when none is configured.
const DefaultPeriod = 5 * time.Second

// ErrIndexOutOfRange is returned by GoTo for an index outside [0, Len).
var ErrIndexOutOfRange = errors.New("carousel index out of range")

// State is the carousel's autoplay state. Manual is terminal.
type State int

const (
	Autoplaying State = iota
	Manual
)

func (s State) String() string {
	switch s {
	case Autoplaying:
		return "autoplaying"
	case Manual:
		return "manual"
	default:
		return "unknown"
	}
}

// Ticker is the subset of time.Ticker the carousel needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Option configures a Carousel at construction.
type Option func(*Carousel)

// WithPeriod sets the autoplay period. Non-positive values keep DefaultPeriod.
func WithPeriod(d time.Duration) Option {
	return func(c *Carousel) {
		if d > 0 {
			c.period = d
		}
	}
}

// WithTicker replaces the ticker constructor, mainly for tests.
func WithTicker(newTicker func(time.Duration) Ticker) Option {
	return func(c *Carousel) {
		if newTicker != nil {
			c.newTicker = newTicker
		}
	}
}

// Carousel rotates through a fixed number of items. It is safe for concurrent use; the autoplay
// loop runs in its own goroutine until the first manual move or Close.
type Carousel struct {
	mu sync.Mutex

	size     int
	index    int
	autoplay bool
	closed   bool

	period    time.Duration
	newTicker func(time.Duration) Ticker
	ticker    Ticker
	stop      chan struct{}
	done      chan struct{}

	subs    map[int]chan int
	nextSub int
}

// New starts a carousel over size items at index 0. An empty carousel never starts its ticker.
func New(size int, opts ...Option) *Carousel {
	c := &Carousel{
		size:      max(size, 0),
		autoplay:  true,
		period:    DefaultPeriod,
		newTicker: newTimeTicker,
		subs:      map[int]chan int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.size == 0 {
		return c
	}

	c.ticker = c.newTicker(c.period)
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.ticker, c.stop, c.done)
	return c
}

func (c *Carousel) run(t Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.tick()
		}
	}
}

func (c *Carousel) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.autoplay || c.closed {
		return
	}
	c.index = (c.index + 1) % c.size
	c.publish()
}

// Len returns the number of items.
func (c *Carousel) Len() int {
	return c.size
}

// Index returns the current item index.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Autoplay reports whether the carousel still advances on its own.
func (c *Carousel) Autoplay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoplay
}

// State reports Autoplaying until the first manual move.
func (c *Carousel) State() State {
	if c.Autoplay() {
		return Autoplaying
	}
	return Manual
}

// Period returns the configured autoplay period.
func (c *Carousel) Period() time.Duration {
	return c.period
}

// Next switches to manual mode and moves forward, wrapping to the first item.
func (c *Carousel) Next() {
	c.move(func() int { return (c.index + 1) % c.size })
}

// Previous switches to manual mode and moves back, wrapping to the last item.
func (c *Carousel) Previous() {
	c.move(func() int { return (c.index - 1 + c.size) % c.size })
}

// GoTo switches to manual mode and jumps to index. Out of range indexes are rejected and
// leave the carousel untouched.
func (c *Carousel) GoTo(index int) error {
	if index < 0 || index >= c.size {
		return ErrIndexOutOfRange
	}
	c.move(func() int { return index })
	return nil
}

func (c *Carousel) move(target func() int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.size == 0 {
		return
	}
	c.autoplay = false
	c.stopTicker()

	next := target()
	if next != c.index {
		c.index = next
		c.publish()
	}
}

// stopTicker must be called with mu held. It does not wait for the loop to exit since the
// loop may be blocked on mu.
func (c *Carousel) stopTicker() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	close(c.stop)
	c.ticker = nil
}

// Close stops the ticker, waits for the loop goroutine and closes all subscriptions.
// It is safe to call more than once.
func (c *Carousel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTicker()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Subscribe returns a channel receiving the index after every change and a func that ends the
// subscription. Only the latest index is kept for a slow reader. The channel is closed on
// unsubscribe or Close.
func (c *Carousel) Subscribe() (<-chan int, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan int, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subs[id]; ok {
				close(sub)
				delete(c.subs, id)
			}
		})
	}
}

// publish must be called with mu held.
func (c *Carousel) publish() {
	for _, ch := range c.subs {
		select {
		case ch <- c.index:
		default:
			// replace the stale value
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- c.index:
			default:
			}
		}
	}
}
