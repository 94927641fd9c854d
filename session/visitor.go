package session

import (
	"sync"
	"time"

	"github.com/aouyang1/betasalon/carousel"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/gallery"
)

// Widgets describes what a fresh mount of the page contains.
type Widgets struct {
	Images          []catalog.GalleryImage
	Filter          catalog.Category
	Direction       gallery.Direction
	Testimonials    int
	CarouselPeriod  time.Duration
	CarouselOptions []carousel.Option
}

// Visitor owns one browser's gallery and carousel instances.
type Visitor struct {
	ID string

	mu       sync.Mutex
	lang     string
	lock     *ScrollLock
	nav      *gallery.Navigator
	carousel *carousel.Carousel
	gen      uint64
	closed   bool
}

func newVisitor(id string) *Visitor {
	return &Visitor{ID: id, lock: &ScrollLock{}}
}

// Mount replaces the visitor's widgets, tearing down any previous ones. Each mount gets a new
// Generation.
func (v *Visitor) Mount(w Widgets) {
	opts := append([]carousel.Option{carousel.WithPeriod(w.CarouselPeriod)}, w.CarouselOptions...)
	car := carousel.New(w.Testimonials, opts...)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		car.Close()
		return
	}
	oldNav, oldCar := v.nav, v.carousel
	if oldNav != nil {
		oldNav.Unmount()
	}
	v.nav = gallery.NewNavigator(w.Images, v.lock, w.Direction)
	if w.Filter != catalog.NoFilter {
		v.nav.SetFilter(w.Filter)
	}
	v.carousel = car
	v.gen++
	v.mu.Unlock()

	if oldCar != nil {
		oldCar.Close()
	}
}

// Generation identifies the current mount. It is zero before the first Mount.
func (v *Visitor) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

// Unmount tears down the widgets when the page showing them goes away. The scroll lock is
// released and the carousel closed; a later Mount starts over.
func (v *Visitor) Unmount() {
	v.mu.Lock()
	car := v.unmountLocked()
	v.mu.Unlock()

	if car != nil {
		car.Close()
	}
}

// Release unmounts only if generation is still the current mount, so a late page-leave
// notice cannot tear down widgets mounted by a newer page load.
func (v *Visitor) Release(generation uint64) bool {
	v.mu.Lock()
	if generation != v.gen || v.nav == nil {
		v.mu.Unlock()
		return false
	}
	car := v.unmountLocked()
	v.mu.Unlock()

	if car != nil {
		car.Close()
	}
	return true
}

// unmountLocked must be called with mu held. The returned carousel is closed by the caller
// after mu is released.
func (v *Visitor) unmountLocked() *carousel.Carousel {
	if v.nav != nil {
		v.nav.Unmount()
		v.nav = nil
	}
	car := v.carousel
	v.carousel = nil
	return car
}

func (v *Visitor) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.nav != nil
}

// Gallery runs fn with exclusive access to the navigator and returns the scroll lock events
// it produced. fn is not called when nothing is mounted.
func (v *Visitor) Gallery(fn func(n *gallery.Navigator)) []string {
	v.mu.Lock()
	if v.nav != nil {
		fn(v.nav)
	}
	v.mu.Unlock()
	return v.lock.Drain()
}

// Carousel returns the mounted carousel, or nil when nothing is mounted.
func (v *Visitor) Carousel() *carousel.Carousel {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.carousel
}

func (v *Visitor) ScrollLocked() bool {
	return v.lock.Locked()
}

// PendingEvents drains scroll lock events raised outside Gallery, such as by a remount or
// Unmount.
func (v *Visitor) PendingEvents() []string {
	return v.lock.Drain()
}

func (v *Visitor) Lang() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lang
}

func (v *Visitor) SetLang(lang string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lang = lang
}

// Close unmounts the widgets for good. Later Mount calls are ignored.
func (v *Visitor) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	car := v.unmountLocked()
	v.mu.Unlock()

	if car != nil {
		car.Close()
	}
}
