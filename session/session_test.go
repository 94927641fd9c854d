package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/betasalon/carousel"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/gallery"
)

type idleTicker struct{ c chan time.Time }

func (t idleTicker) C() <-chan time.Time { return t.c }
func (t idleTicker) Stop()               {}

func testWidgets() Widgets {
	return Widgets{
		Images: []catalog.GalleryImage{
			{ID: 1, Category: catalog.Haircut},
			{ID: 2, Category: catalog.Color},
			{ID: 3, Category: catalog.Haircut},
		},
		Testimonials: 3,
		CarouselOptions: []carousel.Option{carousel.WithTicker(func(time.Duration) carousel.Ticker {
			return idleTicker{c: make(chan time.Time)}
		})},
	}
}

func TestScrollLockQueuesTransitions(t *testing.T) {
	var l ScrollLock
	l.Lock()
	l.Lock()
	l.Unlock()
	l.Unlock()

	require.Equal(t, []string{EventScrollLock, EventScrollUnlock}, l.Drain())
	require.Empty(t, l.Drain())
	require.False(t, l.Locked())
}

func TestVisitorGalleryReportsEvents(t *testing.T) {
	v := newVisitor(uuid.NewString())
	t.Cleanup(v.Close)

	require.Empty(t, v.Gallery(func(*gallery.Navigator) { t.Fatal("called before mount") }))

	v.Mount(testWidgets())
	require.True(t, v.Mounted())

	events := v.Gallery(func(n *gallery.Navigator) { require.True(t, n.Open(2)) })
	require.Equal(t, []string{EventScrollLock}, events)
	require.True(t, v.ScrollLocked())

	events = v.Gallery(func(n *gallery.Navigator) { n.Next() })
	require.Empty(t, events)

	events = v.Gallery(func(n *gallery.Navigator) { n.HandleKey(gallery.KeyEscape) })
	require.Equal(t, []string{EventScrollUnlock}, events)
	require.False(t, v.ScrollLocked())
}

func TestRemountReleasesLockAndClosesCarousel(t *testing.T) {
	v := newVisitor(uuid.NewString())
	t.Cleanup(v.Close)

	v.Mount(testWidgets())
	first := v.Carousel()
	v.Gallery(func(n *gallery.Navigator) { n.Open(1) })

	v.Mount(testWidgets())
	require.False(t, v.ScrollLocked())
	require.Equal(t, []string{EventScrollUnlock}, v.PendingEvents())
	require.NotSame(t, first, v.Carousel())

	// a closed carousel ignores further moves
	first.Next()
	require.Equal(t, 0, first.Index())
}

func TestMountAppliesFilter(t *testing.T) {
	v := newVisitor(uuid.NewString())
	t.Cleanup(v.Close)

	w := testWidgets()
	w.Filter = catalog.Haircut
	v.Mount(w)

	var view []catalog.GalleryImage
	v.Gallery(func(n *gallery.Navigator) { view = n.View() })
	require.Len(t, view, 2)
}

func TestVisitorCloseUnmounts(t *testing.T) {
	v := newVisitor(uuid.NewString())
	v.Mount(testWidgets())
	v.Gallery(func(n *gallery.Navigator) { n.Open(3) })

	v.Close()
	v.Close()
	require.False(t, v.ScrollLocked())

	// mounting after close is ignored
	v.Mount(testWidgets())
	require.False(t, v.Mounted())
	require.Nil(t, v.Carousel())
}

func TestUnmountKeepsVisitorReusable(t *testing.T) {
	v := newVisitor(uuid.NewString())
	t.Cleanup(v.Close)

	v.Mount(testWidgets())
	car := v.Carousel()
	v.Gallery(func(n *gallery.Navigator) { n.Open(1) })
	require.True(t, v.ScrollLocked())

	v.Unmount()
	require.False(t, v.Mounted())
	require.False(t, v.ScrollLocked())
	require.Nil(t, v.Carousel())
	require.Equal(t, []string{EventScrollUnlock}, v.PendingEvents())

	// the closed carousel no longer moves
	car.Next()
	require.Equal(t, 0, car.Index())

	v.Unmount()
	v.Mount(testWidgets())
	require.True(t, v.Mounted())
	require.True(t, v.Carousel().Autoplay())
}

func TestReleaseIgnoresStaleGeneration(t *testing.T) {
	v := newVisitor(uuid.NewString())
	t.Cleanup(v.Close)
	require.Zero(t, v.Generation())

	v.Mount(testWidgets())
	first := v.Generation()
	v.Mount(testWidgets())
	second := v.Generation()
	require.Greater(t, second, first)

	require.False(t, v.Release(first))
	require.True(t, v.Mounted())

	require.True(t, v.Release(second))
	require.False(t, v.Mounted())
	require.False(t, v.Release(second))
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry(8, time.Minute)
	t.Cleanup(r.Close)

	v, created := r.Get("")
	require.True(t, created)
	_, err := uuid.Parse(v.ID)
	require.NoError(t, err)

	again, created := r.Get(v.ID)
	require.False(t, created)
	require.Same(t, v, again)

	bogus, created := r.Get("not-a-uuid")
	require.True(t, created)
	require.NotEqual(t, "not-a-uuid", bogus.ID)

	id := uuid.NewString()
	reused, created := r.Get(id)
	require.True(t, created)
	require.Equal(t, id, reused.ID)

	found, ok := r.Lookup(id)
	require.True(t, ok)
	require.Same(t, reused, found)
	require.Equal(t, 3, r.Len())
}

func TestRegistryEvictionClosesVisitor(t *testing.T) {
	r := NewRegistry(1, time.Minute)
	t.Cleanup(r.Close)

	first, _ := r.Get("")
	first.Mount(testWidgets())
	first.Gallery(func(n *gallery.Navigator) { n.Open(1) })
	require.True(t, first.ScrollLocked())

	r.Get("")
	require.Equal(t, 1, r.Len())
	require.False(t, first.ScrollLocked())
}

func TestRegistryReplacesExpiredVisitor(t *testing.T) {
	r := NewRegistry(8, 20*time.Millisecond)
	t.Cleanup(r.Close)

	id := uuid.NewString()
	old, _ := r.Get(id)
	old.Mount(testWidgets())
	old.Gallery(func(n *gallery.Navigator) { n.Open(1) })

	time.Sleep(50 * time.Millisecond)

	fresh, created := r.Get(id)
	require.True(t, created)
	require.NotSame(t, old, fresh)
	require.Equal(t, id, fresh.ID)

	// the replaced visitor was closed, with or without the background sweep
	require.False(t, old.Mounted())
	require.False(t, old.ScrollLocked())
	old.Mount(testWidgets())
	require.False(t, old.Mounted())
}

func TestRegistryCloseClosesAll(t *testing.T) {
	r := NewRegistry(4, time.Minute)
	v, _ := r.Get("")
	v.Mount(testWidgets())
	v.Gallery(func(n *gallery.Navigator) { n.Open(1) })

	r.Close()
	require.Zero(t, r.Len())
	require.False(t, v.ScrollLocked())
}
