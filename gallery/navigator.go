// Package gallery implements the gallery lightbox navigation: category filtering, opening and
// closing the full-screen viewer, and circular stepping through the filtered images.
package gallery

import (
	"slices"

	"github.com/aouyang1/betasalon/catalog"
)

// ScrollLock suppresses background scrolling while the viewer is open.
// Unlock must be safe to call when not locked.
type ScrollLock interface {
	Lock()
	Unlock()
}

// Direction is the reading order of the page hosting the viewer.
type Direction int

// Reading orders. RTL is the zero value.
const (
	RTL Direction = iota
	LTR
)

// Key is a viewer keyboard input, named after the browser's KeyboardEvent.key.
type Key string

const (
	KeyEscape     Key = "Escape"
	KeyArrowLeft  Key = "ArrowLeft"
	KeyArrowRight Key = "ArrowRight"
)

// Navigator holds the filter and selection state for one mounted gallery.
// It is not safe for concurrent use.
type Navigator struct {
	images    []catalog.GalleryImage
	lock      ScrollLock
	direction Direction

	filter   catalog.Category
	view     []catalog.GalleryImage
	selected *catalog.GalleryImage
}

// NewNavigator builds a navigator over images with no filter applied and nothing selected.
func NewNavigator(images []catalog.GalleryImage, lock ScrollLock, direction Direction) *Navigator {
	n := &Navigator{
		images:    slices.Clone(images),
		lock:      lock,
		direction: direction,
	}
	n.view = n.images
	return n
}

// Filter returns the active filter, catalog.NoFilter when none.
func (n *Navigator) Filter() catalog.Category {
	return n.filter
}

// View returns the images matching the active filter.
func (n *Navigator) View() []catalog.GalleryImage {
	return slices.Clone(n.view)
}

// Selected returns the image shown in the viewer, or nil when the viewer is closed.
func (n *Navigator) Selected() *catalog.GalleryImage {
	if n.selected == nil {
		return nil
	}
	img := *n.selected
	return &img
}

// IsOpen reports whether the viewer is showing an image.
func (n *Navigator) IsOpen() bool {
	return n.selected != nil
}

// SetFilter replaces the active filter. A category outside the catalog yields an empty view.
// Changing the filter while the viewer is open closes the viewer.
func (n *Navigator) SetFilter(category catalog.Category) {
	if n.IsOpen() {
		n.Close()
	}
	n.filter = category
	if category == catalog.NoFilter {
		n.view = n.images
		return
	}
	view := make([]catalog.GalleryImage, 0, len(n.images))
	for _, img := range n.images {
		if img.Category == category {
			view = append(view, img)
		}
	}
	n.view = view
}

// ToggleFilter clears the filter when category is already active, otherwise applies it.
func (n *Navigator) ToggleFilter(category catalog.Category) {
	if category == n.filter {
		n.SetFilter(catalog.NoFilter)
		return
	}
	n.SetFilter(category)
}

// Open shows the image with id in the viewer and engages the scroll lock.
// It returns false, changing nothing, when id is not in the current view.
func (n *Navigator) Open(id int) bool {
	i := n.indexOf(id)
	if i < 0 {
		return false
	}
	if n.selected == nil && n.lock != nil {
		n.lock.Lock()
	}
	n.selected = &n.view[i]
	return true
}

// Close clears the selection and releases the scroll lock, even if already released.
func (n *Navigator) Close() {
	n.selected = nil
	if n.lock != nil {
		n.lock.Unlock()
	}
}

// Unmount releases everything the navigator holds on the host.
func (n *Navigator) Unmount() {
	n.Close()
}

// Next selects the following image in the view, wrapping to the first.
func (n *Navigator) Next() {
	n.step(1)
}

// Previous selects the preceding image in the view, wrapping to the last.
func (n *Navigator) Previous() {
	n.step(-1)
}

func (n *Navigator) step(delta int) {
	if n.selected == nil || len(n.view) == 0 {
		return
	}
	i := n.indexOf(n.selected.ID)
	if i < 0 {
		return
	}
	size := len(n.view)
	n.selected = &n.view[(i+delta+size)%size]
}

// SetDirection changes the reading order used by HandleKey, following the page language.
func (n *Navigator) SetDirection(direction Direction) {
	n.direction = direction
}

// HandleKey maps viewer keyboard input. In RTL pages the left arrow moves forward.
// Keys are ignored while the viewer is closed.
func (n *Navigator) HandleKey(key Key) {
	if !n.IsOpen() {
		return
	}
	switch key {
	case KeyEscape:
		n.Close()
	case KeyArrowLeft:
		if n.direction == RTL {
			n.Next()
		} else {
			n.Previous()
		}
	case KeyArrowRight:
		if n.direction == RTL {
			n.Previous()
		} else {
			n.Next()
		}
	}
}

func (n *Navigator) indexOf(id int) int {
	return slices.IndexFunc(n.view, func(img catalog.GalleryImage) bool {
		return img.ID == id
	})
}
