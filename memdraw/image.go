// Package memdraw holds the in-memory raster store: allocated images,
// their pixel backing, and the Porter-Duff compositor that draws into
// them. It has no notion of the wire protocol; the compositor package
// drives it from decoded opcodes.
package memdraw

import (
	"fmt"
	"sync/atomic"

	"github.com/go-draw/compositor/draw"
)

// Image is one allocated raster: a rectangle of pixels plus the state
// that the alloc/free/origin/clip opcodes mutate. Pixels are stored in a
// single dense RGBA backing regardless of Chan, the wire channel
// descriptor Chan is only consulted at load/unload/read time.
type Image struct {
	ID       int32
	Chan     draw.Pix
	Repl     bool
	R        draw.Rectangle // image's own coordinate space
	Clipr    draw.Rectangle
	Pix      []RGBA // len == R.Dx() * R.Dy(), row-major
	Screen   *Screen
	deleted  bool
}

// Screen models a window's backing image plus its list of stacked
// sub-images, ordered bottom to top (Top appends, Bottom prepends). There is no
// X11-style visibility-list bookkeeping: this single-client core only
// needs the stack order, not occlusion tracking.
type Screen struct {
	ID    int32
	Image *Image
	Fill  *Image
	stack []*Image
}

func (i *Image) bounds() draw.Rectangle { return i.R }

// At returns the pixel at p, honoring replication, for callers outside
// the package (the harness reading back the display surface).
func (i *Image) At(p draw.Point) RGBA { return i.at(p) }

func (i *Image) at(p draw.Point) RGBA {
	if i.Repl {
		p = replicate(p, i.R)
	}
	if !p.In(i.R) {
		return RGBA{}
	}
	idx := (p.Y-i.R.Min.Y)*i.R.Dx() + (p.X - i.R.Min.X)
	return i.Pix[idx]
}

func (i *Image) set(p draw.Point, c RGBA) {
	if !p.In(i.R) {
		return
	}
	idx := (p.Y-i.R.Min.Y)*i.R.Dx() + (p.X - i.R.Min.X)
	i.Pix[idx] = c
}

// replicate maps p into r by tiling, the semantics of the repl flag: an
// image with repl set acts as if tiled across the plane.
func replicate(p draw.Point, r draw.Rectangle) draw.Point {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return p
	}
	x := (p.X - r.Min.X) % w
	if x < 0 {
		x += w
	}
	y := (p.Y - r.Min.Y) % h
	if y < 0 {
		y += h
	}
	return draw.Pt(r.Min.X+x, r.Min.Y+y)
}

var nextID int32

// Store is the set of live Images and Screens, keyed by the small
// integer ids the wire protocol uses. A single Store backs one
// connection; there is no multi-client fid demultiplexing to do, since
// transport framing is out of scope here.
type Store struct {
	images  map[int32]*Image
	screens map[int32]*Screen
	Display *Image // the root display image, id 0 in Plan 9's scheme
}

// NewStore creates an empty Store whose display surface has the given
// bounds and channel format.
func NewStore(r draw.Rectangle, chn draw.Pix) *Store {
	s := &Store{
		images:  make(map[int32]*Image),
		screens: make(map[int32]*Screen),
	}
	disp := &Image{
		ID:    0,
		Chan:  chn,
		R:     r,
		Clipr: r,
		Pix:   make([]RGBA, r.Dx()*r.Dy()),
	}
	s.Display = disp
	s.images[0] = disp
	return s
}

// AllocID returns a fresh id from a package-wide counter, for callers
// that allocate images programmatically. The wire opcodes do not use it:
// the client picks its own ids.
func AllocID() int32 {
	return atomic.AddInt32(&nextID, 1)
}

// Alloc creates a new Image with id, bounds r, channel format chn, a
// repl flag, and fill color (Transparent fill for "no fill").
func (s *Store) Alloc(id int32, r draw.Rectangle, chn draw.Pix, repl bool, fill draw.Color) (*Image, error) {
	if _, ok := s.images[id]; ok {
		return nil, fmt.Errorf("memdraw: image id %d already allocated", id)
	}
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return nil, fmt.Errorf("memdraw: degenerate rectangle %v", r)
	}
	img := &Image{
		ID:    id,
		Chan:  chn,
		Repl:  repl,
		R:     r,
		Clipr: r,
		Pix:   make([]RGBA, r.Dx()*r.Dy()),
	}
	c := colorToRGBA(fill)
	for i := range img.Pix {
		img.Pix[i] = c
	}
	s.images[id] = img
	return img, nil
}

// AllocScreen creates a Screen backed by image img, with fill image fillptr
// used to paint newly exposed background.
func (s *Store) AllocScreen(id int32, img, fillptr *Image) (*Screen, error) {
	if _, ok := s.screens[id]; ok {
		return nil, fmt.Errorf("memdraw: screen id %d already allocated", id)
	}
	scr := &Screen{ID: id, Image: img, Fill: fillptr}
	img.Screen = scr
	s.screens[id] = scr
	return scr, nil
}

// Lookup returns the Image for id, or an error if it has not been
// allocated (or was already freed).
func (s *Store) Lookup(id int32) (*Image, error) {
	img, ok := s.images[id]
	if !ok || img.deleted {
		return nil, fmt.Errorf("memdraw: unknown image id %d", id)
	}
	return img, nil
}

// LookupScreen returns the Screen for id.
func (s *Store) LookupScreen(id int32) (*Screen, error) {
	scr, ok := s.screens[id]
	if !ok {
		return nil, fmt.Errorf("memdraw: unknown screen id %d", id)
	}
	return scr, nil
}

// Free releases the image with id. Freeing the display image (id 0) is
// rejected.
func (s *Store) Free(id int32) error {
	if id == 0 {
		return fmt.Errorf("memdraw: cannot free the display image")
	}
	img, err := s.Lookup(id)
	if err != nil {
		return err
	}
	img.deleted = true
	delete(s.images, id)
	return nil
}

// FreeScreen releases the screen with id and all images stacked on it,
// mirroring 'F''s "free screen and its windows" semantics.
func (s *Store) FreeScreen(id int32) error {
	scr, err := s.LookupScreen(id)
	if err != nil {
		return err
	}
	for _, img := range scr.stack {
		img.deleted = true
		delete(s.images, img.ID)
	}
	delete(s.screens, id)
	return nil
}

// SetClip narrows img's clip rectangle to the intersection of r with
// img's own bounds.
func (s *Store) SetClip(img *Image, r draw.Rectangle) {
	if draw.RectClip(&r, img.R) {
		img.Clipr = r
	} else {
		img.Clipr = draw.ZR
	}
}

// Top raises imgs to the front of their screen's stacking order.
func (s *Store) Top(imgs []*Image) {
	for _, img := range imgs {
		scr := img.Screen
		if scr == nil {
			continue
		}
		scr.removeFromStack(img)
		scr.stack = append(scr.stack, img)
	}
}

// Bottom lowers imgs to the back of their screen's stacking order.
func (s *Store) Bottom(imgs []*Image) {
	for _, img := range imgs {
		scr := img.Screen
		if scr == nil {
			continue
		}
		scr.removeFromStack(img)
		scr.stack = append([]*Image{img}, scr.stack...)
	}
}

func (scr *Screen) removeFromStack(img *Image) {
	for i, x := range scr.stack {
		if x == img {
			scr.stack = append(scr.stack[:i], scr.stack[i+1:]...)
			return
		}
	}
}

// ResizeDisplay replaces the display surface with a new one of bounds r
// and channel chn, discarding its previous contents. Called by the
// compositor's ResizeDisplay, which the host uses to change the display
// size; no wire opcode calls it.
func (s *Store) ResizeDisplay(r draw.Rectangle, chn draw.Pix) {
	disp := &Image{
		ID:    0,
		Chan:  chn,
		R:     r,
		Clipr: r,
		Pix:   make([]RGBA, r.Dx()*r.Dy()),
	}
	s.Display = disp
	s.images[0] = disp
}
