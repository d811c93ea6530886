package lattice

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderCacheStats describes a widget's render cache.
type RenderCacheStats struct {
	Width, Height int // allocated surface size

	Allocations int // surfaces created, including the initial one
	Populations int // child instruction lists re-collected
	Clears      int // surface cleared without re-collection
	Renders     int // times the surface was redrawn
}

// renderCache memoizes the drawing of a widget's children in an offscreen
// image. The image never shrinks. Drawing into it happens lazily on the next
// Scene.Draw after it was marked dirty.
type renderCache struct {
	owner     *Widget
	image     *ebiten.Image
	width     int
	height    int
	translate Vec2
	sources   []*Widget
	dirty     bool
	stats     RenderCacheStats

	binds        []bindRef
	childrenBind BindID
}

// SetRenderCache enables or disables caching of this widget's children in an
// offscreen texture. While enabled the widget is drawn only from the cache;
// its own Canvas is not drawn.
//
// The cache is repopulated when children change or the widget outgrows the
// surface, and cleared and redrawn when it moves or shrinks.
func (w *Widget) SetRenderCache(enabled bool) {
	if (w.cache != nil) == enabled {
		return
	}
	if enabled {
		c := &renderCache{owner: w, width: 1, height: 1}
		c.image = ebiten.NewImage(1, 1)
		c.stats.Allocations = 1
		w.cache = c
		c.binds = []bindRef{
			{&w.Pos, w.Pos.Bind(c.onPos)},
			{&w.Size, w.Size.Bind(c.onSize)},
		}
		c.childrenBind = w.OnChildren(func([]*Widget) { c.populate() })
		c.grow(w.Size.Get())
		c.setTranslate(w.Pos.Get())
		c.populate()
	} else {
		c := w.cache
		unbindAll(c.binds)
		w.UnbindChildren(c.childrenBind)
		c.image.Deallocate()
		c.image = nil
		c.sources = nil
		w.cache = nil
	}
	invalidateAncestorCache(w)
}

// IsRenderCached reports whether the widget has a render cache.
func (w *Widget) IsRenderCached() bool {
	return w.cache != nil
}

// CacheTexture returns the cache surface, or nil without a render cache. The
// surface may be larger than the widget; content starts at its origin.
func (w *Widget) CacheTexture() *ebiten.Image {
	if w.cache == nil {
		return nil
	}
	return w.cache.image
}

// RenderCacheStats returns the cache counters. ok is false without a cache.
func (w *Widget) RenderCacheStats() (stats RenderCacheStats, ok bool) {
	if w.cache == nil {
		return RenderCacheStats{}, false
	}
	s := w.cache.stats
	s.Width, s.Height = w.cache.width, w.cache.height
	return s, true
}

// RenderCacheDirty reports whether the cache will be redrawn on the next draw.
func (w *Widget) RenderCacheDirty() bool {
	return w.cache != nil && w.cache.dirty
}

// RenderCacheOffset returns the translation applied to children drawn into
// the cache.
func (w *Widget) RenderCacheOffset() Vec2 {
	if w.cache == nil {
		return Vec2{}
	}
	return w.cache.translate
}

func (c *renderCache) onSize(size Vec2) {
	if c.grow(size) {
		c.populate()
		return
	}
	c.clear()
}

func (c *renderCache) onPos(pos Vec2) {
	c.setTranslate(pos)
	c.clear()
}

// grow reallocates the surface when size plus one unit of slack no longer
// fits. Each axis keeps the larger of the old and new extent.
func (c *renderCache) grow(size Vec2) bool {
	nw := int(math.Ceil(size.X + 1))
	nh := int(math.Ceil(size.Y + 1))
	if c.width >= nw && c.height >= nh {
		return false
	}
	c.width = max(c.width, nw)
	c.height = max(c.height, nh)
	if c.image != nil {
		c.image.Deallocate()
	}
	c.image = ebiten.NewImage(c.width, c.height)
	c.stats.Allocations++
	return true
}

func (c *renderCache) setTranslate(pos Vec2) {
	c.translate = Vec2{-floor(pos.X), -floor(pos.Y)}
}

// populate re-collects the children to draw, in child order, so later
// children paint over earlier ones.
func (c *renderCache) populate() {
	c.sources = append(c.sources[:0], c.owner.children...)
	c.dirty = true
	c.stats.Populations++
}

func (c *renderCache) clear() {
	c.dirty = true
	c.stats.Clears++
}

func (c *renderCache) render() {
	if !c.dirty {
		return
	}
	c.image.Clear()
	var geo ebiten.GeoM
	geo.Translate(c.translate.X, c.translate.Y)
	for _, s := range c.sources {
		if s.Parent == c.owner {
			drawWidget(c.image, s, geo)
		}
	}
	c.dirty = false
	c.stats.Renders++
}

// invalidateAncestorCache marks the render cache of every ancestor of w as
// needing a redraw.
func invalidateAncestorCache(w *Widget) {
	for p := w.Parent; p != nil; p = p.Parent {
		if p.cache != nil {
			p.cache.dirty = true
		}
	}
}

func floor(v float64) float64 {
	return math.Floor(v)
}
