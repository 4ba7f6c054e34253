package sprite

import (
	"sort"

	"voyager.com/golfclient/internal/assets"
	"voyager.com/golfclient/internal/layout"
)

// Registry is the scene graph plus the slot bindings. Every sprite ever created
// stays in the scene until Reset; a sprite that lost its slot is hidden and
// abandoned rather than destroyed. At most one bound sprite per slot.
type Registry struct {
	nextID int
	nextZ  int
	slots  map[Key]*Sprite
	scene  []*Sprite
}

func NewRegistry() *Registry {
	return &Registry{slots: make(map[Key]*Sprite)}
}

// New adds an unbound sprite on top of the scene.
func (r *Registry) New(tex *assets.Texture, at layout.Coord) *Sprite {
	r.nextID++
	r.nextZ++
	w, h := layout.CardSize()
	s := &Sprite{
		ID:      r.nextID,
		Texture: tex,
		W:       w,
		H:       h,
		Z:       r.nextZ,
		Visible: true,
	}
	s.MoveTo(at)
	r.scene = append(r.scene, s)
	return s
}

func (r *Registry) Get(k Key) (*Sprite, bool) {
	s, ok := r.slots[k]
	return s, ok
}

// Materialize returns the sprite bound to k, creating it if the slot is empty.
// The boolean reports whether a sprite was created.
func (r *Registry) Materialize(k Key, tex *assets.Texture, at layout.Coord) (*Sprite, bool) {
	if s, ok := r.slots[k]; ok {
		return s, false
	}
	s := r.New(tex, at)
	r.slots[k] = s
	return s, true
}

// Replace binds a fresh sprite to k. The previous sprite, if any, is hidden
// and disarmed but left in the scene for tweens that still hold it.
func (r *Registry) Replace(k Key, tex *assets.Texture, at layout.Coord) *Sprite {
	r.retire(k)
	s := r.New(tex, at)
	r.slots[k] = s
	return s
}

// Bind attaches an existing sprite to k, retiring whatever was there.
func (r *Registry) Bind(k Key, s *Sprite) {
	if cur, ok := r.slots[k]; ok && cur == s {
		return
	}
	r.retire(k)
	for key, other := range r.slots {
		if other == s {
			delete(r.slots, key)
		}
	}
	r.slots[k] = s
}

// Rebind moves the sprite bound at from to the slot to.
func (r *Registry) Rebind(from, to Key) bool {
	s, ok := r.slots[from]
	if !ok {
		return false
	}
	delete(r.slots, from)
	r.Bind(to, s)
	return true
}

// Take unbinds the sprite at k and returns it. The sprite stays in the scene
// as it was.
func (r *Registry) Take(k Key) (*Sprite, bool) {
	s, ok := r.slots[k]
	if ok {
		delete(r.slots, k)
	}
	return s, ok
}

func (r *Registry) retire(k Key) {
	old, ok := r.slots[k]
	if !ok {
		return
	}
	delete(r.slots, k)
	old.Visible = false
	old.Disarm()
}

// Raise draws s above everything else.
func (r *Registry) Raise(s *Sprite) {
	r.nextZ++
	s.Z = r.nextZ
}

// KeyOf returns the slot s is bound to.
func (r *Registry) KeyOf(s *Sprite) (Key, bool) {
	for k, bound := range r.slots {
		if bound == s {
			return k, true
		}
	}
	return Key{}, false
}

// Keys lists the bound slots in a stable order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.slots))
	for k := range r.slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Sprites returns the whole scene in draw order, bottom first.
func (r *Registry) Sprites() []*Sprite {
	out := make([]*Sprite, len(r.scene))
	copy(out, r.scene)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// Unbound returns the abandoned sprites still in the scene.
func (r *Registry) Unbound() []*Sprite {
	bound := make(map[*Sprite]bool, len(r.slots))
	for _, s := range r.slots {
		bound[s] = true
	}
	var out []*Sprite
	for _, s := range r.scene {
		if !bound[s] {
			out = append(out, s)
		}
	}
	return out
}

// HitTest returns the topmost visible interactive sprite under (x, y).
func (r *Registry) HitTest(x, y float64) (*Sprite, bool) {
	var hit *Sprite
	for _, s := range r.scene {
		if !s.Visible || !s.Interactive || !s.Contains(x, y) {
			continue
		}
		if hit == nil || s.Z > hit.Z {
			hit = s
		}
	}
	return hit, hit != nil
}

// Len is the number of sprites in the scene, bound or not.
func (r *Registry) Len() int {
	return len(r.scene)
}

// Reset clears the scene and every binding.
func (r *Registry) Reset() {
	for _, s := range r.scene {
		s.Visible = false
		s.Disarm()
	}
	r.slots = make(map[Key]*Sprite)
	r.scene = nil
}
