// Package input binds global key presses to the narrative and drawer stores.
package input

// Handler receives one key press and reports whether it consumed it.
type Handler func(key string) bool

// Hub is the program-wide key dispatcher. Listeners run in registration order.
// It is driven from the UI update loop and is not safe for concurrent use.
type Hub struct {
	next      int
	listeners map[int]Handler
}

func NewHub() *Hub { return &Hub{listeners: map[int]Handler{}} }

// Listen registers fn and returns the func that removes it.
func (h *Hub) Listen(fn Handler) (cancel func()) {
	id := h.next
	h.next++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }
}

// Dispatch offers key to each listener until one consumes it.
func (h *Hub) Dispatch(key string) bool {
	for i := 0; i < h.next; i++ {
		fn, ok := h.listeners[i]
		if !ok {
			continue
		}
		if fn(key) {
			return true
		}
	}
	return false
}

// Len is the number of live listeners.
func (h *Hub) Len() int { return len(h.listeners) }

// Navigator is the part of the narrative store the adapter drives.
type Navigator interface {
	GoNext()
	GoBack()
	CanGoNext() bool
	CanGoBack() bool
}

// Toggler is the part of the drawer store the adapter drives.
type Toggler interface {
	Toggle()
	IsOpen() bool
}

// KeyMap names the keys the adapter reacts to, as reported by the terminal.
type KeyMap struct {
	Drawer  []string
	Forward []string
	Back    []string
}

// DefaultKeyMap: tab toggles the drawer, right/space go forward, left goes back.
var DefaultKeyMap = KeyMap{
	Drawer:  []string{"tab"},
	Forward: []string{"right", " ", "space"},
	Back:    []string{"left"},
}

// Adapter translates keys into store commands.
type Adapter struct {
	nav    Navigator
	drawer Toggler
	keys   KeyMap
	cancel func()
}

func NewAdapter(nav Navigator, drawer Toggler, keys KeyMap) *Adapter {
	return &Adapter{nav: nav, drawer: drawer, keys: keys}
}

// Mount registers the adapter's single listener on h. Mounting twice is a no-op.
func (a *Adapter) Mount(h *Hub) {
	if a.cancel != nil {
		return
	}
	a.cancel = h.Listen(a.HandleKey)
}

// Unmount removes the listener registered by Mount.
func (a *Adapter) Unmount() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	a.cancel = nil
}

// Mounted reports whether a listener is registered.
func (a *Adapter) Mounted() bool { return a.cancel != nil }

// HandleKey applies one key press. Guards are read fresh on every call.
func (a *Adapter) HandleKey(key string) bool {
	if contains(a.keys.Drawer, key) {
		a.drawer.Toggle()
		return true
	}
	if a.drawer.IsOpen() {
		return false
	}
	switch {
	case contains(a.keys.Forward, key):
		if a.nav.CanGoNext() {
			a.nav.GoNext()
			return true
		}
	case contains(a.keys.Back, key):
		if a.nav.CanGoBack() {
			a.nav.GoBack()
			return true
		}
	}
	return false
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
