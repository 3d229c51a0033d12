// Package overlay holds the on/off state of the scene drawer and the
// "under the hood" detail panel.
package overlay

// Tab selects what the detail panel shows.
type Tab string

const (
	TabCode     Tab = "code"
	TabFlow     Tab = "flow"
	TabWebhooks Tab = "webhooks"
)

// Tabs in display order. The first one is the default.
var Tabs = []Tab{TabCode, TabFlow, TabWebhooks}

func (t Tab) Valid() bool {
	for _, v := range Tabs {
		if v == t {
			return true
		}
	}
	return false
}

// Label is the tab's display name.
func (t Tab) Label() string {
	switch t {
	case TabCode:
		return "Code"
	case TabFlow:
		return "Flow"
	case TabWebhooks:
		return "Webhooks"
	}
	return string(t)
}

// Detail is the side panel showing code, flow and webhook samples for a scene.
type Detail struct {
	open    bool
	tab     Tab
	sceneID string
}

func NewDetail() *Detail { return &Detail{tab: TabCode} }

func (d *Detail) IsOpen() bool    { return d.open }
func (d *Detail) Tab() Tab        { return d.tab }
func (d *Detail) SceneID() string { return d.sceneID }

// Open shows the panel for sceneID on the default tab.
func (d *Detail) Open(sceneID string) { d.OpenTab(sceneID, TabCode) }

// OpenTab shows the panel for sceneID on tab. An invalid tab falls back to
// the default. Opening never affects the drawer.
func (d *Detail) OpenTab(sceneID string, tab Tab) {
	if !tab.Valid() {
		tab = TabCode
	}
	d.open = true
	d.sceneID = sceneID
	d.tab = tab
}

// Close hides the panel. The associated scene and tab are kept.
func (d *Detail) Close() { d.open = false }

// SetTab switches tabs; invalid tabs are ignored.
func (d *Detail) SetTab(tab Tab) bool {
	if !tab.Valid() {
		return false
	}
	d.tab = tab
	return true
}

// CycleTab moves step tabs forward (negative steps go back), wrapping around.
func (d *Detail) CycleTab(step int) {
	cur := 0
	for i, t := range Tabs {
		if t == d.tab {
			cur = i
			break
		}
	}
	cur = (cur + step) % len(Tabs)
	if cur < 0 {
		cur += len(Tabs)
	}
	d.tab = Tabs[cur]
}

// Drawer is the scene navigator. Opening it closes the detail panel; the
// reverse does not hold.
type Drawer struct {
	open   bool
	detail *Detail
}

// NewDrawer binds the drawer to the detail panel it must dismiss. detail may be nil.
func NewDrawer(detail *Detail) *Drawer { return &Drawer{detail: detail} }

func (d *Drawer) IsOpen() bool { return d.open }

func (d *Drawer) Open() {
	d.open = true
	if d.detail != nil && d.detail.IsOpen() {
		d.detail.Close()
	}
}

func (d *Drawer) Close() { d.open = false }

func (d *Drawer) Toggle() {
	if d.open {
		d.Close()
		return
	}
	d.Open()
}
