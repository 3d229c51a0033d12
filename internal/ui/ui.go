package ui

import (
	"context"
	errs "errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/DaanHessen/stripe-guide/internal/content"
	"github.com/DaanHessen/stripe-guide/internal/engine"
	"github.com/DaanHessen/stripe-guide/internal/input"
	"github.com/DaanHessen/stripe-guide/internal/overlay"
	"github.com/DaanHessen/stripe-guide/internal/payments"
	"github.com/DaanHessen/stripe-guide/internal/text"
)

const (
	drawerWidth   = 34
	detailWidth   = 56
	minMainWidth  = 40
	chromeHeight  = 6
	paymentScene  = "test-payment"
	defaultWidth  = 100
	defaultHeight = 30
)

// Payments is the demo payment surface the UI drives.
type Payments interface {
	Enabled() bool
	Create(ctx context.Context, mode payments.Mode, origin string) (payments.Result, error)
}

type contentMsg struct {
	sceneID string
	scene   content.Scene
	err     error
}

type paymentMsg struct {
	result payments.Result
	err    error
}

// entered collects scenes the narrative moved to since the last drain.
type entered struct{ ids []string }

func (e *entered) push(id string) { e.ids = append(e.ids, id) }

func (e *entered) drain() []string {
	ids := e.ids
	e.ids = nil
	return ids
}

type model struct {
	ctx     context.Context
	log     zerolog.Logger
	nav     *engine.Narrative
	drawer  *overlay.Drawer
	detail  *overlay.Detail
	hub     *input.Hub
	adapter *input.Adapter
	loader  content.Loader
	pay     Payments
	origin  string

	theme       string
	st          styles
	rendererFor func(width int, theme string) text.Renderer
	renderers   map[int]text.Renderer

	moves       *entered
	unsubscribe func()

	scenes   map[string]content.Scene
	missing  map[string]bool
	pending  map[string]bool
	rendered map[string]string

	drawerCursor int
	scrollOffset int
	status       string
	paying       bool

	width  int
	height int
}

func glamourFor(width int, theme string) text.Renderer {
	plain := text.NewPlainRenderer()
	g, err := text.NewGlamourRenderer(width, glamourStyle(theme))
	if err != nil {
		return plain
	}
	return text.WithFallback(g, plain)
}

// initialModel wires the stores together. The input adapter is not mounted yet.
func initialModel(ctx context.Context, opts Options) model {
	nav := engine.NewNarrative(opts.Index)
	detail := overlay.NewDetail()
	drawer := overlay.NewDrawer(detail)
	theme := opts.Theme
	if _, ok := palettes[theme]; !ok {
		theme = defaultTheme
	}
	m := model{
		ctx:         ctx,
		log:         opts.Logger,
		nav:         nav,
		drawer:      drawer,
		detail:      detail,
		hub:         input.NewHub(),
		adapter:     input.NewAdapter(nav, drawer, input.DefaultKeyMap),
		loader:      opts.Loader,
		pay:         opts.Payments,
		origin:      opts.Origin,
		theme:       theme,
		st:          newStyles(paletteFor(theme)),
		rendererFor: glamourFor,
		renderers:   map[int]text.Renderer{},
		moves:       &entered{},
		scenes:      map[string]content.Scene{},
		missing:     map[string]bool{},
		pending:     map[string]bool{},
		rendered:    map[string]string{},
	}
	log := m.log
	moves := m.moves
	m.unsubscribe = nav.Subscribe(func(t engine.Transition) {
		moves.push(t.To)
		log.Debug().Str("from", t.From).Str("to", t.To).Str("cause", string(t.Cause)).Stringer("direction", t.Direction).Msg("scene transition")
	})
	return m
}

func (m model) Init() tea.Cmd { return m.loadScene(m.nav.Current()) }

// loadScene fetches content off the update loop. Known or in-flight scenes are skipped.
func (m model) loadScene(id string) tea.Cmd {
	if _, ok := m.scenes[id]; ok || m.missing[id] || m.pending[id] {
		return nil
	}
	m.pending[id] = true
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		sc, err := loader.Load(ctx, id)
		return contentMsg{sceneID: id, scene: sc, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampScroll()
		return m, nil
	case contentMsg:
		delete(m.pending, msg.sceneID)
		if msg.err != nil {
			if errs.Is(msg.err, content.ErrNoContent) {
				m.missing[msg.sceneID] = true
			}
			m.log.Warn().Err(msg.err).Str("scene", msg.sceneID).Msg("content load failed")
			return m, nil
		}
		// cached even when the user has already moved on
		m.scenes[msg.sceneID] = msg.scene
		return m, nil
	case paymentMsg:
		m.paying = false
		if msg.err != nil {
			m.status = "Payment failed: " + msg.err.Error()
			return m, nil
		}
		if msg.result.URL != "" {
			m.status = "Checkout ready, open in a browser: " + msg.result.URL
		} else {
			m.status = fmt.Sprintf("Created %s (client secret issued for the browser demo)", msg.result.StripeID)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(k string) (tea.Model, tea.Cmd) {
	if k == "ctrl+c" || k == "q" {
		return m, tea.Quit
	}
	if !m.paying {
		m.status = ""
	}
	wasOpen := m.drawer.IsOpen()
	if m.hub.Dispatch(k) {
		if !wasOpen && m.drawer.IsOpen() {
			m.drawerCursor = m.position()
		}
		return m, m.afterMoves()
	}
	if m.drawer.IsOpen() {
		m.updateDrawer(k)
		return m, m.afterMoves()
	}
	if m.detail.IsOpen() && m.updateDetail(k) {
		return m, nil
	}
	cmd := m.updateScene(k)
	return m, tea.Batch(cmd, m.afterMoves())
}

func (m *model) updateDrawer(k string) {
	nodes := m.nav.Index().Nodes()
	switch k {
	case "up", "k":
		if m.drawerCursor > 0 {
			m.drawerCursor--
		}
	case "down", "j":
		if m.drawerCursor < len(nodes)-1 {
			m.drawerCursor++
		}
	case "enter":
		if m.drawerCursor >= 0 && m.drawerCursor < len(nodes) {
			if err := m.nav.GoTo(nodes[m.drawerCursor].ID); err != nil {
				m.log.Error().Err(err).Msg("drawer jump")
			}
		}
		m.drawer.Close()
	case "esc":
		m.drawer.Close()
	}
}

// updateDetail reports whether the detail panel consumed k.
func (m *model) updateDetail(k string) bool {
	switch k {
	case "1", "2", "3":
		m.detail.SetTab(overlay.Tabs[int(k[0]-'1')])
	case "[":
		m.detail.CycleTab(-1)
	case "]":
		m.detail.CycleTab(1)
	case "esc", "p":
		m.detail.Close()
	default:
		return false
	}
	return true
}

func (m *model) updateScene(k string) tea.Cmd {
	node := m.nav.CurrentNode()
	switch k {
	case "p":
		if content.HasDetail(node.ID) {
			m.detail.Open(node.ID)
		}
	case "c":
		if node.ID == paymentScene {
			return m.startPayment()
		}
	case "r":
		if node.Terminal() {
			if err := m.nav.GoTo(m.nav.Index().Start()); err != nil {
				m.log.Error().Err(err).Msg("restart")
			}
		}
	case "t":
		m.theme = nextThemeName(m.theme, 1)
		m.st = newStyles(paletteFor(m.theme))
		m.renderers = map[int]text.Renderer{}
		m.rendered = map[string]string{}
	case "pgdown", "ctrl+f":
		m.scrollOffset += 8
	case "pgup", "ctrl+b":
		m.scrollOffset -= 8
	case "down", "j":
		m.scrollOffset++
	case "up", "k":
		m.scrollOffset--
	case "home":
		m.scrollOffset = 0
	case "end":
		m.scrollOffset = 1 << 30
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' && node.HasBranches() {
			idx := int(k[0] - '1')
			if idx < len(node.Branches) {
				b := node.Branches[idx]
				if err := m.nav.Choose(node.DecisionKey(), b.Label, b.Target); err != nil {
					m.log.Error().Err(err).Str("scene", node.ID).Msg("choose")
				}
			}
		}
	}
	m.clampScroll()
	return nil
}

func (m *model) startPayment() tea.Cmd {
	if m.paying {
		return nil
	}
	if m.pay == nil || !m.pay.Enabled() {
		m.status = "Live demo disabled: set STRIPE_SECRET_KEY to a test-mode key."
		return nil
	}
	choice, _ := m.nav.Choice(content.UIChoiceKey)
	mode := payments.ModeForChoice(choice)
	m.paying = true
	m.status = fmt.Sprintf("Creating %s test payment...", mode)
	pay, ctx, origin := m.pay, m.ctx, m.origin
	return func() tea.Msg {
		res, err := pay.Create(ctx, mode, origin)
		return paymentMsg{result: res, err: err}
	}
}

// afterMoves reacts to transitions made during this update: panels follow the
// new scene and content loads are scheduled.
func (m *model) afterMoves() tea.Cmd {
	ids := m.moves.drain()
	if len(ids) == 0 {
		return nil
	}
	m.scrollOffset = 0
	cur := m.nav.Current()
	if m.detail.IsOpen() && m.detail.SceneID() != cur {
		if content.HasDetail(cur) {
			m.detail.OpenTab(cur, m.detail.Tab())
		} else {
			m.detail.Close()
		}
	}
	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, m.loadScene(id))
	}
	return tea.Batch(cmds...)
}

// position is the index of the current scene in graph order.
func (m model) position() int {
	cur := m.nav.Current()
	for i, n := range m.nav.Index().Nodes() {
		if n.ID == cur {
			return i
		}
	}
	return 0
}

func (m model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m model) mainWidth() int {
	w, _ := m.size()
	if m.drawer.IsOpen() {
		w -= drawerWidth
	}
	if m.detail.IsOpen() {
		w -= detailWidth
	}
	if w < minMainWidth {
		w = minMainWidth
	}
	return w
}

func (m *model) clampScroll() {
	_, h := m.size()
	avail := h - chromeHeight
	lines := strings.Count(m.sceneBody(m.mainWidth()), "\n") + 1
	maxScroll := lines - avail
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollOffset > maxScroll {
		m.scrollOffset = maxScroll
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m model) renderer(width int) text.Renderer {
	if r, ok := m.renderers[width]; ok {
		return r
	}
	r := m.rendererFor(width, m.theme)
	m.renderers[width] = r
	return r
}

// sceneBody renders the current scene, or a placeholder while content loads.
func (m model) sceneBody(width int) string {
	id := m.nav.Current()
	if m.missing[id] {
		return text.NotFound(id)
	}
	sc, ok := m.scenes[id]
	if !ok {
		return m.st.muted.Render("Loading " + content.Title(id) + "...")
	}
	node := m.nav.CurrentNode()
	choices := m.nav.Choices()
	key, keyErr := text.CacheKey(id, width, choices)
	if keyErr == nil {
		if out, ok := m.rendered[key]; ok {
			return out
		}
	}
	out, err := m.renderer(width-2).Scene(m.ctx, text.SceneView{Scene: sc, Act: node.Act, Branches: node.Branches, Choices: choices})
	if err != nil {
		m.log.Warn().Err(err).Str("scene", id).Msg("render scene")
		return text.SceneMarkdown(text.SceneView{Scene: sc, Act: node.Act, Branches: node.Branches, Choices: choices})
	}
	if keyErr == nil {
		m.rendered[key] = out
	}
	return out
}

func (m model) detailBody(width int) string {
	id := m.detail.SceneID()
	sc, ok := m.scenes[id]
	if !ok {
		return m.st.muted.Render("Loading...")
	}
	key, keyErr := text.CacheKey("detail/"+string(m.detail.Tab())+"/"+id, width, nil)
	if keyErr == nil {
		if out, ok := m.rendered[key]; ok {
			return out
		}
	}
	out, err := m.renderer(width-4).Detail(m.ctx, text.DetailView{Scene: sc, Tab: m.detail.Tab()})
	if err != nil {
		return text.DetailMarkdown(text.DetailView{Scene: sc, Tab: m.detail.Tab()})
	}
	if keyErr == nil {
		m.rendered[key] = out
	}
	return out
}

func (m model) View() string {
	w, h := m.size()
	mainW := m.mainWidth()

	lines := strings.Split(m.sceneBody(mainW), "\n")
	avail := h - chromeHeight
	if avail > 3 && len(lines) > avail {
		start := m.scrollOffset
		if start+avail > len(lines) {
			start = len(lines) - avail
		}
		if start < 0 {
			start = 0
		}
		lines = lines[start : start+avail]
	}
	main := lipgloss.NewStyle().Width(mainW).Render(strings.Join(lines, "\n"))

	cols := make([]string, 0, 3)
	if m.drawer.IsOpen() {
		cols = append(cols, m.renderDrawer())
	}
	cols = append(cols, main)
	if m.detail.IsOpen() {
		cols = append(cols, m.renderDetail())
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	parts := []string{m.renderTopBar(w), m.renderProgress(w), body}
	if m.status != "" {
		parts = append(parts, m.st.warning.Render(m.status))
	}
	parts = append(parts, m.renderBottomBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderTopBar(w int) string {
	node := m.nav.CurrentNode()
	left := fmt.Sprintf("STRIPE GUIDE • Act %d: %s • %s", node.Act, content.ActTitle(node.Act), content.Title(node.ID))
	right := fmt.Sprintf("%d/%d", m.position()+1, m.nav.Index().Len())
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return m.st.topBar.Render(left + strings.Repeat(" ", gap) + right)
}

func (m model) renderProgress(w int) string {
	visited, total := m.nav.VisitedCount(), m.nav.Index().Len()
	label := fmt.Sprintf(" %d/%d visited", visited, total)
	width := w - lipgloss.Width(label) - 2
	if width > 40 {
		width = 40
	}
	if width < 10 {
		width = 10
	}
	fill := int(m.nav.Progress()*float64(width) + 0.5)
	if fill > width {
		fill = width
	}
	return m.st.barFill.Render(strings.Repeat("█", fill)) + m.st.barRest.Render(strings.Repeat("·", width-fill)) + m.st.muted.Render(label)
}

func (m model) renderDrawer() string {
	idx := m.nav.Index()
	cur := m.nav.Current()
	var b strings.Builder
	b.WriteString(m.st.title.Render("Scenes") + "\n")
	pos := 0
	for _, g := range idx.ActGroups() {
		b.WriteString("\n" + m.st.accent.Render(fmt.Sprintf("Act %d · %s", g.Act, content.ActTitle(g.Act))) + "\n")
		for _, n := range g.Scenes {
			cursor := "  "
			if pos == m.drawerCursor {
				cursor = "› "
			}
			mark := " "
			switch {
			case n.ID == cur:
				mark = "●"
			case m.nav.Visited(n.ID):
				mark = "✓"
			}
			label := content.Title(n.ID)
			if meta, ok := idx.BranchMeta(n.ID); ok && meta.Emoji != "" {
				label = meta.Emoji + " " + label
			}
			line := fmt.Sprintf("%s%s %s", cursor, mark, label)
			switch {
			case n.ID == cur:
				line = m.st.current.Render(line)
			case !m.nav.Visited(n.ID):
				line = m.st.muted.Render(line)
			}
			b.WriteString(line + "\n")
			pos++
		}
	}
	return m.st.panel.Width(drawerWidth - 2).Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) renderDetail() string {
	tabs := make([]string, 0, len(overlay.Tabs))
	for i, t := range overlay.Tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Label())
		if t == m.detail.Tab() {
			tabs = append(tabs, m.st.current.Render("["+label+"]"))
		} else {
			tabs = append(tabs, m.st.muted.Render(" "+label+" "))
		}
	}
	head := strings.Join(tabs, " ")
	return m.st.panel.Width(detailWidth - 2).Render(head + "\n" + m.detailBody(detailWidth-2))
}

func (m model) renderBottomBar() string {
	var keys []string
	switch {
	case m.drawer.IsOpen():
		keys = []string{"↑/↓ move", "enter jump", "esc/tab close"}
	case m.detail.IsOpen():
		keys = []string{"1-3 tab", "[/] cycle", "esc close", "←/→ navigate"}
	default:
		node := m.nav.CurrentNode()
		keys = []string{"←/→ navigate", "tab scenes"}
		if node.HasBranches() {
			keys = append(keys, fmt.Sprintf("1-%d choose", len(node.Branches)))
		}
		if content.HasDetail(node.ID) {
			keys = append(keys, "p under the hood")
		}
		if node.ID == paymentScene {
			keys = append(keys, "c create test payment")
		}
		if node.Terminal() {
			keys = append(keys, "r restart")
		}
		keys = append(keys, "t theme")
	}
	keys = append(keys, "q quit")
	return m.st.muted.Render(strings.Join(keys, "  "))
}
