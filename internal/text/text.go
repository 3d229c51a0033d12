package text

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"

	"github.com/DaanHessen/stripe-guide/internal/content"
	"github.com/DaanHessen/stripe-guide/internal/engine"
	"github.com/DaanHessen/stripe-guide/internal/overlay"
)

// SceneView is everything a scene rendering depends on.
type SceneView struct {
	Scene    content.Scene
	Act      int
	Branches []engine.Branch
	Choices  map[string]string
}

// DetailView is everything a detail panel rendering depends on.
type DetailView struct {
	Scene content.Scene
	Tab   overlay.Tab
}

// Renderer turns scene content into terminal text.
type Renderer interface {
	Scene(ctx context.Context, v SceneView) (string, error)
	Detail(ctx context.Context, v DetailView) (string, error)
}

// plainRenderer returns the markdown source untouched.
type plainRenderer struct{}

func NewPlainRenderer() Renderer { return plainRenderer{} }

func (plainRenderer) Scene(ctx context.Context, v SceneView) (string, error) {
	return SceneMarkdown(v), nil
}

func (plainRenderer) Detail(ctx context.Context, v DetailView) (string, error) {
	return DetailMarkdown(v), nil
}

// glamourRenderer styles markdown for the terminal.
type glamourRenderer struct {
	tr *glamour.TermRenderer
}

// NewGlamourRenderer builds a renderer wrapping at width. An empty style picks
// one from the terminal background.
func NewGlamourRenderer(width int, style string) (Renderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "init glamour")
	}
	return &glamourRenderer{tr: tr}, nil
}

func (g *glamourRenderer) Scene(ctx context.Context, v SceneView) (string, error) {
	out, err := g.tr.Render(SceneMarkdown(v))
	return out, errors.Wrapf(err, "render scene %q", v.Scene.ID)
}

func (g *glamourRenderer) Detail(ctx context.Context, v DetailView) (string, error) {
	out, err := g.tr.Render(DetailMarkdown(v))
	return out, errors.Wrapf(err, "render detail %q", v.Scene.ID)
}

// WithFallback returns a renderer that prefers primary and falls back to backup on error.
func WithFallback(primary, fallback Renderer) Renderer {
	return &fallbackRenderer{p: primary, f: fallback}
}

type fallbackRenderer struct{ p, f Renderer }

func (r *fallbackRenderer) Scene(ctx context.Context, v SceneView) (string, error) {
	if r.p == nil {
		return r.f.Scene(ctx, v)
	}
	if s, err := r.p.Scene(ctx, v); err == nil {
		return s, nil
	}
	return r.f.Scene(ctx, v)
}

func (r *fallbackRenderer) Detail(ctx context.Context, v DetailView) (string, error) {
	if r.p == nil {
		return r.f.Detail(ctx, v)
	}
	if s, err := r.p.Detail(ctx, v); err == nil {
		return s, nil
	}
	return r.f.Detail(ctx, v)
}

// CacheKey derives a stable key for a rendering of sceneID at width under choices.
func CacheKey(sceneID string, width int, choices map[string]string) (string, error) {
	// encoding/json sorts map keys, so equal inputs give equal bytes
	b, err := json.Marshal(struct {
		Scene   string            `json:"scene"`
		Width   int               `json:"width"`
		Choices map[string]string `json:"choices"`
	}{sceneID, width, choices})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// NotFound is shown when a scene id resolves to no content.
func NotFound(sceneID string) string {
	return fmt.Sprintf("# Scene not found\n\nNo content is available for `%s`.\n", sceneID)
}

// SceneMarkdown assembles the markdown source of a scene.
func SceneMarkdown(v SceneView) string {
	sc := v.Scene
	var b strings.Builder
	if !strings.HasPrefix(strings.TrimSpace(sc.Body), "# ") {
		b.WriteString("# " + sc.Title + "\n\n")
	}
	for _, l := range sc.Guide {
		b.WriteString("> " + l.Emotion.Glyph() + " " + l.Text + "\n>\n")
	}
	if len(sc.Guide) > 0 {
		b.WriteString("\n")
	}
	if body := strings.TrimSpace(sc.Body); body != "" {
		b.WriteString(body + "\n\n")
	}
	switch sc.Extra {
	case content.ExtraMatrix:
		b.WriteString(matrixMarkdown())
	case content.ExtraFeatures:
		b.WriteString(featuresMarkdown())
	case content.ExtraUIComparison:
		b.WriteString(uiComparisonMarkdown())
	case content.ExtraSummary:
		b.WriteString(summaryMarkdown(content.GenerateSummary(v.Choices)))
	case content.ExtraStateMachine:
		b.WriteString(stateMachineMarkdown())
	}
	if len(v.Branches) > 0 {
		b.WriteString("## Pick one\n\n")
		for i, br := range v.Branches {
			label := br.Label
			if br.Emoji != "" {
				label = br.Emoji + " " + label
			}
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DetailMarkdown assembles the markdown of the detail panel's active tab.
func DetailMarkdown(v DetailView) string {
	sc := v.Scene
	var b strings.Builder
	b.WriteString("## Under the Hood: " + sc.Title + "\n\n")
	switch v.Tab {
	case overlay.TabFlow:
		b.WriteString("### Request Flow\n\n")
		for i, s := range content.RequestFlow {
			b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, s.Icon, s.Label))
		}
	case overlay.TabWebhooks:
		if len(sc.Webhooks) == 0 {
			b.WriteString("*No webhook examples for this scene yet.*\n")
			break
		}
		for _, ev := range sc.Webhooks {
			b.WriteString(fmt.Sprintf("### `%s`\n\n%s\n\n*When:* %s\n\n", ev.Type, ev.Description, ev.When))
			b.WriteString("```json\n" + strings.TrimRight(ev.Payload, "\n") + "\n```\n\n")
		}
	default:
		if len(sc.Code) == 0 {
			b.WriteString("*No code examples for this scene yet.*\n")
			break
		}
		for _, ex := range sc.Code {
			b.WriteString("### " + ex.Title + "\n\n")
			b.WriteString("```" + ex.Language + "\n" + strings.TrimRight(ex.Code, "\n") + "\n```\n\n")
			if len(ex.Annotations) == 0 {
				continue
			}
			lines := make([]int, 0, len(ex.Annotations))
			for ln := range ex.Annotations {
				lines = append(lines, ln)
			}
			sort.Ints(lines)
			for _, ln := range lines {
				b.WriteString(fmt.Sprintf("- line %d: %s\n", ln, ex.Annotations[ln]))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func matrixMarkdown() string {
	var b strings.Builder
	b.WriteString("| API \\ UI | " + strings.Join(content.UIOptions, " | ") + " |\n")
	b.WriteString("|---" + strings.Repeat("|---", len(content.UIOptions)) + "|\n")
	for _, api := range content.APIOptions {
		row := []string{api}
		for _, ui := range content.UIOptions {
			cell, ok := content.MatrixLookup(api, ui)
			switch {
			case !ok:
				row = append(row, "?")
			case cell.Supported:
				row = append(row, "✅ "+cell.Note)
			default:
				row = append(row, "❌ "+cell.Note)
			}
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	b.WriteString("\n")
	return b.String()
}

func featuresMarkdown() string {
	var b strings.Builder
	for _, f := range content.CheckoutFeatures {
		b.WriteString(fmt.Sprintf("- %s **%s**: %s\n", f.Icon, f.Name, f.Description))
	}
	b.WriteString("\n")
	return b.String()
}

func uiComparisonMarkdown() string {
	var b strings.Builder
	b.WriteString("| | Hosted | Embedded | Payment Element |\n|---|---|---|---|\n")
	for _, c := range content.UIComparisons {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.Feature, c.Hosted, c.Embedded, c.PaymentElement))
	}
	b.WriteString("\n")
	return b.String()
}

func summaryMarkdown(s content.Summary) string {
	var b strings.Builder
	b.WriteString("*Based on your choices...*\n\n")
	b.WriteString(fmt.Sprintf("- **Recommended API:** %s\n- **Recommended UI:** %s\n- **Complexity:** %s\n\n", s.RecommendedAPI, s.RecommendedUI, s.Complexity))
	b.WriteString(s.Description + "\n\n### Next Steps\n\n")
	for i, step := range s.NextSteps {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	b.WriteString("\nDocs: " + s.DocsURL + "\n\n")
	return b.String()
}

func stateMachineMarkdown() string {
	var b strings.Builder
	b.WriteString("| Status | Meaning |\n|---|---|\n")
	for _, s := range content.IntentStatuses {
		b.WriteString(fmt.Sprintf("| `%s` | %s |\n", s.ID, s.Meaning))
	}
	b.WriteString("\n")
	for _, e := range content.IntentEdges {
		b.WriteString(fmt.Sprintf("- `%s` → `%s` (%s)\n", e.From, e.To, e.Label))
	}
	b.WriteString("\n")
	return b.String()
}
