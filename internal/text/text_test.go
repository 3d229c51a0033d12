package text

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaanHessen/stripe-guide/internal/content"
	"github.com/DaanHessen/stripe-guide/internal/engine"
	"github.com/DaanHessen/stripe-guide/internal/overlay"
)

func load(t *testing.T, id string) content.Scene {
	t.Helper()
	sc, err := content.NewLibrary().Load(context.Background(), id)
	require.NoError(t, err)
	return sc
}

func TestCacheKeyDeterminism(t *testing.T) {
	k1, err := CacheKey("summary", 80, map[string]string{"ui-choice": "Hosted Checkout", "b": "x"})
	require.NoError(t, err)
	k2, _ := CacheKey("summary", 80, map[string]string{"b": "x", "ui-choice": "Hosted Checkout"})
	if k1 != k2 {
		t.Fatal("CacheKey not stable for equivalent input")
	}
	k3, _ := CacheKey("summary", 80, map[string]string{"ui-choice": "Payment Element", "b": "x"})
	if k1 == k3 {
		t.Fatal("CacheKey identical for different choices")
	}
	k4, _ := CacheKey("summary", 100, map[string]string{"ui-choice": "Hosted Checkout", "b": "x"})
	assert.NotEqual(t, k1, k4)
}

func TestSceneMarkdownBranches(t *testing.T) {
	md := SceneMarkdown(SceneView{
		Scene: load(t, "ui-intro"),
		Branches: []engine.Branch{
			{Label: "Hosted Checkout", Target: "hosted-checkout", Emoji: "🔗"},
			{Label: "Payment Element", Target: "payment-element"},
		},
	})
	assert.Contains(t, md, "# Choose Your UI")
	assert.Contains(t, md, "1. 🔗 Hosted Checkout")
	assert.Contains(t, md, "2. Payment Element")
	assert.Contains(t, md, "Pick one to explore!")
}

func TestSceneMarkdownSummaryFollowsChoice(t *testing.T) {
	sc := load(t, "summary")
	md := SceneMarkdown(SceneView{Scene: sc, Choices: map[string]string{content.UIChoiceKey: "Embedded Checkout"}})
	assert.Contains(t, md, "Low-Medium")
	assert.Contains(t, md, "EmbeddedCheckoutProvider")

	md = SceneMarkdown(SceneView{Scene: sc})
	assert.Contains(t, md, "**Recommended UI:** Hosted Checkout")
}

func TestSceneMarkdownMatrix(t *testing.T) {
	md := SceneMarkdown(SceneView{Scene: load(t, "matrix-reveal")})
	assert.Contains(t, md, "| Payment Intents | ❌ Not available with Payment Intents")
}

func TestLandingKeepsOwnHeading(t *testing.T) {
	md := SceneMarkdown(SceneView{Scene: load(t, "landing")})
	assert.True(t, strings.HasPrefix(md, "# Stripe Payments, Explained"))
}

func TestDetailMarkdownTabs(t *testing.T) {
	sc := load(t, "hosted-checkout")

	code := DetailMarkdown(DetailView{Scene: sc, Tab: overlay.TabCode})
	assert.Contains(t, code, "```javascript")
	assert.Contains(t, code, "- line 10: Redirect to Stripe-hosted checkout page")

	hooks := DetailMarkdown(DetailView{Scene: sc, Tab: overlay.TabWebhooks})
	assert.Contains(t, hooks, "`checkout.session.completed`")
	assert.Contains(t, hooks, "```json")

	flow := DetailMarkdown(DetailView{Scene: sc, Tab: overlay.TabFlow})
	assert.Contains(t, flow, "4. 🔔 Webhook")

	empty := DetailMarkdown(DetailView{Scene: load(t, "payment-intents"), Tab: overlay.TabCode})
	assert.Contains(t, empty, "No code examples")
}

type failingRenderer struct{}

func (failingRenderer) Scene(context.Context, SceneView) (string, error) {
	return "", errors.New("boom")
}
func (failingRenderer) Detail(context.Context, DetailView) (string, error) {
	return "", errors.New("boom")
}

func TestWithFallback(t *testing.T) {
	r := WithFallback(failingRenderer{}, NewPlainRenderer())
	out, err := r.Scene(context.Background(), SceneView{Scene: load(t, "charges-retire")})
	require.NoError(t, err)
	assert.Contains(t, out, "End of an Era")

	out, err = WithFallback(nil, NewPlainRenderer()).Detail(context.Background(), DetailView{Scene: load(t, "payment-element"), Tab: overlay.TabWebhooks})
	require.NoError(t, err)
	assert.Contains(t, out, "payment_intent.succeeded")
}

func TestGlamourRenderer(t *testing.T) {
	r, err := NewGlamourRenderer(60, "notty")
	require.NoError(t, err)
	out, err := r.Scene(context.Background(), SceneView{Scene: load(t, "checkout-features")})
	require.NoError(t, err)
	assert.Contains(t, out, "Tax Calculation")
}

func TestNotFound(t *testing.T) {
	assert.Contains(t, NotFound("ghost"), "`ghost`")
}
