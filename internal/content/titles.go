package content

var sceneTitles = map[string]string{
	"landing":           "Welcome",
	"guide-intro":       "Meet Your Guide",
	"big-picture":       "The Big Picture",
	"charges-api":       "The Charges API",
	"why-charges-died":  "Why Charges Died",
	"charges-retire":    "Charges Retires",
	"payment-intents":   "Payment Intents",
	"state-machine":     "The State Machine",
	"checkout-sessions": "Checkout Sessions",
	"checkout-features": "Built-in Features",
	"api-vs-ui":         "API vs. UI",
	"matrix-reveal":     "The Matrix",
	"ui-intro":          "Choose Your UI",
	"hosted-checkout":   "Hosted Checkout",
	"embedded-checkout": "Embedded Checkout",
	"payment-element":   "Payment Element",
	"ui-comparison":     "Side-by-Side",
	"summary":           "Your Plan",
	"test-payment":      "Live Test",
	"cheat-sheet":       "Cheat Sheet",
}

var actTitles = map[int]string{
	1: "The Beginning",
	2: "The API Layer",
	3: "What Customers See",
	5: "The Payoff",
}

// scenes where the "under the hood" panel can be opened
var detailScenes = map[string]struct{}{
	"hosted-checkout":   {},
	"embedded-checkout": {},
	"payment-element":   {},
	"payment-intents":   {},
	"checkout-sessions": {},
}

// Title returns the display title of a scene, or its id when none is authored.
func Title(sceneID string) string {
	if t, ok := sceneTitles[sceneID]; ok {
		return t
	}
	return sceneID
}

// ActTitle returns the display name of an act.
func ActTitle(act int) string { return actTitles[act] }

// HasDetail reports whether the detail panel is offered on sceneID.
func HasDetail(sceneID string) bool {
	_, ok := detailScenes[sceneID]
	return ok
}
