package content

// UIChoiceKey is the decision recorded at the UI fork.
const UIChoiceKey = "ui-choice"

// Summary is the integration plan recommended at the end of the guide.
type Summary struct {
	RecommendedAPI string
	RecommendedUI  string
	Complexity     string
	Description    string
	NextSteps      []string
	DocsURL        string
}

const defaultUI = "Hosted Checkout"

var recommendations = map[string]Summary{
	"Hosted Checkout": {
		RecommendedAPI: "Checkout Sessions",
		RecommendedUI:  "Hosted Checkout",
		Complexity:     "Low",
		Description:    "The fastest way to start accepting payments. Stripe hosts the entire checkout page; you just redirect customers and handle the result.",
		NextSteps: []string{
			"Create a Checkout Session on your server",
			"Redirect the customer to session.url",
			"Handle the checkout.session.completed webhook",
			"Display a success page",
		},
		DocsURL: "https://docs.stripe.com/checkout/quickstart",
	},
	"Embedded Checkout": {
		RecommendedAPI: "Checkout Sessions",
		RecommendedUI:  "Embedded Checkout",
		Complexity:     "Low-Medium",
		Description:    "Stripe checkout embedded directly in your page via an iframe. Customers never leave your site, and you still get all the built-in Checkout features.",
		NextSteps: []string{
			`Create a Checkout Session with ui_mode: "embedded"`,
			"Pass the client_secret to EmbeddedCheckoutProvider",
			"Mount the EmbeddedCheckout component",
			"Handle the checkout.session.completed webhook",
		},
		DocsURL: "https://docs.stripe.com/checkout/embedded/quickstart",
	},
	"Payment Element": {
		RecommendedAPI: "Checkout Sessions or Payment Intents",
		RecommendedUI:  "Payment Element",
		Complexity:     "Medium",
		Description:    "Maximum flexibility and control. Build your own checkout form with Stripe UI components. Works with both API layers depending on your needs.",
		NextSteps: []string{
			"Create a PaymentIntent or Checkout Session on your server",
			"Initialize Elements with the client_secret",
			"Render PaymentElement in your custom form",
			"Call stripe.confirmPayment() on submit",
			"Handle the payment_intent.succeeded webhook",
		},
		DocsURL: "https://docs.stripe.com/payments/quickstart",
	},
}

// GenerateSummary picks the plan for the recorded UI choice. Missing or
// unknown choices get the Hosted Checkout plan.
func GenerateSummary(choices map[string]string) Summary {
	if s, ok := recommendations[choices[UIChoiceKey]]; ok {
		return s
	}
	return recommendations[defaultUI]
}
