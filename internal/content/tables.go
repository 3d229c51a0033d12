package content

// MatrixCell says whether an API layer can drive a UI option.
type MatrixCell struct {
	API       string
	UI        string
	Supported bool
	Note      string
}

var (
	APIOptions = []string{"Checkout Sessions", "Payment Intents"}
	UIOptions  = []string{"Hosted Checkout", "Embedded Checkout", "Payment Element"}
)

var Matrix = []MatrixCell{
	{API: "Checkout Sessions", UI: "Hosted Checkout", Supported: true, Note: "Redirect to checkout.stripe.com"},
	{API: "Checkout Sessions", UI: "Embedded Checkout", Supported: true, Note: "Stripe iframe in your page"},
	{API: "Checkout Sessions", UI: "Payment Element", Supported: true, Note: `Custom form with ui_mode: "custom"`},
	{API: "Payment Intents", UI: "Hosted Checkout", Supported: false, Note: "Not available with Payment Intents"},
	{API: "Payment Intents", UI: "Embedded Checkout", Supported: false, Note: "Not available with Payment Intents"},
	{API: "Payment Intents", UI: "Payment Element", Supported: true, Note: "Direct integration, most flexible"},
}

// MatrixLookup returns the cell for an API/UI pair.
func MatrixLookup(api, ui string) (MatrixCell, bool) {
	for _, c := range Matrix {
		if c.API == api && c.UI == ui {
			return c, true
		}
	}
	return MatrixCell{}, false
}

type CheckoutFeature struct {
	Name        string
	Description string
	Icon        string
}

var CheckoutFeatures = []CheckoutFeature{
	{Name: "Tax Calculation", Description: "Automatic tax computation for 50+ countries", Icon: "🧮"},
	{Name: "Discount Codes", Description: "Built-in promo and coupon code support", Icon: "🏷️"},
	{Name: "Shipping", Description: "Collect and calculate shipping addresses and rates", Icon: "📦"},
	{Name: "Adaptive Pricing", Description: "Show prices in the customer's local currency", Icon: "💱"},
	{Name: "Phone Collection", Description: "Optionally collect phone numbers", Icon: "📱"},
	{Name: "Custom Fields", Description: "Add your own fields to the checkout form", Icon: "📝"},
}

type UIComparison struct {
	Feature        string
	Hosted         string
	Embedded       string
	PaymentElement string
}

var UIComparisons = []UIComparison{
	{Feature: "Where it lives", Hosted: "checkout.stripe.com", Embedded: "iframe in your page", PaymentElement: "Your own form"},
	{Feature: "Code required", Hosted: "Minimal (redirect)", Embedded: "Low (mount iframe)", PaymentElement: "Moderate (build form)"},
	{Feature: "Customization", Hosted: "Colors & logo only", Embedded: "Limited styling", PaymentElement: "Full control"},
	{Feature: "API compatibility", Hosted: "Checkout Sessions only", Embedded: "Checkout Sessions only", PaymentElement: "Both APIs"},
	{Feature: "PCI burden", Hosted: "None (SAQ A)", Embedded: "None (SAQ A)", PaymentElement: "Minimal (SAQ A)"},
	{Feature: "Best for", Hosted: "Quick launch, MVP", Embedded: "Branded experience", PaymentElement: "Full control & flexibility"},
}

// FlowStep is one hop of a request through an integration.
type FlowStep struct {
	Label string
	Icon  string
}

// RequestFlow is what the detail panel's flow tab shows.
var RequestFlow = []FlowStep{
	{Label: "Browser", Icon: "🌐"},
	{Label: "Your Server", Icon: "🖥️"},
	{Label: "Stripe API", Icon: "💳"},
	{Label: "Webhook", Icon: "🔔"},
}

// IntentStatus is a PaymentIntent lifecycle state.
type IntentStatus struct {
	ID      string
	Meaning string
}

type IntentEdge struct {
	From  string
	To    string
	Label string
}

var IntentStatuses = []IntentStatus{
	{ID: "requires_payment_method", Meaning: "Awaiting input"},
	{ID: "requires_confirmation", Meaning: "Ready to confirm"},
	{ID: "requires_action", Meaning: "Needs verification"},
	{ID: "processing", Meaning: "Processing"},
	{ID: "succeeded", Meaning: "Succeeded"},
	{ID: "canceled", Meaning: "Canceled"},
}

var IntentEdges = []IntentEdge{
	{From: "requires_payment_method", To: "requires_confirmation", Label: "attach card"},
	{From: "requires_confirmation", To: "requires_action", Label: "SCA needed"},
	{From: "requires_confirmation", To: "processing", Label: "no SCA"},
	{From: "requires_action", To: "processing", Label: "verified"},
	{From: "requires_action", To: "canceled", Label: "failed / canceled"},
	{From: "processing", To: "succeeded", Label: "funds captured"},
	{From: "requires_action", To: "requires_payment_method", Label: "retry"},
}
