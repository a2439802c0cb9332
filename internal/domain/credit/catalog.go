package credit

// Plan maps a billing provider price ID to a display name and a monthly
// credit allotment.
type Plan struct {
	PriceID        string
	Name           string
	MonthlyCredits int
}

// Catalog resolves provider price IDs to plans. It is built once at startup
// from configuration and injected into the ledger, so tests can substitute
// fixtures.
type Catalog struct {
	byPriceID map[string]Plan
}

// NewCatalog builds a catalog from the configured plans.
func NewCatalog(plans []Plan) *Catalog {
	byPriceID := make(map[string]Plan, len(plans))
	for _, p := range plans {
		byPriceID[p.PriceID] = p
	}
	return &Catalog{byPriceID: byPriceID}
}

// PlanFor looks up the plan sold under the given price ID.
func (c *Catalog) PlanFor(priceID string) (Plan, bool) {
	p, ok := c.byPriceID[priceID]
	return p, ok
}

// CreditsFor returns the monthly credit allotment for a price ID, or 0 when
// the price is not in the catalog.
func (c *Catalog) CreditsFor(priceID string) int {
	return c.byPriceID[priceID].MonthlyCredits
}

// NameFor returns the display name for a price ID, or "" when unknown.
func (c *Catalog) NameFor(priceID string) string {
	return c.byPriceID[priceID].Name
}
