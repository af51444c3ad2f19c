package afterpay

import (
	"fmt"
	"runtime"
)

// Version of this integration, reported to the provider in the User-Agent.
const Version = "1.0.0"

// UserAgentGenerator builds the User-Agent string the provider expects:
// plugin, platform, runtime, merchant and storefront URL.
type UserAgentGenerator struct {
	merchantID string
	storeURL   string
}

func NewUserAgentGenerator(merchantID, storeURL string) *UserAgentGenerator {
	return &UserAgentGenerator{merchantID: merchantID, storeURL: storeURL}
}

func (g *UserAgentGenerator) Generate() string {
	ua := fmt.Sprintf("Paylater/%s (Go/%s; Merchant/%s)", Version, runtime.Version(), g.merchantID)
	if g.storeURL != "" {
		ua += " " + g.storeURL
	}
	return ua
}
