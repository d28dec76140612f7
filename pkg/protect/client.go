package protect

import (
	"crypto/ecdsa"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/cache"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/crypto"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/service"
)

// Client is the entry point for the trust-establishment and integrity-
// verification core of the Taurus-PROTECT SDK. It holds the configured
// trust root (SuperAdmin keys, minimum valid signatures) and hands out
// verifiers that operate on caller-supplied, already-fetched payloads.
//
// Fetching those payloads and submitting the resulting approval/rejection
// is the caller's responsibility: the HTTP transport and the generated
// OpenAPI client are collaborators, not part of this core.
//
// Use NewClient to create a new instance with the functional options pattern:
//
//	client, err := protect.NewClient(
//	    "https://api.taurus.example.com",
//	    protect.WithCredentials(apiKey, apiSecret),
//	    protect.WithSuperAdminKeysPEM(pemKeys),
//	    protect.WithMinValidSignatures(2),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// Client implements io.Closer and should be closed when no longer needed
// to securely wipe credentials from memory.
type Client struct {
	baseURL            string
	httpClient         *http.Client
	auth               *crypto.TPV1Auth
	superAdminKeys     []*ecdsa.PublicKey
	minValidSignatures int
	rulesCache         *cache.RulesContainerCache

	mu                   sync.RWMutex
	governanceRules      *service.GovernanceRuleVerifier
	whitelistedAddresses *service.WhitelistedAddressVerifier
	whitelistedAssets    *service.WhitelistedAssetVerifier
	requests             *service.RequestVerifier
}

// NewClient creates a new Client for the given API host.
//
// The host parameter identifies the Taurus-PROTECT deployment this client's
// TPV1-signed requests will target once the caller's transport issues them
// (e.g. "https://api.taurus.example.com"); the trust core itself never
// dials out.
//
// At minimum, WithCredentials, WithSuperAdminKeysPEM (or WithSuperAdminKeys),
// and WithMinValidSignatures must be provided:
//
//	client, err := protect.NewClient(
//	    "https://api.taurus.example.com",
//	    protect.WithCredentials(apiKey, apiSecret),
//	    protect.WithSuperAdminKeysPEM(pemKeys),
//	    protect.WithMinValidSignatures(2),
//	)
func NewClient(host string, opts ...Option) (*Client, error) {
	config := &clientConfig{
		host:          strings.TrimSuffix(host, "/"),
		rulesCacheTTL: DefaultRulesCacheTTL,
		httpTimeout:   DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	auth, err := crypto.NewTPV1Auth(config.apiKey, config.apiSecret)
	if err != nil {
		return nil, err
	}

	baseClient := config.httpClient
	if baseClient == nil {
		baseClient = &http.Client{Timeout: config.httpTimeout}
	}
	httpClient := newHTTPClient(auth, baseClient)

	client := &Client{
		baseURL:            config.host,
		httpClient:         httpClient,
		auth:               auth,
		superAdminKeys:     config.superAdminKeys,
		minValidSignatures: config.minValidSignatures,
	}

	// The cache starts without a fetcher: the caller wires one via
	// RulesCache().SetFetcher, since fetching the raw ruleset is a
	// transport concern this core never performs itself (§4.8).
	client.rulesCache = cache.NewRulesContainerCache(config.rulesCacheTTL, nil)

	return client, nil
}

// Close releases resources and securely wipes credentials from memory.
// It is safe to call Close multiple times.
func (c *Client) Close() error {
	if c.auth != nil {
		c.auth.Close()
		c.auth = nil
	}
	return nil
}

// BaseURL returns the base URL of the configured API host.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient returns the TPV1-signing HTTP client for callers that issue
// their own requests against the configured host.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// SuperAdminKeys returns the configured SuperAdmin public keys.
func (c *Client) SuperAdminKeys() []*ecdsa.PublicKey {
	return c.superAdminKeys
}

// MinValidSignatures returns the minimum number of valid signatures required.
func (c *Client) MinValidSignatures() int {
	return c.minValidSignatures
}

// RulesCache returns the rules container cache shared by the whitelisted
// address and asset verifiers. Callers must supply a fetcher (RulesCache().
// SetFetcher) that retrieves the current GovernanceRuleset over their own
// transport before relying on the cache's single-flight Get.
func (c *Client) RulesCache() *cache.RulesContainerCache {
	return c.rulesCache
}

// GovernanceRules returns the governance-rules verifier, configured with
// this client's trust root.
func (c *Client) GovernanceRules() *service.GovernanceRuleVerifier {
	c.mu.RLock()
	if c.governanceRules != nil {
		defer c.mu.RUnlock()
		return c.governanceRules
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.governanceRules == nil {
		c.governanceRules = service.NewGovernanceRuleVerifier(&service.GovernanceRuleVerifierConfig{
			SuperAdminKeys:     c.superAdminKeys,
			MinValidSignatures: c.minValidSignatures,
		})
	}
	return c.governanceRules
}

// WhitelistedAddresses returns the whitelisted-address verifier, configured
// with this client's trust root. It runs the 6-step verification flow
// (§4.6) against caller-supplied addresses and envelopes.
func (c *Client) WhitelistedAddresses() *service.WhitelistedAddressVerifier {
	c.mu.RLock()
	if c.whitelistedAddresses != nil {
		defer c.mu.RUnlock()
		return c.whitelistedAddresses
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.whitelistedAddresses == nil {
		c.whitelistedAddresses = service.NewWhitelistedAddressVerifier(&service.WhitelistedAddressVerifierConfig{
			SuperAdminKeys:     c.superAdminKeys,
			MinValidSignatures: c.minValidSignatures,
		})
	}
	return c.whitelistedAddresses
}

// WhitelistedAssets returns the whitelisted-asset verifier, configured with
// this client's trust root.
func (c *Client) WhitelistedAssets() *service.WhitelistedAssetVerifier {
	c.mu.RLock()
	if c.whitelistedAssets != nil {
		defer c.mu.RUnlock()
		return c.whitelistedAssets
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.whitelistedAssets == nil {
		c.whitelistedAssets = service.NewWhitelistedAssetVerifier(&service.WhitelistedAssetVerifierConfig{
			SuperAdminKeys:     c.superAdminKeys,
			MinValidSignatures: c.minValidSignatures,
		})
	}
	return c.whitelistedAssets
}

// Requests returns the request verifier, used to check request metadata
// hashes (§4.7) and to sign batches of requests for approval.
func (c *Client) Requests() *service.RequestVerifier {
	c.mu.RLock()
	if c.requests != nil {
		defer c.mu.RUnlock()
		return c.requests
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requests == nil {
		c.requests = service.NewRequestVerifier()
	}
	return c.requests
}

// Ensure Client implements io.Closer.
var _ io.Closer = (*Client)(nil)
