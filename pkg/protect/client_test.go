package protect

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"net/http"
	"sync"
	"testing"
	"time"
)

// testKey is a package-level test key generated once at init time for unit tests.
var testKey *ecdsa.PrivateKey

func init() {
	var err error
	testKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		panic("failed to generate test key: " + err.Error())
	}
}

// testSuperAdminKeyOpts returns options that provide a test SuperAdmin key and
// minValidSignatures=1, satisfying the mandatory integrity verification requirement.
func testSuperAdminKeyOpts() []Option {
	return []Option{
		WithSuperAdminKeys([]*ecdsa.PublicKey{&testKey.PublicKey}),
		WithMinValidSignatures(1),
	}
}

// newTestClient creates a client with credentials and test SuperAdmin keys for unit testing.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient("https://api.example.com",
		WithCredentials("key", "deadbeef"),
		WithSuperAdminKeys([]*ecdsa.PublicKey{&testKey.PublicKey}),
		WithMinValidSignatures(1),
	)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	saOpts := testSuperAdminKeyOpts()

	tests := []struct {
		name    string
		host    string
		opts    []Option
		wantErr bool
	}{
		{
			name: "valid basic config",
			host: "https://api.example.com",
			opts: append([]Option{
				WithCredentials("test-key", "deadbeef"),
			}, saOpts...),
			wantErr: false,
		},
		{
			name: "with trailing slash",
			host: "https://api.example.com/",
			opts: append([]Option{
				WithCredentials("test-key", "deadbeef"),
			}, saOpts...),
			wantErr: false,
		},
		{
			name:    "missing credentials",
			host:    "https://api.example.com",
			opts:    []Option{},
			wantErr: true,
		},
		{
			name:    "empty host",
			host:    "",
			opts:    []Option{WithCredentials("test-key", "deadbeef")},
			wantErr: true,
		},
		{
			name: "invalid api secret",
			host: "https://api.example.com",
			opts: []Option{
				WithCredentials("test-key", "not-hex"),
			},
			wantErr: true,
		},
		{
			name: "missing super admin keys",
			host: "https://api.example.com",
			opts: []Option{
				WithCredentials("test-key", "deadbeef"),
			},
			wantErr: true,
		},
		{
			name: "with custom timeout",
			host: "https://api.example.com",
			opts: append([]Option{
				WithCredentials("test-key", "deadbeef"),
				WithHTTPTimeout(60 * time.Second),
			}, saOpts...),
			wantErr: false,
		},
		{
			name: "with custom http client",
			host: "https://api.example.com",
			opts: append([]Option{
				WithCredentials("test-key", "deadbeef"),
				WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
			}, saOpts...),
			wantErr: false,
		},
		{
			name: "with rules cache ttl",
			host: "https://api.example.com",
			opts: append([]Option{
				WithCredentials("test-key", "deadbeef"),
				WithRulesCacheTTL(10 * time.Minute),
			}, saOpts...),
			wantErr: false,
		},
		{
			name: "with min valid signatures but no keys",
			host: "https://api.example.com",
			opts: []Option{
				WithCredentials("test-key", "deadbeef"),
				WithMinValidSignatures(2),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.host, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if client != nil {
				defer client.Close()

				if !tt.wantErr {
					if client.HTTPClient() == nil {
						t.Error("Client should have HTTP client")
					}
				}
			}
		})
	}
}

func TestClient_BaseURL(t *testing.T) {
	opts := append([]Option{WithCredentials("key", "deadbeef")}, testSuperAdminKeyOpts()...)
	client, err := NewClient("https://api.example.com/", opts...)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	if got := client.BaseURL(); got != "https://api.example.com" {
		t.Errorf("BaseURL() = %v, want %v", got, "https://api.example.com")
	}
}

func TestClient_Close(t *testing.T) {
	client := newTestClient(t)

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() second call error = %v", err)
	}
}

func TestWithCredentials_Validation(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		apiSecret string
		wantErr   bool
	}{
		{"valid", "key", "deadbeef", false},
		{"empty key", "", "deadbeef", true},
		{"empty secret", "key", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := WithCredentials(tt.apiKey, tt.apiSecret)
			config := &clientConfig{}
			err := opt(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithMinValidSignatures_Validation(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"valid", 2, false},
		{"zero", 0, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := WithMinValidSignatures(tt.n)
			config := &clientConfig{}
			err := opt(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithMinValidSignatures(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
			}
		})
	}
}

func TestWithRulesCacheTTL_Validation(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		wantErr bool
	}{
		{"valid", 5 * time.Minute, false},
		{"zero", 0, false},
		{"negative", -1 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := WithRulesCacheTTL(tt.ttl)
			config := &clientConfig{}
			err := opt(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithRulesCacheTTL(%v) error = %v, wantErr %v", tt.ttl, err, tt.wantErr)
			}
		})
	}
}

func TestWithHTTPTimeout_Validation(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantErr bool
	}{
		{"valid", 30 * time.Second, false},
		{"zero", 0, false},
		{"negative", -1 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := WithHTTPTimeout(tt.timeout)
			config := &clientConfig{}
			err := opt(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("WithHTTPTimeout(%v) error = %v, wantErr %v", tt.timeout, err, tt.wantErr)
			}
		})
	}
}

// TestClient_VerifierGetters_ReturnsSameInstance tests that all verifier
// getters return non-nil and return the same instance on subsequent calls
// (lazily-initialized singleton per Client).
func TestClient_VerifierGetters_ReturnsSameInstance(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	t.Run("GovernanceRules", func(t *testing.T) {
		first := client.GovernanceRules()
		second := client.GovernanceRules()
		if first == nil {
			t.Error("GovernanceRules() should not return nil")
		}
		if first != second {
			t.Error("GovernanceRules() should return the same instance")
		}
	})

	t.Run("WhitelistedAddresses", func(t *testing.T) {
		first := client.WhitelistedAddresses()
		second := client.WhitelistedAddresses()
		if first == nil {
			t.Error("WhitelistedAddresses() should not return nil")
		}
		if first != second {
			t.Error("WhitelistedAddresses() should return the same instance")
		}
	})

	t.Run("WhitelistedAssets", func(t *testing.T) {
		first := client.WhitelistedAssets()
		second := client.WhitelistedAssets()
		if first == nil {
			t.Error("WhitelistedAssets() should not return nil")
		}
		if first != second {
			t.Error("WhitelistedAssets() should return the same instance")
		}
	})

	t.Run("Requests", func(t *testing.T) {
		first := client.Requests()
		second := client.Requests()
		if first == nil {
			t.Error("Requests() should not return nil")
		}
		if first != second {
			t.Error("Requests() should return the same instance")
		}
	})
}

// TestClient_VerifierGetters_ConcurrentAccess tests thread safety of lazy initialization.
func TestClient_VerifierGetters_ConcurrentAccess(t *testing.T) {
	client := newTestClient(t)
	defer client.Close()

	t.Run("MultipleVerifiers_ConcurrentAccess", func(t *testing.T) {
		const numGoroutines = 50

		var wg sync.WaitGroup
		govResults := make(chan interface{}, numGoroutines)
		addrResults := make(chan interface{}, numGoroutines)
		reqResults := make(chan interface{}, numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			wg.Add(3)
			go func() {
				defer wg.Done()
				govResults <- client.GovernanceRules()
			}()
			go func() {
				defer wg.Done()
				addrResults <- client.WhitelistedAddresses()
			}()
			go func() {
				defer wg.Done()
				reqResults <- client.Requests()
			}()
		}

		wg.Wait()
		close(govResults)
		close(addrResults)
		close(reqResults)

		verifyConsistentInstances(t, "GovernanceRules", govResults)
		verifyConsistentInstances(t, "WhitelistedAddresses", addrResults)
		verifyConsistentInstances(t, "Requests", reqResults)
	})
}

func verifyConsistentInstances(t *testing.T, name string, results <-chan interface{}) {
	t.Helper()
	var first interface{}
	for v := range results {
		if v == nil {
			t.Errorf("%s() returned nil during concurrent access", name)
		}
		if first == nil {
			first = v
		} else if v != first {
			t.Errorf("concurrent %s() calls returned different instances", name)
		}
	}
}

func TestClient_Close_ClearsAuth(t *testing.T) {
	client := newTestClient(t)

	if client.auth == nil {
		t.Error("auth should not be nil before Close()")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if client.auth != nil {
		t.Error("auth should be nil after Close()")
	}
}

func TestClient_Close_MultipleClosesSafe(t *testing.T) {
	client := newTestClient(t)

	if err := client.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("third Close() error = %v", err)
	}
}

func TestClient_ConfigurationAccessors(t *testing.T) {
	saOpts := testSuperAdminKeyOpts()

	t.Run("DefaultConfiguration", func(t *testing.T) {
		client := newTestClient(t)
		defer client.Close()

		if client.MinValidSignatures() != 1 {
			t.Errorf("MinValidSignatures() = %d, want 1", client.MinValidSignatures())
		}
		if client.RulesCache() == nil {
			t.Error("RulesCache() should not return nil")
		}
		if client.HTTPClient() == nil {
			t.Error("HTTPClient() should not return nil")
		}
		if len(client.SuperAdminKeys()) == 0 {
			t.Error("SuperAdminKeys() should not be empty")
		}
	})

	t.Run("MissingSuperAdminKeys", func(t *testing.T) {
		_, err := NewClient("https://api.example.com",
			WithCredentials("key", "deadbeef"),
		)
		if err == nil {
			t.Fatal("NewClient() should fail without SuperAdmin keys")
		}
	})

	t.Run("CustomHTTPClient", func(t *testing.T) {
		customClient := &http.Client{Timeout: 60 * time.Second}
		opts := append([]Option{
			WithCredentials("key", "deadbeef"),
			WithHTTPClient(customClient),
		}, saOpts...)
		client, err := NewClient("https://api.example.com", opts...)
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		defer client.Close()

		if client.HTTPClient() == nil {
			t.Error("HTTPClient() should not return nil")
		}
	})

	t.Run("CustomRulesCacheTTL", func(t *testing.T) {
		opts := append([]Option{
			WithCredentials("key", "deadbeef"),
			WithRulesCacheTTL(10 * time.Minute),
		}, saOpts...)
		client, err := NewClient("https://api.example.com", opts...)
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		defer client.Close()

		if client.RulesCache() == nil {
			t.Error("RulesCache() should not return nil with custom TTL")
		}
	})

	t.Run("BaseURL", func(t *testing.T) {
		opts := append([]Option{
			WithCredentials("key", "deadbeef"),
		}, saOpts...)
		client, err := NewClient("https://api.example.com/", opts...)
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		defer client.Close()

		expected := "https://api.example.com"
		if client.BaseURL() != expected {
			t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), expected)
		}
	})
}
