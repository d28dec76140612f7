package service

import (
	"crypto/ecdsa"
	"encoding/base64"
	"fmt"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/helper"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/mapper"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// GovernanceRuleVerifier decodes and verifies governance rulesets fetched by
// the caller. It never performs transport I/O itself (§1 "HTTP transport and
// generated OpenAPI client" is out of scope); callers fetch a *model.GovernanceRuleset
// however they like and hand it to this verifier.
type GovernanceRuleVerifier struct {
	superAdminKeys     []*ecdsa.PublicKey
	minValidSignatures int
}

// GovernanceRuleVerifierConfig holds the trust root for signature verification.
type GovernanceRuleVerifierConfig struct {
	// SuperAdminKeys are the public keys used to verify governance rules signatures.
	SuperAdminKeys []*ecdsa.PublicKey
	// MinValidSignatures is the minimum number of valid SuperAdmin signatures required.
	// Zero disables signature-threshold enforcement; intended for tests only.
	MinValidSignatures int
}

// NewGovernanceRuleVerifier creates a GovernanceRuleVerifier with the given trust root.
func NewGovernanceRuleVerifier(config *GovernanceRuleVerifierConfig) *GovernanceRuleVerifier {
	v := &GovernanceRuleVerifier{}
	if config != nil {
		v.superAdminKeys = config.SuperAdminKeys
		v.minValidSignatures = config.MinValidSignatures
	}
	return v
}

// SuperAdminKeys returns the configured SuperAdmin public keys.
func (v *GovernanceRuleVerifier) SuperAdminKeys() []*ecdsa.PublicKey {
	return v.superAdminKeys
}

// MinValidSignatures returns the minimum number of valid signatures required.
func (v *GovernanceRuleVerifier) MinValidSignatures() int {
	return v.minValidSignatures
}

// GetDecodedRulesContainer verifies (when a trust root is configured) and decodes
// a GovernanceRuleset's rules container. Returns the decoded rules container or
// an error if verification or decoding fails.
func (v *GovernanceRuleVerifier) GetDecodedRulesContainer(
	rules *model.GovernanceRuleset,
) (*model.DecodedRulesContainer, error) {
	if rules == nil {
		return nil, fmt.Errorf("governance rules cannot be nil")
	}
	if rules.RulesContainer == "" {
		return nil, fmt.Errorf("rules container is empty")
	}

	if len(v.superAdminKeys) > 0 {
		if err := v.VerifyGovernanceRules(rules); err != nil {
			return nil, err
		}
	}

	return mapper.RulesContainerFromBase64(rules.RulesContainer)
}

// VerifyGovernanceRules verifies that at least MinValidSignatures distinct
// SuperAdmin signatures cover the rules-container bytes (§4.3).
func (v *GovernanceRuleVerifier) VerifyGovernanceRules(rules *model.GovernanceRuleset) error {
	if len(rules.Signatures) == 0 {
		return &model.IntegrityError{Message: "no signatures provided for governance rules"}
	}

	rulesData, err := base64.StdEncoding.DecodeString(rules.RulesContainer)
	if err != nil {
		return &model.IntegrityError{
			Message: fmt.Sprintf("failed to decode rules container: %v", err),
		}
	}

	signatures := make([]*model.RuleUserSignature, len(rules.Signatures))
	for i := range rules.Signatures {
		signatures[i] = &model.RuleUserSignature{
			UserID:    rules.Signatures[i].UserID,
			Signature: rules.Signatures[i].Signature,
		}
	}

	if err := helper.VerifyGovernanceRulesSignatures(
		rulesData,
		signatures,
		v.superAdminKeys,
		v.minValidSignatures,
	); err != nil {
		return &model.IntegrityError{
			Message: fmt.Sprintf("governance rules signature verification failed: %v", err),
		}
	}

	return nil
}
