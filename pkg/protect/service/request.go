package service

import (
	"crypto/ecdsa"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/taurushq-io/protect-trust-go/pkg/protect/crypto"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/helper"
	"github.com/taurushq-io/protect-trust-go/pkg/protect/model"
)

// RequestVerifier verifies request metadata hashes and signs batches of
// already-verified requests for approval (§4.7). It never performs transport
// I/O itself; fetching requests and submitting the resulting approval or
// rejection payload are the caller's responsibility (§1).
type RequestVerifier struct{}

// NewRequestVerifier creates a new RequestVerifier.
func NewRequestVerifier() *RequestVerifier {
	return &RequestVerifier{}
}

// VerifyRequestHash verifies the integrity of a request's metadata hash.
// Returns an IntegrityError if the hash is present but doesn't match the
// SHA-256 hex digest of payloadAsString. A request with no metadata, or with
// both hash and payloadAsString empty, has nothing to verify.
func (v *RequestVerifier) VerifyRequestHash(r *model.Request) error {
	return verifyRequestHash(r)
}

func verifyRequestHash(r *model.Request) error {
	if r.Metadata == nil || (r.Metadata.Hash == "" && r.Metadata.PayloadAsString == "") {
		return nil
	}

	computedHash := crypto.CalculateHexHash(r.Metadata.PayloadAsString)
	providedHash := r.Metadata.Hash
	if computedHash == "" || providedHash == "" {
		return &model.IntegrityError{
			RequestID: r.ID,
			Message:   "request hash verification failed: hash values must be non-empty",
		}
	}
	if !helper.ConstantTimeCompare(computedHash, providedHash) {
		return &model.IntegrityError{
			RequestID: r.ID,
			Message:   fmt.Sprintf("request hash verification failed: computed=%s, provided=%s", computedHash, providedHash),
		}
	}
	return nil
}

// Approve sorts a batch of already-hash-verified requests by numeric id
// ascending, concatenates their hex hash strings without separators into a
// single UTF-8 byte string M, and signs M with privateKey (§4.7). The hex
// hashes are concatenated as-is, never pre-decoded to bytes, to match the
// platform's own verifier. Returns the submission payload for the caller to
// hand to the transport.
func (v *RequestVerifier) Approve(requests []*model.Request, privateKey *ecdsa.PrivateKey, comment string) (*model.ApprovalSubmission, error) {
	if len(requests) == 0 {
		return nil, fmt.Errorf("requests list cannot be empty")
	}
	if privateKey == nil {
		return nil, fmt.Errorf("privateKey cannot be nil")
	}

	for _, r := range requests {
		if r.Metadata == nil || r.Metadata.Hash == "" {
			return nil, &model.ValidationError{Message: fmt.Sprintf("request %s has no metadata hash", r.ID)}
		}
		if _, err := strconv.ParseInt(r.ID, 10, 64); err != nil {
			return nil, &model.ValidationError{Message: fmt.Sprintf("request ID %q is not a valid numeric ID", r.ID)}
		}
	}

	sortedRequests := make([]*model.Request, len(requests))
	copy(sortedRequests, requests)
	sort.Slice(sortedRequests, func(i, j int) bool {
		idI, _ := strconv.ParseInt(sortedRequests[i].ID, 10, 64)
		idJ, _ := strconv.ParseInt(sortedRequests[j].ID, 10, 64)
		return idI < idJ
	})

	hashes := make([]string, len(sortedRequests))
	ids := make([]string, len(sortedRequests))
	for i, r := range sortedRequests {
		hashes[i] = r.Metadata.Hash
		ids[i] = r.ID
	}

	// M is the sorted hex-hash strings concatenated without separators, not
	// JSON-encoded and not pre-decoded to bytes (§4.7 step 3).
	m := []byte(strings.Join(hashes, ""))

	signature, err := crypto.SignData(privateKey, m)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request hashes: %w", err)
	}

	return &model.ApprovalSubmission{
		IDs:       ids,
		Signature: signature,
		Comment:   comment,
	}, nil
}

// Reject validates a rejection comment and builds the submission payload for
// a batch of request ids. Rejections are never signed.
func (v *RequestVerifier) Reject(requestIDs []string, comment string) (*model.RejectionSubmission, error) {
	if len(requestIDs) == 0 {
		return nil, fmt.Errorf("requestIDs list cannot be empty")
	}
	if comment == "" {
		return nil, fmt.Errorf("comment cannot be empty")
	}

	return &model.RejectionSubmission{
		IDs:     requestIDs,
		Comment: comment,
	}, nil
}
