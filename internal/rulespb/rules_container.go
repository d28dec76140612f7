// Package rulespb implements the wire encoding of the governance rules
// container and its signatures directly against the protobuf wire format
// (see google.golang.org/protobuf/encoding/protowire), without a generated
// .pb.go. Field numbers below are the module's own schema for the
// RulesContainer/UserSignatures/GroupThreshold/SequentialThresholds message
// shapes; there is no generated stub to target because no .proto source
// ships with this module.
package rulespb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers for RulesContainer.
const (
	fieldUsers                             = 1
	fieldGroups                            = 2
	fieldMinimumDistinctUserSignatures      = 3
	fieldMinimumDistinctGroupSignatures     = 4
	fieldAddressWhitelistingRules          = 5
	fieldContractAddressWhitelistingRules  = 6
	fieldEnforcedRulesHash                 = 7
	fieldTimestamp                         = 8
	fieldMinimumCommitmentSignatures       = 9
	fieldEngineIdentities                  = 10
	fieldHsmSlotID                         = 11
)

// Field numbers for User.
const (
	userFieldID         = 1
	userFieldPublicKey  = 2
	userFieldRoles      = 3
	userFieldProperties = 4
)

// Field numbers for Group.
const (
	groupFieldID         = 1
	groupFieldUserIDs    = 2
	groupFieldProperties = 3
)

// Field numbers for AddressWhitelistingRules / ContractAddressWhitelistingRules.
const (
	awrFieldCurrency                = 1
	awrFieldNetwork                 = 2
	awrFieldParallelThresholds      = 3
	awrFieldLines                   = 4
	awrFieldIncludeNetworkInPayload = 5

	cawrFieldBlockchain         = 1
	cawrFieldNetwork            = 2
	cawrFieldParallelThresholds = 3
)

// Field numbers for AddressWhitelistingRules.Line.
const (
	lineFieldCells              = 1
	lineFieldParallelThresholds = 2
)

// Field numbers for RuleSource / RuleSourceInternalWallet.
const (
	sourceFieldType    = 1
	sourceFieldPayload = 2

	walletFieldPath = 1
)

// Field numbers for SequentialThresholds / GroupThreshold.
const (
	stFieldThresholds = 1

	gtFieldGroupID           = 1
	gtFieldMinimumSignatures = 2
)

// Field numbers for the map<string,string> entry submessage.
const (
	mapEntryKey   = 1
	mapEntryValue = 2
)

// Field numbers for UserSignatures / UserSignature.
const (
	usFieldSignatures = 1

	sigFieldUserID    = 1
	sigFieldSignature = 2
)

// RulesContainer is the wire-level message; pkg/protect/mapper translates it
// into the caller-facing model.DecodedRulesContainer.
type RulesContainer struct {
	Users                             []*User
	Groups                            []*Group
	MinimumDistinctUserSignatures     uint32
	MinimumDistinctGroupSignatures    uint32
	AddressWhitelistingRules          []*AddressWhitelistingRules
	ContractAddressWhitelistingRules []*ContractAddressWhitelistingRules
	EnforcedRulesHash                 string
	Timestamp                         uint64
	MinimumCommitmentSignatures       uint32
	EngineIdentities                  []string
	HsmSlotID                         uint32
}

type User struct {
	ID         string
	PublicKey  []byte
	Roles      []int32
	Properties map[string]string
}

type Group struct {
	ID         string
	UserIDs    []string
	Properties map[string]string
}

type AddressWhitelistingRules struct {
	Currency                string
	Network                 string
	ParallelThresholds      []*SequentialThresholds
	Lines                   []*AddressWhitelistingLine
	IncludeNetworkInPayload bool
}

// AddressWhitelistingLine is a source-specific rule override: a set of
// serialized RuleSource cells paired with the thresholds that apply when
// one of those cells matches.
type AddressWhitelistingLine struct {
	Cells              [][]byte
	ParallelThresholds []*SequentialThresholds
}

// RuleSource identifies what a whitelisting line cell matches against.
// Payload holds a type-specific serialized submessage (currently only
// RuleSourceInternalWallet).
type RuleSource struct {
	Type    int32
	Payload []byte
}

type RuleSourceInternalWallet struct {
	Path string
}

type ContractAddressWhitelistingRules struct {
	Blockchain         string
	Network            string
	ParallelThresholds []*SequentialThresholds
}

type SequentialThresholds struct {
	Thresholds []*GroupThreshold
}

type GroupThreshold struct {
	GroupID           string
	MinimumSignatures uint32
}

type UserSignatures struct {
	Signatures []*UserSignature
}

type UserSignature struct {
	UserID    string
	Signature []byte
}

// Marshal encodes the container into protobuf wire bytes.
func (c *RulesContainer) Marshal() []byte {
	var b []byte
	for _, u := range c.Users {
		b = protowire.AppendTag(b, fieldUsers, protowire.BytesType)
		b = protowire.AppendBytes(b, u.marshal())
	}
	for _, g := range c.Groups {
		b = protowire.AppendTag(b, fieldGroups, protowire.BytesType)
		b = protowire.AppendBytes(b, g.marshal())
	}
	if c.MinimumDistinctUserSignatures != 0 {
		b = protowire.AppendTag(b, fieldMinimumDistinctUserSignatures, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.MinimumDistinctUserSignatures))
	}
	if c.MinimumDistinctGroupSignatures != 0 {
		b = protowire.AppendTag(b, fieldMinimumDistinctGroupSignatures, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.MinimumDistinctGroupSignatures))
	}
	for _, r := range c.AddressWhitelistingRules {
		b = protowire.AppendTag(b, fieldAddressWhitelistingRules, protowire.BytesType)
		b = protowire.AppendBytes(b, r.marshal())
	}
	for _, r := range c.ContractAddressWhitelistingRules {
		b = protowire.AppendTag(b, fieldContractAddressWhitelistingRules, protowire.BytesType)
		b = protowire.AppendBytes(b, r.marshal())
	}
	if c.EnforcedRulesHash != "" {
		b = protowire.AppendTag(b, fieldEnforcedRulesHash, protowire.BytesType)
		b = protowire.AppendString(b, c.EnforcedRulesHash)
	}
	if c.Timestamp != 0 {
		b = protowire.AppendTag(b, fieldTimestamp, protowire.VarintType)
		b = protowire.AppendVarint(b, c.Timestamp)
	}
	if c.MinimumCommitmentSignatures != 0 {
		b = protowire.AppendTag(b, fieldMinimumCommitmentSignatures, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.MinimumCommitmentSignatures))
	}
	for _, id := range c.EngineIdentities {
		b = protowire.AppendTag(b, fieldEngineIdentities, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	if c.HsmSlotID != 0 {
		b = protowire.AppendTag(b, fieldHsmSlotID, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(c.HsmSlotID))
	}
	return b
}

func (u *User) marshal() []byte {
	var b []byte
	if u.ID != "" {
		b = protowire.AppendTag(b, userFieldID, protowire.BytesType)
		b = protowire.AppendString(b, u.ID)
	}
	if len(u.PublicKey) > 0 {
		b = protowire.AppendTag(b, userFieldPublicKey, protowire.BytesType)
		b = protowire.AppendBytes(b, u.PublicKey)
	}
	for _, role := range u.Roles {
		b = protowire.AppendTag(b, userFieldRoles, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(role))
	}
	for k, v := range u.Properties {
		b = protowire.AppendTag(b, userFieldProperties, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalMapEntry(k, v))
	}
	return b
}

func (g *Group) marshal() []byte {
	var b []byte
	if g.ID != "" {
		b = protowire.AppendTag(b, groupFieldID, protowire.BytesType)
		b = protowire.AppendString(b, g.ID)
	}
	for _, id := range g.UserIDs {
		b = protowire.AppendTag(b, groupFieldUserIDs, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	for k, v := range g.Properties {
		b = protowire.AppendTag(b, groupFieldProperties, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalMapEntry(k, v))
	}
	return b
}

func (r *AddressWhitelistingRules) marshal() []byte {
	var b []byte
	if r.Currency != "" {
		b = protowire.AppendTag(b, awrFieldCurrency, protowire.BytesType)
		b = protowire.AppendString(b, r.Currency)
	}
	if r.Network != "" {
		b = protowire.AppendTag(b, awrFieldNetwork, protowire.BytesType)
		b = protowire.AppendString(b, r.Network)
	}
	for _, pt := range r.ParallelThresholds {
		b = protowire.AppendTag(b, awrFieldParallelThresholds, protowire.BytesType)
		b = protowire.AppendBytes(b, pt.marshal())
	}
	for _, line := range r.Lines {
		b = protowire.AppendTag(b, awrFieldLines, protowire.BytesType)
		b = protowire.AppendBytes(b, line.marshal())
	}
	if r.IncludeNetworkInPayload {
		b = protowire.AppendTag(b, awrFieldIncludeNetworkInPayload, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b
}

func (l *AddressWhitelistingLine) marshal() []byte {
	var b []byte
	for _, cell := range l.Cells {
		b = protowire.AppendTag(b, lineFieldCells, protowire.BytesType)
		b = protowire.AppendBytes(b, cell)
	}
	for _, pt := range l.ParallelThresholds {
		b = protowire.AppendTag(b, lineFieldParallelThresholds, protowire.BytesType)
		b = protowire.AppendBytes(b, pt.marshal())
	}
	return b
}

// Marshal encodes a RuleSource into protobuf wire bytes, for embedding as a
// Line cell.
func (s *RuleSource) Marshal() []byte {
	var b []byte
	if s.Type != 0 {
		b = protowire.AppendTag(b, sourceFieldType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(s.Type))
	}
	if len(s.Payload) > 0 {
		b = protowire.AppendTag(b, sourceFieldPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, s.Payload)
	}
	return b
}

// Marshal encodes a RuleSourceInternalWallet into protobuf wire bytes, for
// use as a RuleSource payload.
func (w *RuleSourceInternalWallet) Marshal() []byte {
	var b []byte
	if w.Path != "" {
		b = protowire.AppendTag(b, walletFieldPath, protowire.BytesType)
		b = protowire.AppendString(b, w.Path)
	}
	return b
}

func (r *ContractAddressWhitelistingRules) marshal() []byte {
	var b []byte
	if r.Blockchain != "" {
		b = protowire.AppendTag(b, cawrFieldBlockchain, protowire.BytesType)
		b = protowire.AppendString(b, r.Blockchain)
	}
	if r.Network != "" {
		b = protowire.AppendTag(b, cawrFieldNetwork, protowire.BytesType)
		b = protowire.AppendString(b, r.Network)
	}
	for _, pt := range r.ParallelThresholds {
		b = protowire.AppendTag(b, cawrFieldParallelThresholds, protowire.BytesType)
		b = protowire.AppendBytes(b, pt.marshal())
	}
	return b
}

func (s *SequentialThresholds) marshal() []byte {
	var b []byte
	for _, t := range s.Thresholds {
		b = protowire.AppendTag(b, stFieldThresholds, protowire.BytesType)
		b = protowire.AppendBytes(b, t.marshal())
	}
	return b
}

func (t *GroupThreshold) marshal() []byte {
	var b []byte
	if t.GroupID != "" {
		b = protowire.AppendTag(b, gtFieldGroupID, protowire.BytesType)
		b = protowire.AppendString(b, t.GroupID)
	}
	if t.MinimumSignatures != 0 {
		b = protowire.AppendTag(b, gtFieldMinimumSignatures, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(t.MinimumSignatures))
	}
	return b
}

func marshalMapEntry(k, v string) []byte {
	var b []byte
	b = protowire.AppendTag(b, mapEntryKey, protowire.BytesType)
	b = protowire.AppendString(b, k)
	b = protowire.AppendTag(b, mapEntryValue, protowire.BytesType)
	b = protowire.AppendString(b, v)
	return b
}

// Marshal encodes the signature list into protobuf wire bytes.
func (s *UserSignatures) Marshal() []byte {
	var b []byte
	for _, sig := range s.Signatures {
		b = protowire.AppendTag(b, usFieldSignatures, protowire.BytesType)
		b = protowire.AppendBytes(b, sig.marshal())
	}
	return b
}

func (s *UserSignature) marshal() []byte {
	var b []byte
	if s.UserID != "" {
		b = protowire.AppendTag(b, sigFieldUserID, protowire.BytesType)
		b = protowire.AppendString(b, s.UserID)
	}
	if len(s.Signature) > 0 {
		b = protowire.AppendTag(b, sigFieldSignature, protowire.BytesType)
		b = protowire.AppendBytes(b, s.Signature)
	}
	return b
}

// Unmarshal decodes protobuf wire bytes into a RulesContainer. It returns an
// error for genuinely malformed wire data, but tolerates unknown field
// numbers (skipped) so the schema can grow without breaking old callers.
func Unmarshal(data []byte) (*RulesContainer, error) {
	c := &RulesContainer{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldUsers:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			u, err := unmarshalUser(raw)
			if err != nil {
				return nil, err
			}
			c.Users = append(c.Users, u)
			data = data[n:]
		case fieldGroups:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			g, err := unmarshalGroup(raw)
			if err != nil {
				return nil, err
			}
			c.Groups = append(c.Groups, g)
			data = data[n:]
		case fieldMinimumDistinctUserSignatures:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			c.MinimumDistinctUserSignatures = uint32(v)
			data = data[n:]
		case fieldMinimumDistinctGroupSignatures:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			c.MinimumDistinctGroupSignatures = uint32(v)
			data = data[n:]
		case fieldAddressWhitelistingRules:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			r, err := unmarshalAWR(raw)
			if err != nil {
				return nil, err
			}
			c.AddressWhitelistingRules = append(c.AddressWhitelistingRules, r)
			data = data[n:]
		case fieldContractAddressWhitelistingRules:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			r, err := unmarshalCAWR(raw)
			if err != nil {
				return nil, err
			}
			c.ContractAddressWhitelistingRules = append(c.ContractAddressWhitelistingRules, r)
			data = data[n:]
		case fieldEnforcedRulesHash:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			c.EnforcedRulesHash = s
			data = data[n:]
		case fieldTimestamp:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			c.Timestamp = v
			data = data[n:]
		case fieldMinimumCommitmentSignatures:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			c.MinimumCommitmentSignatures = uint32(v)
			data = data[n:]
		case fieldEngineIdentities:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			c.EngineIdentities = append(c.EngineIdentities, s)
			data = data[n:]
		case fieldHsmSlotID:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			c.HsmSlotID = uint32(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return c, nil
}

func unmarshalUser(data []byte) (*User, error) {
	u := &User{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid User tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case userFieldID:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			u.ID = s
			data = data[n:]
		case userFieldPublicKey:
			b, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			u.PublicKey = append([]byte(nil), b...)
			data = data[n:]
		case userFieldRoles:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			u.Roles = append(u.Roles, int32(v))
			data = data[n:]
		case userFieldProperties:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			k, v, err := unmarshalMapEntry(raw)
			if err != nil {
				return nil, err
			}
			if u.Properties == nil {
				u.Properties = make(map[string]string)
			}
			u.Properties[k] = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid User field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return u, nil
}

func unmarshalGroup(data []byte) (*Group, error) {
	g := &Group{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid Group tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case groupFieldID:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			g.ID = s
			data = data[n:]
		case groupFieldUserIDs:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			g.UserIDs = append(g.UserIDs, s)
			data = data[n:]
		case groupFieldProperties:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			k, v, err := unmarshalMapEntry(raw)
			if err != nil {
				return nil, err
			}
			if g.Properties == nil {
				g.Properties = make(map[string]string)
			}
			g.Properties[k] = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid Group field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return g, nil
}

func unmarshalAWR(data []byte) (*AddressWhitelistingRules, error) {
	r := &AddressWhitelistingRules{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid AWR tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case awrFieldCurrency:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			r.Currency = s
			data = data[n:]
		case awrFieldNetwork:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			r.Network = s
			data = data[n:]
		case awrFieldParallelThresholds:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			st, err := unmarshalSequentialThresholds(raw)
			if err != nil {
				return nil, err
			}
			r.ParallelThresholds = append(r.ParallelThresholds, st)
			data = data[n:]
		case awrFieldLines:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			line, err := unmarshalAWRLine(raw)
			if err != nil {
				return nil, err
			}
			r.Lines = append(r.Lines, line)
			data = data[n:]
		case awrFieldIncludeNetworkInPayload:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			r.IncludeNetworkInPayload = v != 0
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid AWR field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return r, nil
}

func unmarshalAWRLine(data []byte) (*AddressWhitelistingLine, error) {
	l := &AddressWhitelistingLine{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid Line tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case lineFieldCells:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			l.Cells = append(l.Cells, append([]byte(nil), raw...))
			data = data[n:]
		case lineFieldParallelThresholds:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			st, err := unmarshalSequentialThresholds(raw)
			if err != nil {
				return nil, err
			}
			l.ParallelThresholds = append(l.ParallelThresholds, st)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid Line field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return l, nil
}

// UnmarshalRuleSource decodes a serialized RuleSource cell.
func UnmarshalRuleSource(data []byte) (*RuleSource, error) {
	s := &RuleSource{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid RuleSource tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case sourceFieldType:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			s.Type = int32(v)
			data = data[n:]
		case sourceFieldPayload:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			s.Payload = append([]byte(nil), raw...)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid RuleSource field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return s, nil
}

// UnmarshalRuleSourceInternalWallet decodes a RuleSourceInternalWallet payload.
func UnmarshalRuleSourceInternalWallet(data []byte) (*RuleSourceInternalWallet, error) {
	w := &RuleSourceInternalWallet{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid RuleSourceInternalWallet tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case walletFieldPath:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			w.Path = s
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid RuleSourceInternalWallet field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return w, nil
}

func unmarshalCAWR(data []byte) (*ContractAddressWhitelistingRules, error) {
	r := &ContractAddressWhitelistingRules{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid CAWR tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case cawrFieldBlockchain:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			r.Blockchain = s
			data = data[n:]
		case cawrFieldNetwork:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			r.Network = s
			data = data[n:]
		case cawrFieldParallelThresholds:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			st, err := unmarshalSequentialThresholds(raw)
			if err != nil {
				return nil, err
			}
			r.ParallelThresholds = append(r.ParallelThresholds, st)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid CAWR field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return r, nil
}

func unmarshalSequentialThresholds(data []byte) (*SequentialThresholds, error) {
	st := &SequentialThresholds{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid SequentialThresholds tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case stFieldThresholds:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			gt, err := unmarshalGroupThreshold(raw)
			if err != nil {
				return nil, err
			}
			st.Thresholds = append(st.Thresholds, gt)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid SequentialThresholds field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return st, nil
}

func unmarshalGroupThreshold(data []byte) (*GroupThreshold, error) {
	gt := &GroupThreshold{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid GroupThreshold tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case gtFieldGroupID:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			gt.GroupID = s
			data = data[n:]
		case gtFieldMinimumSignatures:
			v, n, err := consumeVarint(data, typ)
			if err != nil {
				return nil, err
			}
			gt.MinimumSignatures = uint32(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid GroupThreshold field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return gt, nil
}

func unmarshalMapEntry(data []byte) (key, value string, err error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return "", "", fmt.Errorf("rulespb: invalid map entry tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case mapEntryKey:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return "", "", err
			}
			key = s
			data = data[n:]
		case mapEntryValue:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return "", "", err
			}
			value = s
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return "", "", fmt.Errorf("rulespb: invalid map entry field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return key, value, nil
}

// UnmarshalUserSignatures decodes protobuf wire bytes into a UserSignatures list.
func UnmarshalUserSignatures(data []byte) (*UserSignatures, error) {
	s := &UserSignatures{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid UserSignatures tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case usFieldSignatures:
			raw, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			sig, err := unmarshalUserSignature(raw)
			if err != nil {
				return nil, err
			}
			s.Signatures = append(s.Signatures, sig)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid UserSignatures field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return s, nil
}

func unmarshalUserSignature(data []byte) (*UserSignature, error) {
	sig := &UserSignature{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("rulespb: invalid UserSignature tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case sigFieldUserID:
			s, n, err := consumeString(data, typ)
			if err != nil {
				return nil, err
			}
			sig.UserID = s
			data = data[n:]
		case sigFieldSignature:
			b, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			sig.Signature = append([]byte(nil), b...)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("rulespb: invalid UserSignature field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return sig, nil
}

func consumeVarint(data []byte, typ protowire.Type) (uint64, int, error) {
	if typ != protowire.VarintType {
		return 0, 0, fmt.Errorf("rulespb: expected varint, got wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, 0, fmt.Errorf("rulespb: invalid varint: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeBytes(data []byte, typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("rulespb: expected length-delimited, got wire type %d", typ)
	}
	b, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, fmt.Errorf("rulespb: invalid bytes field: %w", protowire.ParseError(n))
	}
	return b, n, nil
}

func consumeString(data []byte, typ protowire.Type) (string, int, error) {
	b, n, err := consumeBytes(data, typ)
	if err != nil {
		return "", 0, err
	}
	return string(b), n, nil
}
