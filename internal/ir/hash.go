package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for result digests.
// Version suffix enables future algorithm migration.
const (
	DomainSelection = "legcomp/selection/v1"
	DomainTotal     = "legcomp/total/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SelectionDigest fingerprints a selection snapshot. Two runs over the same
// catalog, roster and adjustments yield the same digest.
func SelectionDigest(sel PaidRoleSelection) (string, error) {
	canonical, err := MarshalCanonical(selectionIRValue(sel))
	if err != nil {
		return "", fmt.Errorf("SelectionDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSelection, canonical), nil
}

// ResultDigest fingerprints a total compensation result.
func ResultDigest(res TotalCompResult) (string, error) {
	canonical, err := MarshalCanonical(resultIRValue(res))
	if err != nil {
		return "", fmt.Errorf("ResultDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTotal, canonical), nil
}

// MustSelectionDigest is like SelectionDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSelectionDigest(sel PaidRoleSelection) string {
	d, err := SelectionDigest(sel)
	if err != nil {
		panic(err)
	}
	return d
}

// MustResultDigest is like ResultDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustResultDigest(res TotalCompResult) string {
	d, err := ResultDigest(res)
	if err != nil {
		panic(err)
	}
	return d
}

func selectionIRValue(sel PaidRoleSelection) IRObject {
	paid := make(IRArray, len(sel.PaidRoles))
	for i, rs := range sel.PaidRoles {
		paid[i] = IRObject{
			"role_code":  IRString(rs.RoleCode),
			"session_id": IRString(rs.SessionID),
			"amount":     rs.Amount.toIRValue(),
			"reason":     IRString(rs.Reason),
		}
	}
	prov := make(IRArray, len(sel.Provenance))
	for i, p := range sel.Provenance {
		notes := p.Notes
		if notes == nil {
			notes = IRObject{}
		}
		prov[i] = IRObject{
			"role_code": IRString(p.RoleCode),
			"selected":  IRBool(p.Selected),
			"reason":    IRString(string(p.Reason)),
			"notes":     notes,
			"sources":   p.Sources.toIRValue(),
		}
	}
	return IRObject{
		"session_id": IRString(sel.SessionID),
		"member_id":  IRString(sel.MemberID),
		"paid_roles": paid,
		"total":      IRInt(sel.Total),
		"provenance": prov,
	}
}

func resultIRValue(res TotalCompResult) IRObject {
	comps := make(IRArray, len(res.Components))
	for i, c := range res.Components {
		comps[i] = IRObject{
			"label":  IRString(c.Label),
			"amount": c.Amount.toIRValue(),
		}
	}
	return IRObject{
		"member_id":  IRString(res.MemberID),
		"session_id": IRString(res.SessionID),
		"components": comps,
		"total":      res.Total.toIRValue(),
	}
}
