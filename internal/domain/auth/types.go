package auth

// Package auth contains domain-level types for identities and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Role represents an application's authorization role.
// Keep string form for easy comparison against route requirements.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalizes a backend role string. The backend labels self-registered
// customers "USER", which is the same principal as CUSTOMER.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "CUSTOMER", "USER":
		return RoleCustomer
	default:
		return Role(strings.ToUpper(strings.TrimSpace(s)))
	}
}

// IsAdmin reports whether the role grants admin-only routes.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Identity is the authenticated user's profile as last reported by the backend.
// The UI never asserts it independently.
type Identity struct {
	ID           int64  `json:"id"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	Role         Role   `json:"role"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Address      string `json:"address,omitempty"`
	Status       string `json:"status,omitempty"`
	DOB          string `json:"dob,omitempty"`
	AadharNumber string `json:"aadharNumber,omitempty"`
}

// wireIdentity mirrors the backend payload, which names the key either
// "customerId" or "id" and may render numbers as strings.
type wireIdentity struct {
	ID           json.RawMessage `json:"id"`
	CustomerID   json.RawMessage `json:"customerId"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	PhoneNumber  string          `json:"phoneNumber"`
	Address      string          `json:"address"`
	Status       string          `json:"status"`
	DOB          json.RawMessage `json:"dob"`
	AadharNumber string          `json:"aadharNumber"`
}

// UnmarshalJSON accepts the backend's identity shapes.
func (i *Identity) UnmarshalJSON(b []byte) error {
	var w wireIdentity
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	id, err := parseID(w.CustomerID)
	if err != nil {
		return err
	}
	if id == 0 {
		if id, err = parseID(w.ID); err != nil {
			return err
		}
	}
	*i = Identity{
		ID:           id,
		Name:         w.Name,
		Email:        w.Email,
		Role:         ParseRole(w.Role),
		PhoneNumber:  w.PhoneNumber,
		Address:      w.Address,
		Status:       w.Status,
		DOB:          parseDate(w.DOB),
		AadharNumber: w.AadharNumber,
	}
	return nil
}

func parseID(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.Int64()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// parseDate renders either "yyyy-mm-dd" or a [y, m, d] array as "yyyy-mm-dd".
func parseDate(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var parts []int
	if err := json.Unmarshal(raw, &parts); err == nil && len(parts) >= 3 {
		return strconv.Itoa(parts[0]) + "-" + pad2(parts[1]) + "-" + pad2(parts[2])
	}
	return ""
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// IdentityPatch carries a partial identity update. Nil fields are left untouched.
type IdentityPatch struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	Address     *string
	Status      *string
}

// Merge returns a copy of id with the non-nil patch fields applied.
func (p IdentityPatch) Merge(id Identity) Identity {
	if p.Name != nil {
		id.Name = *p.Name
	}
	if p.Email != nil {
		id.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		id.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		id.Address = *p.Address
	}
	if p.Status != nil {
		id.Status = *p.Status
	}
	return id
}

// IsEmpty reports whether the patch changes nothing.
func (p IdentityPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.PhoneNumber == nil && p.Address == nil && p.Status == nil
}

// Session is a point-in-time view of a visitor's authentication state.
// Identity is nil when anonymous. Loading is true until the startup probe settles.
type Session struct {
	Identity *Identity `json:"user"`
	Loading  bool      `json:"loading"`
}

// Authenticated reports whether an identity is present.
func (s Session) Authenticated() bool { return s.Identity != nil }

// HasRole reports whether the session carries the given role.
func (s Session) HasRole(r Role) bool {
	return s.Identity != nil && s.Identity.Role == r
}
