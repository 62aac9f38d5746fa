// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// UnknownVendorName is the sentinel used when extraction cannot determine
// a vendor name. Matching by name is skipped for this value so unrelated
// anonymous bids never collapse into one vendor record.
const UnknownVendorName = "Unknown Vendor"

// MaxRepresentatives caps how many contacts are kept per extraction.
const MaxRepresentatives = 5

// Vendor is a supplier organization resolved from bid documents.
// Verification flags are tri-state: nil = not checked, true/false = the
// outcome of the one-time check at creation.
type Vendor struct {
	ID      int64  `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	Website string `json:"website,omitempty" yaml:"website,omitempty"`

	// Domain is derived from the website or a representative email.
	Domain string `json:"domain,omitempty" yaml:"domain,omitempty"`

	// WebsiteVerified records the reachability check run once at creation.
	WebsiteVerified *bool `json:"website_verified,omitempty" yaml:"website_verified,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	Representatives []Representative `json:"representatives,omitempty" yaml:"representatives,omitempty"`
}

// Representative is a named contact for a vendor.
type Representative struct {
	ID          int64  `json:"id" yaml:"id"`
	VendorID    int64  `json:"vendor_id" yaml:"vendor_id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone       string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Designation string `json:"designation,omitempty" yaml:"designation,omitempty"`

	// PhoneVerified and EmailVerified record the format checks run once
	// at creation. nil = not checked (no value supplied).
	PhoneVerified *bool `json:"phone_verified,omitempty" yaml:"phone_verified,omitempty"`
	EmailVerified *bool `json:"email_verified,omitempty" yaml:"email_verified,omitempty"`
}

// ExtractedRep is a representative as pulled from bid text, before any
// record exists.
type ExtractedRep struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
}

// VendorExtraction is the vendor identity pulled from a bid document.
// Transient: consumed immediately by the matcher. Name is never empty;
// extraction substitutes UnknownVendorName when the model finds nothing.
type VendorExtraction struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Website string `json:"website"`
	Domain  string `json:"domain"`

	Representatives []ExtractedRep `json:"representatives"`

	// Summary is a short description of the bid, reused later to bound
	// evaluation prompt size.
	Summary string `json:"summary"`
}
