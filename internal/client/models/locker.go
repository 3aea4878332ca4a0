package models

import (
	"slices"
	"time"
)

type LockerStatus string

const (
	LockerActive    LockerStatus = "active"
	LockerTriggered LockerStatus = "triggered"
	LockerAccessed  LockerStatus = "accessed"
	LockerLocked    LockerStatus = "locked"
)

// DigitalLocker holds the vault settings and the designated inheritor.
type DigitalLocker struct {
	Title                 string       `json:"title"`
	Description           string       `json:"description"`
	Status                LockerStatus `json:"status,omitempty"`
	InheritorName         string       `json:"inheritor_name"`
	InheritorEmail        string       `json:"inheritor_email"`
	InheritorPhone        string       `json:"inheritor_phone"`
	OTPValidHours         int          `json:"otp_valid_hours"`
	AccessAttemptsLimit   int          `json:"access_attempts_limit"`
	AutoDeleteAfterAccess bool         `json:"auto_delete_after_access"`
	AutoDeleteDays        int          `json:"auto_delete_days"`
}

// DefaultLocker mirrors the backend defaults for a fresh locker.
func DefaultLocker() DigitalLocker {
	return DigitalLocker{
		OTPValidHours:       24,
		AccessAttemptsLimit: 3,
		AutoDeleteDays:      30,
	}
}

func (l DigitalLocker) Validate() error {
	var v validator
	v.required("title", l.Title, "Title is required")
	if l.InheritorEmail != "" && !ValidEmail(l.InheritorEmail) {
		v.add("inheritor_email", "Please enter a valid email address")
	}
	if l.OTPValidHours < 1 {
		v.add("otp_valid_hours", "OTP validity must be at least 1 hour")
	}
	if l.AccessAttemptsLimit < 1 {
		v.add("access_attempts_limit", "Access attempts limit must be at least 1")
	}
	return v.err()
}

type Category string

const (
	CategoryEmail        Category = "email"
	CategoryBanking      Category = "banking"
	CategoryCrypto       Category = "crypto"
	CategorySocial       Category = "social"
	CategoryCloud        Category = "cloud"
	CategoryDomain       Category = "domain"
	CategorySubscription Category = "subscription"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryEmail, CategoryBanking, CategoryCrypto, CategorySocial,
	CategoryCloud, CategoryDomain, CategorySubscription, CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryEmail:        "Email Account",
	CategoryBanking:      "Banking & Finance",
	CategoryCrypto:       "Cryptocurrency",
	CategorySocial:       "Social Media",
	CategoryCloud:        "Cloud Storage",
	CategoryDomain:       "Domain & Hosting",
	CategorySubscription: "Subscriptions",
	CategoryOther:        "Other",
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Credential is one stored account of the locker.
type Credential struct {
	ID                ID       `json:"id,omitempty"`
	Title             string   `json:"title"`
	Category          Category `json:"category"`
	WebsiteURL        string   `json:"website_url"`
	AccountIdentifier string   `json:"account_identifier"`
	Username          string   `json:"username"`
	Password          string   `json:"password"`
	Notes             string   `json:"notes"`
	Priority          int      `json:"priority"`
}

// NewCredential returns an empty credential with the form defaults.
func NewCredential() Credential {
	return Credential{Category: CategoryOther, Priority: 2}
}

func (c Credential) Validate() error {
	var v validator
	v.required("title", c.Title, "Title is required")
	if !slices.Contains(Categories, c.Category) {
		v.add("category", "Unknown category")
	}
	if c.Priority < 1 || c.Priority > 3 {
		v.add("priority", "Priority must be between 1 and 3")
	}
	return v.err()
}

// LockerView is the response of the locker endpoint.
type LockerView struct {
	Locker                DigitalLocker             `json:"locker"`
	CredentialsByCategory map[Category][]Credential `json:"credentials_by_category"`
}

// Credentials flattens the grouped credentials in category display order.
// Unknown categories follow, sorted by name.
func (v LockerView) Credentials() []Credential {
	var out []Credential
	for _, c := range Categories {
		out = append(out, v.CredentialsByCategory[c]...)
	}

	var extra []Category
	for c := range v.CredentialsByCategory {
		if !slices.Contains(Categories, c) {
			extra = append(extra, c)
		}
	}
	slices.Sort(extra)
	for _, c := range extra {
		out = append(out, v.CredentialsByCategory[c]...)
	}
	return out
}

// Access steps reported by the token-scoped access endpoint.
const (
	AccessStepOTPSent  = "otp_sent"
	AccessStepVerified = "verified"
)

// AccessInfo is the response of the inheritance access endpoint.
type AccessInfo struct {
	Step              string       `json:"step,omitempty"`
	Message           string       `json:"message,omitempty"`
	LockerTitle       string       `json:"locker_title,omitempty"`
	LockerOwner       string       `json:"locker_owner,omitempty"`
	LockerDescription string       `json:"locker_description,omitempty"`
	ExpiresAt         *time.Time   `json:"expires_at,omitempty"`
	Credentials       []Credential `json:"credentials,omitempty"`
}

// IdentityVerification is the verify_identity action body.
type IdentityVerification struct {
	Action string `json:"action"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
}

// OTPVerification is the verify_otp action body.
type OTPVerification struct {
	Action string `json:"action"`
	OTP    string `json:"otp"`
}
