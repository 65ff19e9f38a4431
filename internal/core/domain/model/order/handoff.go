package order

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"fulfillment/internal/pkg/errs"
)

// CredentialTTL is how long an issued handoff code stays valid.
const CredentialTTL = 24 * time.Hour

// CredentialPurpose identifies which handoff a credential proves.
// Credentials are keyed by purpose: codes that happen to be numerically
// equal across purposes remain distinct credentials.
type CredentialPurpose int

const (
	// PurposeShopPickup verifies the shop handoff (partner pickup or
	// customer self-pickup). Six digits.
	PurposeShopPickup CredentialPurpose = iota + 1
	// PurposeDelivery verifies the customer doorstep handoff. Four digits.
	PurposeDelivery
)

// Digits returns the code length for the purpose.
func (p CredentialPurpose) Digits() int {
	if p == PurposeDelivery {
		return 4
	}
	return 6
}

// String returns the canonical upper-snake name.
func (p CredentialPurpose) String() string {
	switch p {
	case PurposeShopPickup:
		return "SHOP_PICKUP"
	case PurposeDelivery:
		return "DELIVERY"
	default:
		return "UNKNOWN"
	}
}

// Validate checks the purpose is a defined value.
func (p CredentialPurpose) Validate() error {
	if p != PurposeShopPickup && p != PurposeDelivery {
		return errs.NewValueIsInvalidErrorWithCause("credential purpose is invalid",
			fmt.Errorf("%d is not a valid purpose", p))
	}
	return nil
}

// HandoffCredential is a one-time numeric code proving physical possession
// at a handoff point. Verification against a wrong code never touches the
// credential; verification with the right code consumes it exactly once.
type HandoffCredential struct {
	purpose    CredentialPurpose
	code       string
	issuedAt   time.Time
	consumedAt *time.Time
}

// NewHandoffCredential creates an active credential. The code must consist
// of exactly the purpose's digit count.
func NewHandoffCredential(purpose CredentialPurpose, code string, issuedAt time.Time) (*HandoffCredential, error) {
	if err := purpose.Validate(); err != nil {
		return nil, err
	}
	normalized := normalizeCode(code)
	if len(normalized) != purpose.Digits() || !isDigits(normalized) {
		return nil, errs.NewValueIsInvalidErrorWithCause("credential code is invalid",
			fmt.Errorf("code must be exactly %d digits", purpose.Digits()))
	}

	return &HandoffCredential{
		purpose:  purpose,
		code:     normalized,
		issuedAt: issuedAt,
	}, nil
}

// RestoreHandoffCredential reconstructs a credential from persistence,
// including consumed ones.
func RestoreHandoffCredential(
	purpose CredentialPurpose, code string, issuedAt time.Time, consumedAt *time.Time,
) (*HandoffCredential, error) {
	cred, err := NewHandoffCredential(purpose, code, issuedAt)
	if err != nil {
		return nil, err
	}
	cred.consumedAt = consumedAt
	return cred, nil
}

// Validate ensures the credential was created through a constructor and
// still satisfies the purpose's code shape.
func (h *HandoffCredential) Validate() error {
	if h == nil || h.code == "" {
		return errs.NewValueIsRequiredError("credential")
	}
	return h.purpose.Validate()
}

// Purpose returns which handoff the credential proves.
func (h *HandoffCredential) Purpose() CredentialPurpose {
	return h.purpose
}

// Code returns the code for presentation to the holding party.
func (h *HandoffCredential) Code() string {
	return h.code
}

// IssuedAt returns the issuance time.
func (h *HandoffCredential) IssuedAt() time.Time {
	return h.issuedAt
}

// ConsumedAt returns when the credential was consumed, or nil while active.
func (h *HandoffCredential) ConsumedAt() *time.Time {
	return h.consumedAt
}

// IsConsumed reports whether the credential has been used.
func (h *HandoffCredential) IsConsumed() bool {
	return h.consumedAt != nil
}

// IsActive reports whether the credential can still be consumed at the
// given time.
func (h *HandoffCredential) IsActive(now time.Time) bool {
	return !h.IsConsumed() && now.Before(h.issuedAt.Add(CredentialTTL))
}

// Verify compares the presented code after whitespace normalization and
// consumes the credential on a match. A mismatch returns
// ErrInvalidCredential and leaves the credential consumable; a second
// verification with the correct code also fails because consumption is
// one-way.
func (h *HandoffCredential) Verify(code string, now time.Time) error {
	if h.IsConsumed() {
		return newInvalidCredentialError(h.purpose, "code already used")
	}
	if !now.Before(h.issuedAt.Add(CredentialTTL)) {
		return newInvalidCredentialError(h.purpose, "code expired")
	}
	if normalizeCode(code) != h.code {
		return newInvalidCredentialError(h.purpose, "code mismatch")
	}

	consumed := now
	h.consumedAt = &consumed
	return nil
}

func normalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, code)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
