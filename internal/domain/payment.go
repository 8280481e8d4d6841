package domain

import (
	"fmt"
	"regexp"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

const (
	SourceTypeCard        = "card"
	SourceTypeBankAccount = "bank_account"
)

type Payment struct {
	ID        string
	BookingID string
	Amount    float64
	Currency  string
	Source    PaymentSource
	Status    PaymentStatus
	CreatedAt time.Time
}

// currencies the service accepts, per the public API contract.
var currencies = map[string]struct{}{
	"bam": {}, "bgn": {}, "chf": {}, "eur": {},
	"gbp": {}, "nok": {}, "sek": {}, "try": {},
}

func ValidCurrency(code string) bool {
	_, ok := currencies[code]
	return ok
}

// PaymentSource is a card or bank account instrument. A single struct covers
// both variants; Object discriminates which fields are meaningful.
type PaymentSource struct {
	Object          string `json:"object"`
	Name            string `json:"name"`
	Number          string `json:"number"`
	CVC             string `json:"cvc,omitempty"`
	ExpMonth        int    `json:"exp_month,omitempty"`
	ExpYear         int    `json:"exp_year,omitempty"`
	AddressLine1    string `json:"address_line1,omitempty"`
	AddressLine2    string `json:"address_line2,omitempty"`
	AddressCity     string `json:"address_city,omitempty"`
	AddressCountry  string `json:"address_country,omitempty"`
	AddressPostCode string `json:"address_post_code,omitempty"`
	SortCode        string `json:"sort_code,omitempty"`
	AccountType     string `json:"account_type,omitempty"`
	BankName        string `json:"bank_name,omitempty"`
	Country         string `json:"country,omitempty"`
}

var (
	cardNumberRe = regexp.MustCompile(`^\d{13,19}$`)
	cvcRe        = regexp.MustCompile(`^\d{3,4}$`)
	sortCodeRe   = regexp.MustCompile(`^\d{6}$`)
)

// Validate enumerates the rules for each instrument variant explicitly.
func (s PaymentSource) Validate(now time.Time) error {
	switch s.Object {
	case SourceTypeCard:
		if s.Name == "" {
			return fmt.Errorf("%w: card name is required", ErrValidation)
		}
		if !cardNumberRe.MatchString(s.Number) {
			return fmt.Errorf("%w: card number must be 13-19 digits", ErrValidation)
		}
		if !cvcRe.MatchString(s.CVC) {
			return fmt.Errorf("%w: cvc must be 3-4 digits", ErrValidation)
		}
		if s.ExpMonth < 1 || s.ExpMonth > 12 {
			return fmt.Errorf("%w: exp_month must be between 1 and 12", ErrValidation)
		}
		if s.ExpYear < now.Year() {
			return fmt.Errorf("%w: exp_year must not be in the past", ErrValidation)
		}
		if len(s.AddressCountry) != 2 {
			return fmt.Errorf("%w: address_country must be a 2-letter code", ErrValidation)
		}
		return nil
	case SourceTypeBankAccount:
		if s.Name == "" {
			return fmt.Errorf("%w: account name is required", ErrValidation)
		}
		if s.Number == "" {
			return fmt.Errorf("%w: account number is required", ErrValidation)
		}
		if !sortCodeRe.MatchString(s.SortCode) {
			return fmt.Errorf("%w: sort_code must be 6 digits", ErrValidation)
		}
		if s.AccountType != "individual" && s.AccountType != "company" {
			return fmt.Errorf("%w: account_type must be individual or company", ErrValidation)
		}
		if s.BankName == "" {
			return fmt.Errorf("%w: bank_name is required", ErrValidation)
		}
		if len(s.Country) != 2 {
			return fmt.Errorf("%w: country must be a 2-letter code", ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: source object must be card or bank_account", ErrValidation)
	}
}

// Mask redacts the instrument before it is stored or echoed back: only the
// last 4 digits of the number survive and the CVC is dropped entirely.
func (s PaymentSource) Mask() PaymentSource {
	last4 := s.Number
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}

	switch s.Object {
	case SourceTypeCard:
		return PaymentSource{
			Object:          SourceTypeCard,
			Name:            s.Name,
			Number:          "************" + last4,
			ExpMonth:        s.ExpMonth,
			ExpYear:         s.ExpYear,
			AddressCountry:  s.AddressCountry,
			AddressPostCode: s.AddressPostCode,
		}
	case SourceTypeBankAccount:
		return PaymentSource{
			Object:      SourceTypeBankAccount,
			Name:        s.Name,
			Number:      "*********" + last4,
			AccountType: s.AccountType,
			SortCode:    s.SortCode,
			BankName:    s.BankName,
			Country:     s.Country,
		}
	}
	return s
}
