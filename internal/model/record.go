// Package model contains the record types shared across packages. Records are
// flat structs whose JSON tags match the field names the Mini-App front end
// and the remote store already use.
package model

import (
	"time"
)

// Plan is the active subscription tier. A type declared via "type X string"
// keeps plan values distinct from arbitrary strings.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// Paid reports whether the plan lifts the monthly quota.
func (p Plan) Paid() bool {
	return p == PlanPro || p == PlanBusiness
}

// ParsePlan maps user input onto a Plan. Unknown values report false.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(s) {
	case PlanFree, PlanPro, PlanBusiness:
		return Plan(s), true
	}
	return "", false
}

// Contract is the generated-contract record. The rent fields are only
// populated when Type is "rent".
type Contract struct {
	ID               string  `json:"id"`
	Type             string  `json:"type"`
	CreatedAt        string  `json:"createdAt"`
	CounterpartyName string  `json:"counterpartyName,omitempty"`
	TaxID            string  `json:"taxId,omitempty"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
	Amount           float64 `json:"amount"`
	Subject          string  `json:"subject,omitempty"`
	AdditionalTerms  string  `json:"additionalTerms"`

	LandlordName           string `json:"landlordName,omitempty"`
	LandlordPassportSeries string `json:"landlordPassportSeries,omitempty"`
	LandlordPassportNumber string `json:"landlordPassportNumber,omitempty"`
	LandlordPassportIssued string `json:"landlordPassportIssued,omitempty"`
	LandlordRegistered     string `json:"landlordRegistered,omitempty"`
	LandlordAddress        string `json:"landlordAddress,omitempty"`
	LandlordPhone          string `json:"landlordPhone,omitempty"`
	TenantName             string `json:"tenantName,omitempty"`
	TenantPassportSeries   string `json:"tenantPassportSeries,omitempty"`
	TenantPassportNumber   string `json:"tenantPassportNumber,omitempty"`
	TenantPassportIssued   string `json:"tenantPassportIssued,omitempty"`
	TenantRegistered       string `json:"tenantRegistered,omitempty"`
	TenantAddress          string `json:"tenantAddress,omitempty"`
	TenantPhone            string `json:"tenantPhone,omitempty"`
	Street                 string `json:"street,omitempty"`
	Building               string `json:"building,omitempty"`
	Apartment              string `json:"apartment,omitempty"`
	Rooms                  string `json:"rooms,omitempty"`
	Area                   string `json:"area,omitempty"`
	TransferDays           string `json:"transferDays,omitempty"`
	GasMeter               string `json:"gasMeter,omitempty"`
	ElectricityMeter       string `json:"electricityMeter,omitempty"`
	WaterMeter             string `json:"waterMeter,omitempty"`
	PropertyList           string `json:"propertyList,omitempty"`
	Equipment              string `json:"equipment,omitempty"`
}

// Item is a single invoice line.
type Item struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Sum returns quantity × price.
func (i Item) Sum() float64 {
	return i.Quantity * i.Price
}

// Invoice covers invoices, acts, foreign invoices and receipts.
type Invoice struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	ClientName  string  `json:"clientName"`
	ClientTaxID string  `json:"clientTaxId"`
	Date        string  `json:"date"`
	Items       []Item  `json:"items"`
	Subtotal    float64 `json:"subtotal"`
	VAT         float64 `json:"vat"`
	Total       float64 `json:"total"`
	VATRate     float64 `json:"vatRate"`
	Number      string  `json:"number"`
	CreatedAt   string  `json:"createdAt"`
}

// SignStatus tracks a signing request.
type SignStatus string

const (
	SignPending SignStatus = "pending"
	SignSigned  SignStatus = "signed"
)

// SignRequest is a document sent to a counterparty for signing.
type SignRequest struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	CreatedAt    string     `json:"createdAt"`
	Status       SignStatus `json:"status"`
	DocumentName string     `json:"documentName"`
	ObjectKey    string     `json:"objectKey,omitempty"`
	Pages        int        `json:"pages,omitempty"`
}

// Settings are the per-user preferences mirrored to the remote store.
type Settings struct {
	Subscription Plan   `json:"subscription"`
	TaxSystem    string `json:"taxSystem"`
}

// AppState is everything the client keeps about one user. It is owned by a
// single controller and persisted as one JSON document.
type AppState struct {
	UserID       string        `json:"userId"`
	Subscription Plan          `json:"subscription"`
	TaxSystem    string        `json:"taxSystem"`
	Contracts    []Contract    `json:"contracts"`
	Invoices     []Invoice     `json:"invoices"`
	Documents    []SignRequest `json:"documents"`
}

// NewAppState returns the state a first-time user starts with.
func NewAppState(userID string) *AppState {
	return &AppState{
		UserID:       userID,
		Subscription: PlanFree,
		TaxSystem:    "single",
		Contracts:    []Contract{},
		Invoices:     []Invoice{},
		Documents:    []SignRequest{},
	}
}

// Clone returns a deep copy so callers can read state without holding the
// owner's lock.
func (s *AppState) Clone() *AppState {
	out := *s
	out.Contracts = make([]Contract, len(s.Contracts))
	copy(out.Contracts, s.Contracts)
	out.Documents = make([]SignRequest, len(s.Documents))
	copy(out.Documents, s.Documents)
	out.Invoices = make([]Invoice, len(s.Invoices))
	for i, inv := range s.Invoices {
		inv.Items = append([]Item(nil), inv.Items...)
		out.Invoices[i] = inv
	}
	return &out
}

// Timestamp formats t the way createdAt values are stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// ParseTimestamp reads a createdAt value. The second result is false for
// empty or malformed input.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
