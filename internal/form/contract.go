// Package form binds raw form input to typed form models and extracts
// records from them. Extraction never fails: absent fields become empty
// strings and unparseable amounts become zero.
package form

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/templates"
)

// ContractForm mirrors the contract modal. JSON keys are the input ids the
// Mini-App submits, so a request body decodes straight into it.
type ContractForm struct {
	Type string `json:"contractType"`

	CounterpartyName string `json:"counterpartyName"`
	TaxID            string `json:"taxId"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Amount           string `json:"contractAmount"`
	Subject          string `json:"contractSubject"`
	AdditionalTerms  string `json:"additionalTerms"`

	RentStartDate string `json:"rentStartDate"`
	RentEndDate   string `json:"rentEndDate"`
	RentAmount    string `json:"rentAmount"`

	LandlordName           string `json:"landlordName"`
	LandlordPassportSeries string `json:"landlordPassportSeries"`
	LandlordPassportNumber string `json:"landlordPassportNumber"`
	LandlordPassportIssued string `json:"landlordPassportIssued"`
	LandlordRegistered     string `json:"landlordRegistered"`
	LandlordAddress        string `json:"landlordAddress"`
	LandlordPhone          string `json:"landlordPhone"`
	TenantName             string `json:"tenantName"`
	TenantPassportSeries   string `json:"tenantPassportSeries"`
	TenantPassportNumber   string `json:"tenantPassportNumber"`
	TenantPassportIssued   string `json:"tenantPassportIssued"`
	TenantRegistered       string `json:"tenantRegistered"`
	TenantAddress          string `json:"tenantAddress"`
	TenantPhone            string `json:"tenantPhone"`
	Street                 string `json:"street"`
	Building               string `json:"building"`
	Apartment              string `json:"apartment"`
	Rooms                  string `json:"rooms"`
	Area                   string `json:"area"`
	TransferDays           string `json:"transferDays"`
	GasMeter               string `json:"gasMeter"`
	ElectricityMeter       string `json:"electricityMeter"`
	WaterMeter             string `json:"waterMeter"`
	PropertyList           string `json:"propertyList"`
	Equipment              string `json:"equipment"`
}

// IsRent reports whether the form carries the rent field set.
func (f ContractForm) IsRent() bool {
	return f.Type == templates.RentKind
}

// Bind fills a ContractForm from input ids. Unknown keys are ignored.
func Bind(values map[string]string) ContractForm {
	get := func(key string) string { return values[key] }
	return ContractForm{
		Type:                   get("contractType"),
		CounterpartyName:       get("counterpartyName"),
		TaxID:                  get("taxId"),
		StartDate:              get("startDate"),
		EndDate:                get("endDate"),
		Amount:                 get("contractAmount"),
		Subject:                get("contractSubject"),
		AdditionalTerms:        get("additionalTerms"),
		RentStartDate:          get("rentStartDate"),
		RentEndDate:            get("rentEndDate"),
		RentAmount:             get("rentAmount"),
		LandlordName:           get("landlordName"),
		LandlordPassportSeries: get("landlordPassportSeries"),
		LandlordPassportNumber: get("landlordPassportNumber"),
		LandlordPassportIssued: get("landlordPassportIssued"),
		LandlordRegistered:     get("landlordRegistered"),
		LandlordAddress:        get("landlordAddress"),
		LandlordPhone:          get("landlordPhone"),
		TenantName:             get("tenantName"),
		TenantPassportSeries:   get("tenantPassportSeries"),
		TenantPassportNumber:   get("tenantPassportNumber"),
		TenantPassportIssued:   get("tenantPassportIssued"),
		TenantRegistered:       get("tenantRegistered"),
		TenantAddress:          get("tenantAddress"),
		TenantPhone:            get("tenantPhone"),
		Street:                 get("street"),
		Building:               get("building"),
		Apartment:              get("apartment"),
		Rooms:                  get("rooms"),
		Area:                   get("area"),
		TransferDays:           get("transferDays"),
		GasMeter:               get("gasMeter"),
		ElectricityMeter:       get("electricityMeter"),
		WaterMeter:             get("waterMeter"),
		PropertyList:           get("propertyList"),
		Equipment:              get("equipment"),
	}
}

// BindValues is Bind for url-encoded form posts. The first value wins.
func BindValues(v url.Values) ContractForm {
	flat := make(map[string]string, len(v))
	for key := range v {
		flat[key] = v.Get(key)
	}
	return Bind(flat)
}

// Extract builds a contract record from the form. Exactly one of the generic
// or rent field sets is read, chosen by the type discriminant.
func Extract(f ContractForm, id string, now time.Time) model.Contract {
	c := model.Contract{
		ID:        id,
		Type:      f.Type,
		CreatedAt: model.Timestamp(now),
	}
	if !f.IsRent() {
		c.CounterpartyName = f.CounterpartyName
		c.TaxID = f.TaxID
		c.StartDate = f.StartDate
		c.EndDate = f.EndDate
		c.Amount = ParseAmount(f.Amount)
		c.Subject = f.Subject
		c.AdditionalTerms = f.AdditionalTerms
		return c
	}

	c.StartDate = f.RentStartDate
	c.EndDate = f.RentEndDate
	c.Amount = ParseAmount(f.RentAmount)
	c.AdditionalTerms = f.AdditionalTerms
	c.LandlordName = f.LandlordName
	c.LandlordPassportSeries = f.LandlordPassportSeries
	c.LandlordPassportNumber = f.LandlordPassportNumber
	c.LandlordPassportIssued = f.LandlordPassportIssued
	c.LandlordRegistered = f.LandlordRegistered
	c.LandlordAddress = f.LandlordAddress
	c.LandlordPhone = f.LandlordPhone
	c.TenantName = f.TenantName
	// Downstream code reads counterpartyName regardless of kind.
	c.CounterpartyName = f.TenantName
	c.TenantPassportSeries = f.TenantPassportSeries
	c.TenantPassportNumber = f.TenantPassportNumber
	c.TenantPassportIssued = f.TenantPassportIssued
	c.TenantRegistered = f.TenantRegistered
	c.TenantAddress = f.TenantAddress
	c.TenantPhone = f.TenantPhone
	c.Street = f.Street
	c.Building = f.Building
	c.Apartment = f.Apartment
	c.Rooms = f.Rooms
	c.Area = f.Area
	c.TransferDays = f.TransferDays
	c.GasMeter = f.GasMeter
	c.ElectricityMeter = f.ElectricityMeter
	c.WaterMeter = f.WaterMeter
	c.PropertyList = f.PropertyList
	c.Equipment = f.Equipment
	return c
}

// ParseAmount reads a decimal amount. Empty, non-numeric, NaN and infinite
// input yield 0. A decimal comma is accepted.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var (
	genericRequired = []string{"counterpartyName", "startDate", "contractAmount", "contractSubject"}
	rentRequired    = []string{"rentStartDate", "rentAmount"}
)

// RequiredFields returns the input ids marked required for a contract kind.
func RequiredFields(kind string) []string {
	if kind == templates.RentKind {
		return append([]string(nil), rentRequired...)
	}
	return append([]string(nil), genericRequired...)
}

// FieldError lists required inputs that were left empty.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("required fields missing: %s", strings.Join(e.Fields, ", "))
}

// Validate checks the required-field toggle set for the form's kind. It is
// advisory: Extract still succeeds on an invalid form.
func Validate(f ContractForm) error {
	values := map[string]string{
		"counterpartyName": f.CounterpartyName,
		"startDate":        f.StartDate,
		"contractAmount":   f.Amount,
		"contractSubject":  f.Subject,
		"rentStartDate":    f.RentStartDate,
		"rentAmount":       f.RentAmount,
	}
	var missing []string
	for _, id := range RequiredFields(f.Type) {
		if strings.TrimSpace(values[id]) == "" {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &FieldError{Fields: missing}
	}
	return nil
}
