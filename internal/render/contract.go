package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dharsanguruparan/DocFlow/internal/model"
	"github.com/dharsanguruparan/DocFlow/internal/templates"
)

// Placeholder runs for the rent template. Lengths follow the underlined
// gaps a paper form would leave.
var (
	blankName   = strings.Repeat("_", 25)
	blankShort  = "___"
	blankPassNo = strings.Repeat("_", 19)
	blankMeter  = strings.Repeat("_", 13)
	blankList   = strings.Repeat("_", 321)
	blankEquip  = strings.Repeat("_", 129)
)

// Document is a rendered record ready for emission.
type Document struct {
	Title    string
	Text     string
	Filename string
}

// Engine holds the compiled contract templates.
type Engine struct {
	compiled map[string]*Template
}

// NewEngine compiles every dedicated template against its allowed token set.
func NewEngine() (*Engine, error) {
	e := &Engine{compiled: make(map[string]*Template)}
	for _, kind := range templates.Dedicated() {
		tpl, _ := templates.Lookup(kind)
		c, err := Compile(tpl, templates.KnownTokens(kind))
		if err != nil {
			return nil, fmt.Errorf("compile %s template: %w", kind, err)
		}
		e.compiled[kind] = c
	}
	return e, nil
}

// KindName is the display name for a contract kind, or the identifier itself
// when the kind is not in the table.
func KindName(kind string) string {
	if k, ok := templates.FindKind(kind); ok {
		return k.Name
	}
	return kind
}

// Contract renders c. Kinds without a template of their own use the services
// template; an empty kind is rejected.
func (e *Engine) Contract(c model.Contract, now time.Time) (Document, error) {
	if c.Type == "" {
		return Document{}, fmt.Errorf("%w: empty contract type", ErrUnknownType)
	}
	tpl, ok := e.compiled[c.Type]
	if !ok {
		tpl = e.compiled[templates.DefaultKind]
	}
	text, err := tpl.Execute(ContractValues(c, now))
	if err != nil {
		return Document{}, err
	}
	name := KindName(c.Type)
	return Document{
		Title:    templates.ListName(c.Type),
		Text:     text,
		Filename: fmt.Sprintf("Договір_%s_%d.docx", name, now.UnixMilli()),
	}, nil
}

// ContractValues computes the value of every known token for c. The map
// covers the rent extension too; generic templates simply never read it.
func ContractValues(c model.Contract, now time.Time) map[string]string {
	counterparty := c.CounterpartyName
	if counterparty == "" {
		counterparty = c.TenantName
	}
	day, month, year := DateParts(c.StartDate, now)

	return map[string]string{
		templates.TokenType:         KindName(c.Type),
		templates.TokenCounterparty: orDefault(counterparty, NotSpecified),
		templates.TokenTaxID:        orDefault(c.TaxID, NotSpecified),
		templates.TokenStartDate:    FormatDate(c.StartDate),
		templates.TokenEndDate:      FormatDate(c.EndDate),
		templates.TokenAmount:       FormatAmount(c.Amount),
		templates.TokenSubject:      orDefault(c.Subject, NotSpecified),
		templates.TokenAdditional:   orDefault(c.AdditionalTerms, None),
		templates.TokenDate:         LongDate(now),
		templates.TokenDay:          day,
		templates.TokenMonth:        month,
		templates.TokenYear:         year,

		templates.TokenLandlordName:           orDefault(c.LandlordName, blankName),
		templates.TokenLandlordPassportSeries: orDefault(c.LandlordPassportSeries, blankShort),
		templates.TokenLandlordPassportNumber: orDefault(c.LandlordPassportNumber, blankPassNo),
		templates.TokenLandlordPassportIssued: orDefault(c.LandlordPassportIssued, blankName),
		templates.TokenLandlordRegistered:     orDefault(c.LandlordRegistered, blankName),
		templates.TokenLandlordAddress:        orDefault(c.LandlordAddress, blankName),
		templates.TokenLandlordPhone:          orDefault(c.LandlordPhone, blankName),
		templates.TokenTenantName:             orDefault(c.CounterpartyName, blankName),
		templates.TokenTenantPassportSeries:   orDefault(c.TenantPassportSeries, blankShort),
		templates.TokenTenantPassportNumber:   orDefault(c.TenantPassportNumber, blankPassNo),
		templates.TokenTenantPassportIssued:   orDefault(c.TenantPassportIssued, blankName),
		templates.TokenTenantRegistered:       orDefault(c.TenantRegistered, blankName),
		templates.TokenTenantAddress:          orDefault(c.TenantAddress, blankName),
		templates.TokenTenantPhone:            orDefault(c.TenantPhone, blankName),
		templates.TokenStreet:                 orDefault(c.Street, blankName),
		templates.TokenBuilding:               orDefault(c.Building, blankShort),
		templates.TokenApartment:              orDefault(c.Apartment, blankShort),
		templates.TokenRooms:                  orDefault(c.Rooms, blankShort),
		templates.TokenTransferDays:           orDefault(c.TransferDays, blankShort),
		templates.TokenGasMeter:               orDefault(c.GasMeter, blankMeter),
		templates.TokenElectricityMeter:       orDefault(c.ElectricityMeter, blankMeter),
		templates.TokenWaterMeter:             orDefault(c.WaterMeter, blankMeter),
		templates.TokenArea:                   orDefault(c.Area, blankShort),
		templates.TokenPropertyList:           orDefault(c.PropertyList, blankList),
		templates.TokenEquipment:              orDefault(c.Equipment, blankEquip),
	}
}
