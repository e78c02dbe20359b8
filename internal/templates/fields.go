package templates

// Token names shared by every contract kind.
const (
	TokenType         = "TYPE"
	TokenCounterparty = "COUNTERPARTY"
	TokenTaxID        = "TAX_ID"
	TokenStartDate    = "START_DATE"
	TokenEndDate      = "END_DATE"
	TokenAmount       = "AMOUNT"
	TokenSubject      = "SUBJECT"
	TokenAdditional   = "ADDITIONAL"
	TokenDate         = "DATE"
	TokenDay          = "DAY"
	TokenMonth        = "MONTH"
	TokenYear         = "YEAR"
)

// Tokens only the rent template uses.
const (
	TokenLandlordName           = "LANDLORD_NAME"
	TokenLandlordPassportSeries = "LANDLORD_PASSPORT_SERIES"
	TokenLandlordPassportNumber = "LANDLORD_PASSPORT_NUMBER"
	TokenLandlordPassportIssued = "LANDLORD_PASSPORT_ISSUED"
	TokenLandlordRegistered     = "LANDLORD_REGISTERED"
	TokenLandlordAddress        = "LANDLORD_ADDRESS"
	TokenLandlordPhone          = "LANDLORD_PHONE"
	TokenTenantName             = "TENANT_NAME"
	TokenTenantPassportSeries   = "TENANT_PASSPORT_SERIES"
	TokenTenantPassportNumber   = "TENANT_PASSPORT_NUMBER"
	TokenTenantPassportIssued   = "TENANT_PASSPORT_ISSUED"
	TokenTenantRegistered       = "TENANT_REGISTERED"
	TokenTenantAddress          = "TENANT_ADDRESS"
	TokenTenantPhone            = "TENANT_PHONE"
	TokenStreet                 = "STREET"
	TokenBuilding               = "BUILDING"
	TokenApartment              = "APARTMENT"
	TokenRooms                  = "ROOMS"
	TokenTransferDays           = "TRANSFER_DAYS"
	TokenGasMeter               = "GAS_METER"
	TokenElectricityMeter       = "ELECTRICITY_METER"
	TokenWaterMeter             = "WATER_METER"
	TokenArea                   = "AREA"
	TokenPropertyList           = "PROPERTY_LIST"
	TokenEquipment              = "EQUIPMENT"
)

var commonTokens = []string{
	TokenType, TokenCounterparty, TokenTaxID, TokenStartDate, TokenEndDate,
	TokenAmount, TokenSubject, TokenAdditional, TokenDate, TokenDay,
	TokenMonth, TokenYear,
}

var rentTokens = []string{
	TokenLandlordName, TokenLandlordPassportSeries, TokenLandlordPassportNumber,
	TokenLandlordPassportIssued, TokenLandlordRegistered, TokenLandlordAddress,
	TokenLandlordPhone, TokenTenantName, TokenTenantPassportSeries,
	TokenTenantPassportNumber, TokenTenantPassportIssued, TokenTenantRegistered,
	TokenTenantAddress, TokenTenantPhone, TokenStreet, TokenBuilding,
	TokenApartment, TokenRooms, TokenTransferDays, TokenGasMeter,
	TokenElectricityMeter, TokenWaterMeter, TokenArea, TokenPropertyList,
	TokenEquipment,
}

// KnownTokens is the token set a template of the given kind may reference.
// Rent templates see the common set plus the rent extension.
func KnownTokens(kind string) map[string]bool {
	known := make(map[string]bool, len(commonTokens)+len(rentTokens))
	for _, t := range commonTokens {
		known[t] = true
	}
	if kind == RentKind {
		for _, t := range rentTokens {
			known[t] = true
		}
	}
	return known
}
