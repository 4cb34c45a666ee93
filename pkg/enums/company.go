package enums

import "fmt"

// CompanyType represents the canonical company_type enum in Postgres.
type CompanyType string

const (
	CompanyTypeInstaller    CompanyType = "installer"
	CompanyTypeEPC          CompanyType = "epc"
	CompanyTypeSalesOrg     CompanyType = "sales_org"
	CompanyTypeManufacturer CompanyType = "manufacturer"
	CompanyTypeDistributor  CompanyType = "distributor"
	CompanyTypeFinancier    CompanyType = "financier"
	CompanyTypeSoftware     CompanyType = "software"
	CompanyTypeLeadGen      CompanyType = "lead_gen"
)

var validCompanyTypes = []CompanyType{
	CompanyTypeInstaller,
	CompanyTypeEPC,
	CompanyTypeSalesOrg,
	CompanyTypeManufacturer,
	CompanyTypeDistributor,
	CompanyTypeFinancier,
	CompanyTypeSoftware,
	CompanyTypeLeadGen,
}

// String implements fmt.Stringer.
func (c CompanyType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CompanyType.
func (c CompanyType) IsValid() bool {
	for _, candidate := range validCompanyTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCompanyType converts raw input into a CompanyType.
func ParseCompanyType(value string) (CompanyType, error) {
	for _, candidate := range validCompanyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid company type %q", value)
}

// CompanyStatus captures the listing verification lifecycle.
type CompanyStatus string

const (
	CompanyStatusUnclaimed CompanyStatus = "unclaimed"
	CompanyStatusVerified  CompanyStatus = "verified"
	CompanyStatusCertified CompanyStatus = "certified"
)

var validCompanyStatuses = []CompanyStatus{
	CompanyStatusUnclaimed,
	CompanyStatusVerified,
	CompanyStatusCertified,
}

// String implements fmt.Stringer.
func (s CompanyStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the Postgres enum.
func (s CompanyStatus) IsValid() bool {
	for _, candidate := range validCompanyStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCompanyStatus converts raw input into a CompanyStatus.
func ParseCompanyStatus(value string) (CompanyStatus, error) {
	for _, candidate := range validCompanyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid company status %q", value)
}
