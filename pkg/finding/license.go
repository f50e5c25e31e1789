package finding

// NoRiskRating is the token stored when a license element carries no
// risk_rating attribute. It is not a recognised rating.
const NoRiskRating = "None"

// LicenseRecord is one license of one vulnerable component, as found in a
// detailed report. Absent attributes are empty strings.
type LicenseRecord struct {
	ComponentFileName string `json:"component_file_name"`
	LicenseName       string `json:"license_name"`
	SPDXID            string `json:"spdx_id"`
	LicenseURL        string `json:"license_url"`

	// RiskRating is the raw attribute text, never parsed at extraction so
	// that "0" stays distinguishable from a missing or non-numeric value.
	RiskRating string `json:"risk_rating"`
}

// ReportMetadata identifies the scanned application. Fields are optional
// and only used to name the output artifact.
type ReportMetadata struct {
	ApplicationName string `json:"app_name"`
	SandboxName     string `json:"sandbox_name"`
	Version         string `json:"version"`
}
