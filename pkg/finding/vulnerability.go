package finding

// VulnerabilityRecord is one row of the scanner's Vulnerabilities table.
type VulnerabilityRecord struct {
	Name             string   `json:"name"`
	InstalledVersion string   `json:"installed_version"`
	FixedInVersion   string   `json:"fixed_in_version"`
	Type             string   `json:"type"`
	VulnerabilityID  string   `json:"vulnerability_id"`
	Severity         Severity `json:"severity"`
}

// VulnerabilityTable is the parsed Vulnerabilities section: the column
// labels from its header row, the records in input order and the tally of
// known severities.
type VulnerabilityTable struct {
	Headers []string
	Records []VulnerabilityRecord
	Tally   SeverityTally

	// Skipped counts lines that could not be mapped to a record.
	Skipped int
}
