// Package defaults provides canonical default values for the entire codebase.
// This is the single source of truth for file names, asset paths, styling
// constants and timeouts.
//
// Usage:
//
//	cfg.License.RowHeight = defaults.LicenseRowHeight
//	path := filepath.Join(dir, defaults.VulnerabilityHTMLFile)
package defaults

import "time"

// Version is the current veracli version
const Version = "1.2.0"

// ToolName is the program name shown in usage and banners.
const ToolName = "veracli"

// ============================================================================
// FILE NAMES
// ============================================================================

const (
	// LicenseReportPrefix starts every license workbook name.
	LicenseReportPrefix = "licensereport"

	// LicenseReportExt is the license workbook extension.
	LicenseReportExt = ".xlsx"

	// VulnerabilityHTMLFile is the fixed dashboard file name.
	VulnerabilityHTMLFile = "vulnerabilities_report.html"

	// VulnerabilityPDFFile is the fixed PDF report file name.
	VulnerabilityPDFFile = "vulnerabilities_report.pdf"

	// ScanOutputFile is where the scan table is captured by default.
	ScanOutputFile = "scan_output.txt"

	// ConfigFile is the default YAML configuration path.
	ConfigFile = "veracli.yaml"

	// TimestampLayout is appended to license workbook names on request.
	TimestampLayout = "2006-01-02_15-04-05"
)

// ============================================================================
// ASSETS
// ============================================================================
//
// Paths are relative to the asset directory (current directory unless
// configured). Every asset is optional.
// ============================================================================

// Icons for the built-in risk levels.
const (
	IconUnassessable = "img/unassessable.png"
	IconLow          = "img/low.png"
	IconMedium       = "img/medium.png"
	IconHigh         = "img/high.png"

	// FontFile is the TTF embedded in PDF reports when present.
	FontFile = "font/SoleilRegular.ttf"

	// FontFamily is the spreadsheet font family name.
	FontFamily = "Soleil"
)

// ============================================================================
// LICENSE WORKBOOK STYLE
// ============================================================================

const (
	LicenseSheetName = "Licenses"

	// LicenseRowHeight is the data row height in points.
	LicenseRowHeight = 25.0

	// LicenseIconSize is the rendered icon edge in pixels.
	LicenseIconSize = 25

	// LicenseIconIndent shifts risk text past the icon.
	LicenseIconIndent = 4

	// LicenseColumnPadding is added to the longest cell per column.
	LicenseColumnPadding = 2

	LicenseOddFill   = "F9F9F9"
	LicenseEvenFill  = "FFFFFF"
	LicenseLinkColor = "4E9EBF"
)

// ============================================================================
// VULNERABILITY DASHBOARD
// ============================================================================

const (
	// VulnerabilityLookupURL formats an upper-cased vulnerability ID.
	VulnerabilityLookupURL = "https://vulners.com/osv/OSV:%s"

	DashboardTitle    = "Incident Dashboard"
	DashboardSubtitle = "Overview of all incidents and their current status"

	// FormatHTML and FormatPDF name the vulnerability report formats.
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

// ============================================================================
// EXTERNAL SCANNER
// ============================================================================

const (
	// ScannerExecutable is resolved on PATH.
	ScannerExecutable = "veracode"

	// ScanFormat is the only output format the text extractor reads.
	ScanFormat = "table"

	// ScanTimeout bounds one external scan.
	ScanTimeout = 30 * time.Minute

	// ExitCheckInverted treats scanner exit status 0 as failure.
	ExitCheckInverted = "inverted"

	// ExitCheckConventional treats only exit status 0 as success.
	ExitCheckConventional = "conventional"

	// ShutdownGrace is how long a signal-cancelled scan may take to exit.
	ShutdownGrace = 5 * time.Second
)
