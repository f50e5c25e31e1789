// Package extract turns scanner output into finding records.
//
// Two inputs are supported:
//
//   - the detailed report XML export (ParseDetailedReport), from which
//     report metadata and software-composition license records are read;
//   - the text table printed by "veracode scan --format table"
//     (ParseScanTable), from which the Vulnerabilities section is read.
//
// Extraction is a pure function of its input. Ordering and classification
// are left to package classify.
package extract
