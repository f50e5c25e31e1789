// Package finding provides the record types shared by the license and
// vulnerability pipelines.
//
// Records are plain values created once by an extractor and read by the
// classifier and the writers. Nothing in this package performs I/O.
//
// Usage:
//
//	var tally finding.SeverityTally
//	for _, r := range table.Records {
//	    tally.Add(r.Severity)
//	}
//	fmt.Println(tally.Get(finding.High))
package finding
