package extract

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/raudyagdel/veracli/pkg/finding"
	"golang.org/x/net/html/charset"
)

// ReportNamespace is the XML namespace of the detailed report export.
const ReportNamespace = "https://www.veracode.com/schema/reports/export/1.0"

// element is a minimal in-memory XML tree node.
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*element
}

// attr returns the value of the unqualified attribute local.
func (e *element) attr(local string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) is(local string) bool {
	return e.name.Space == ReportNamespace && e.name.Local == local
}

// child returns the first direct child named local in the report namespace.
func (e *element) child(local string) *element {
	for _, c := range e.children {
		if c.is(local) {
			return c
		}
	}
	return nil
}

// childrenNamed returns all direct children named local, in document order.
func (e *element) childrenNamed(local string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.is(local) {
			out = append(out, c)
		}
	}
	return out
}

// descendant returns the first element named local below e, depth-first
// in document order.
func (e *element) descendant(local string) *element {
	for _, c := range e.children {
		if c.is(local) {
			return c
		}
		if d := c.descendant(local); d != nil {
			return d
		}
	}
	return nil
}

// DetailedReport is a parsed detailed report document.
type DetailedReport struct {
	root *element
}

// ParseDetailedReport reads a detailed report XML document. The root
// element must be detailedreport in ReportNamespace; any other root
// returns an error wrapping finding.ErrSchemaMismatch.
func ParseDetailedReport(r io.Reader) (*DetailedReport, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		stack []*element
		root  *element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode detailed report: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name, attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("decode detailed report: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("decode detailed report: %w", io.ErrUnexpectedEOF)
	}
	if !root.is("detailedreport") {
		return nil, fmt.Errorf("%w: root element is {%s}%s, want {%s}detailedreport",
			finding.ErrSchemaMismatch, root.name.Space, root.name.Local, ReportNamespace)
	}
	return &DetailedReport{root: root}, nil
}

// ParseDetailedReportFile opens path and parses it with ParseDetailedReport.
func ParseDetailedReportFile(path string) (*DetailedReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open detailed report: %w", err)
	}
	defer f.Close()

	doc, err := ParseDetailedReport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ExtractMetadata returns the application identity from the root
// attributes. Absent attributes are empty.
func ExtractMetadata(d *DetailedReport) finding.ReportMetadata {
	app, _ := d.root.attr("app_name")
	sandbox, _ := d.root.attr("sandbox_name")
	version, _ := d.root.attr("version")
	return finding.ReportMetadata{
		ApplicationName: app,
		SandboxName:     sandbox,
		Version:         version,
	}
}

// ExtractLicenses returns one record per license element under
// software_composition_analysis/vulnerable_components/component/licenses,
// in document order. A report without those sections yields an empty,
// non-nil slice.
func ExtractLicenses(d *DetailedReport) []finding.LicenseRecord {
	records := make([]finding.LicenseRecord, 0)

	sca := d.root.descendant("software_composition_analysis")
	if sca == nil {
		return records
	}
	vulnerable := sca.child("vulnerable_components")
	if vulnerable == nil {
		return records
	}

	for _, component := range vulnerable.childrenNamed("component") {
		fileName, _ := component.attr("file_name")
		licenses := component.child("licenses")
		if licenses == nil {
			continue
		}
		for _, lic := range licenses.childrenNamed("license") {
			rating, ok := lic.attr("risk_rating")
			if !ok {
				rating = finding.NoRiskRating
			}
			name, _ := lic.attr("name")
			spdx, _ := lic.attr("spdx_id")
			url, _ := lic.attr("license_url")
			records = append(records, finding.LicenseRecord{
				ComponentFileName: fileName,
				LicenseName:       name,
				SPDXID:            spdx,
				LicenseURL:        url,
				RiskRating:        rating,
			})
		}
	}
	return records
}
