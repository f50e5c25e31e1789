package writers

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	gofpdf "github.com/go-pdf/fpdf"
	"github.com/raudyagdel/veracli/pkg/classify"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/taxonomy"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PDFConfig configures the PDF vulnerability report.
type PDFConfig struct {
	LookupURL string

	// FontFile is a TTF registered as defaults.FontFamily. When it cannot
	// be loaded the core Helvetica font is used.
	FontFile string

	Classifier *classify.Classifier
	Logger     *slog.Logger
}

// PDFWriter renders the vulnerability report as an A4 landscape document:
// a severity summary strip followed by the detail table.
type PDFWriter struct {
	config     PDFConfig
	noCompress bool
}

// NewPDFWriter returns a PDF writer.
func NewPDFWriter(config PDFConfig) *PDFWriter {
	config.Classifier = classifierOrDefault(config.Classifier)
	config.Logger = orDefault(config.Logger)
	return &PDFWriter{config: config}
}

// Format implements VulnerabilityWriter.
func (pw *PDFWriter) Format() string { return FormatPDF }

// pdfColumns are the detail table column widths in mm; they add up to the
// printable width of A4 landscape with 10mm margins.
var pdfColumns = []float64{62, 40, 40, 30, 60, 45}

var pdfFallbackHeaders = []string{"Name", "Installed", "Fixed In", "Type", "Vulnerability", "Severity"}

// Render implements VulnerabilityWriter.
func (pw *PDFWriter) Render(w io.Writer, report *VulnerabilityReport) error {
	if report == nil || report.Table == nil {
		return errors.New("pdf: empty report")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(!pw.noCompress)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(report.Title, true)
	pdf.SetCreator(defaults.ToolName+" "+defaults.Version, true)
	pdf.SetSubject(report.ID, true)

	family, tr := pw.font(pdf)
	titleCase := cases.Title(language.English)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(120, 120, 120)
		footer := fmt.Sprintf("Report %s generated %s", report.ID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
		pdf.CellFormat(200, 6, tr(footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(family, "B", 20)
	pdf.SetTextColor(31, 41, 55)
	pdf.CellFormat(0, 10, tr(report.Title), "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 11)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 7, tr(report.Subtitle), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pw.addSummary(pdf, family, report.Table)
	pdf.Ln(6)
	pw.addTable(pdf, family, tr, titleCase, report.Table)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

// font registers the configured TTF and returns the family to use together
// with the text translator it needs.
func (pw *PDFWriter) font(pdf *gofpdf.Fpdf) (string, func(string) string) {
	identity := func(s string) string { return s }
	core := pdf.UnicodeTranslatorFromDescriptor("")

	if pw.config.FontFile == "" {
		return "Helvetica", core
	}
	data, err := os.ReadFile(pw.config.FontFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", finding.ErrAssetMissing, pw.config.FontFile)
			pw.config.Logger.Debug("using core font", slog.String("error", err.Error()))
		} else {
			pw.config.Logger.Warn("cannot read font", slog.String("font", pw.config.FontFile), slog.String("error", err.Error()))
		}
		return "Helvetica", core
	}

	for _, style := range []string{"", "B"} {
		pdf.AddUTF8FontFromBytes(defaults.FontFamily, style, data)
	}
	if err := pdf.Error(); err != nil {
		pw.config.Logger.Warn("cannot load font", slog.String("font", pw.config.FontFile), slog.String("error", err.Error()))
		pdf.ClearError()
		return "Helvetica", core
	}
	return defaults.FontFamily, identity
}

func (pw *PDFWriter) addSummary(pdf *gofpdf.Fpdf, family string, table *finding.VulnerabilityTable) {
	const (
		boxW = 64
		boxH = 18
		gap  = 4.3
	)
	x, y := pdf.GetXY()
	for i, s := range finding.KnownSeverities {
		r, g, b := hexRGB(pw.config.Classifier.SeverityColor(taxonomy.ThemePDF, s))
		pdf.SetFillColor(r, g, b)
		left := x + float64(i)*(boxW+gap)
		pdf.Rect(left, y, boxW, boxH, "F")

		pdf.SetTextColor(255, 255, 255)
		pdf.SetXY(left+4, y+2)
		pdf.SetFont(family, "", 10)
		pdf.CellFormat(boxW-8, 6, string(s), "", 0, "L", false, 0, "")
		pdf.SetXY(left+4, y+8)
		pdf.SetFont(family, "B", 16)
		pdf.CellFormat(boxW-8, 8, strconv.Itoa(table.Tally.Get(s)), "", 0, "L", false, 0, "")
	}
	pdf.SetXY(x, y+boxH)
}

func (pw *PDFWriter) addTable(pdf *gofpdf.Fpdf, family string, tr func(string) string, titleCase cases.Caser, table *finding.VulnerabilityTable) {
	headers := table.Headers
	if len(headers) != len(pdfColumns) {
		headers = pdfFallbackHeaders
	}

	header := func() {
		pdf.SetFont(family, "B", 9)
		pdf.SetFillColor(243, 244, 246)
		pdf.SetTextColor(55, 65, 81)
		pdf.SetDrawColor(229, 231, 235)
		for i, h := range headers {
			pdf.CellFormat(pdfColumns[i], 8, tr(titleCase.String(h)), "B", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	header()

	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for i, rec := range table.Records {
		if pdf.GetY()+7 > pageH-bottom {
			pdf.AddPage()
			header()
		}

		pdf.SetFont(family, "", 9)
		if i%2 == 1 {
			pdf.SetFillColor(249, 250, 251)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(17, 24, 39)
		cells := []string{rec.Name, rec.InstalledVersion, rec.FixedInVersion, rec.Type}
		for j, v := range cells {
			pdf.CellFormat(pdfColumns[j], 7, tr(clip(pdf, v, pdfColumns[j])), "B", 0, "L", true, 0, "")
		}

		id := strings.ToUpper(rec.VulnerabilityID)
		pdf.SetTextColor(37, 99, 235)
		pdf.CellFormat(pdfColumns[4], 7, tr(clip(pdf, id, pdfColumns[4])), "B", 0, "L", true, 0, lookupLink(pw.config.LookupURL, rec.VulnerabilityID))

		r, g, b := hexRGB(pw.config.Classifier.SeverityColor(taxonomy.ThemePDF, rec.Severity))
		pdf.SetTextColor(r, g, b)
		pdf.SetFont(family, "B", 9)
		pdf.CellFormat(pdfColumns[5], 7, tr(string(rec.Severity)), "B", 1, "L", true, 0, "")
	}
}

// clip shortens s with an ellipsis until it fits width.
func clip(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// hexRGB parses "#RRGGBB". Anything else yields black.
func hexRGB(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
