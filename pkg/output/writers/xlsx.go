package writers

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // icon assets are PNG
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/raudyagdel/veracli/pkg/classify"
	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/finding"
	"github.com/raudyagdel/veracli/pkg/iohelper"
	"github.com/xuri/excelize/v2"
)

// LicenseHeaders are the column labels of the license sheet.
var LicenseHeaders = []string{"Component Filename", "License", "License Risk"}

const (
	colComponent = 1
	colLicense   = 2
	colRisk      = 3
	// colRiskSpan is merged with colRisk when an icon is placed.
	colRiskSpan = 4
)

// pixelsPerPoint converts row heights to pixels at 96 DPI.
const pixelsPerPoint = 96.0 / 72.0

// XLSXConfig controls the license workbook layout. Zero values take the
// package defaults.
type XLSXConfig struct {
	SheetName     string
	FontFamily    string
	RowHeight     float64
	IconSize      int
	IconIndent    int
	ColumnPadding int
	OddFill       string
	EvenFill      string
	LinkColor     string

	// AssetDir is joined with relative icon paths.
	AssetDir string

	Logger *slog.Logger
}

func (c XLSXConfig) withDefaults() XLSXConfig {
	if c.SheetName == "" {
		c.SheetName = defaults.LicenseSheetName
	}
	if c.FontFamily == "" {
		c.FontFamily = defaults.FontFamily
	}
	if c.RowHeight <= 0 {
		c.RowHeight = defaults.LicenseRowHeight
	}
	if c.IconSize <= 0 {
		c.IconSize = defaults.LicenseIconSize
	}
	if c.IconIndent <= 0 {
		c.IconIndent = defaults.LicenseIconIndent
	}
	if c.ColumnPadding <= 0 {
		c.ColumnPadding = defaults.LicenseColumnPadding
	}
	if c.OddFill == "" {
		c.OddFill = defaults.LicenseOddFill
	}
	if c.EvenFill == "" {
		c.EvenFill = defaults.LicenseEvenFill
	}
	if c.LinkColor == "" {
		c.LinkColor = defaults.LicenseLinkColor
	}
	c.Logger = orDefault(c.Logger)
	return c
}

// XLSXWriter renders license records to a single-sheet workbook.
type XLSXWriter struct {
	classifier *classify.Classifier
	config     XLSXConfig
}

// NewXLSXWriter returns a writer using c for risk levels and ordering.
func NewXLSXWriter(c *classify.Classifier, config XLSXConfig) *XLSXWriter {
	return &XLSXWriter{
		classifier: classifierOrDefault(c),
		config:     config.withDefaults(),
	}
}

// cellKind selects one of the cached data-row styles.
type cellKind int

const (
	kindPlain cellKind = iota
	kindLink
	kindIndented
)

type styleKey struct {
	odd  bool
	kind cellKind
}

type sheetBuilder struct {
	f      *excelize.File
	cfg    XLSXConfig
	sheet  string
	styles map[styleKey]int
	widths map[int]int
}

// Build lays out records in classifier order. The caller must Close the
// returned file.
func (xw *XLSXWriter) Build(records []finding.LicenseRecord) (*excelize.File, error) {
	cfg := xw.config
	f := excelize.NewFile()

	b := &sheetBuilder{
		f:      f,
		cfg:    cfg,
		sheet:  cfg.SheetName,
		styles: make(map[styleKey]int),
		widths: make(map[int]int),
	}
	if err := b.build(xw.classifier, records); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (b *sheetBuilder) build(c *classify.Classifier, records []finding.LicenseRecord) error {
	if err := b.f.SetSheetName("Sheet1", b.sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := b.header(); err != nil {
		return err
	}

	for i, rec := range c.SortLicenses(records) {
		if err := b.row(c, i+1, rec); err != nil {
			return err
		}
	}

	for col := colComponent; col <= colRisk; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		width := float64(b.widths[col] + b.cfg.ColumnPadding)
		if err := b.f.SetColWidth(b.sheet, name, name, width); err != nil {
			return fmt.Errorf("set width of column %s: %w", name, err)
		}
	}
	return nil
}

func (b *sheetBuilder) header() error {
	row := make([]interface{}, len(LicenseHeaders))
	for i, h := range LicenseHeaders {
		row[i] = h
		b.measure(i+1, h)
	}
	if err := b.f.SetSheetRow(b.sheet, "A1", &row); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	style, err := b.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Family: b.cfg.FontFamily},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(LicenseHeaders), 1)
	return b.f.SetCellStyle(b.sheet, "A1", last, style)
}

// row writes data row idx (1-based, sheet row idx+1).
func (b *sheetBuilder) row(c *classify.Classifier, idx int, rec finding.LicenseRecord) error {
	r := idx + 1
	odd := idx%2 == 1
	risk := c.Risk(rec.RiskRating)

	component := cell(colComponent, r)
	license := cell(colLicense, r)
	riskCell := cell(colRisk, r)

	values := []interface{}{rec.ComponentFileName, rec.LicenseName, risk.Name}
	if err := b.f.SetSheetRow(b.sheet, component, &values); err != nil {
		return fmt.Errorf("write row %d: %w", r, err)
	}
	b.measure(colComponent, rec.ComponentFileName)
	b.measure(colLicense, rec.LicenseName)
	b.measure(colRisk, risk.Name)

	if err := b.f.SetRowHeight(b.sheet, r, b.cfg.RowHeight); err != nil {
		return fmt.Errorf("row %d height: %w", r, err)
	}

	if err := b.apply(component, odd, kindPlain); err != nil {
		return err
	}

	licenseKind := kindPlain
	if rec.LicenseURL != "" {
		if err := b.f.SetCellHyperLink(b.sheet, license, rec.LicenseURL, "External"); err != nil {
			return fmt.Errorf("link %s: %w", license, err)
		}
		licenseKind = kindLink
	}
	if err := b.apply(license, odd, licenseKind); err != nil {
		return err
	}

	riskKind := kindPlain
	if risk.HasIcon() && b.icon(riskCell, r, risk.Icon) {
		riskKind = kindIndented
	}
	return b.apply(riskCell, odd, riskKind)
}

// icon anchors the risk icon in cell and merges the cell with the next
// column. It reports whether the icon was placed. Failures never abort the
// row.
func (b *sheetBuilder) icon(cellName string, r int, path string) bool {
	log := b.cfg.Logger.With(slog.String("cell", cellName), slog.String("icon", path))
	if b.cfg.AssetDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(b.cfg.AssetDir, path)
	}

	width, height, err := imageSize(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("skipping risk icon", slog.String("error", fmt.Errorf("%w: %s", finding.ErrAssetMissing, path).Error()))
		return false
	}
	if err != nil {
		log.Warn("cannot read risk icon", slog.String("error", err.Error()))
		return false
	}

	size := float64(b.cfg.IconSize)
	rowPx := b.cfg.RowHeight * pixelsPerPoint
	opts := &excelize.GraphicOptions{
		ScaleX:  size / float64(width),
		ScaleY:  size / float64(height),
		OffsetX: 2,
		OffsetY: max(int((rowPx-size)/2), 0),
	}
	if err := b.f.AddPicture(b.sheet, cellName, path, opts); err != nil {
		log.Warn("cannot place risk icon", slog.String("error", err.Error()))
		return false
	}
	if err := b.f.MergeCell(b.sheet, cellName, cell(colRiskSpan, r)); err != nil {
		log.Warn("cannot merge risk cell", slog.String("error", err.Error()))
	}
	return true
}

func (b *sheetBuilder) apply(cellName string, odd bool, kind cellKind) error {
	key := styleKey{odd: odd, kind: kind}
	id, ok := b.styles[key]
	if !ok {
		var err error
		id, err = b.f.NewStyle(b.style(key))
		if err != nil {
			return fmt.Errorf("style for %s: %w", cellName, err)
		}
		b.styles[key] = id
	}
	return b.f.SetCellStyle(b.sheet, cellName, cellName, id)
}

func (b *sheetBuilder) style(key styleKey) *excelize.Style {
	fill := b.cfg.EvenFill
	if key.odd {
		fill = b.cfg.OddFill
	}
	s := &excelize.Style{
		Font:      &excelize.Font{Family: b.cfg.FontFamily},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}
	switch key.kind {
	case kindLink:
		s.Font.Color = b.cfg.LinkColor
		s.Font.Underline = "single"
	case kindIndented:
		s.Alignment.Indent = b.cfg.IconIndent
	}
	return s
}

func (b *sheetBuilder) measure(col int, v string) {
	if n := utf8.RuneCountInString(v); n > b.widths[col] {
		b.widths[col] = n
	}
}

// Write renders records as an xlsx document to w.
func (xw *XLSXWriter) Write(w io.Writer, records []finding.LicenseRecord) error {
	f, err := xw.Build(records)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteFile renders records to path, replacing any existing file only on
// success.
func (xw *XLSXWriter) WriteFile(path string, records []finding.LicenseRecord) error {
	if err := iohelper.WriteAtomic(path, func(w io.Writer) error {
		return xw.Write(w, records)
	}); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("decode %s: empty image", path)
	}
	return cfg.Width, cfg.Height, nil
}
