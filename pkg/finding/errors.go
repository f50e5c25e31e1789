package finding

import "errors"

// Sentinel errors for pipeline failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrSchemaMismatch indicates the XML root element is not the
	// namespaced detailedreport element.
	ErrSchemaMismatch = errors.New("finding: schema mismatch")

	// ErrSectionNotFound indicates the scan text output has no
	// Vulnerabilities section.
	ErrSectionNotFound = errors.New("finding: vulnerabilities section not found")

	// ErrToolMissing indicates the external scan executable could not
	// be found or started.
	ErrToolMissing = errors.New("finding: scan executable not found")

	// ErrToolFailure indicates the external scan executable reported a
	// failure.
	ErrToolFailure = errors.New("finding: scan executable failed")

	// ErrAssetMissing indicates an optional icon or font file is absent.
	// It never aborts a render.
	ErrAssetMissing = errors.New("finding: asset missing")
)
