// Package report collects non-fatal degradations from a map generation run
// and defines the error taxonomy for fatal ones.
package report

import (
	"fmt"

	"github.com/google/uuid"
)

// WarningKind categorizes a non-fatal degradation.
type WarningKind string

const (
	WarnDataUnavailable    WarningKind = "data_unavailable"
	WarnGeometryDegeneracy WarningKind = "geometry_degeneracy"
	WarnLayoutAdjusted     WarningKind = "layout_adjusted"
	WarnPlacementDegraded  WarningKind = "placement_degraded"
	WarnReadability        WarningKind = "readability"
)

// Warning is a single recorded degradation. HexID and Element are set when
// the warning is tied to a specific map element.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
	HexID   string      `json:"hex_id,omitempty"`
	Element string      `json:"element,omitempty"`
}

// Report accumulates warnings across one generation run. It is returned
// alongside the composed scene and never thrown away.
type Report struct {
	RunID          string    `json:"run_id"`
	Warnings       []Warning `json:"warnings"`
	SliversDropped int       `json:"slivers_dropped"`
	SyntheticHexes int       `json:"synthetic_hexes"`
}

// New creates an empty report with a fresh run ID.
func New() *Report {
	return &Report{RunID: uuid.NewString()}
}

// Warn records a warning.
func (r *Report) Warn(kind WarningKind, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// WarnElement records a warning tied to a hex or named element.
func (r *Report) WarnElement(kind WarningKind, hexID, element, format string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		HexID:   hexID,
		Element: element,
	})
}

// CountSliver tallies a dropped near-zero-area clip fragment. Slivers are
// dropped silently but counted.
func (r *Report) CountSliver() {
	r.SliversDropped++
}

// Has reports whether at least one warning of the given kind was recorded.
func (r *Report) Has(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// ConfigurationError is fatal and surfaced before any rendering starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Configf builds a ConfigurationError for a named field.
func Configf(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// LayoutOverflowError is raised after the single shrink attempt fails to
// produce panel regions that satisfy minimum readable sizes.
type LayoutOverflowError struct {
	Reason string
}

func (e *LayoutOverflowError) Error() string {
	return "panel layout overflow: " + e.Reason
}
