package design

import (
	"fmt"
	"math"
)

// ValidationSeverity indicates whether a validation finding blocks geometry
// construction or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks construction
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Subject  string             // e.g. `wing "right" segment 1`; empty if project-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Subject, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking finding was produced.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs the structural and geometric checks on p and separates
// errors from warnings. It never mutates the project.
func Validate(p *Project) ValidationResult {
	var findings []ValidationError
	findings = append(findings, validateStructure(p)...)
	findings = append(findings, validateGeometry(p)...)

	var result ValidationResult
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, f)
		} else {
			result.Errors = append(result.Errors, f)
		}
	}
	return result
}

func wingSubject(w *Wing) string {
	return fmt.Sprintf("wing %q", w.Name)
}

func segmentSubject(w *Wing, index int) string {
	return fmt.Sprintf("wing %q segment %d", w.Name, index)
}

// validateStructure checks handles, names and wing population.
func validateStructure(p *Project) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for _, c := range p.components {
		if seen[c.Name] {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("component %q", c.Name),
				Message:  "duplicate component name",
				Severity: SeverityError,
			})
		}
		seen[c.Name] = true
	}

	for _, w := range p.wings {
		if _, err := p.Component(w.Component); err != nil {
			errs = append(errs, ValidationError{Subject: wingSubject(w), Message: err.Error(), Severity: SeverityError})
		}
		switch len(w.Segments) {
		case 0:
			errs = append(errs, ValidationError{
				Subject:  wingSubject(w),
				Message:  "wing has no segments",
				Severity: SeverityError,
			})
		case 1:
			errs = append(errs, ValidationError{
				Subject:  wingSubject(w),
				Message:  "single-segment wing has no surfaces; only its profile can be exported",
				Severity: SeverityWarning,
			})
		}
		for i, sid := range w.Segments {
			s, err := p.Segment(sid)
			if err != nil {
				errs = append(errs, ValidationError{Subject: segmentSubject(w, i), Message: err.Error(), Severity: SeverityError})
				continue
			}
			if _, err := p.Airfoil(s.Airfoil); err != nil {
				errs = append(errs, ValidationError{Subject: segmentSubject(w, i), Message: err.Error(), Severity: SeverityError})
			}
		}
	}
	return errs
}

// validateGeometry checks parameter ranges and span ordering.
func validateGeometry(p *Project) []ValidationError {
	var errs []ValidationError

	for _, a := range p.airfoils {
		if err := a.Params.Validate(); err != nil {
			errs = append(errs, ValidationError{
				Subject:  fmt.Sprintf("airfoil %q", a.Name),
				Message:  err.Error(),
				Severity: SeverityError,
			})
		}
	}

	for _, w := range p.wings {
		prevZ := 0.0
		for i, sid := range w.Segments {
			s, err := p.Segment(sid)
			if err != nil {
				continue // reported by validateStructure
			}
			subject := segmentSubject(w, i)
			if name, ok := nonFinite(s); ok {
				errs = append(errs, ValidationError{
					Subject:  subject,
					Message:  fmt.Sprintf("%s is not a finite number", name),
					Severity: SeverityError,
				})
				continue
			}
			if s.Placement.Scale <= 0 {
				errs = append(errs, ValidationError{
					Subject:  subject,
					Message:  fmt.Sprintf("scale is %.4f, must be positive", s.Placement.Scale),
					Severity: SeverityError,
				})
			}
			if s.TanAccel < 0 {
				errs = append(errs, ValidationError{
					Subject:  subject,
					Message:  fmt.Sprintf("tan_accel is %.4f, must not be negative", s.TanAccel),
					Severity: SeverityError,
				})
			}
			if s.Continuity.Tangent() && s.TanAccel == 0 {
				errs = append(errs, ValidationError{
					Subject:  subject,
					Message:  fmt.Sprintf("%s requested with zero tan_accel; bridge handle coincides with the corner", s.Continuity),
					Severity: SeverityWarning,
				})
			}
			if s.Continuity == G2 {
				errs = append(errs, ValidationError{
					Subject:  subject,
					Message:  "G2 is built with tangent handles only; curvature is not matched",
					Severity: SeverityWarning,
				})
			}
			if i > 0 && s.Placement.Z <= prevZ {
				errs = append(errs, ValidationError{
					Subject:  subject,
					Message:  fmt.Sprintf("span station %.4f does not increase past %.4f", s.Placement.Z, prevZ),
					Severity: SeverityWarning,
				})
			}
			prevZ = s.Placement.Z
		}
	}
	return errs
}

// nonFinite returns the first NaN or infinite placement value of s.
func nonFinite(s *Segment) (string, bool) {
	pl := s.Placement
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"x", pl.X}, {"y", pl.Y}, {"z", pl.Z},
		{"incidence", pl.Incidence}, {"scale", pl.Scale},
		{"tan_accel", s.TanAccel},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return v.name, true
		}
	}
	return "", false
}
