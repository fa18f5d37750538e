// Package lookup defines the outcome of a single scraping or translation
// lookup. Fetchers return a Result instead of encoding failures in the
// returned text, and callers branch on Status.
package lookup

import (
	"errors"
	"strings"
)

// Status tags the outcome of a lookup
type Status int

const (
	// StatusFound means the lookup produced a value
	StatusFound Status = iota
	// StatusNotFound means the remote page was fetched but held no usable content
	StatusNotFound
	// StatusFailed means the remote page could not be fetched
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one lookup.
//
// Err is always set for StatusFailed. On a found result a non-nil Err lists
// the partial lookups that were skipped while building Value.
type Result struct {
	Status Status
	Value  string
	Err    error
}

// Found returns a successful result
func Found(value string) Result {
	return Result{Status: StatusFound, Value: value}
}

// NotFound returns a result for a page without usable content
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

// Failed returns a result for a lookup that could not reach its source
func Failed(err error) Result {
	if err == nil {
		err = errors.New("lookup failed")
	}
	return Result{Status: StatusFailed, Err: err}
}

// IsFound reports whether the lookup produced a value
func (r Result) IsFound() bool {
	return r.Status == StatusFound
}

// Text returns the value of a found result and an empty string otherwise
func (r Result) Text() string {
	if r.Status != StatusFound {
		return ""
	}
	return r.Value
}

// WithErr returns a copy of r with err attached to it
func (r Result) WithErr(err error) Result {
	r.Err = errors.Join(r.Err, err)
	return r
}

// Describe returns a short human readable explanation of a non-clean result,
// or an empty string for a clean found result.
func (r Result) Describe() string {
	switch {
	case r.Status == StatusFound && r.Err == nil:
		return ""
	case r.Status == StatusFound:
		return "partial: " + oneLine(r.Err)
	case r.Status == StatusNotFound && r.Err == nil:
		return r.Status.String()
	default:
		return r.Status.String() + ": " + oneLine(r.Err)
	}
}

// Join combines results of independent lookups whose values are rendered
// side by side. The combined result is found only when every part is found;
// otherwise it takes the status of the first part that was not.
func Join(sep string, results ...Result) Result {
	values := make([]string, 0, len(results))
	var errs []error
	for _, r := range results {
		if r.Status != StatusFound {
			return Result{Status: r.Status, Err: errors.Join(append(errs, r.Err)...)}
		}
		values = append(values, r.Value)
		errs = append(errs, r.Err)
	}
	return Result{Status: StatusFound, Value: strings.Join(values, sep), Err: errors.Join(errs...)}
}

func oneLine(err error) string {
	if err == nil {
		return ""
	}
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}
