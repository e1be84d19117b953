package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"time"
)

// Kind classifies scan errors by how the caller must react: fatal kinds
// abort the scan with no report, non-fatal kinds fold into per-file status.
type Kind string

const (
	// Fatal: the scan root does not exist or is not a directory.
	KindRootNotFound Kind = "root_not_found"
	// Partial: a subtree could not be read; the walk skips it and continues.
	KindPermissionDenied Kind = "permission_denied"
	// Non-fatal: no grammar for the file's extension; tallied, not scanned.
	KindUnsupportedLanguage Kind = "unsupported_language"
	// Non-fatal: one file failed to parse; recorded on the file.
	KindParseFailure Kind = "parse_failure"
	// Fatal: the global scan deadline elapsed.
	KindTimeout Kind = "timeout"
	// Fatal: a state the scan logic must never reach.
	KindInternalInvariant Kind = "internal_invariant"
)

// ScanError is the typed error for everything the analyzer reports upward.
type ScanError struct {
	Kind       Kind
	Path       string
	Underlying error
	Timestamp  time.Time
}

func newScanError(kind Kind, path string, err error) *ScanError {
	return &ScanError{
		Kind:       kind,
		Path:       path,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewRootNotFound reports a missing or unreadable scan root.
func NewRootNotFound(path string, err error) *ScanError {
	return newScanError(KindRootNotFound, path, err)
}

// NewPermissionDenied reports a subtree the walker could not enter.
func NewPermissionDenied(path string, err error) *ScanError {
	return newScanError(KindPermissionDenied, path, err)
}

// NewUnsupportedLanguage reports a file whose extension maps to no grammar.
func NewUnsupportedLanguage(path string) *ScanError {
	return newScanError(KindUnsupportedLanguage, path, nil)
}

// NewParseFailure reports a single file's parse failure.
func NewParseFailure(path string, err error) *ScanError {
	return newScanError(KindParseFailure, path, err)
}

// NewTimeout reports that the global scan deadline elapsed.
func NewTimeout(root string, err error) *ScanError {
	return newScanError(KindTimeout, root, err)
}

// NewInternalInvariant reports a violated internal assumption.
func NewInternalInvariant(msg string) *ScanError {
	return newScanError(KindInternalInvariant, "", errors.New(msg))
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	switch {
	case e.Path != "" && e.Underlying != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Underlying)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	case e.Underlying != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Underlying)
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ScanError) Unwrap() error {
	return e.Underlying
}

// Fatal reports whether the error must abort the whole scan.
func (e *ScanError) Fatal() bool {
	switch e.Kind {
	case KindRootNotFound, KindTimeout, KindInternalInvariant:
		return true
	default:
		return false
	}
}

// KindOf extracts the scan error kind from an error chain. The second
// return is false when no ScanError is present.
func KindOf(err error) (Kind, bool) {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

// IsFatal reports whether err carries a fatal scan error. Unclassified
// errors are treated as fatal so nothing fails silently.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var se *ScanError
	if errors.As(err, &se) {
		return se.Fatal()
	}
	return true
}

// IsPermission reports whether err is an OS permission failure, used by the
// walker to downgrade unreadable subtrees to recorded skips.
func IsPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
