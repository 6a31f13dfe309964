// Package label parses and validates target labels of the form
// cell//package/path:name, which identify the owner of every action.
package label

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for label parsing.
var (
	// ErrEmptyLabel indicates an empty label string.
	ErrEmptyLabel = errors.New("label cannot be empty")

	// ErrMissingSeparator indicates a label without the "//" cell separator
	// or without the ":" name separator.
	ErrMissingSeparator = errors.New("label must have the form cell//package:name")
)

// validNameChars lists every byte permitted in a target name.
const validNameChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_,.=-/~@!+$"

var nameCharSet = func() [256]bool {
	var set [256]bool
	for i := 0; i < len(validNameChars); i++ {
		set[validNameChars[i]] = true
	}
	return set
}()

// InvalidNameError reports a target name with forbidden characters.
type InvalidNameError struct {
	Name string
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid target name `%s`. Target names are non-empty strings and can only contain "+
		"alpha numeric characters, and symbols `,`, `.`, `=`, `-`, `/`, `~`, `@`, `!`, `+`, `$`, and `_`. "+
		"No other characters are allowed.", e.Name)
}

// ProvidersLabelError reports a providers label ("name[sub]") used where a
// plain target name is expected.
type ProvidersLabelError struct {
	Name string
}

// Error implements the error interface.
func (e *ProvidersLabelError) Error() string {
	return fmt.Sprintf("found inner providers label when target names are expected. "+
		"remove `[...]` portion of the target name from `%s`", e.Name)
}

// SpecialCharacterIssue is a soft validation issue: the name is accepted but
// contains a discouraged character.
type SpecialCharacterIssue struct {
	Name      string
	Character string
}

// Error implements the error interface.
func (e *SpecialCharacterIssue) Error() string {
	return fmt.Sprintf("target name `%s` has special character `%s`, which is discouraged", e.Name, e.Character)
}

// ErrDotDotDot is the soft issue for a target literally named "...".
var ErrDotDotDot = errors.New("target name must not be equal to `...`")

// ValidateName checks a target name against the allowed character set.
func ValidateName(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name}
	}
	for i := 0; i < len(name); i++ {
		if !nameCharSet[name[i]] {
			return badNameError(name)
		}
	}
	return nil
}

func badNameError(name string) error {
	if _, rest, ok := strings.Cut(name, "["); ok && strings.Contains(rest, "]") {
		return &ProvidersLabelError{Name: name}
	}
	return &InvalidNameError{Name: name}
}

// SoftIssues returns discouraged-but-valid properties of a name.
// Callers typically log these rather than fail.
func SoftIssues(name string) []error {
	var issues []error
	if name == "..." {
		issues = append(issues, ErrDotDotDot)
	}
	if strings.Contains(name, ",") {
		issues = append(issues, &SpecialCharacterIssue{Name: name, Character: ","})
	}
	if strings.Contains(name, "$") {
		issues = append(issues, &SpecialCharacterIssue{Name: name, Character: "$"})
	}
	return issues
}

// Label identifies a target: cell//package:name.
// Label is comparable and can be used as a map key.
type Label struct {
	Cell    string
	Package string
	Name    string
}

// New builds a label after validating its target name.
func New(cell, pkg, name string) (Label, error) {
	if err := ValidateName(name); err != nil {
		return Label{}, err
	}
	return Label{Cell: cell, Package: pkg, Name: name}, nil
}

// MustParse is Parse for static labels. Panics on error.
func MustParse(s string) Label {
	l, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("label: %v", err))
	}
	return l
}

// Parse parses cell//package/path:name.
func Parse(s string) (Label, error) {
	if s == "" {
		return Label{}, ErrEmptyLabel
	}
	cell, rest, ok := strings.Cut(s, "//")
	if !ok {
		return Label{}, fmt.Errorf("%w: %q", ErrMissingSeparator, s)
	}
	idx := strings.LastIndex(rest, ":")
	if idx < 0 {
		return Label{}, fmt.Errorf("%w: %q", ErrMissingSeparator, s)
	}
	return New(cell, rest[:idx], rest[idx+1:])
}

// String renders the label in its canonical form.
func (l Label) String() string {
	return l.Cell + "//" + l.Package + ":" + l.Name
}

// IsZero reports whether l is the zero label.
func (l Label) IsZero() bool {
	return l == Label{}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
