package errors

import (
	"regexp"
	"unicode"
)

// maxLabelLength bounds vertex labels; bibliographic labels (author names,
// "FIRSTAUTHOR YEAR SOURCE" references) are far shorter.
const maxLabelLength = 512

// ValidateLabel validates a matrix row/column label.
//
// Labels become vertex labels, Pajek vertex names and SVG text, so the rules
// reject what would corrupt those outputs:
//   - No empty labels
//   - No control characters (newlines would split Pajek records)
//   - No double quotes (Pajek quotes labels without escaping)
//   - Maximum length of 512 bytes
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "label cannot be empty")
	}

	if len(label) > maxLabelLength {
		return New(ErrCodeInvalidLabel, "label too long (max %d characters)", maxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "label %q contains control characters", label)
		}
		if r == '"' {
			return New(ErrCodeInvalidLabel, "label %q contains a double quote", label)
		}
	}

	return nil
}

var attrNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]{0,63}$`)

// ValidateAttributeName validates the name of an edge weight attribute.
// Names must start with a letter or underscore and may contain letters,
// digits, underscores, dots and dashes.
func ValidateAttributeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidOption, "attribute name cannot be empty")
	}
	if !attrNameRe.MatchString(name) {
		return New(ErrCodeInvalidOption, "invalid attribute name: %q", name)
	}
	return nil
}
