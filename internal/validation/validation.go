// Package validation checks ledger invariants on records before they are
// persisted, and user-supplied paths before they are read.
package validation

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/merchant"
	"fjacquet/sms-ledger/internal/models"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidateTransaction returns a *ingesterror.ValidationError for the first
// invariant tx violates.
func ValidateTransaction(tx models.ParsedTransaction) error {
	switch {
	case strings.TrimSpace(tx.ExternalID) == "":
		return &ingesterror.ValidationError{Field: "external_id", Reason: "cannot be empty"}
	case !tx.Amount.IsPositive():
		return &ingesterror.ValidationError{Field: "amount", Reason: fmt.Sprintf("must be positive, got %s", tx.Amount)}
	case tx.Confidence < 0 || tx.Confidence > 1 || tx.Confidence != tx.Confidence:
		return &ingesterror.ValidationError{Field: "confidence", Reason: fmt.Sprintf("must be within [0, 1], got %v", tx.Confidence)}
	case tx.Timestamp.IsZero():
		return &ingesterror.ValidationError{Field: "timestamp", Reason: "cannot be zero"}
	case strings.TrimSpace(tx.RawMerchant) == "":
		return &ingesterror.ValidationError{Field: "raw_merchant", Reason: "cannot be empty"}
	case tx.NormalizedMerchant != merchant.Normalize(tx.RawMerchant):
		return &ingesterror.ValidationError{Field: "normalized_merchant", Reason: "does not match the normalized raw merchant"}
	case strings.TrimSpace(tx.Category) == "":
		return &ingesterror.ValidationError{Field: "category", Reason: "cannot be empty"}
	case !hexColor.MatchString(tx.CategoryColor):
		return &ingesterror.ValidationError{Field: "category_color", Reason: fmt.Sprintf("must be #RRGGBB, got %q", tx.CategoryColor)}
	}
	return nil
}

// IsValidInputFile checks that path exists and is a regular file.
func IsValidInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidFilePermissions checks if the given file mode is valid for sensitive files.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
