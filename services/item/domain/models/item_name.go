package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ghuser/itemservice/services/item/domain"
)

// ItemName is a value object representing a valid item name.
// Encapsulates validation rules: surrounding whitespace trimmed, NFC
// normalized, 1 <= rune count <= 255.
type ItemName string

const minItemNameLength = 1

// MaxItemNameLength is the longest name, in runes, an Item may carry.
const MaxItemNameLength = 255

// NewItemName constructs a valid ItemName or returns a *domain.FieldError
// wrapping domain.ErrInvalidItemName if constraints are violated.
func NewItemName(s string) (ItemName, error) {
	s = norm.NFC.String(strings.TrimSpace(s))
	n := utf8.RuneCountInString(s)
	if n < minItemNameLength {
		return "", &domain.FieldError{
			Field:      "name",
			Constraint: "notblank",
			Message:    "Must not be blank",
			Err:        domain.ErrInvalidItemName,
		}
	}
	if n > MaxItemNameLength {
		return "", &domain.FieldError{
			Field:      "name",
			Constraint: "max",
			Param:      fmt.Sprint(MaxItemNameLength),
			Message:    fmt.Sprintf("Maximum length is %d", MaxItemNameLength),
			Err:        domain.ErrInvalidItemName,
		}
	}
	return ItemName(s), nil
}

// String returns the underlying string value.
func (n ItemName) String() string {
	return string(n)
}
