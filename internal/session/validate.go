package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/interlude/internal/models"
)

const (
	minInputLength = 1
	maxInputLength = 50
)

// inputError carries a message meant for the user as is.
type inputError string

func (e inputError) Error() string { return string(e) }

// validateInput accepts answers of 1 to 50 characters.
func validateInput(s string) error {
	n := utf8.RuneCountInString(s)
	if n < minInputLength || n > maxInputLength {
		return inputError(fmt.Sprintf("Input must be between %d and %d characters.", minInputLength, maxInputLength))
	}
	return nil
}

// parseRating accepts a number in [0, 5].
func parseRating(s string) (float64, error) {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(r) {
		return 0, inputError("Invalid rating. Please enter a number between 0 and 5.")
	}
	if !models.ValidRating(r) {
		return 0, inputError("Please enter a rating between 0 and 5.")
	}
	return r, nil
}

func validateRating(s string) error {
	_, err := parseRating(s)
	return err
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
