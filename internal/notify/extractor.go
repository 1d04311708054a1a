package notify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rfcarvalho/gastos/internal/model"
)

var (
	// Brazilian currency format: "R$ 1.234,56". Thousands groups of exactly
	// three digits, decimal comma with two fraction digits.
	amountRe = regexp.MustCompile(`R\$\s?(\d{1,3}(?:\.\d{3})*,\d{2})`)

	// Merchant phrase after the preposition "em". The span allows letters
	// (including accented), digits, whitespace and &._*- so that merchants
	// like "NETFLIX.COM" or "PAG*JoseSilva" survive intact.
	merchantRe = regexp.MustCompile(`(?i)(?:^|\s)em\s+([0-9\p{L}][0-9\p{L}&._*\- ]*)`)

	// Terminators cut the captured span: the word "para", or sentence-ending
	// punctuation. A period only terminates before whitespace or at the end,
	// so dots embedded in a merchant name are kept.
	paraRe        = regexp.MustCompile(`(?i)(?:^|\s)para(?:\s|$)`)
	sentenceEndRe = regexp.MustCompile(`[!?;]|\.\s|\.$`)
)

// ExtractAmount finds the purchase value in an alert message. A missing or
// malformed amount is not an error; it returns nil and the record is stored
// without a value.
func ExtractAmount(message string) *float64 {
	m := amountRe.FindStringSubmatch(message)
	if m == nil {
		return nil
	}
	raw := strings.ReplaceAll(m[1], ".", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ExtractDescription finds the merchant/location phrase in an alert message.
// When no "em ..." phrase exists the sentinel description is returned so the
// record can still be inserted and later reviewed.
func ExtractDescription(message string) string {
	m := merchantRe.FindStringSubmatch(message)
	if m == nil {
		return model.DescriptionUnknown
	}
	desc := m[1]
	if loc := paraRe.FindStringIndex(desc); loc != nil {
		desc = desc[:loc[0]]
	}
	if loc := sentenceEndRe.FindStringIndex(desc); loc != nil {
		desc = desc[:loc[0]]
	}
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return model.DescriptionUnknown
	}
	return desc
}

// Extract runs both field extractions over an accepted notification message.
// The two are independent and best-effort: a missing amount does not block
// the description and vice versa.
func Extract(message string) (*float64, string) {
	return ExtractAmount(message), ExtractDescription(message)
}
