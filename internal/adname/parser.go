// Package adname decodes the structured identifiers embedded in ad names.
//
// Ad names are pipe-delimited, e.g. "A100 | V356 | C100 | P:AP":
//
//	A<digits>                       funnel identifier (lander)
//	V<digits> or IMG<digits>.<d>    creative ID
//	C<digits>                       copy ID
//	P:<code>                        product code
//
// Segments may appear in any order and unknown segments are ignored.
package adname

import (
	"regexp"
	"strings"

	"github.com/ignite/creative-analytics/internal/domain"
)

// Delimiter separates ad-name segments.
const Delimiter = "|"

// ProductPrefix precedes the product code in an ad name.
const ProductPrefix = "P:"

// Token names, in the order missing tokens are reported.
const (
	TokenFunnelIdentifier = "funnel_identifier"
	TokenCreativeID       = "creative_id"
	TokenCopyID           = "copy_id"
	TokenProductCode      = "product_code"
)

// MissingTokensPrefix starts every parse-failure reason.
const MissingTokensPrefix = "Missing required token(s): "

var (
	funnelRegex   = regexp.MustCompile(`(?i)^A\d+$`)
	creativeRegex = regexp.MustCompile(`(?i)^(IMG\d+\.\d+|V\d+)$`)
	copyRegex     = regexp.MustCompile(`(?i)^C\d+$`)
	productRegex  = regexp.MustCompile(`^P:([A-Za-z0-9_-]+)$`)
)

// Result is the outcome of Parse. Parsed always holds whatever was found;
// Reason is set only when OK is false.
type Result struct {
	OK     bool
	Parsed domain.ParsedAdName
	Reason string
}

// Segments splits an ad name on the delimiter, trims each segment and drops
// empty ones.
func Segments(adName string) []string {
	parts := strings.Split(adName, Delimiter)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Parse extracts the four identifiers from an ad name. Each segment is
// claimed by the first still-empty token type it matches, checked in the
// order funnel, creative, copy, product. Parsing succeeds only when all
// four are found.
func Parse(adName string) Result {
	var parsed domain.ParsedAdName

	for _, seg := range Segments(adName) {
		switch {
		case parsed.FunnelIdentifier == "" && funnelRegex.MatchString(seg):
			parsed.FunnelIdentifier = strings.ToUpper(seg)
		case parsed.CreativeID == "" && creativeRegex.MatchString(seg):
			parsed.CreativeID = strings.ToUpper(seg)
		case parsed.CopyID == "" && copyRegex.MatchString(seg):
			parsed.CopyID = strings.ToUpper(seg)
		case parsed.ProductCode == "" && productRegex.MatchString(seg):
			parsed.ProductCode = seg
		}
	}

	if missing := MissingTokens(parsed); len(missing) > 0 {
		return Result{Parsed: parsed, Reason: MissingTokensPrefix + strings.Join(missing, ", ")}
	}
	return Result{OK: true, Parsed: parsed}
}

// MissingTokens lists the absent token names in reporting order.
func MissingTokens(p domain.ParsedAdName) []string {
	var missing []string
	if p.FunnelIdentifier == "" {
		missing = append(missing, TokenFunnelIdentifier)
	}
	if p.CreativeID == "" {
		missing = append(missing, TokenCreativeID)
	}
	if p.CopyID == "" {
		missing = append(missing, TokenCopyID)
	}
	if p.ProductCode == "" {
		missing = append(missing, TokenProductCode)
	}
	return missing
}

// Suggest finds, for each token type independently, the first segment that
// matches it. Unlike Parse a segment may satisfy several types, so it can
// surface identifiers Parse skipped. It never fails.
func Suggest(adName string) domain.ParsedAdName {
	segments := Segments(adName)
	return domain.ParsedAdName{
		FunnelIdentifier: strings.ToUpper(firstMatch(segments, funnelRegex)),
		CreativeID:       strings.ToUpper(firstMatch(segments, creativeRegex)),
		CopyID:           strings.ToUpper(firstMatch(segments, copyRegex)),
		ProductCode:      firstMatch(segments, productRegex),
	}
}

func firstMatch(segments []string, re *regexp.Regexp) string {
	for _, seg := range segments {
		if re.MatchString(seg) {
			return seg
		}
	}
	return ""
}

// ProductFromCode strips the "P:" prefix from a product code, returning
// fallback when nothing remains.
func ProductFromCode(code, fallback string) string {
	if p := strings.TrimPrefix(code, ProductPrefix); p != "" {
		return p
	}
	return fallback
}
