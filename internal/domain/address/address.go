// Package address splits a single-line Japanese postal address into postal
// code, street part and building part.
//
// The split is heuristic. It can put a building name into Line1 or a street
// number into Line2, and nothing in the output tells the caller that it did.
// Callers that have structured fields should never pass them through here.
package address

import (
	"regexp"
	"strings"
)

// Parsed is the result of Parse.
type Parsed struct {
	PostalCode string
	Line1      string
	Line2      string
}

// digit matches both ASCII and full-width digits.
const digit = `[0-9０-９]`

var postalPattern = regexp.MustCompile(`〒?(` + digit + `{3}-` + digit + `{4})`)

// buildingPatterns are tried in order; the first match wins.
var buildingPatterns = []*regexp.Regexp{
	// explicit building keywords
	regexp.MustCompile(`^(.+?)([^0-9\s]+(?:ビル|マンション|アパート|ハイツ|コーポ|館|棟|タワー|プラザ|センター|会館|ホール|ヴィラ|レジデンス|パレス|コート|テラス|ガーデン|ハウス).*)$`),
	// floor
	regexp.MustCompile(`^(.+?)(\s*` + digit + `+[階F].*)$`),
	// room number at the end
	regexp.MustCompile(`^(.+?)(\s*[0-9A-Za-z]+号室?\s*)$`),
	// trailing bracketed note
	regexp.MustCompile(`^(.+?)(\s*[（(].+[)）]\s*)$`),
}

// strictPatterns only run when no building pattern matched.
var strictPatterns = []*regexp.Regexp{
	// A101, B205
	regexp.MustCompile(`^(.+?)(\s*[A-Za-z]` + digit + `+\s*)$`),
	// katakana block name plus number
	regexp.MustCompile(`^(.+?)(\s*[ア-ヴ]+[0-9]+\s*)$`),
}

// streetOnly matches a Line2 that is really part of the street address; such
// a split is undone.
var streetOnly = []*regexp.Regexp{
	regexp.MustCompile(`^` + digit + `+$`),
	regexp.MustCompile(`^` + digit + `+号$`),
	regexp.MustCompile(`^` + digit + `+-` + digit + `+$`),
	regexp.MustCompile(`^` + digit + `+-` + digit + `+-` + digit + `+$`),
	regexp.MustCompile(`^` + digit + `+番地?$`),
	regexp.MustCompile(`^` + digit + `+丁目$`),
	regexp.MustCompile(`^` + digit + `+番` + digit + `+号?$`),
}

// Parse splits raw. An empty input yields an empty Parsed.
func Parse(raw string) Parsed {
	if raw == "" {
		return Parsed{}
	}

	var out Parsed
	rest := raw
	if m := postalPattern.FindStringSubmatch(raw); m != nil {
		out.PostalCode = m[1]
		rest = strings.TrimSpace(strings.ReplaceAll(raw, m[0], ""))
	}

	line1, line2, ok := split(rest, buildingPatterns)
	if !ok {
		line1, line2, ok = split(rest, strictPatterns)
	}
	if !ok {
		line1, line2 = strings.TrimSpace(rest), ""
	}

	if line2 != "" && isStreetOnly(line2) {
		line1 = strings.TrimSpace(line1 + " " + line2)
		line2 = ""
	}

	out.Line1 = line1
	out.Line2 = line2
	return out
}

func split(s string, patterns []*regexp.Regexp) (string, string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(s); m != nil {
			return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
		}
	}
	return "", "", false
}

func isStreetOnly(s string) bool {
	s = strings.TrimSpace(s)
	for _, p := range streetOnly {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
