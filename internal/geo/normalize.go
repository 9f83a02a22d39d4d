package geo

import (
	"regexp"
	"strings"
)

var (
	prefecturePattern = regexp.MustCompile(`^(東京都|北海道|(?:京都|大阪)府|.{2,3}県)`)
	cityPattern       = regexp.MustCompile(`^(.+?(?:市|区|町|村))`)
	chomePattern      = regexp.MustCompile(`^(.+?)([0-9０-９〇零一二三四五六七八九十百千]+(?:丁目|丁))(.*)$`)
	digitPattern      = regexp.MustCompile(`[0-9０-９]`)
)

func compactAddress(s string) string {
	s = strings.NewReplacer(",", "", " ", "", "　", "").Replace(s)
	return strings.TrimSuffix(s, "日本")
}

// NormalizeAddress splits a Japanese address string into its administrative
// components. Best effort: unmatched parts are left in Detail.
func NormalizeAddress(full string) *StructuredAddress {
	s := compactAddress(full)

	prefecture := ""
	if m := prefecturePattern.FindStringSubmatch(s); m != nil {
		prefecture = m[1]
	}
	rest := strings.TrimPrefix(s, prefecture)

	city := ""
	if m := cityPattern.FindStringSubmatch(rest); m != nil {
		city = m[1]
	}
	rest = strings.TrimPrefix(rest, city)

	oaza, aza, detail := splitArea(rest)

	out := &StructuredAddress{
		Prefecture: prefecture,
		City:       city,
		Oaza:       oaza,
		Aza:        aza,
		Detail:     detail,
		Full:       s,
		AreaKey:    prefecture + city + oaza + aza,
	}
	return out
}

func splitArea(rest string) (oaza, aza, detail string) {
	if m := chomePattern.FindStringSubmatch(rest); m != nil {
		return m[1], m[2], m[3]
	}
	loc := digitPattern.FindStringIndex(rest)
	switch {
	case loc == nil:
		return rest, "", ""
	case loc[0] == 0:
		return "", "", rest
	default:
		return rest[:loc[0]], "", rest[loc[0]:]
	}
}

// joinParts concatenates address components, dropping empties and immediate duplicates.
func joinParts(parts ...string) string {
	var b strings.Builder
	prev := ""
	for _, p := range parts {
		p = compactAddress(p)
		if p == "" || p == prev {
			continue
		}
		b.WriteString(p)
		prev = p
	}
	return b.String()
}
