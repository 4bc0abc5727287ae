package highlight

import "strings"

// Normalize folds a highlight into its canonical key: trimmed, lower-cased,
// with every whitespace run collapsed to one space.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}

// NormalizeAll normalizes raw highlights, dropping blanks and duplicate keys.
// The first raw spelling of each key is kept.
func NormalizeAll(raws []string) (norms []string, firstRaw map[string]string) {
	firstRaw = make(map[string]string, len(raws))
	for _, raw := range raws {
		key := Normalize(raw)
		if key == "" {
			continue
		}
		if _, seen := firstRaw[key]; seen {
			continue
		}
		firstRaw[key] = raw
		norms = append(norms, key)
	}
	return norms, firstRaw
}
