package fetch

import "strings"

// arXiv category prefixes mapped to the closed topic-label set. Checked in
// order; first prefix match wins.
var categoryLabels = []struct {
	prefixes []string
	label    string
}{
	{[]string{"cs.AI", "cs.LG", "cs.CL", "stat.ML"}, "AI"},
	{[]string{"q-bio.NC", "cs.HC", "q-bio.QM"}, "認知科学"},
	{[]string{"physics.hist-ph"}, "哲学"},
	{[]string{"econ"}, "経済学"},
	{[]string{"cs.CY"}, "社会"},
}

// CategoryLabel maps an arXiv category code to its topic label.
// Unrecognized codes fall back to "Science".
func CategoryLabel(arxivCategory string) string {
	for _, m := range categoryLabels {
		for _, p := range m.prefixes {
			if strings.HasPrefix(arxivCategory, p) {
				return m.label
			}
		}
	}
	return "Science"
}
