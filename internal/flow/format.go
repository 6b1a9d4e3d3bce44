package flow

import (
	"fmt"
	"strings"

	"ussd_lms/pkg"
)

const (
	// USSD screens are tiny; cap the listing at five entries and keep
	// titles to one line.
	maxListEntries = 5
	maxTitleRunes  = 40
)

// FormatResourceList renders a numbered resource listing for a USSD
// screen. At most five entries are shown, titles longer than 40
// characters are truncated with an ellipsis, and any remainder collapses
// into a single elision line.
func FormatResourceList(resources []pkg.Resource) string {
	if len(resources) == 0 {
		return "No resources found."
	}

	var b strings.Builder
	shown := resources
	if len(shown) > maxListEntries {
		shown = shown[:maxListEntries]
	}
	for i, r := range shown {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncateTitle(r.Title))
	}
	if n := len(resources) - maxListEntries; n > 0 {
		fmt.Fprintf(&b, "... and %d more resources", n)
	}
	return b.String()
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= maxTitleRunes {
		return title
	}
	return string(runes[:maxTitleRunes]) + "..."
}
