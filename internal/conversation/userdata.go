package conversation

import "strings"

// parseFields splits "label: value" lines into a label → value map.
// Lines without a colon are ignored.
func parseFields(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		fields[label] = strings.TrimSpace(value)
	}
	return fields
}

// missingFields diffs the buyer's delivery details against the required
// label set of the chosen delivery method. Returned labels carry a
// trailing colon, matching how they are prompted.
func missingFields(text string, required []string) []string {
	fields := parseFields(text)
	var missing []string
	for _, label := range required {
		if fields[label] == "" {
			missing = append(missing, label+":")
		}
	}
	return missing
}
