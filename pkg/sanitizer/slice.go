package sanitizer

// NormalizeStringSlice applies normalizer to every item, dropping empties and
// duplicates while keeping first-seen order.
func NormalizeStringSlice(items []string, normalizer Strategy) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}

func NormalizeAmenities(amenities []string) []string {
	return NormalizeStringSlice(amenities, NormalizeLabel)
}

func NormalizeTerms(terms []string) []string {
	return NormalizeStringSlice(terms, NormalizeIdentifier)
}
