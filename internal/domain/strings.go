package domain

// OptionalText keeps s exactly as entered; only the empty string is absent.
func OptionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
