package market

// Meta is an opaque, string-keyed payload attached to orders at submission
// time. The engine copies it onto trades, cost-basis lots and capital gains
// but never interprets its contents; it exists so callers can tag fills with
// their own identifiers (pair ids, signal names, ...) and find them again in
// the reports.
type Meta map[string]any

// Clone returns a shallow copy. A nil Meta clones to nil.
func (m Meta) Clone() Meta {
	if m == nil {
		return nil
	}
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
