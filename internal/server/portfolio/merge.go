// Package portfolio implements the portfolio content service: public and
// admin reads, partial deep-merge updates, and section-order management.
package portfolio

// Merge applies a partial update onto target and returns the merged mapping.
// Neither input is mutated.
//
// Rules, chosen so that editors can submit exactly the fields they changed:
//   - a nil source leaves target unchanged
//   - arrays replace wholesale (editors always submit a complete,
//     already-ordered replacement array)
//   - an explicit null clears the field; null is an instruction, distinct
//     from absent
//   - nested mappings merge recursively when both sides are mappings,
//     otherwise the source side wins outright
//   - scalars replace
//
// Applying the same update twice yields the same document (idempotence).
func Merge(target, source map[string]any) map[string]any {
	if source == nil {
		return target
	}
	if target == nil {
		return source
	}

	merged := make(map[string]any, len(target)+len(source))
	for k, v := range target {
		merged[k] = v
	}

	for k, sv := range source {
		switch sval := sv.(type) {
		case nil:
			merged[k] = nil
		case []any:
			merged[k] = sval
		case map[string]any:
			if tval, ok := merged[k].(map[string]any); ok {
				merged[k] = Merge(tval, sval)
			} else {
				merged[k] = sval
			}
		default:
			merged[k] = sval
		}
	}
	return merged
}
