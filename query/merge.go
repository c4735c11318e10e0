package query

// Merge combines the states of the queries a page needs at the same time.
//
// The merged state is loading if any input is loading. The merged error is the
// first non-nil error in argument order, so callers list their queries in the
// order that should win when several fail.
func Merge(states ...State) State {
	var merged State
	for _, s := range states {
		if s.IsLoading {
			merged.IsLoading = true
		}
		if merged.Err == nil && s.Err != nil {
			merged.Err = s.Err
		}
	}
	return merged
}

// Dependent computes the key of a query that needs the resolved data of
// parent. It returns NoKey until parent has data; after that it returns
// compute(parent.Data), which may itself be NoKey when the parent lacks a
// usable field.
func Dependent[P any](parent Typed[P], compute func(*P) Key) Key {
	if parent.Data == nil {
		return NoKey
	}
	return compute(parent.Data)
}
