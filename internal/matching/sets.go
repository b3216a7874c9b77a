// internal/matching/sets.go
package matching

// Jaccard returns |a∩b| / |a∪b|. Duplicates are ignored and two empty sets score 0.
func Jaccard[T comparable](a, b []T) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := toSet(a)
	setB := toSet(b)

	inter := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Intersect returns the elements of a that also appear in b, in a's order and without duplicates.
func Intersect[T comparable](a, b []T) []T {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	setB := toSet(b)
	seen := make(map[T]struct{}, len(a))
	var out []T
	for _, v := range a {
		if _, ok := setB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Overlaps reports whether a and b share at least one element.
func Overlaps[T comparable](a, b []T) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	setB := toSet(b)
	for _, v := range a {
		if _, ok := setB[v]; ok {
			return true
		}
	}
	return false
}

func toSet[T comparable](items []T) map[T]struct{} {
	set := make(map[T]struct{}, len(items))
	for _, v := range items {
		set[v] = struct{}{}
	}
	return set
}
