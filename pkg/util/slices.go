package util

func InPlaceFilter[T any](s *[]T, p func(T) bool) {
	i := 0
	for _, e := range *s {
		if p(e) {
			(*s)[i] = e
			i++
		}
	}
	*s = (*s)[:i]
}

// CollapseConsecutive returns a copy of s with runs of equal neighbours reduced to one element
func CollapseConsecutive[T comparable](s []T) []T {
	collapsed := make([]T, 0, len(s))

	for i, e := range s {
		if i > 0 && e == s[i-1] {
			continue
		}
		collapsed = append(collapsed, e)
	}

	return collapsed
}
