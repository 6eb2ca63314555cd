package random

// Chance reports whether a d100 roll comes in under pct.
func Chance(src Source, pct int) bool {
	return src.Between(1, 100) < pct
}

// Pick returns one of the options uniformly. Panics on an empty slice.
func Pick[T any](src Source, options []T) T {
	return options[src.Between(0, len(options)-1)]
}
