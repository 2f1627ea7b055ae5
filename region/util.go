package region

// alignUp rounds n up to a multiple of to (a power of two).
func alignUp(n, to int) int {
	return (n + to - 1) &^ (to - 1)
}
