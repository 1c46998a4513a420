//go:build !race

package codecamp

func passwordHashCost() int {
	return 14
}
