package hashtable

// MinCapacity is the bucket count of a new or reset table.
const MinCapacity = 17

// primes are the bucket counts a table moves through, each roughly double
// the previous one.
var primes = [...]int{
	17, 37, 79, 163, 331, 673, 1361, 2729, 5471, 10949,
	21911, 43853, 87719, 175447, 350899, 701819, 1403641,
	2807303, 5614657, 11229331, 22458671, 44917381, 89834777,
}

// nextCapacity returns the bucket count after capacity. Past the prime table
// it returns 2*capacity+1, and exhausted reports that.
func nextCapacity(capacity int) (next int, exhausted bool) {
	for _, p := range primes {
		if p > capacity {
			return p, false
		}
	}
	return 2*capacity + 1, true
}

// prevCapacity returns the bucket count before capacity, never below MinCapacity.
func prevCapacity(capacity int) int {
	last := primes[len(primes)-1]
	if capacity > last {
		return max((capacity-1)/2, last)
	}
	prev := primes[0]
	for _, p := range primes {
		if p >= capacity {
			break
		}
		prev = p
	}
	return prev
}
