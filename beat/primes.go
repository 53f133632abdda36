package beat

// primeTable generates the first n primes with a simple incremental sieve.
// The table is small (n=1000 by default) and built once at engine creation.
func primeTable(n int) []int {
	if n < 1 {
		return nil
	}
	primes := make([]int, 0, n)
	candidate := 2
	for len(primes) < n {
		isPrime := true
		for _, p := range primes {
			if p*p > candidate {
				break
			}
			if candidate%p == 0 {
				isPrime = false
				break
			}
		}
		if isPrime {
			primes = append(primes, candidate)
		}
		candidate++
	}
	return primes
}
