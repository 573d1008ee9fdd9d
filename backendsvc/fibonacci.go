// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package backendsvc

// Fibonacci returns the nth Fibonacci number by naive recursion. The
// exponential cost is the point: it gives the UI a measurably slow call.
func Fibonacci(n int) int64 {
	if n <= 1 {
		return int64(n)
	}
	return Fibonacci(n-1) + Fibonacci(n-2)
}
