// Cachesim replays memory-access traces against simulated caches and
// reports hit/miss statistics.
package main

import "github.com/sarchlab/cachesim/cachesim/cmd"

func main() {
	cmd.Execute()
}
