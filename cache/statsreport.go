package cache

import (
	"fmt"
	"strings"
)

// StatsLong formats the counters into the human-readable report printed
// at the end of a run. Every line starts with prefix, so callers can
// indent or label the block.
func (c *Cache) StatsLong(prefix string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s%s:\n", prefix, c.name)

	for t := AccessType(0); t < numAccessTypes; t++ {
		writeStatLine(&sb, prefix, t.String()+"-Hits:",
			c.Hits(t), c.Accesses(t))
		writeStatLine(&sb, prefix, t.String()+"-Misses:",
			c.Misses(t), c.Accesses(t))
		writeCountLine(&sb, prefix, t.String()+"-Accesses:",
			c.Accesses(t))
		sb.WriteString(prefix + "\n")
	}

	writeStatLine(&sb, prefix, "Total-Hits:",
		c.TotalHits(), c.TotalAccesses())
	writeStatLine(&sb, prefix, "Total-Misses:",
		c.TotalMisses(), c.TotalAccesses())
	writeCountLine(&sb, prefix, "Total-Accesses:", c.TotalAccesses())

	return sb.String()
}

func writeStatLine(
	sb *strings.Builder,
	prefix, header string,
	count, total uint64,
) {
	fmt.Fprintf(sb, "%s%-19s%12d  %6.2f%%\n",
		prefix, header, count, percent(count, total))
}

func writeCountLine(
	sb *strings.Builder,
	prefix, header string,
	count uint64,
) {
	fmt.Fprintf(sb, "%s%-19s%12d\n", prefix, header, count)
}

func percent(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}

	return 100 * float64(part) / float64(whole)
}
