package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown on interactive startup.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient across the lines (indigo to rose).
	s1 := termenv.String("      _       _   ____  _            ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("   __| | ___ | |_|  _ \\(_)_ __   ___ ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String("  / _` |/ _ \\| __| |_) | | '_ \\ / _ \\").Foreground(p.Color("#c084fc"))
	s4 := termenv.String(" | (_| | (_) | |_|  __/| | |_) |  __/").Foreground(p.Color("#e879f9"))
	s5 := termenv.String("  \\__,_|\\___/ \\__|_|   |_| .__/ \\___|").Foreground(p.Color("#f472b6"))
	s6 := termenv.String("                         |_|         ").Foreground(p.Color("#fb7185"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	if version != "" {
		v := termenv.String("  v" + version).Foreground(p.Color("#94a3b8"))
		fmt.Println(v)
	}
	fmt.Println()
}
