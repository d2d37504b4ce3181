package render

import (
	"fmt"
	"strings"
)

var logo = []string{
	"               _ _   _      _    ",
	" _ __ ___   __| | |_(_) ___| | __",
	"| '_ ` _ \\ / _` | __| |/ __| |/ /",
	"| | | | | | (_| | |_| | (__|   < ",
	"|_| |_| |_|\\__,_|\\__|_|\\___|_|\\_\\",
}

// Banner returns the ASCII logo with the version and tagline.
func Banner(version string) string {
	lines := make([]string, len(logo))
	copy(lines, logo)
	lines[len(lines)-1] += fmt.Sprintf("  v%s", version)

	text := strings.Join(lines, "\n") + "\n\nMarkdown checklist progress tracker\n"
	return bannerStyle.Render(text)
}
