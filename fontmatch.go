package sbar

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FontMatch resolves a font name plus a fontconfig-style attribute string
// (e.g. "style=Bold:weight=200") to a concrete file path and point size,
// by shelling out to fc-match the same way fontconfig-based Go tools
// resolve fonts when they don't want to link libfontconfig directly. A
// "size=N" fragment in attributes overrides the default point size.
func FontMatch(name, attributes string) (string, float64, error) {
	query := name
	if attributes != "" {
		query = name + ":" + attributes
	}
	size := 12.0
	for _, field := range strings.Split(attributes, ":") {
		if v, ok := strings.CutPrefix(field, "size="); ok {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				size = n
			}
		}
	}

	out, err := exec.Command("fc-match", "--format=%{file}", query).Output()
	if err != nil {
		return "", 0, fmt.Errorf("fc-match %q: %w", query, err)
	}
	path := strings.TrimSpace(string(bytes.TrimRight(out, "\x00")))
	if path == "" {
		return "", 0, fmt.Errorf("fc-match %q: no file returned", query)
	}
	return path, size, nil
}
