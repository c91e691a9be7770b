package main

import (
	"fmt"
	"os"

	"livecap/capture"

	"golang.org/x/term"
)

// selectSource shows an interactive picker over the monitor sources
// pactl reports. Returns "" when the user keeps the default.
func selectSource() (string, error) {
	sources := capture.ListMonitorSources()
	if len(sources) == 0 {
		return "", fmt.Errorf("no monitor sources found")
	}

	if len(sources) == 1 {
		fmt.Printf("Using source: %s\n", sources[0])
		return sources[0], nil
	}

	// Raw mode for arrow key input
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return "", fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	renderList := func() {
		fmt.Print("\r\x1b[J") // clear from cursor to end
		fmt.Print("Select monitor source (↑/↓, Enter to confirm):\r\n\r\n")
		for i, name := range sources {
			if i == cursor {
				fmt.Printf("  \x1b[1;36m▶ %s\x1b[0m\r\n", name)
			} else {
				fmt.Printf("    %s\r\n", name)
			}
		}
	}

	renderList()

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		if n == 1 {
			switch buf[0] {
			case 13: // Enter
				fmt.Printf("\r\n")
				term.Restore(fd, oldState)
				return sources[cursor], nil
			case 3: // Ctrl+C
				fmt.Printf("\r\n")
				term.Restore(fd, oldState)
				os.Exit(0)
			case 'j': // vim down
				if cursor < len(sources)-1 {
					cursor++
				}
			case 'k': // vim up
				if cursor > 0 {
					cursor--
				}
			}
		} else if n == 3 && buf[0] == 0x1b && buf[1] == '[' {
			switch buf[2] {
			case 'A': // Up arrow
				if cursor > 0 {
					cursor--
				}
			case 'B': // Down arrow
				if cursor < len(sources)-1 {
					cursor++
				}
			}
		}

		// Redraw: move up to overwrite
		lines := len(sources) + 2
		fmt.Printf("\x1b[%dA", lines)
		renderList()
	}
}
