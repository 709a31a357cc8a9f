package main

import (
	"strings"

	"github.com/chzyer/readline"
)

// confirm asks a yes/no question on the terminal. Anything but an explicit
// yes, including a read error, is a no.
func confirm(question string) bool {
	rl, err := readline.New("  " + question + " [y/N]: ")
	if err != nil {
		return false
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		return false
	}
	return isYes(line)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
