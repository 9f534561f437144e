// Package parse turns a raw command line into an argument vector.
package parse

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Command is one tokenized input line.
type Command struct {
	Argv []string
	// Background is set when the line ended in an & token.
	Background bool
	// Line is the raw text as read, trailing newline included.
	Line string
}

// Empty reports whether the line held no words.
func (c Command) Empty() bool {
	return len(c.Argv) == 0
}

// Line splits a command line into words. Quoting follows POSIX shell word
// splitting; a last word starting with '&' requests a background job and
// is dropped from Argv.
func Line(line string) (Command, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return Command{Line: line}, fmt.Errorf("parse %q: %w", strings.TrimRight(line, "\n"), err)
	}

	cmd := Command{Argv: words, Line: line}
	if n := len(words); n > 0 && strings.HasPrefix(words[n-1], "&") {
		cmd.Background = true
		cmd.Argv = words[:n-1]
	}
	return cmd, nil
}
