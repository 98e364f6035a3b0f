// Package shell drives one workspace from a terminal.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"DispoCeSoir/internal/workspace"
)

// ErrExit is returned by ExecuteCommand for exit and quit. It wraps io.EOF
// so a read loop can stop on either.
var ErrExit = fmt.Errorf("exit requested: %w", io.EOF)

type CLI struct {
	WS    *workspace.Workspace
	RL    *readline.Instance
	Out   io.Writer
	Now   func() time.Time
	NewID func() string

	Prompt string
}

func NewCLI(ws *workspace.Workspace, rl *readline.Instance, out io.Writer) *CLI {
	if out == nil {
		out = os.Stdout
	}
	c := &CLI{WS: ws, RL: rl, Out: out, Now: time.Now, NewID: uuid.NewString}
	c.UpdatePrompt()
	return c
}

// UpdatePrompt shows who is signed in and which view is current.
func (c *CLI) UpdatePrompt() {
	route := c.WS.Route()
	id, ok := c.WS.Session.Current()
	if !ok {
		c.Prompt = "[invité]> "
	} else {
		c.Prompt = fmt.Sprintf("[%s@%s]> ", firstWord(id.Name), route.View)
	}
	if c.RL != nil {
		c.RL.SetPrompt(c.Prompt)
	}
}

// Run reads and executes one line.
func (c *CLI) Run(ctx context.Context) error {
	line, err := c.RL.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	err = c.ExecuteCommand(ctx, ParseArgs(line))
	c.UpdatePrompt()
	return err
}

// ExecuteScript runs every non-empty, non-comment line of path and stops at
// the first failing command.
func (c *CLI) ExecuteScript(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.ExecuteCommand(ctx, ParseArgs(line)); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	c.UpdatePrompt()
	return sc.Err()
}

// ParseArgs splits on spaces outside double quotes.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
			quoted = true
		case ' ', '\t':
			if inQuotes {
				current.WriteRune(char)
				continue
			}
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}

func ago(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("il y a %d min", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("il y a %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("il y a %dj", int(d.Hours()/24))
	}
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return s
}
