package finder

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-errors/errors"
)

// Console reads line-oriented answers from in and writes prompts and results
// to out.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a Console over the given streams.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Out returns the output stream.
func (c *Console) Out() io.Writer {
	return c.out
}

// Prompt prints label and returns the next input line with surrounding
// whitespace removed. It returns io.EOF once input is exhausted.
func (c *Console) Prompt(label string) (string, error) {
	if _, err := fmt.Fprint(c.out, label); err != nil {
		return "", errors.Errorf("write prompt: %w", err)
	}
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(c.out)
			return "", io.EOF
		}
		return "", errors.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Println writes a line to the output stream.
func (c *Console) Println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

// Pager decides whether another page is fetched after one was shown.
type Pager interface {
	More() bool
}

// PagerFunc adapts a function to Pager.
type PagerFunc func() bool

func (f PagerFunc) More() bool { return f() }

// InteractivePager asks the user after every page. Only "y" continues.
func (c *Console) InteractivePager() Pager {
	return PagerFunc(func() bool {
		answer, err := c.Prompt("Show more (y/n)? ")
		if err != nil {
			return false
		}
		return strings.EqualFold(answer, "y")
	})
}

// BatchPager continues without asking until pages pages were shown. Zero
// means until the results are exhausted.
func BatchPager(pages int) Pager {
	shown := 0
	return PagerFunc(func() bool {
		shown++
		return pages <= 0 || shown < pages
	})
}
