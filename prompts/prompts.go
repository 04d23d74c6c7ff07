package prompts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Nydauron/fms2tba/tba"
)

// Prompter asks questions on out and reads answers line by line from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Default prompts on stderr so stdout stays free for the converted output.
func Default() *Prompter {
	return New(os.Stdin, os.Stderr)
}

func (p *Prompter) EventCodePrompt() (string, error) {
	for {
		userInput, err := p.Prompt("Event code (e.g. casj or 2019casj): ")
		if err != nil {
			return "", err
		}
		if tba.IsWellFormedEventCode(userInput) {
			return userInput, nil
		}
		fmt.Fprintln(p.out, "Event code may only contain letters and digits.")
	}
}

func (p *Prompter) SeasonYearPrompt() (int, error) {
	for {
		userInput, err := p.Prompt(fmt.Sprintf("Season year %v: ", tba.Seasons()))
		if err != nil {
			return 0, err
		}
		if tba.IsValidYear(userInput) {
			return strconv.Atoi(userInput)
		}
		fmt.Fprintf(p.out, "No ranking columns known for %q.\n", userInput)
	}
}

// Prompt returns the trimmed answer. io.EOF is returned once input runs out
// without an answer.
func (p *Prompter) Prompt(message string) (string, error) {
	fmt.Fprint(p.out, message)
	input, err := p.in.ReadString('\n')
	input = strings.TrimSpace(input)
	if err == io.EOF && input != "" {
		return input, nil
	}
	return input, err
}
