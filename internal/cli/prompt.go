package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/espn-lines/internal/game"
)

// prompter asks for values missing from the command line
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// league shows the numbered menu and parses the answer.
// Anything but a menu number or a league tag is rejected.
func (p *prompter) league() (game.League, error) {
	fmt.Fprintln(p.out, "Choose a league:")
	for i, l := range game.Leagues {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, l)
	}
	fmt.Fprint(p.out, "Enter the number corresponding to your choice: ")

	answer, err := p.readLine()
	if err != nil {
		return game.Unknown, fmt.Errorf("reading league choice: %w", err)
	}

	league, err := game.ParseLeague(answer)
	if err != nil {
		return game.Unknown, fmt.Errorf("invalid choice %q, enter a number between 1 and %d: %w", answer, len(game.Leagues), err)
	}
	return league, nil
}

// dateKey asks for the schedule date segment
func (p *prompter) dateKey() (string, error) {
	fmt.Fprint(p.out, "Enter the week number: ")

	answer, err := p.readLine()
	if err != nil {
		return "", fmt.Errorf("reading week number: %w", err)
	}
	if answer == "" {
		return "", fmt.Errorf("week number is required")
	}
	return answer, nil
}

// readLine returns the next line without its newline. A final line without a newline
// is accepted; EOF with nothing read is an error.
func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
