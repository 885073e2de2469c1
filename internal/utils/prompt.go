package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrPromptCancelled indicates the user cancelled an interactive prompt
// (EOF on stdin or an explicit quit answer).
var ErrPromptCancelled = errors.New("prompt cancelled")

// ConsolePrompter reads interactive answers from stdin.
type ConsolePrompter struct {
	in *bufio.Reader
}

// NewConsolePrompter creates a prompter reading from os.Stdin.
func NewConsolePrompter() *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(os.Stdin)}
}

func (p *ConsolePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", ErrPromptCancelled
	}
	return strings.TrimSpace(line), nil
}

// Input asks for a free-form value. An empty answer returns the default.
func (p *ConsolePrompter) Input(label, def string) (string, error) {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, StyleName(def))
	} else {
		fmt.Printf("%s: ", label)
	}
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Select presents a numbered list of options and returns the chosen index.
// Answering "q" cancels the prompt.
func (p *ConsolePrompter) Select(label string, options []string) (int, error) {
	fmt.Printf("%s\n", StyleTitle(label))
	for i, option := range options {
		fmt.Printf("  %s) %s\n", StyleNumber(i+1), option)
	}
	for {
		fmt.Printf("Choice [1-%d, q to cancel]: ", len(options))
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if strings.EqualFold(answer, "q") {
			return 0, ErrPromptCancelled
		}
		var choice int
		if _, err := fmt.Sscanf(answer, "%d", &choice); err == nil {
			if choice >= 1 && choice <= len(options) {
				return choice - 1, nil
			}
		}
		PrintWarning("Invalid choice %q", answer)
	}
}

// Confirm asks a yes/no question.
func (p *ConsolePrompter) Confirm(label string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Printf("%s [%s]: ", label, hint)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
