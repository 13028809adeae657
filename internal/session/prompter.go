package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrAborted means the user closed input or cancelled a prompt.
var ErrAborted = errors.New("input aborted")

// Option is one menu entry: Label is shown, Key is returned.
type Option struct {
	Label string
	Key   string
}

// Prompter asks the user questions.
//
// Input and Password keep asking until validate accepts the answer.
type Prompter interface {
	Select(title string, options []Option) (string, error)
	Input(title string, validate func(string) error) (string, error)
	Password(title string, validate func(string) error) (string, error)
}

var (
	_ Prompter = (*HuhPrompter)(nil)
	_ Prompter = (*LinePrompter)(nil)
)

func accept(string) error { return nil }

// HuhPrompter renders each question as a standalone huh field.
type HuhPrompter struct{}

func NewHuhPrompter() *HuhPrompter { return &HuhPrompter{} }

func huhErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func (p *HuhPrompter) Select(title string, options []Option) (string, error) {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Label, o.Key))
	}

	var choice string
	err := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&choice).
		Run()
	return choice, huhErr(err)
}

// trimmed validates the value Input will return rather than the raw field.
func trimmed(validate func(string) error) func(string) error {
	if validate == nil {
		return accept
	}
	return func(s string) error { return validate(strings.TrimSpace(s)) }
}

func (p *HuhPrompter) Input(title string, validate func(string) error) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Validate(trimmed(validate)).
		Run()
	return strings.TrimSpace(value), huhErr(err)
}

func (p *HuhPrompter) Password(title string, validate func(string) error) (string, error) {
	if validate == nil {
		validate = accept
	}

	var value string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&value).
		Validate(validate).
		Run()
	return value, huhErr(err)
}

// LinePrompter reads one answer per line. Menus are printed as numbered lists.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without its terminator, or [ErrAborted] once input is exhausted.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Select accepts either the option number or its label.
func (p *LinePrompter) Select(title string, options []Option) (string, error) {
	numbers := make([]string, len(options))
	for i := range options {
		numbers[i] = strconv.Itoa(i + 1)
	}

	for {
		fmt.Fprintf(p.out, "\n%s\n", title)
		for i, o := range options {
			fmt.Fprintf(p.out, "%d. %s\n", i+1, o.Label)
		}
		fmt.Fprintf(p.out, "Enter your choice (%s): ", strings.Join(numbers, "/"))

		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)

		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1].Key, nil
		}
		for _, o := range options {
			if strings.EqualFold(answer, o.Label) || strings.EqualFold(answer, o.Key) {
				return o.Key, nil
			}
		}
		fmt.Fprintln(p.out, "Invalid choice. Please try again.")
	}
}

func (p *LinePrompter) Input(title string, validate func(string) error) (string, error) {
	if validate == nil {
		validate = accept
	}

	for {
		fmt.Fprintf(p.out, "%s: ", title)
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)

		if err := validate(answer); err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		return answer, nil
	}
}

// Password reads like Input; the line is not trimmed and echo is not suppressed.
func (p *LinePrompter) Password(title string, validate func(string) error) (string, error) {
	if validate == nil {
		validate = accept
	}

	for {
		fmt.Fprintf(p.out, "%s: ", title)
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}

		if err := validate(answer); err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		return answer, nil
	}
}
