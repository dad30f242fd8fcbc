// Package prompt provides the interactive terminal prompts used by the
// repair and headings stages. Commands receive a Prompter so that tests can
// script answers instead of driving a terminal.
package prompt

import "fmt"

// Option is one selectable choice. Label is shown to the user, Value is
// returned from Select.
type Option struct {
	Label string
	Value string
}

// Prompter asks the user questions.
type Prompter interface {
	// Select shows a list of options and returns the chosen value.
	Select(title string, options []Option) (string, error)

	// Input asks for a free-form line of text.
	Input(title, placeholder string) (string, error)

	// Confirm asks a yes/no question.
	Confirm(title string) (bool, error)
}

// Scripted is a Prompter that replays prepared answers, for tests and
// non-interactive runs. Select and Input consume from Answers in order;
// Confirm consumes from Confirms.
type Scripted struct {
	Answers  []string
	Confirms []bool

	next        int
	nextConfirm int
}

func (s *Scripted) Select(title string, options []Option) (string, error) {
	return s.take(title)
}

func (s *Scripted) Input(title, placeholder string) (string, error) {
	return s.take(title)
}

func (s *Scripted) Confirm(title string) (bool, error) {
	if s.nextConfirm >= len(s.Confirms) {
		return false, fmt.Errorf("no scripted answer for prompt: %s", title)
	}
	v := s.Confirms[s.nextConfirm]
	s.nextConfirm++
	return v, nil
}

func (s *Scripted) take(title string) (string, error) {
	if s.next >= len(s.Answers) {
		return "", fmt.Errorf("no scripted answer for prompt: %s", title)
	}
	v := s.Answers[s.next]
	s.next++
	return v, nil
}
