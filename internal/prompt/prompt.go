// Package prompt asks the user for input files, column choices and other
// values. Dialogs shows native dialogs; Scripted replays canned answers for
// headless runs and tests.
package prompt

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ncruces/zenity"
)

// ErrCancelled is returned when the user dismisses a prompt.
var ErrCancelled = errors.New("cancelled by user")

// FileFilter restricts the files offered by OpenFile.
type FileFilter struct {
	Name     string
	Patterns []string
}

// Prompter is the set of blocking questions the tools may ask.
type Prompter interface {
	// OpenFile asks for an existing file. Cancellation returns ErrCancelled.
	OpenFile(title string, filters []FileFilter) (string, error)
	// SelectColumn asks for one of header. The answer is either a header
	// name or a 1-based index as text. When optional is true an empty
	// answer means "none".
	SelectColumn(title, text string, header []string, optional bool) (string, error)
	// Entry asks for free text, prefilled with initial.
	Entry(title, text, initial string) (string, error)
	// Error reports a message to the user.
	Error(title, text string)
}

// NumberedColumns renders header as "1. name" lines.
func NumberedColumns(header []string) string {
	var b strings.Builder
	for i, col := range header {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, col)
	}
	return b.String()
}

// Dialogs implements Prompter with native dialogs.
type Dialogs struct{}

func (Dialogs) OpenFile(title string, filters []FileFilter) (string, error) {
	var ff zenity.FileFilters
	for _, f := range filters {
		ff = append(ff, zenity.FileFilter{Name: f.Name, Patterns: f.Patterns, CaseFold: true})
	}
	path, err := zenity.SelectFile(zenity.Title(title), ff)
	return path, translate(err)
}

func (Dialogs) SelectColumn(title, text string, header []string, optional bool) (string, error) {
	opts := []zenity.Option{zenity.Title(title)}
	if optional {
		opts = append(opts, zenity.ExtraButton("Default"))
	}
	choice, err := zenity.List(text, header, opts...)
	if optional && errors.Is(err, zenity.ErrExtraButton) {
		return "", nil
	}
	return choice, translate(err)
}

func (Dialogs) Entry(title, text, initial string) (string, error) {
	s, err := zenity.Entry(text, zenity.Title(title), zenity.EntryText(initial))
	return s, translate(err)
}

func (Dialogs) Error(title, text string) {
	_ = zenity.Error(text, zenity.Title(title), zenity.ErrorIcon)
}

func translate(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrCancelled
	}
	return err
}

// Cancel may be queued in Scripted.Answers to simulate a dismissed prompt.
const Cancel = "\x00cancel"

// Scripted answers prompts from a queue. Once the queue is exhausted
// every prompt is cancelled. Error messages are recorded.
type Scripted struct {
	mu      sync.Mutex
	Answers []string
	Errors  []string
}

// NewScripted returns a Scripted prompter that will give answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Answers) == 0 {
		return "", ErrCancelled
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	if a == Cancel {
		return "", ErrCancelled
	}
	return a, nil
}

func (s *Scripted) OpenFile(string, []FileFilter) (string, error) {
	a, err := s.next()
	if err == nil && a == "" {
		return "", ErrCancelled
	}
	return a, err
}

func (s *Scripted) SelectColumn(_, _ string, _ []string, _ bool) (string, error) {
	return s.next()
}

func (s *Scripted) Entry(_, _, initial string) (string, error) {
	a, err := s.next()
	if err == nil && a == "" {
		return initial, nil
	}
	return a, err
}

func (s *Scripted) Error(title, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, title+": "+text)
}
