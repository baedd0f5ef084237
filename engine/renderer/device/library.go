package device

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownProgram is returned by a Library when no program or loader can supply a name.
var ErrUnknownProgram = errors.New("unknown program")

// ProgramLoader builds a program on first request.
type ProgramLoader func(name string) (Program, error)

// Library is a ProgramLibrary backed by a name map. Programs registered up front are returned
// as is; other names go to the loader once and the result is cached.
type Library struct {
	mu       *sync.Mutex
	programs map[string]Program
	loader   ProgramLoader
}

var _ ProgramLibrary = &Library{}

// LibraryBuilderOption is a functional option used to configure a Library.
type LibraryBuilderOption func(l *Library)

// WithProgram registers a program under its label.
func WithProgram(p Program) LibraryBuilderOption {
	return func(l *Library) {
		l.programs[p.Label()] = p
	}
}

// WithNamedProgram registers a program under an explicit name.
func WithNamedProgram(name string, p Program) LibraryBuilderOption {
	return func(l *Library) {
		l.programs[name] = p
	}
}

// WithLoader sets the loader used for names that were not registered.
func WithLoader(loader ProgramLoader) LibraryBuilderOption {
	return func(l *Library) {
		l.loader = loader
	}
}

// NewLibrary creates a program library.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Library: the library
func NewLibrary(options ...LibraryBuilderOption) *Library {
	l := &Library{
		mu:       &sync.Mutex{},
		programs: make(map[string]Program),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Program returns the named program, loading and caching it on first use.
//
// Parameters:
//   - name: the program name
//
// Returns:
//   - Program: the program
//   - error: ErrUnknownProgram, or the loader's error
func (l *Library) Program(name string) (Program, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if p, ok := l.programs[name]; ok {
		return p, nil
	}
	if l.loader == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownProgram)
	}
	p, err := l.loader(name)
	if err != nil {
		return nil, err
	}
	l.programs[name] = p
	return p, nil
}

// Names returns the names of the programs loaded so far.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.programs))
	for name := range l.programs {
		names = append(names, name)
	}
	return names
}
