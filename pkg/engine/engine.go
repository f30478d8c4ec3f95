// Package engine evaluates wingsmith design scripts. It wraps zygomys in a
// sandboxed environment and produces a design.Project from user source.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/wingsmith/pkg/design"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in user code or a blocking
// validation finding.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Subject string
	Message string
}

func (w EvalWarning) String() string {
	if w.Subject == "" {
		return w.Message
	}
	return w.Subject + ": " + w.Message
}

// EvalResult bundles the full output of an evaluation and validation pass.
type EvalResult struct {
	Project  *design.Project
	Errors   []EvalError
	Warnings []EvalWarning
}

// OK reports whether the script produced a usable project.
func (r *EvalResult) OK() bool { return r.Project != nil && len(r.Errors) == 0 }

// Engine evaluates design scripts. Each call to Evaluate runs in a fresh
// sandbox, so one Engine may serve concurrent callers; only the most recent
// call gets its project back.
type Engine struct {
	// Timeout bounds one evaluation. Zero means EvalTimeout.
	Timeout time.Duration

	gens generations
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs a design script and returns the project it builds.
//
// Return semantics:
//   - On success: returns project + nil errors + nil error
//   - On parse/eval failure: returns nil project + eval errors + nil error
//   - On fatal failure (timeout, superseded, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*design.Project, []EvalError, error) {
	gen := e.gens.next()
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- outcome{project: p, errors: evalErrs, err: err}
	}()

	limit := e.Timeout
	if limit <= 0 {
		limit = EvalTimeout
	}
	return e.gens.await(ch, gen, limit)
}

// Run evaluates source, then validates the project. Blocking findings are
// reported as errors and drop the project; advisory ones become warnings.
func (e *Engine) Run(source string) (*EvalResult, error) {
	p, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return nil, err
	}
	res := &EvalResult{Errors: evalErrs}
	if p == nil {
		return res, nil
	}

	v := design.Validate(p)
	for _, f := range v.Errors {
		res.Errors = append(res.Errors, EvalError{Message: f.Error()})
	}
	for _, f := range v.Warnings {
		res.Warnings = append(res.Warnings, EvalWarning{Subject: f.Subject, Message: f.Message})
	}
	if v.OK() {
		res.Project = p
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*design.Project, []EvalError, error) {
	p := design.NewProject("")

	// Empty source is a valid script that produces an empty project.
	if strings.TrimSpace(source) == "" {
		return p, nil, nil
	}

	// Sandbox mode prevents scripts from reaching the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, p)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return p, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values,
// extracting line information when the message carries it.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
