package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StepKind is one scripted action.
type StepKind int

const (
	StepSelect StepKind = iota
	StepTurn
	StepPress
	StepWait
	StepStatus
)

// Step is one parsed script statement.
type Step struct {
	Kind  StepKind
	Value int
	Wait  time.Duration
}

func (s Step) String() string {
	switch s.Kind {
	case StepSelect:
		return fmt.Sprintf("select %d", s.Value)
	case StepTurn:
		return fmt.Sprintf("turn %d", s.Value)
	case StepPress:
		return "press"
	case StepWait:
		return "wait " + s.Wait.String()
	case StepStatus:
		return "status"
	default:
		return fmt.Sprintf("Step(%d)", int(s.Kind))
	}
}

// ParseScript parses statements separated by ';' or newlines:
//
//	select <minutes>   snap to the nearest preset
//	turn <steps>       rotate the knob
//	press              press the button
//	wait <duration>    let time pass ("3s", "1m30s")
//	status             print the controller state
//
// Lines starting with '#' are comments.
func ParseScript(src string) ([]Step, error) {
	var steps []Step
	for lineNo, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, stmt := range strings.Split(line, ";") {
			fields := strings.Fields(stmt)
			if len(fields) == 0 {
				continue
			}
			step, err := parseStep(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %q: %w", lineNo+1, strings.TrimSpace(stmt), err)
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}

func parseStep(fields []string) (Step, error) {
	verb, args := strings.ToLower(fields[0]), fields[1:]
	arity := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s takes %d argument(s), got %d", verb, n, len(args))
		}
		return nil
	}
	switch verb {
	case "select", "turn":
		if err := arity(1); err != nil {
			return Step{}, err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Step{}, fmt.Errorf("invalid number %q", args[0])
		}
		if verb == "select" {
			if n < 0 {
				return Step{}, fmt.Errorf("minutes must not be negative")
			}
			return Step{Kind: StepSelect, Value: n}, nil
		}
		return Step{Kind: StepTurn, Value: n}, nil
	case "press":
		if err := arity(0); err != nil {
			return Step{}, err
		}
		return Step{Kind: StepPress}, nil
	case "wait":
		if err := arity(1); err != nil {
			return Step{}, err
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return Step{}, err
		}
		if d < 0 {
			return Step{}, fmt.Errorf("wait must not be negative")
		}
		return Step{Kind: StepWait, Wait: d}, nil
	case "status":
		if err := arity(0); err != nil {
			return Step{}, err
		}
		return Step{Kind: StepStatus}, nil
	default:
		return Step{}, fmt.Errorf("unknown command %q", verb)
	}
}
