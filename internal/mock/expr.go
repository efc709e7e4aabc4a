package mock

import (
	"fmt"
	"strconv"
	"strings"
)

// The template expression language is a closed set of forms:
//
//	random(min,max)      uniform integer
//	random([a, b, ...])  uniform choice
//	args.<name>          argument lookup
//	timestamp            current time, RFC 3339
//
// Anything else evaluates to its literal text. Keeping this an explicit enum
// of opcodes keeps the supported forms auditable and testable in isolation.
type exprKind int

const (
	exprLiteral exprKind = iota
	exprRandomInt
	exprRandomChoice
	exprArgument
	exprTimestamp
)

type expr struct {
	kind    exprKind
	min     int
	max     int
	choices []string
	arg     string
	literal string
}

func parseExpr(s string) expr {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "random([") && strings.HasSuffix(s, "])") {
		inner := s[len("random([") : len(s)-2]
		parts := strings.Split(inner, ",")
		choices := make([]string, 0, len(parts))
		for _, p := range parts {
			choices = append(choices, strings.Trim(strings.TrimSpace(p), `'"`))
		}
		return expr{kind: exprRandomChoice, choices: choices}
	}

	if strings.HasPrefix(s, "random(") && strings.HasSuffix(s, ")") {
		inner := s[len("random(") : len(s)-1]
		parts := strings.Split(inner, ",")
		if len(parts) == 2 {
			min, errMin := strconv.Atoi(strings.TrimSpace(parts[0]))
			max, errMax := strconv.Atoi(strings.TrimSpace(parts[1]))
			if errMin == nil && errMax == nil {
				return expr{kind: exprRandomInt, min: min, max: max}
			}
		}
		return expr{kind: exprLiteral, literal: s}
	}

	if name, ok := strings.CutPrefix(s, "args."); ok {
		return expr{kind: exprArgument, arg: name}
	}

	if s == "timestamp" {
		return expr{kind: exprTimestamp}
	}

	return expr{kind: exprLiteral, literal: s}
}

func (e *Executor) evalExpr(x expr, args map[string]any) any {
	switch x.kind {
	case exprRandomInt:
		return e.randInt(x.min, x.max)
	case exprRandomChoice:
		if len(x.choices) == 0 {
			return ""
		}
		return x.choices[e.randIntn(len(x.choices))]
	case exprArgument:
		if v, ok := args[x.arg]; ok {
			return v
		}
		return fmt.Sprintf("{missing: %s}", x.arg)
	case exprTimestamp:
		return e.timestamp()
	default:
		return x.literal
	}
}

// evalExprString parses and evaluates one expression against the arguments.
func (e *Executor) evalExprString(s string, args map[string]any) any {
	return e.evalExpr(parseExpr(s), args)
}
