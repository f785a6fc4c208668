package engine

import "strings"

// evaluateCondition derives a boolean from a condition subtree's outcome.
// Rules, in order:
//   - an execution error counts as false
//   - a group result reports its own success flag
//   - a command output map with a "success" key uses it
//   - a command output map with an "error" key is false
//   - a command output (or its "output" key) that is a bool is used directly
//   - a string output is true only when it contains one of the literal
//     substrings "success", "complete", or "passed" (case-sensitive)
//   - anything else falls back to generic truthiness of the result
func evaluateCondition(result Result, err error) bool {
	if err != nil {
		return false
	}
	if result == nil {
		return false
	}

	switch r := result.(type) {
	case *GroupResult:
		return r.OK
	case *BackgroundResult:
		return evaluateCondition(r.Foreground, nil)
	case *CommandResult:
		return evaluateOutput(r.Output)
	default:
		return result.Success()
	}
}

func evaluateOutput(output any) bool {
	switch v := output.(type) {
	case nil:
		// An empty but successful command counts as true.
		return true
	case bool:
		return v
	case string:
		return containsSuccessMarker(v)
	case map[string]any:
		if success, ok := v["success"]; ok {
			if b, ok := success.(bool); ok {
				return b
			}
			return evaluateOutput(success)
		}
		if _, ok := v["error"]; ok {
			return false
		}
		if out, ok := v["output"]; ok {
			switch o := out.(type) {
			case bool:
				return o
			case string:
				return containsSuccessMarker(o)
			}
		}
		return true
	default:
		return true
	}
}

func containsSuccessMarker(s string) bool {
	for _, marker := range []string{"success", "complete", "passed"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
