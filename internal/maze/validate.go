package maze

import "fmt"

// ValidationError describes why a grid cannot be played as a level.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validation codes.
const (
	CodeEmpty          = "EMPTY"
	CodeNotRectangular = "NOT_RECTANGULAR"
	CodeMissingStart   = "MISSING_START"
	CodeMultipleStart  = "MULTIPLE_START"
	CodeMissingGoal    = "MISSING_GOAL"
)

// Validate checks that g is a playable level: non-empty, rectangular, with
// exactly one start and at least one goal.
func Validate(g Grid) error {
	if g.Height() == 0 || g.Width() == 0 {
		return ValidationError{Code: CodeEmpty, Message: "grid has no cells"}
	}

	w := g.Width()
	for y, line := range g {
		if len(line) != w {
			return ValidationError{
				Code:    CodeNotRectangular,
				Message: fmt.Sprintf("row %d has %d cells, expected %d", y, len(line), w),
			}
		}
	}

	switch n := g.Count(Start); {
	case n == 0:
		return ValidationError{Code: CodeMissingStart, Message: "grid has no start cell"}
	case n > 1:
		return ValidationError{
			Code:    CodeMultipleStart,
			Message: fmt.Sprintf("grid has %d start cells", n),
		}
	}

	if g.Count(Goal) == 0 {
		return ValidationError{Code: CodeMissingGoal, Message: "grid has no goal cell"}
	}
	return nil
}
