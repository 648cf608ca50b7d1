package resolution

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tinkermonkey/specaudit/pkg/model"
)

// Choice selects how one queue item is executed.
type Choice int

const (
	ChoiceApplyPrimary Choice = iota
	ChoiceApplyAlternative
	ChoiceSkip
	ChoiceCustom
)

// Action pairs a choice with the free-text command of a custom choice.
type Action struct {
	Choice Choice
	Custom string
}

// Chooser decides the action for a queue item. The engine is agnostic to
// which implementation is active: the interactive prompter and the
// fixed-default chooser are interchangeable.
type Chooser interface {
	Choose(item *model.QueueItem) (Action, error)
}

// InteractiveChooser prompts on the given reader/writer pair, one item at a
// time.
type InteractiveChooser struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewInteractiveChooser builds a prompter over in/out (normally stdin and
// stdout).
func NewInteractiveChooser(in io.Reader, out io.Writer) *InteractiveChooser {
	return &InteractiveChooser{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Choose shows the item and reads one selection. EOF on the input counts as
// skip, so piped sessions terminate cleanly.
func (c *InteractiveChooser) Choose(item *model.QueueItem) (Action, error) {
	fmt.Fprintf(c.out, "\n[%s queue] %s finding (alignment %d, roi %s)\n", item.Queue, item.Kind, item.AlignmentScore, item.ROI)
	fmt.Fprintf(c.out, "  %s\n", item.Suggestion)
	fmt.Fprintf(c.out, "  classified action: %s\n", item.Action)
	fmt.Fprintf(c.out, "  [1] apply  [2] apply alternative  [s] skip  [c] custom > ")

	for c.scanner.Scan() {
		switch strings.TrimSpace(c.scanner.Text()) {
		case "1", "a", "apply":
			return Action{Choice: ChoiceApplyPrimary}, nil
		case "2", "alt":
			return Action{Choice: ChoiceApplyAlternative}, nil
		case "s", "skip", "":
			return Action{Choice: ChoiceSkip}, nil
		case "c", "custom":
			fmt.Fprintf(c.out, "  custom command > ")
			if !c.scanner.Scan() {
				return Action{Choice: ChoiceSkip}, nil
			}
			return Action{Choice: ChoiceCustom, Custom: strings.TrimSpace(c.scanner.Text())}, nil
		default:
			fmt.Fprintf(c.out, "  [1] apply  [2] apply alternative  [s] skip  [c] custom > ")
		}
	}
	if err := c.scanner.Err(); err != nil {
		return Action{}, fmt.Errorf("failed to read selection: %w", err)
	}
	return Action{Choice: ChoiceSkip}, nil
}

// DefaultChooser substitutes a fixed default action per finding type for
// autonomous runs. Gap candidates apply; duplicates apply only at high
// confidence (the similarity evidence is strongest and the alignment lowest);
// balance and connectivity findings are judgment calls and stay untouched.
type DefaultChooser struct{}

// Choose returns the fixed default for the item's finding type.
func (DefaultChooser) Choose(item *model.QueueItem) (Action, error) {
	switch item.Kind {
	case model.FindingGap:
		return Action{Choice: ChoiceApplyPrimary}, nil
	case model.FindingDuplicate:
		if item.Duplicate != nil && item.Duplicate.Confidence == model.ConfidenceHigh {
			return Action{Choice: ChoiceApplyPrimary}, nil
		}
		return Action{Choice: ChoiceSkip}, nil
	default:
		return Action{Choice: ChoiceSkip}, nil
	}
}
