package game

import (
	"fmt"
	"strings"

	"dicepot/models"
)

// Combination labels
const (
	LabelSingles      = "singles"
	LabelStraight135  = "straight-135"
	LabelStraight246  = "straight-246"
	LabelInvalidDice  = "bust: invalid dice"
	bustLabelPrefix   = "bust: "
	straightPoints    = 100
	pointsPerTripleUp = 100
	pointsPerOne      = 100
	pointsPerFive     = 50
)

// Combination is the scoring classification of a single throw
type Combination struct {
	Points int
	Label  string
	Bust   bool
}

// IsBustLabel reports whether a combination label describes a bust
func IsBustLabel(label string) bool {
	return strings.HasPrefix(label, bustLabelPrefix)
}

// Classify scores a throw. Rules are checked in priority order: triple, straight,
// singles, bust. A die outside [1,6] busts with LabelInvalidDice.
func Classify(dice models.DiceTriple) Combination {
	var counts [DieFaces + 1]int
	for _, v := range dice {
		if v < 1 || v > DieFaces {
			return Combination{Label: LabelInvalidDice, Bust: true}
		}
		counts[v]++
	}

	// Triples before singles: 1-1-1 scores 100, not 300
	for face := 1; face <= DieFaces; face++ {
		if counts[face] == DiceCount {
			return Combination{
				Points: pointsPerTripleUp * face,
				Label:  fmt.Sprintf("triple-%d", face),
			}
		}
	}

	if is135(counts) {
		return Combination{Points: straightPoints, Label: LabelStraight135}
	}
	if is246(counts) {
		return Combination{Points: straightPoints, Label: LabelStraight246}
	}

	if singles := pointsPerOne*counts[1] + pointsPerFive*counts[5]; singles > 0 {
		return Combination{Points: singles, Label: LabelSingles}
	}

	return Combination{Label: bustLabelPrefix + bustReason(dice, counts), Bust: true}
}

func is135(counts [DieFaces + 1]int) bool {
	return counts[1] == 1 && counts[3] == 1 && counts[5] == 1
}

func is246(counts [DieFaces + 1]int) bool {
	return counts[2] == 1 && counts[4] == 1 && counts[6] == 1
}

// bustReason explains a non-scoring throw and embeds the dice for diagnostics
func bustReason(dice models.DiceTriple, counts [DieFaces + 1]int) string {
	layout := fmt.Sprintf("%d-%d-%d", dice[0], dice[1], dice[2])
	hasOneOrFive := counts[1] > 0 || counts[5] > 0
	if !is135(counts) && !is246(counts) && !hasOneOrFive {
		return fmt.Sprintf("no 1/5 and not 135 or 246 (%s)", layout)
	}
	return fmt.Sprintf("not scoring (%s)", layout)
}
