package enums

import "fmt"

// Grade is the letter bucket derived from a company's weighted review average.
// GradeNotRated is a distinct sentinel for companies without approved reviews;
// it is never interchangeable with a numeric score of zero.
type Grade string

const (
	GradeAPlus    Grade = "A+"
	GradeA        Grade = "A"
	GradeAMinus   Grade = "A-"
	GradeBPlus    Grade = "B+"
	GradeB        Grade = "B"
	GradeBMinus   Grade = "B-"
	GradeCPlus    Grade = "C+"
	GradeC        Grade = "C"
	GradeCMinus   Grade = "C-"
	GradeDPlus    Grade = "D+"
	GradeD        Grade = "D"
	GradeDMinus   Grade = "D-"
	GradeF        Grade = "F"
	GradeNotRated Grade = "NR"
)

var validGrades = []Grade{
	GradeAPlus,
	GradeA,
	GradeAMinus,
	GradeBPlus,
	GradeB,
	GradeBMinus,
	GradeCPlus,
	GradeC,
	GradeCMinus,
	GradeDPlus,
	GradeD,
	GradeDMinus,
	GradeF,
	GradeNotRated,
}

// String implements fmt.Stringer.
func (g Grade) String() string {
	return string(g)
}

// IsValid reports whether the value is a known Grade.
func (g Grade) IsValid() bool {
	for _, candidate := range validGrades {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGrade converts raw input into a Grade.
func ParseGrade(value string) (Grade, error) {
	for _, candidate := range validGrades {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid grade %q", value)
}
