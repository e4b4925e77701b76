package service

import (
	"strings"
	"testing"
)

func TestBuildFeedbackPrompt(t *testing.T) {
	graded := &GradeResult{
		Score:   7.5,
		Correct: 3,
		Total:   4,
		Details: []AnswerDetail{
			{QuestionText: "What is a slice?", SelectedText: "A view over an array", CorrectText: "A view over an array", IsCorrect: true},
			{QuestionText: "What is a map?", SelectedText: NoAnswerMarker, CorrectText: "A hash table", IsCorrect: false},
		},
	}

	prompt := buildFeedbackPrompt("Go Basics", graded)

	if !strings.Contains(prompt, `"Go Basics"`) {
		t.Error("prompt missing quiz title")
	}
	if !strings.Contains(prompt, "7.50/10") || !strings.Contains(prompt, "3 of 4") {
		t.Error("prompt missing score summary")
	}
	if !strings.Contains(prompt, "What is a map?") || !strings.Contains(prompt, NoAnswerMarker) {
		t.Error("prompt missing per-question detail")
	}
	if !strings.Contains(prompt, "(CORRECT)") || !strings.Contains(prompt, "(INCORRECT)") {
		t.Error("prompt missing per-question verdicts")
	}

	// 输出结构契约：三个加粗小节
	for _, section := range []string{"**Strengths**", "**Weaknesses**", "**Next steps**"} {
		if !strings.Contains(prompt, section) {
			t.Errorf("prompt missing required section %s", section)
		}
	}
}
