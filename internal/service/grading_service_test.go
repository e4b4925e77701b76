package service

import (
	"testing"

	"smart_learning_backend/internal/model"
)

// 构造一道 4 选 1 的题目，选项 ID 从 baseChoiceID 起连续分配
func makeQuestion(id, baseChoiceID uint, correctIndex int) model.Question {
	q := model.Question{
		BaseModel: model.BaseModel{ID: id},
		Text:      "question",
	}
	for i := 0; i < 4; i++ {
		q.Choices = append(q.Choices, model.Choice{
			BaseModel:  model.BaseModel{ID: baseChoiceID + uint(i)},
			Text:       "choice",
			IsCorrect:  i == correctIndex,
			QuestionID: id,
		})
	}
	return q
}

func TestGradeQuizScore(t *testing.T) {
	questions := []model.Question{
		makeQuestion(1, 10, 0),
		makeQuestion(2, 20, 1),
		makeQuestion(3, 30, 2),
		makeQuestion(4, 40, 3),
	}

	// 4 题对 3 题
	answers := map[string]uint{
		"1": 10, // 对
		"2": 21, // 对
		"3": 32, // 对
		"4": 40, // 错
	}

	result := GradeQuiz(questions, answers)

	if result.Correct != 3 || result.Total != 4 {
		t.Fatalf("correct/total = %d/%d, want 3/4", result.Correct, result.Total)
	}
	if result.Score != 7.5 {
		t.Errorf("score = %v, want 7.5", result.Score)
	}
	if len(result.Details) != 4 {
		t.Fatalf("got %d details, want 4", len(result.Details))
	}
	if !result.Details[0].IsCorrect || result.Details[3].IsCorrect {
		t.Error("per-question verdicts do not match answers")
	}
}

func TestGradeQuizRounding(t *testing.T) {
	questions := []model.Question{
		makeQuestion(1, 10, 0),
		makeQuestion(2, 20, 0),
		makeQuestion(3, 30, 0),
	}
	answers := map[string]uint{"1": 10}

	result := GradeQuiz(questions, answers)
	// 1/3 * 10 = 3.333... 保留两位
	if result.Score != 3.33 {
		t.Errorf("score = %v, want 3.33", result.Score)
	}
}

func TestGradeQuizEmptyAnswers(t *testing.T) {
	questions := []model.Question{
		makeQuestion(1, 10, 0),
		makeQuestion(2, 20, 1),
	}

	result := GradeQuiz(questions, map[string]uint{})

	if result.Score != 0 || result.Correct != 0 {
		t.Errorf("score/correct = %v/%d, want 0/0", result.Score, result.Correct)
	}
	for i, d := range result.Details {
		if d.SelectedText != NoAnswerMarker {
			t.Errorf("detail %d: selected = %q, want no-answer marker", i, d.SelectedText)
		}
	}
}

func TestGradeQuizNoQuestions(t *testing.T) {
	result := GradeQuiz(nil, map[string]uint{"1": 10})
	if result.Score != 0 || result.Total != 0 {
		t.Errorf("score/total = %v/%d, want 0/0 for empty quiz", result.Score, result.Total)
	}
}

func TestGradeQuizNoCorrectChoice(t *testing.T) {
	// 人工编辑可能出现没有正确选项的题，任何作答都算错
	q := makeQuestion(1, 10, 0)
	for i := range q.Choices {
		q.Choices[i].IsCorrect = false
	}

	result := GradeQuiz([]model.Question{q}, map[string]uint{"1": 10})

	if result.Correct != 0 {
		t.Errorf("correct = %d, want 0 when question has no correct choice", result.Correct)
	}
	if result.Details[0].CorrectText != NoCorrectChoiceMarker {
		t.Errorf("correct text = %q, want marker", result.Details[0].CorrectText)
	}
}

func TestGradeQuizForeignChoiceID(t *testing.T) {
	// 答案里的选项 ID 不属于该题：按答错计，展示占位文案
	questions := []model.Question{makeQuestion(1, 10, 0)}
	result := GradeQuiz(questions, map[string]uint{"1": 999})

	if result.Correct != 0 {
		t.Errorf("correct = %d, want 0", result.Correct)
	}
	if result.Details[0].SelectedText != NoAnswerMarker {
		t.Errorf("selected = %q, want marker for foreign choice ID", result.Details[0].SelectedText)
	}
}
