package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smart_learning_backend/internal/config"
	"smart_learning_backend/internal/util"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{"裸数组", `[{"a":1}]`, `[{"a":1}]`},
		{"散文包裹", "Here are the questions:\n[{\"a\":1}]\nHope this helps!", `[{"a":1}]`},
		{"代码块包裹", "```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"没有数组", "I cannot generate questions.", ""},
		{"只有左括号", "[", ""},
		{"空串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONArray(tt.response); got != tt.want {
				t.Errorf("ExtractJSONArray(%q) = %q, want %q", tt.response, got, tt.want)
			}
		})
	}
}

func validQuestionJSON(i int) string {
	return fmt.Sprintf(`{
		"question": "Question %d?",
		"choices": ["A", "B", "C", "D"],
		"correct_answer": %d
	}`, i, i%4)
}

func TestParseGeneratedQuestions(t *testing.T) {
	t.Run("全部合规", func(t *testing.T) {
		response := "Sure! ```json\n[" + validQuestionJSON(1) + "," + validQuestionJSON(2) + "]\n```"
		got := ParseGeneratedQuestions(response, 10)
		if len(got) != 2 {
			t.Fatalf("got %d questions, want 2", len(got))
		}
		if got[0].Question != "Question 1?" || got[0].CorrectAnswer != 1 {
			t.Errorf("unexpected first question: %+v", got[0])
		}
	})

	t.Run("不合规条目被丢弃", func(t *testing.T) {
		items := []string{
			validQuestionJSON(1),
			`{"question": "", "choices": ["A","B","C","D"], "correct_answer": 0}`,   // 空题干
			`{"question": "Q?", "choices": ["A","B","C"], "correct_answer": 0}`,      // 3 个选项
			`{"question": "Q?", "choices": ["A","B","C","D"], "correct_answer": 4}`,  // 下标越界
			`{"question": "Q?", "choices": ["A","B","C","D"]}`,                       // 缺字段
			`"just a string"`,                                                        // 非对象
			validQuestionJSON(2),
		}
		got := ParseGeneratedQuestions("["+strings.Join(items, ",")+"]", 10)
		if len(got) != 2 {
			t.Fatalf("got %d questions, want 2 valid ones", len(got))
		}
	})

	t.Run("截断到请求数量", func(t *testing.T) {
		items := make([]string, 0, 12)
		for i := 0; i < 12; i++ {
			items = append(items, validQuestionJSON(i))
		}
		got := ParseGeneratedQuestions("["+strings.Join(items, ",")+"]", 10)
		if len(got) != 10 {
			t.Errorf("got %d questions, want truncation at 10", len(got))
		}
	})

	t.Run("整体不是JSON", func(t *testing.T) {
		if got := ParseGeneratedQuestions("[not json at all]", 10); len(got) != 0 {
			t.Errorf("got %d questions, want 0 for malformed array", len(got))
		}
	})

	t.Run("没有数组", func(t *testing.T) {
		if got := ParseGeneratedQuestions("no questions here", 10); len(got) != 0 {
			t.Errorf("got %d questions, want 0", len(got))
		}
	})
}

func TestGenerateFromCorpus(t *testing.T) {
	t.Run("合规结果", func(t *testing.T) {
		ai, _ := newAIStub(t, "["+validQuestionJSON(1)+","+validQuestionJSON(2)+"]")
		svc := &QuizGenService{AI: ai}

		questions, err := svc.GenerateFromCorpus(context.Background(), "corpus", 10)
		if err != nil {
			t.Fatalf("GenerateFromCorpus: %v", err)
		}
		if len(questions) != 2 {
			t.Errorf("got %d questions, want 2", len(questions))
		}
	})

	t.Run("回复里没有题目", func(t *testing.T) {
		// 后端正常应答但给的是散文，必须报错而不是静默返回空列表
		ai, _ := newAIStub(t, "I'm sorry, I cannot generate questions for this content.")
		svc := &QuizGenService{AI: ai}

		questions, err := svc.GenerateFromCorpus(context.Background(), "corpus", 10)
		if !errors.Is(err, util.ErrNoQuestions) {
			t.Errorf("err = %v, want ErrNoQuestions", err)
		}
		if len(questions) != 0 {
			t.Errorf("got %d questions, want 0", len(questions))
		}
	})

	t.Run("后端故障", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		svc := &QuizGenService{AI: NewAIService(config.AIConfig{BaseURL: srv.URL})}
		if _, err := svc.GenerateFromCorpus(context.Background(), "corpus", 10); !errors.Is(err, util.ErrNoQuestions) {
			t.Errorf("err = %v, want ErrNoQuestions", err)
		}
	})
}

func TestBuildQuestionModels(t *testing.T) {
	items := []GeneratedQuestion{
		{Question: "Q1?", Choices: []string{"A", "B", "C", "D"}, CorrectAnswer: 2},
		{Question: "Q2?", Choices: []string{"E", "F", "G", "H"}, CorrectAnswer: 0},
	}

	questions := BuildQuestionModels(items)
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}

	for i, q := range questions {
		if q.Position != uint(i) {
			t.Errorf("question %d: position = %d, want %d", i, q.Position, i)
		}
		if len(q.Choices) != 4 {
			t.Fatalf("question %d: got %d choices, want 4", i, len(q.Choices))
		}

		correct := 0
		for ci, c := range q.Choices {
			if c.IsCorrect {
				correct++
				if ci != items[i].CorrectAnswer {
					t.Errorf("question %d: correct choice at index %d, want %d", i, ci, items[i].CorrectAnswer)
				}
			}
		}
		if correct != 1 {
			t.Errorf("question %d: %d correct choices, want exactly 1", i, correct)
		}
	}
}

func TestBuildGenerationPromptContract(t *testing.T) {
	prompt := buildGenerationPrompt("some content", 5)

	if !strings.Contains(prompt, "generate 5 multiple choice questions") {
		t.Error("prompt should carry the requested question count")
	}
	if !strings.Contains(prompt, "some content") {
		t.Error("prompt should embed the corpus")
	}
	// 结构契约必须出现在提示词里，解析端依赖它
	for _, key := range []string{`"question"`, `"choices"`, `"correct_answer"`} {
		if !strings.Contains(prompt, key) {
			t.Errorf("prompt missing JSON contract key %s", key)
		}
	}
}

func TestGeneratedQuestionJSONTags(t *testing.T) {
	var q GeneratedQuestion
	payload := `{"question":"Q?","choices":["A","B","C","D"],"correct_answer":3}`
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.CorrectAnswer != 3 || len(q.Choices) != 4 {
		t.Errorf("unexpected decode result: %+v", q)
	}
}
