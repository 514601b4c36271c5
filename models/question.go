package models

import (
	"strings"

	"github.com/google/uuid"
)

// Số lựa chọn bắt buộc cho mỗi câu hỏi
const ChoiceCount = 4

// Question là một câu đọc-hiểu code Python do Gemini sinh ra.
// JSON tag giữ nguyên tên trường gốc để token phiên round-trip đúng format cũ.
type Question struct {
	ID          uuid.UUID `json:"id"`
	Prompt      string    `json:"pregunta"`
	Code        string    `json:"codigo"`
	Choices     []string  `json:"respuestas"`
	Correct     string    `json:"respuesta_correcta"`
	Explanation string    `json:"explicacion,omitempty"`
	Topics      []string  `json:"tematicas_usadas,omitempty"`
}

// IsValid kiểm tra câu hỏi có đủ trường và đúng 4 lựa chọn hay không.
// An toàn với nil, không bao giờ panic: dữ liệu hỏng chỉ trả về false.
func (q *Question) IsValid() bool {
	if q == nil {
		return false
	}
	if strings.TrimSpace(q.Prompt) == "" ||
		strings.TrimSpace(q.Code) == "" ||
		strings.TrimSpace(q.Correct) == "" {
		return false
	}
	if len(q.Choices) != ChoiceCount {
		return false
	}
	for _, choice := range q.Choices {
		if strings.TrimSpace(choice) == "" {
			return false
		}
	}
	return true
}

// Matches so sánh đáp án người dùng với đáp án đúng, bỏ qua khoảng trắng thừa.
func (q *Question) Matches(selected string) bool {
	if q == nil {
		return false
	}
	return strings.TrimSpace(selected) != "" &&
		strings.TrimSpace(selected) == strings.TrimSpace(q.Correct)
}
