package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnkhanh/code-quiz-web/models"
)

// Marker Gemini trả về khi hết quota
const quotaMarker = "RESOURCE_EXHAUSTED"

// Phân loại lỗi sinh câu hỏi
type ErrorKind string

const (
	ErrAPI        ErrorKind = "api"        // lời gọi Gemini thất bại
	ErrQuota      ErrorKind = "quota"      // thất bại do hết quota, cần backoff dài
	ErrParse      ErrorKind = "parse"      // text trả về không decode được thành JSON
	ErrValidation ErrorKind = "validation" // decode được nhưng thiếu trường / sai số lựa chọn
)

// GenerationError mang loại lỗi và nguyên văn text gây lỗi.
// Mọi lỗi sinh câu hỏi đều gói trong type này, không lỗi nào của Gemini
// thoát ra ngoài tầng service dưới dạng khác.
type GenerationError struct {
	Kind   ErrorKind
	Detail string
	Raw    string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generación fallida (%s): %s", e.Kind, e.Detail)
}

// IsQuotaError báo lỗi có phải do hết quota hay không.
func IsQuotaError(err error) bool {
	if ge, ok := err.(*GenerationError); ok {
		return ge.Kind == ErrQuota
	}
	return false
}

// Cấu trúc JSON đúng như Gemini được yêu cầu trả về.
// Respuestas để raw vì model lúc trả list, lúc trả chuỗi ngăn cách bằng phẩy.
type rawQuestion struct {
	Pregunta    string          `json:"Pregunta"`
	Codigo      string          `json:"Codigo"`
	Respuestas  json.RawMessage `json:"Respuestas"`
	Correcta    string          `json:"Respuesta correcta"`
	Explicacion string          `json:"Explicacion"`
	Tematicas   []string        `json:"tematicas_usadas"`
}

// QuestionService sinh một câu hỏi hoàn chỉnh từ Gemini: gọi model,
// bóc markdown fence, parse, chuẩn hoá và validate. Không tự retry —
// chính sách retry nằm ở phía gọi.
type QuestionService struct {
	gen TextGenerator
	log *zap.Logger
}

func NewQuestionService(gen TextGenerator, log *zap.Logger) *QuestionService {
	return &QuestionService{gen: gen, log: log}
}

// Generate gọi Gemini với danh sách temáticas cần tránh và trả về câu hỏi
// đã validate, hoặc *GenerationError.
func (s *QuestionService) Generate(ctx context.Context, prevTopics []string) (*models.Question, error) {
	text, err := s.gen.GenerateText(ctx, buildPrompt(prevTopics))
	if err != nil {
		kind := ErrAPI
		if strings.Contains(err.Error(), quotaMarker) {
			kind = ErrQuota
		}
		s.log.Warn("gọi Gemini thất bại", zap.String("kind", string(kind)), zap.Error(err))
		return nil, &GenerationError{Kind: kind, Detail: err.Error()}
	}

	question, gerr := parseQuestion(text)
	if gerr != nil {
		s.log.Warn("output Gemini không dùng được",
			zap.String("kind", string(gerr.Kind)),
			zap.String("detail", gerr.Detail))
		return nil, gerr
	}
	return question, nil
}

// parseQuestion biến text thô của Gemini thành Question.
// Model bị coi là không đáng tin: text "đáng lẽ" là JSON, việc ở đây
// là bóc tách phòng thủ chứ không tin hợp đồng.
func parseQuestion(text string) (*models.Question, *GenerationError) {
	clean := stripFences(text)

	var raw rawQuestion
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, &GenerationError{Kind: ErrParse, Detail: "no se pudo extraer el JSON: " + err.Error(), Raw: text}
	}

	question := &models.Question{
		ID:          uuid.New(),
		Prompt:      raw.Pregunta,
		Code:        raw.Codigo,
		Choices:     normalizeChoices(raw.Respuestas),
		Correct:     raw.Correcta,
		Explanation: raw.Explicacion,
		Topics:      raw.Tematicas,
	}
	if !question.IsValid() {
		return nil, &GenerationError{Kind: ErrValidation, Detail: "pregunta inválida o incompleta", Raw: text}
	}
	return question, nil
}

// stripFences bỏ cặp ```json / ``` mà model hay bọc quanh JSON.
func stripFences(text string) string {
	clean := strings.TrimSpace(text)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// normalizeChoices chấp nhận list JSON hoặc chuỗi "a, b, c, d" và
// trả về slice đã trim. Đưa list qua hàm này lần nữa cho ra y nguyên.
func normalizeChoices(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for i := range list {
			list[i] = strings.TrimSpace(list[i])
		}
		return list
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		parts := strings.Split(joined, ",")
		choices := make([]string, 0, len(parts))
		for _, p := range parts {
			choices = append(choices, strings.TrimSpace(p))
		}
		return choices
	}

	return nil
}
