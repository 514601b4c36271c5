package models

import "time"

// Số câu hỏi của một lượt chơi
const QuizLength = 10

// Mistake lưu lại một câu trả lời sai để hiển thị ở màn hình kết quả.
type Mistake struct {
	Prompt    string `json:"pregunta"`
	Code      string `json:"codigo"`
	Correct   string `json:"respuesta_correcta"`
	Selected  string `json:"respuesta_usuario"`
	Rationale string `json:"explicacion,omitempty"`
}

// QuizSession là toàn bộ tiến trình của một khách: nằm trong cookie đã ký,
// server không lưu gì cả.
type QuizSession struct {
	Score     int       `json:"puntaje"`
	Answered  int       `json:"total"`
	StartedAt int64     `json:"inicio"`
	Current   *Question `json:"pregunta_actual,omitempty"`
	Mistakes  []Mistake `json:"errores,omitempty"`
}

// NewQuizSession khởi tạo phiên mới với câu hỏi đầu tiên.
func NewQuizSession(first *Question, now time.Time) *QuizSession {
	return &QuizSession{
		StartedAt: now.Unix(),
		Current:   first,
	}
}

// Active báo phiên có đầy đủ dữ liệu để tiếp tục hay không.
// Cookie thiếu trường hoặc bị giả mạo sẽ decode ra phiên không active.
func (s *QuizSession) Active() bool {
	return s != nil && s.StartedAt > 0 && s.Current != nil
}

// Answer ghi nhận đáp án cho câu hiện tại: tăng bộ đếm đúng một lần,
// cộng điểm nếu đúng, ngược lại thêm vào danh sách lỗi.
func (s *QuizSession) Answer(selected string) bool {
	correct := s.Current.Matches(selected)
	s.Answered++
	if correct {
		s.Score++
	} else {
		s.Mistakes = append(s.Mistakes, Mistake{
			Prompt:    s.Current.Prompt,
			Code:      s.Current.Code,
			Correct:   s.Current.Correct,
			Selected:  selected,
			Rationale: s.Current.Explanation,
		})
	}
	return correct
}

// Complete báo lượt chơi đã đủ 10 câu.
func (s *QuizSession) Complete() bool {
	return s.Answered >= QuizLength
}

// Elapsed tính số giây từ lúc bắt đầu lượt chơi.
func (s *QuizSession) Elapsed(now time.Time) int64 {
	return now.Unix() - s.StartedAt
}
