package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vnkhanh/code-quiz-web/models"
	"github.com/vnkhanh/code-quiz-web/services"
	"github.com/vnkhanh/code-quiz-web/utils"
)

// Chính sách retry chung cho mọi chỗ rút câu hỏi: tối đa 10 lần, mỗi lần cách 2 giây.
const maxDrawAttempts = 10

// biến thay vì hằng để test rút ngắn được thời gian chờ
var drawRetryDelay = 2 * time.Second

// Inicio hiển thị trang giới thiệu và xoá phiên cũ nếu có.
func Inicio(c *gin.Context) {
	sessions := c.MustGet("sessions").(*utils.SessionCodec)
	sessions.Clear(c)
	c.HTML(http.StatusOK, "inicio.html", gin.H{})
}

// QuizGet hiển thị câu hỏi hiện tại. Phiên chưa có hoặc thiếu dữ liệu thì
// khởi tạo phiên mới với một câu hỏi rút từ cache.
func QuizGet(c *gin.Context) {
	cache := c.MustGet("cache").(*services.QuestionCache)
	sessions := c.MustGet("sessions").(*utils.SessionCodec)
	log := c.MustGet("logger").(*zap.Logger)

	session := sessions.Get(c)
	if !session.Active() {
		question, ok := drawValidQuestion(c, cache, log)
		if !ok {
			redirectRetryExhausted(c)
			return
		}
		session = models.NewQuizSession(question, time.Now())
	}

	// Câu hiện tại có thể hỏng (cache cũ, race): rút lại trước khi render
	if !session.Current.IsValid() {
		question, ok := drawValidQuestion(c, cache, log)
		if !ok {
			redirectRetryExhausted(c)
			return
		}
		session.Current = question
	}

	sessions.Set(c, session)
	c.HTML(http.StatusOK, "quiz.html", gin.H{
		"pregunta":     session.Current,
		"num_pregunta": session.Answered + 1,
	})
}

// QuizPost chấm đáp án của khách rồi chuyển sang câu kế tiếp,
// hoặc sang trang kết quả khi đã đủ 10 câu.
func QuizPost(c *gin.Context) {
	cache := c.MustGet("cache").(*services.QuestionCache)
	sessions := c.MustGet("sessions").(*utils.SessionCodec)
	log := c.MustGet("logger").(*zap.Logger)

	session := sessions.Get(c)
	if !session.Active() {
		// Không có phiên hợp lệ: quay về trang đầu, không phải lỗi
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if !session.Current.IsValid() {
		question, ok := drawValidQuestion(c, cache, log)
		if !ok {
			redirectRetryExhausted(c)
			return
		}
		session.Current = question
	}

	session.Answer(c.PostForm("respuesta"))

	if session.Complete() {
		elapsed := session.Elapsed(time.Now())
		sessions.SetMistakes(c, session.Mistakes)
		sessions.Clear(c)
		c.Redirect(http.StatusSeeOther,
			fmt.Sprintf("/resultado?correctas=%d&tiempo=%d", session.Score, elapsed))
		return
	}

	question, ok := drawValidQuestion(c, cache, log)
	if !ok {
		redirectRetryExhausted(c)
		return
	}
	session.Current = question

	sessions.Set(c, session)
	c.Redirect(http.StatusSeeOther, "/quiz")
}

// Resultado hiển thị màn hình cuối: điểm, thời gian và các câu sai.
func Resultado(c *gin.Context) {
	sessions := c.MustGet("sessions").(*utils.SessionCodec)

	c.HTML(http.StatusOK, "resultado.html", gin.H{
		"correctas": c.DefaultQuery("correctas", "0"),
		"tiempo":    c.DefaultQuery("tiempo", "0"),
		"errores":   sessions.TakeMistakes(c),
	})
}

// ErrorPage hiển thị lỗi chung cho khách, luôn trả 500.
func ErrorPage(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"detalle": c.Query("detalle"),
		"texto":   c.Query("texto"),
	})
}

// drawValidQuestion rút một câu hỏi hợp lệ từ cache với retry có giới hạn.
// Hết lượt retry là đường duy nhất dẫn tới trang lỗi.
func drawValidQuestion(c *gin.Context, cache *services.QuestionCache, log *zap.Logger) (*models.Question, bool) {
	question, err := cache.Take(c.Request.Context())
	for attempts := 0; (err != nil || !question.IsValid()) && attempts < maxDrawAttempts; attempts++ {
		time.Sleep(drawRetryDelay)
		question, err = cache.Take(c.Request.Context())
	}
	if err != nil || !question.IsValid() {
		log.Warn("không rút được câu hỏi hợp lệ sau khi retry", zap.Error(err))
		return nil, false
	}
	return question, true
}

func redirectRetryExhausted(c *gin.Context) {
	q := url.Values{}
	q.Set("detalle", "Límite de intentos superado")
	q.Set("texto", "No se pudo generar una pregunta válida. Por favor intente nuevamente más tarde.")
	c.Redirect(http.StatusSeeOther, "/error?"+q.Encode())
}
