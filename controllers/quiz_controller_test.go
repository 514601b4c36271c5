package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vnkhanh/code-quiz-web/middleware"
	"github.com/vnkhanh/code-quiz-web/models"
	"github.com/vnkhanh/code-quiz-web/services"
	mock_services "github.com/vnkhanh/code-quiz-web/services/mock"
	"github.com/vnkhanh/code-quiz-web/utils"
)

const testSecret = "secreto-de-test"

func init() {
	gin.SetMode(gin.TestMode)
}

func quizQuestion(i int) *models.Question {
	correct := fmt.Sprintf("R%d", i)
	return &models.Question{
		Prompt:      fmt.Sprintf("pregunta %d", i),
		Code:        fmt.Sprintf("print(%d)", i),
		Choices:     []string{correct, "x", "y", "z"},
		Correct:     correct,
		Explanation: "explicación",
		Topics:      []string{"tema"},
	}
}

// newQuizApp dựng router y như routes.SetupRouter nhưng đăng ký tay
// để test trong package không tạo vòng import.
func newQuizApp(t *testing.T, cache *services.QuestionCache) (*gin.Engine, *utils.SessionCodec) {
	t.Helper()

	codec := utils.NewSessionCodec(testSecret)

	r := gin.New()
	r.LoadHTMLGlob("../templates/*.html")
	r.Use(middleware.DepsMiddleware(cache, codec, zap.NewNop()))
	r.GET("/health", HealthCheck)
	r.GET("/", Inicio)
	r.GET("/quiz", QuizGet)
	r.POST("/quiz", QuizPost)
	r.GET("/resultado", Resultado)
	r.GET("/error", ErrorPage)
	return r, codec
}

func filledCache(t *testing.T, n int) *services.QuestionCache {
	t.Helper()

	// generator không có EXPECT: chạm tới Gemini là test fail
	ctrl := gomock.NewController(t)
	gen := mock_services.NewMockTextGenerator(ctrl)
	svc := services.NewQuestionService(gen, zap.NewNop())

	cache := services.NewQuestionCache(svc, services.CacheConfig{Size: n + 1, LowWater: 1}, zap.NewNop())
	for i := 0; i < n; i++ {
		require.True(t, cache.Put(quizQuestion(i)))
	}
	return cache
}

// cookieJar gom Set-Cookie của từng response để gắn vào request kế tiếp.
type cookieJar map[string]string

func (j cookieJar) update(w *httptest.ResponseRecorder) {
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(j, ck.Name)
			continue
		}
		j[ck.Name] = ck.Value
	}
}

func (j cookieJar) apply(req *http.Request) {
	for name, value := range j {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func (j cookieJar) get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	j.apply(req)
	r.ServeHTTP(w, req)
	j.update(w)
	return w
}

func (j cookieJar) postAnswer(r *gin.Engine, answer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	form := url.Values{"respuesta": {answer}}
	req := httptest.NewRequest(http.MethodPost, "/quiz", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	j.apply(req)
	r.ServeHTTP(w, req)
	j.update(w)
	return w
}

// decodeSession đọc phiên hiện tại trong jar qua codec thật.
func decodeSession(jar cookieJar, codec *utils.SessionCodec) *models.QuizSession {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/quiz", nil)
	jar.apply(c.Request)
	return codec.Get(c)
}

func TestInicio_ClearsSession(t *testing.T) {
	t.Parallel()

	r, _ := newQuizApp(t, filledCache(t, 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "quiz_session", Value: "lo-que-sea"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Comenzar")

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "quiz_session" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

// Khách mới vào /quiz: tạo phiên với bộ đếm 0 và render câu hỏi số 1.
func TestQuizGet_NewVisitor(t *testing.T) {
	t.Parallel()

	r, codec := newQuizApp(t, filledCache(t, 1))
	jar := cookieJar{}

	w := jar.get(r, "/quiz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pregunta 0")
	assert.Contains(t, w.Body.String(), "Pregunta 1 de 10")

	session := decodeSession(jar, codec)
	require.True(t, session.Active())
	assert.Equal(t, 0, session.Score)
	assert.Equal(t, 0, session.Answered)
	assert.Equal(t, "R0", session.Current.Correct)
}

// Trả lời đúng câu 1: redirect về /quiz, phiên ghi total=1, puntaje=1.
func TestQuizPost_CorrectAnswer(t *testing.T) {
	t.Parallel()

	r, codec := newQuizApp(t, filledCache(t, 2))
	jar := cookieJar{}

	jar.get(r, "/quiz")
	w := jar.postAnswer(r, " R0 ") // khoảng trắng thừa không được tính sai

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/quiz", w.Header().Get("Location"))

	session := decodeSession(jar, codec)
	require.True(t, session.Active())
	assert.Equal(t, 1, session.Score)
	assert.Equal(t, 1, session.Answered)
	assert.Equal(t, "R1", session.Current.Correct)
	assert.Empty(t, session.Mistakes)
}

func TestQuizPost_WithoutSessionRedirectsHome(t *testing.T) {
	t.Parallel()

	r, _ := newQuizApp(t, filledCache(t, 1))
	jar := cookieJar{}

	w := jar.postAnswer(r, "R0")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

// Lượt chơi trọn vẹn: 10 câu, 3 đúng. Kết thúc phải redirect sang
// /resultado?correctas=3, xoá phiên và mang đúng 7 câu sai sang cookie kết quả.
func TestQuiz_FullRun(t *testing.T) {
	t.Parallel()

	r, codec := newQuizApp(t, filledCache(t, 10))
	jar := cookieJar{}
	jar.get(r, "/quiz")

	answerCorrectly := map[int]bool{0: true, 4: true, 7: true}

	var final *httptest.ResponseRecorder
	for i := 0; i < models.QuizLength; i++ {
		answer := "respuesta equivocada"
		if answerCorrectly[i] {
			answer = fmt.Sprintf("R%d", i)
		}
		final = jar.postAnswer(r, answer)

		if i < models.QuizLength-1 {
			require.Equal(t, http.StatusSeeOther, final.Code)
			require.Equal(t, "/quiz", final.Header().Get("Location"))
		}
	}

	require.Equal(t, http.StatusSeeOther, final.Code)
	loc, err := url.Parse(final.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/resultado", loc.Path)
	assert.Equal(t, "3", loc.Query().Get("correctas"))
	assert.NotEmpty(t, loc.Query().Get("tiempo"))

	// phiên đã bị xoá
	_, hasSession := jar["quiz_session"]
	assert.False(t, hasSession)
	session := decodeSession(jar, codec)
	assert.False(t, session.Active())

	// cookie kết quả mang đúng 7 câu sai
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/resultado", nil)
	jar.apply(c.Request)
	mistakes := codec.TakeMistakes(c)
	require.Len(t, mistakes, 7)
	assert.Equal(t, "respuesta equivocada", mistakes[0].Selected)

	// màn hình kết quả render được với query thật
	w := jar.get(r, final.Header().Get("Location"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3")
}

// Cache rỗng và Gemini chết hẳn: hết 10 lần retry phải đưa khách sang /error với 500.
func TestQuizGet_RetryExhausted(t *testing.T) {
	old := drawRetryDelay
	drawRetryDelay = time.Millisecond
	defer func() { drawRetryDelay = old }()

	ctrl := gomock.NewController(t)
	gen := mock_services.NewMockTextGenerator(ctrl)
	gen.EXPECT().GenerateText(gomock.Any(), gomock.Any()).
		Return("", errors.New("servidor caído")).AnyTimes()

	svc := services.NewQuestionService(gen, zap.NewNop())
	cache := services.NewQuestionCache(svc, services.CacheConfig{
		Size:        2,
		LowWater:    1,
		TakeTimeout: time.Millisecond,
	}, zap.NewNop())

	r, _ := newQuizApp(t, cache)
	jar := cookieJar{}

	w := jar.get(r, "/quiz")
	require.Equal(t, http.StatusSeeOther, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/error", loc.Path)
	assert.Equal(t, "Límite de intentos superado", loc.Query().Get("detalle"))

	w = jar.get(r, w.Header().Get("Location"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Límite de intentos superado")
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	r, _ := newQuizApp(t, filledCache(t, 2))
	jar := cookieJar{}

	w := jar.get(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"size":2`)
}
