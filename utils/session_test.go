package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/code-quiz-web/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testSession() *models.QuizSession {
	return &models.QuizSession{
		Score:     2,
		Answered:  3,
		StartedAt: time.Now().Unix(),
		Current: &models.Question{
			Prompt:  "¿Qué imprime?",
			Code:    "print(2 ** 3)",
			Choices: []string{"8", "6", "9", "23"},
			Correct: "8",
		},
		Mistakes: []models.Mistake{
			{Prompt: "otra", Correct: "b", Selected: "c"},
		},
	}
}

// newTestContext tạo gin context với các cookie cho sẵn.
func newTestContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/quiz", nil)
	for _, ck := range cookies {
		c.Request.AddCookie(ck)
	}
	return c, w
}

func cookieNamed(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("secreto-de-prueba")

	c, w := newTestContext()
	codec.Set(c, testSession())

	ck := cookieNamed(t, w, sessionCookie)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, sessionMaxAge, ck.MaxAge)

	c2, _ := newTestContext(&http.Cookie{Name: sessionCookie, Value: ck.Value})
	got := codec.Get(c2)

	require.True(t, got.Active())
	assert.Equal(t, 2, got.Score)
	assert.Equal(t, 3, got.Answered)
	assert.Equal(t, "8", got.Current.Correct)
	require.Len(t, got.Mistakes, 1)
	assert.Equal(t, "c", got.Mistakes[0].Selected)
}

// Cookie giả mạo, rác hay ký bằng secret khác đều phải ra phiên rỗng,
// không bao giờ ra lỗi.
func TestSessionCodec_BadCookieMeansEmptySession(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("secreto-de-prueba")

	c, w := newTestContext()
	codec.Set(c, testSession())
	signed := cookieNamed(t, w, sessionCookie).Value

	tests := []struct {
		name  string
		value string
	}{
		{name: "tampered signature", value: signed + "x"},
		{name: "garbage", value: "no-soy-un-token"},
		{name: "empty", value: ""},
		{
			name: "signed with another secret",
			value: func() string {
				other := NewSessionCodec("otro-secreto")
				oc, ow := newTestContext()
				other.Set(oc, testSession())
				return cookieNamed(t, ow, sessionCookie).Value
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestContext(&http.Cookie{Name: sessionCookie, Value: tt.value})
			got := codec.Get(c)
			require.NotNil(t, got)
			assert.False(t, got.Active())
		})
	}
}

func TestSessionCodec_NoCookie(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("secreto-de-prueba")
	c, _ := newTestContext()

	got := codec.Get(c)
	require.NotNil(t, got)
	assert.False(t, got.Active())
}

func TestSessionCodec_Clear(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("secreto-de-prueba")
	c, w := newTestContext()
	codec.Clear(c)

	ck := cookieNamed(t, w, sessionCookie)
	assert.Less(t, ck.MaxAge, 0)
}

func TestSessionCodec_MistakesRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewSessionCodec("secreto-de-prueba")
	mistakes := []models.Mistake{
		{Prompt: "p1", Correct: "a", Selected: "b"},
		{Prompt: "p2", Correct: "c", Selected: "d", Rationale: "porque sí"},
	}

	c, w := newTestContext()
	codec.SetMistakes(c, mistakes)
	ck := cookieNamed(t, w, resultCookie)

	c2, w2 := newTestContext(&http.Cookie{Name: resultCookie, Value: ck.Value})
	got := codec.TakeMistakes(c2)
	assert.Equal(t, mistakes, got)

	// đọc xong phải xoá cookie kết quả
	cleared := cookieNamed(t, w2, resultCookie)
	assert.Less(t, cleared.MaxAge, 0)

	// cookie hỏng cho ra danh sách rỗng
	c3, _ := newTestContext(&http.Cookie{Name: resultCookie, Value: ck.Value + "x"})
	assert.Nil(t, codec.TakeMistakes(c3))
}
