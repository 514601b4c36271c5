package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/vnkhanh/code-quiz-web/models"
)

const (
	sessionCookie = "quiz_session"
	resultCookie  = "quiz_resultado"

	sessionMaxAge = 60 * 60 * 60 // giữ nguyên thời hạn cookie của sản phẩm gốc
	resultMaxAge  = 10 * 60     // cookie kết quả chỉ cần sống tới lúc render
)

// sessionClaims là phiên quiz đóng gói trong JWT ký HMAC.
type sessionClaims struct {
	models.QuizSession
	jwt.RegisteredClaims
}

// resultClaims mang danh sách câu sai sang màn hình kết quả
// sau khi phiên chính đã bị xoá.
type resultClaims struct {
	Mistakes []models.Mistake `json:"errores"`
	jwt.RegisteredClaims
}

// SessionCodec đọc/ghi phiên quiz qua cookie đã ký. Cookie giả mạo, hỏng
// hay hết hạn đều decode ra phiên rỗng — không bao giờ thành lỗi request.
type SessionCodec struct {
	secret []byte
}

func NewSessionCodec(secret string) *SessionCodec {
	return &SessionCodec{secret: []byte(secret)}
}

// Get trả về phiên trong cookie, hoặc phiên rỗng nếu cookie thiếu/không hợp lệ.
func (sc *SessionCodec) Get(c *gin.Context) *models.QuizSession {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return &models.QuizSession{}
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(cookie, &claims, sc.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return &models.QuizSession{}
	}
	return &claims.QuizSession
}

// Set ký phiên và ghi vào cookie httponly.
func (sc *SessionCodec) Set(c *gin.Context, session *models.QuizSession) {
	claims := sessionClaims{
		QuizSession: *session,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionMaxAge * time.Second)),
		},
	}
	sc.setSigned(c, sessionCookie, claims, sessionMaxAge)
}

// Clear xoá cookie phiên.
func (sc *SessionCodec) Clear(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// SetMistakes ghi danh sách câu sai vào cookie kết quả ngắn hạn.
func (sc *SessionCodec) SetMistakes(c *gin.Context, mistakes []models.Mistake) {
	claims := resultClaims{
		Mistakes: mistakes,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resultMaxAge * time.Second)),
		},
	}
	sc.setSigned(c, resultCookie, claims, resultMaxAge)
}

// TakeMistakes đọc danh sách câu sai rồi xoá cookie kết quả.
// Cookie hỏng cho ra danh sách rỗng.
func (sc *SessionCodec) TakeMistakes(c *gin.Context) []models.Mistake {
	defer c.SetCookie(resultCookie, "", -1, "/", "", false, true)

	cookie, err := c.Cookie(resultCookie)
	if err != nil {
		return nil
	}

	var claims resultClaims
	token, err := jwt.ParseWithClaims(cookie, &claims, sc.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil
	}
	return claims.Mistakes
}

func (sc *SessionCodec) keyFunc(_ *jwt.Token) (interface{}, error) {
	return sc.secret, nil
}

func (sc *SessionCodec) setSigned(c *gin.Context, name string, claims jwt.Claims, maxAge int) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(sc.secret)
	if err != nil {
		// HMAC ký hỏng chỉ xảy ra khi claims không marshal được; bỏ cookie, phiên coi như rỗng
		return
	}
	c.SetCookie(name, signed, maxAge, "/", "", false, true)
}
