package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vnkhanh/code-quiz-web/models"
)

// Các hằng của vòng nạp trước: ngưỡng nạp lại, các khoảng nghỉ và
// timeout chờ lấy câu hỏi từ buffer.
const (
	DefaultCacheSize   = 200              // sức chứa tối đa của buffer
	DefaultCacheMin    = 100              // dưới ngưỡng này worker mới gọi Gemini
	DefaultTakeTimeout = 10 * time.Second // chờ buffer tối đa trước khi sinh nóng

	refillInterval = 5 * time.Second  // nghỉ sau mỗi lần sinh (thành công hoặc lỗi thường)
	quotaBackoff   = 35 * time.Second // nghỉ dài khi hết quota
	idleInterval   = 2 * time.Second  // nghỉ khi buffer còn đầy
)

// CacheConfig là các nút chỉnh của cache; giá trị 0 dùng mặc định.
type CacheConfig struct {
	Size        int
	LowWater    int
	TakeTimeout time.Duration
}

// QuestionCache giữ sẵn một hàng đợi câu hỏi đã validate để request của khách
// hầu như không phải chờ Gemini. Một goroutine nạp duy nhất là producer,
// các request handler là consumer; buffer là channel có giới hạn nên
// không cần lock riêng. Danh sách temáticas gần nhất dùng lock riêng
// vì worker ghi còn đường request đọc.
type QuestionCache struct {
	questions chan *models.Question
	svc       *QuestionService
	log       *zap.Logger

	lowWater    int
	takeTimeout time.Duration

	mu           sync.Mutex
	recentTopics []string
}

func NewQuestionCache(svc *QuestionService, cfg CacheConfig, log *zap.Logger) *QuestionCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.LowWater <= 0 || cfg.LowWater > cfg.Size {
		cfg.LowWater = DefaultCacheMin
		if cfg.LowWater > cfg.Size {
			cfg.LowWater = cfg.Size / 2
		}
	}
	if cfg.TakeTimeout <= 0 {
		cfg.TakeTimeout = DefaultTakeTimeout
	}
	return &QuestionCache{
		questions:   make(chan *models.Question, cfg.Size),
		svc:         svc,
		log:         log,
		lowWater:    cfg.LowWater,
		takeTimeout: cfg.TakeTimeout,
	}
}

// Start chạy goroutine nạp trước. Vòng nạp sống suốt đời process,
// ctx chỉ để test dừng được nó.
func (c *QuestionCache) Start(ctx context.Context) {
	go c.refillLoop(ctx)
}

// refillLoop giữ buffer trên ngưỡng thấp: dưới ngưỡng thì sinh câu hỏi mới,
// trên ngưỡng thì chỉ ngủ rồi kiểm tra lại. Không một lỗi đơn lẻ nào
// được phép kết thúc vòng lặp.
func (c *QuestionCache) refillLoop(ctx context.Context) {
	for {
		var wait time.Duration
		if len(c.questions) < c.lowWater {
			wait = c.refillOnce(ctx)
		} else {
			wait = idleInterval
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// refillOnce sinh đúng một câu hỏi và trả về khoảng nghỉ kế tiếp.
func (c *QuestionCache) refillOnce(ctx context.Context) time.Duration {
	question, err := c.svc.Generate(ctx, c.RecentTopics())
	if err != nil {
		return backoffFor(err)
	}

	if c.Put(question) {
		c.setRecentTopics(question.Topics)
		c.log.Debug("đã nạp câu hỏi vào cache",
			zap.String("id", question.ID.String()),
			zap.Int("size", len(c.questions)))
	}
	return refillInterval
}

// backoffFor chọn khoảng nghỉ theo loại lỗi: hết quota nghỉ dài,
// còn lại nghỉ ngắn như sau một lần sinh thường.
func backoffFor(err error) time.Duration {
	if IsQuotaError(err) {
		return quotaBackoff
	}
	return refillInterval
}

// Put đẩy một câu hỏi vào buffer. Câu không hợp lệ không bao giờ vào cache;
// buffer đầy thì bỏ qua thay vì block producer.
func (c *QuestionCache) Put(question *models.Question) bool {
	if !question.IsValid() {
		return false
	}
	select {
	case c.questions <- question:
		return true
	default:
		return false
	}
}

// Take lấy một câu hỏi cho request của khách: chờ buffer theo timeout đã
// cấu hình, hết giờ hoặc vớ phải entry hỏng thì sinh nóng một câu —
// chấp nhận chậm cho đúng request đó thay vì trả lỗi ngay.
func (c *QuestionCache) Take(ctx context.Context) (*models.Question, error) {
	select {
	case question := <-c.questions:
		if question.IsValid() {
			return question, nil
		}
		return c.svc.Generate(ctx, c.RecentTopics())
	case <-time.After(c.takeTimeout):
		return c.svc.Generate(ctx, c.RecentTopics())
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len là số câu hỏi đang nằm trong buffer.
func (c *QuestionCache) Len() int {
	return len(c.questions)
}

// Cap là sức chứa tối đa của buffer.
func (c *QuestionCache) Cap() int {
	return cap(c.questions)
}

// RecentTopics trả về bản copy danh sách temáticas của câu hỏi sinh gần nhất.
func (c *QuestionCache) RecentTopics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	topics := make([]string, len(c.recentTopics))
	copy(topics, c.recentTopics)
	return topics
}

func (c *QuestionCache) setRecentTopics(topics []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recentTopics = topics
}
