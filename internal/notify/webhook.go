// notify реализует fan-out уведомлений о новых статьях по HTTP-вебхукам.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/pkg/log"
	"github.com/ashlinpj/xplore/internal/service"
)

// Webhook рассылает событие article.created на сконфигурированные адреса.
// Каждому адресу — отдельный POST; отказ одного адреса не мешает остальным.
type Webhook struct {
	urls   []string
	client *http.Client
}

var _ service.Notifier = (*Webhook)(nil)

// event — тело вебхука. Поля стабильны, это внешний контракт.
type event struct {
	Event     string    `json:"event"`
	ArticleID string    `json:"articleId"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Category  string    `json:"category"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// New создаёт рассыльщик. timeout ограничивает каждый POST по отдельности.
func New(urls []string, timeout time.Duration) *Webhook {
	return &Webhook{
		urls:   urls,
		client: &http.Client{Timeout: timeout},
	}
}

// NotifyArticleCreated шлёт событие на все адреса последовательно.
// Возвращает последнюю ошибку доставки; частичная доставка считается нормой
// и отражается только в логах вызывающей стороны.
func (w *Webhook) NotifyArticleCreated(ctx context.Context, article *models.Article) error {
	if len(w.urls) == 0 {
		return nil
	}

	body, err := json.Marshal(event{
		Event:     "article.created",
		ArticleID: article.ID,
		Title:     article.Title,
		Excerpt:   article.Excerpt,
		Category:  string(article.Category),
		Author:    article.Author,
		CreatedAt: article.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	lg := log.From(ctx)

	var lastErr error

	for _, u := range w.urls {
		if err := w.post(ctx, u, body); err != nil {
			lg.Warn("webhook delivery failed", "url", u, "err", err)
			lastErr = err
		}
	}

	return lastErr
}

func (w *Webhook) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook error: %s", resp.Status)
	}

	return nil
}
