package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sparkyfitness-server/internal/config"
	domain "sparkyfitness-server/internal/domain/integration"
	garminuc "sparkyfitness-server/internal/usecase/garmin"
	"sparkyfitness-server/pkg/logger"
)

// HTTPClient реализует garminuc.Client поверх REST API внешнего
// Garmin-микросервиса (тот выполняет собственно вход в Garmin Connect
// и выгрузку данных, возвращая непрозрачный garth-дамп).
type HTTPClient struct {
	cfg    *config.GarminConfig
	http   *http.Client
	logger logger.Logger
}

// Убедимся на этапе компиляции, что клиент реализует интерфейс usecase-слоя.
var _ garminuc.Client = (*HTTPClient)(nil)

// NewHTTPClient создаёт клиента Garmin-микросервиса на основе конфигурации.
func NewHTTPClient(cfg *config.GarminConfig, logger logger.Logger) *HTTPClient {
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// loginResponse — ответ микросервиса на запрос входа.
type loginResponse struct {
	GarthDump string     `json:"garth_dump"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// summaryItem — одна дневная сводка в ответе микросервиса.
type summaryItem struct {
	Date            string  `json:"date"`
	Steps           int     `json:"steps"`
	ActiveCalories  float64 `json:"active_calories"`
	DurationMinutes float64 `json:"duration_minutes"`
	ActivityName    string  `json:"activity_name"`
}

// Login выполняет вход в Garmin Connect через микросервис.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, *time.Time, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}

	var resp loginResponse
	if err := c.post(ctx, "/api/login", body, &resp); err != nil {
		return "", nil, err
	}
	if resp.GarthDump == "" {
		return "", nil, fmt.Errorf("микросервис вернул пустой garth-дамп")
	}
	return resp.GarthDump, resp.ExpiresAt, nil
}

// DailySummaries возвращает дневные сводки активности за интервал дат.
func (c *HTTPClient) DailySummaries(ctx context.Context, garthDump string, from, to time.Time) ([]domain.DailySummary, error) {
	body, err := json.Marshal(map[string]string{
		"garth_dump": garthDump,
		"from":       from.Format("2006-01-02"),
		"to":         to.Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	var items []summaryItem
	if err := c.post(ctx, "/api/daily-summaries", body, &items); err != nil {
		return nil, err
	}

	summaries := make([]domain.DailySummary, 0, len(items))
	for _, it := range items {
		date, err := time.Parse("2006-01-02", it.Date)
		if err != nil {
			c.logger.Error("garmin summary has malformed date", map[string]any{
				"date": it.Date,
			})
			continue
		}
		summaries = append(summaries, domain.DailySummary{
			Date:            date,
			Steps:           it.Steps,
			ActiveCalories:  it.ActiveCalories,
			DurationMinutes: it.DurationMinutes,
			ActivityName:    it.ActivityName,
		})
	}
	return summaries, nil
}

// post выполняет POST-запрос к микросервису и декодирует JSON-ответ в out.
func (c *HTTPClient) post(ctx context.Context, path string, body []byte, out interface{}) error {
	if c.cfg.ServiceURL == "" {
		return fmt.Errorf("GARMIN_SERVICE_URL не настроен")
	}

	endpoint, err := url.JoinPath(c.cfg.ServiceURL, path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка запроса к Garmin-микросервису: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Тело ошибки ограничиваем, чтобы не тащить мегабайты в лог
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("garmin-микросервис вернул статус %d: %s", resp.StatusCode, string(msg))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
