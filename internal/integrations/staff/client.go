package staff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с StaffService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента StaffService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetMember получает данные сотрудника
func (c *Client) GetMember(ctx context.Context, staffID int64) (*Member, error) {
	url := fmt.Sprintf("%s/internal/staff/%d", c.baseURL, staffID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid staff ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrStaffNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var member Member
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &member, nil
}

// GetMemberWithGracefulDegradation получает данные сотрудника с graceful degradation.
// При недоступности StaffService возвращает ErrServiceDegraded: на путях
// чтения вызывающий полагается на роли из заголовков запроса
func (c *Client) GetMemberWithGracefulDegradation(ctx context.Context, staffID int64) (*Member, error) {
	member, err := c.GetMember(ctx, staffID)
	if err != nil {
		// Бизнес-ошибку пробрасываем дальше
		if errors.Is(err, ErrStaffNotFound) {
			return nil, err
		}

		// Для остальных ошибок (недоступность сервиса, timeout, ошибки парсинга)
		// применяем graceful degradation
		c.log.Error("StaffService unavailable, applying graceful degradation for staff_id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: staff_id=%d, error=%v", ErrServiceDegraded, staffID, err)
	}

	return member, nil
}
