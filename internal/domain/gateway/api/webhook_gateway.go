package api

import (
	"fmt"

	"todo-api/internal/domain/model"
	"todo-api/pkg/http"
)

// WebhookGateway notifies an external subscriber endpoint about todo
// lifecycle events.
type WebhookGateway interface {
	NotifyEvent(event model.TodoEvent) error
}

type webhookErrorResponse struct {
	Message string `json:"message"`
}

// webhookGatewayImpl implements the WebhookGateway interface
type webhookGatewayImpl struct {
	httpClient *http.Client
	path       string
}

// NewWebhookGateway creates a new instance of WebhookGateway with HTTP client
func NewWebhookGateway(baseUrl string, path string, clientOptions http.ClientOptions) WebhookGateway {
	httpClient := http.NewHttpClient(baseUrl, clientOptions)

	return &webhookGatewayImpl{
		httpClient: httpClient,
		path:       path,
	}
}

// NotifyEvent delivers one event to the subscriber endpoint
func (w *webhookGatewayImpl) NotifyEvent(event model.TodoEvent) error {
	_, errResp, status, err := w.httpClient.Request().
		WithMethod(http.POST).
		WithPath(w.path).
		WithBody(event).
		WithErrorResp(&webhookErrorResponse{}).
		WithBackoff(http.DefaultBackoff()).
		Execute()

	if err == nil {
		return nil
	}

	if errResp != nil {
		errorResponse := errResp.(*webhookErrorResponse)
		if errorResponse.Message != "" {
			return fmt.Errorf("webhook rejected event %s: %s", event.EventID, errorResponse.Message)
		}
	}

	return fmt.Errorf("webhook delivery failed with status %d: %w", status, err)
}
