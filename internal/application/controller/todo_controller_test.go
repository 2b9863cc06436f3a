package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"todo-api/internal/domain/entity"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/model"
	"todo-api/internal/domain/usecase/todo"
)

func newTestServer() *echo.Echo {
	e := echo.New()
	useCase := todo.NewTodoUseCase(db.NewMemoryTodoGateway(), todo.Options{})
	NewTodoController(e.Group(""), useCase).InitTodoRoutes()
	return e
}

func doRequest(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) entity.Todo {
	t.Helper()
	var result entity.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return result
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var result model.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return result
}

func TestCreateTodoEndpoint(t *testing.T) {
	e := newTestServer()

	rec := doRequest(e, http.MethodPost, "/todos", `{"title":"ship release","description":"tag and announce"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	created := decodeTodo(t, rec)
	if created.ID == 0 || created.Title != "ship release" {
		t.Errorf("created todo: %+v", created)
	}
	if created.Completed {
		t.Error("new todo must start open")
	}
}

func TestCreateTodoValidationFailure(t *testing.T) {
	e := newTestServer()

	rec := doRequest(e, http.MethodPost, "/todos", `{"title":"   "}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rec.Code)
	}
	if body := decodeErrorResponse(t, rec); body.Code != model.CodeValidationFailed {
		t.Errorf("error code: got %q", body.Code)
	}
}

func TestCreateTodoMalformedBody(t *testing.T) {
	e := newTestServer()

	rec := doRequest(e, http.MethodPost, "/todos", `{"title": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if body := decodeErrorResponse(t, rec); body.Code != model.CodeBadRequest {
		t.Errorf("error code: got %q", body.Code)
	}
}

func TestGetTodoNotFound(t *testing.T) {
	e := newTestServer()

	for _, target := range []string{"/todos/99", "/todos/not-a-number"} {
		rec := doRequest(e, http.MethodGet, target, "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: got %d, want 404", target, rec.Code)
		}
		if body := decodeErrorResponse(t, rec); body.Code != model.CodeNotFound {
			t.Errorf("%s error code: got %q", target, body.Code)
		}
	}
}

func TestUpdateTodoTriStateEndpoint(t *testing.T) {
	e := newTestServer()

	rec := doRequest(e, http.MethodPost, "/todos", `{"title":"draft post","description":"outline"}`)
	created := decodeTodo(t, rec)

	// Null clears the description while the absent title survives.
	rec = doRequest(e, http.MethodPut, "/todos/1", `{"description":null,"completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	updated := decodeTodo(t, rec)
	if updated.Title != created.Title {
		t.Errorf("absent title changed: %q", updated.Title)
	}
	if updated.Description != nil {
		t.Errorf("explicit null kept description: %v", *updated.Description)
	}
	if !updated.Completed {
		t.Error("completed not applied")
	}
}

func TestUpdateTodoNullTitleRejected(t *testing.T) {
	e := newTestServer()

	doRequest(e, http.MethodPost, "/todos", `{"title":"immutable"}`)

	rec := doRequest(e, http.MethodPut, "/todos/1", `{"title":null}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want 422", rec.Code)
	}
}

func TestListTodosEndpoint(t *testing.T) {
	e := newTestServer()

	for _, title := range []string{"a", "b", "c"} {
		doRequest(e, http.MethodPost, "/todos", `{"title":"`+title+`"}`)
	}
	doRequest(e, http.MethodPut, "/todos/2", `{"completed":true}`)

	rec := doRequest(e, http.MethodGet, "/todos?limit=2&offset=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var page []entity.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
		t.Errorf("page: %+v", page)
	}

	rec = doRequest(e, http.MethodGet, "/todos?completed=true", "")
	var done []entity.Todo
	if err := json.Unmarshal(rec.Body.Bytes(), &done); err != nil {
		t.Fatalf("decode filtered list: %v", err)
	}
	if len(done) != 1 || done[0].ID != 2 {
		t.Errorf("completed filter: %+v", done)
	}
}

func TestDeleteTodoEndpoint(t *testing.T) {
	e := newTestServer()

	doRequest(e, http.MethodPost, "/todos", `{"title":"disposable"}`)

	rec := doRequest(e, http.MethodDelete, "/todos/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if len(rec.Body.Bytes()) != 0 {
		t.Errorf("delete response carried a body: %q", rec.Body.String())
	}

	rec = doRequest(e, http.MethodDelete, "/todos/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rec.Code)
	}
}
