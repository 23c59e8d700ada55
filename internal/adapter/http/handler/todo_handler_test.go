package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"todopro/internal/adapter/database/repository"
	"todopro/internal/adapter/http/handler"
	"todopro/internal/adapter/storage/local"
	"todopro/internal/core/domain"
	"todopro/internal/core/model/response"
	"todopro/internal/core/port"
	"todopro/internal/core/service"
	"todopro/pkg/api"
	"todopro/pkg/auth"
	"todopro/pkg/logger"
	"todopro/pkg/telemetry"
	"todopro/pkg/test"
)

type TodoHandlerSuite struct {
	suite.Suite
	Router     *gin.Engine
	Service    *service.TodoService
	Registry   *prometheus.Registry
	UploadsDir string
	Alice      domain.User
	Bob        domain.User
	AliceToken string
	BobToken   string
}

func (s *TodoHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db := test.InitTestDB()

	s.UploadsDir = s.T().TempDir()

	store, err := local.NewStore(s.UploadsDir)
	s.Require().NoError(err)

	s.Service = service.NewTodoService(repository.NewTodoRepository(db), store)

	userService := service.NewUserService(repository.NewUserRepository(db))

	s.Alice, err = userService.Register(context.Background(), "alice", "12345678")
	s.Require().NoError(err)

	s.Bob, err = userService.Register(context.Background(), "bob", "12345678")
	s.Require().NoError(err)

	s.AliceToken, _ = auth.CreateJwtTokenForUser(s.Alice.ID)
	s.BobToken, _ = auth.CreateJwtTokenForUser(s.Bob.ID)

	log, err := logger.New("test")
	s.Require().NoError(err)

	s.Registry = prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(s.Registry)

	s.Router = api.SetupRouterForTests(api.HandlersConfig{
		TodoHandler: handler.NewTodoHandler(s.Service, metrics, log),
	})
}

// counterValue reads a counter out of the registry by name and labels,
// zero when the series has not been written yet.
func counterValue(registry *prometheus.Registry, name string, labels map[string]string) float64 {
	families, err := registry.Gather()

	if err != nil {
		return 0
	}

	for _, family := range families {
		if family.GetName() != name {
			continue
		}

	metric:
		for _, metric := range family.GetMetric() {
			have := map[string]string{}

			for _, pair := range metric.GetLabel() {
				have[pair.GetName()] = pair.GetValue()
			}

			for key, want := range labels {
				if have[key] != want {
					continue metric
				}
			}

			return metric.GetCounter().GetValue()
		}
	}

	return 0
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *TodoHandlerSuite) createTodoForm(token string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		writer.WriteField(key, value)
	}

	for name, content := range files {
		part, _ := writer.CreateFormFile("images", name)
		part.Write(content)
	}

	writer.Close()

	return s.do("POST", "/todos", token, &body, writer.FormDataContentType())
}

func (s *TodoHandlerSuite) aliceTodo(title string) domain.Todo {
	todo, err := s.Service.Create(context.Background(), s.Alice.ID, port.CreateTodoInput{Title: title})
	s.Require().NoError(err)

	return todo
}

func (s *TodoHandlerSuite) TestMissingToken() {
	rr := s.do("GET", "/todos/1", "", nil, "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TodoHandlerSuite) TestMalformedToken() {
	rr := s.do("GET", "/todos/1", "not-a-jwt", nil, "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TodoHandlerSuite) TestCreateTodo_NonPro() {
	form := url.Values{}
	form.Set("title", "Plain todo")
	form.Set("description", "No images needed")

	rr := s.do("POST", "/todos", s.AliceToken, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := gin.H{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data["message"]).To(Equal("Todo created successfully"))
}

func (s *TodoHandlerSuite) TestCreateTodo_ProWithImage() {
	rr := s.createTodoForm(s.AliceToken,
		map[string]string{"title": "Pro todo", "is_pro": "true"},
		map[string][]byte{"shot.png": []byte("png-bytes")},
	)

	Expect(rr.Code).To(Equal(http.StatusOK))

	entries, err := os.ReadDir(s.UploadsDir)

	Expect(err).ToNot(HaveOccurred())
	Expect(entries).To(HaveLen(1))
	Expect(filepath.Ext(entries[0].Name())).To(Equal(".png"))
}

func (s *TodoHandlerSuite) TestCreateTodo_ProWithoutFiles() {
	rr := s.createTodoForm(s.AliceToken,
		map[string]string{"title": "Pro todo", "is_pro": "true"},
		nil,
	)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	data := response.ErrorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Message).To(Equal("No files uploaded"))
}

func (s *TodoHandlerSuite) TestCreateTodo_ProWithBadExtension() {
	rr := s.createTodoForm(s.AliceToken,
		map[string]string{"title": "Pro todo", "is_pro": "true"},
		map[string][]byte{"payload.exe": []byte("nope")},
	)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	data := response.ErrorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Message).To(Equal("Invalid file type"))
}

func (s *TodoHandlerSuite) TestCreateTodo_ValidationError() {
	form := url.Values{}
	form.Set("description", "A todo without a title")

	rr := s.do("POST", "/todos", s.AliceToken, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	data := response.ErrorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(len(data.Error.Errors)).To(BeNumerically(">", 0))
}

func (s *TodoHandlerSuite) TestGetTodo_Owner() {
	todo := s.aliceTodo("Readable")

	rr := s.do("GET", fmt.Sprintf("/todos/%d", todo.ID), s.AliceToken, nil, "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := response.TodoResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.ID).To(Equal(todo.ID))
	Expect(data.Title).To(Equal("Readable"))
	Expect(data.Images).To(Equal([]string{}))
}

func (s *TodoHandlerSuite) TestGetTodo_OtherUser() {
	todo := s.aliceTodo("Private")

	rr := s.do("GET", fmt.Sprintf("/todos/%d", todo.ID), s.BobToken, nil, "")

	Expect(rr.Code).To(Equal(http.StatusForbidden))
}

func (s *TodoHandlerSuite) TestGetTodo_Missing() {
	rr := s.do("GET", "/todos/999999", s.AliceToken, nil, "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestGetTodo_NonNumericID() {
	rr := s.do("GET", "/todos/abc", s.AliceToken, nil, "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestUpdateTodo_PartialPatch() {
	todo := s.aliceTodo("Before")

	body := strings.NewReader(`{"title": "After"}`)
	rr := s.do("PUT", fmt.Sprintf("/todos/%d", todo.ID), s.AliceToken, body, "application/json")

	Expect(rr.Code).To(Equal(http.StatusOK))

	updated, err := s.Service.GetByID(context.Background(), s.Alice.ID, todo.ID)

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.Title).To(Equal("After"))
	Expect(updated.Description).To(Equal(todo.Description))
}

func (s *TodoHandlerSuite) TestUpdateTodo_OtherUser() {
	todo := s.aliceTodo("Untouchable")

	body := strings.NewReader(`{"title": "Hijacked"}`)
	rr := s.do("PUT", fmt.Sprintf("/todos/%d", todo.ID), s.BobToken, body, "application/json")

	Expect(rr.Code).To(Equal(http.StatusForbidden))
}

func (s *TodoHandlerSuite) TestDeleteTodo_Owner() {
	todo := s.aliceTodo("Disposable")

	rr := s.do("DELETE", fmt.Sprintf("/todos/%d", todo.ID), s.AliceToken, nil, "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.do("GET", fmt.Sprintf("/todos/%d", todo.ID), s.AliceToken, nil, "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestDeleteTodo_OtherUser() {
	todo := s.aliceTodo("Guarded")

	rr := s.do("DELETE", fmt.Sprintf("/todos/%d", todo.ID), s.BobToken, nil, "")

	Expect(rr.Code).To(Equal(http.StatusForbidden))
}

// Successful operations must show up in todo_operations_total; failed
// ones must not.
func (s *TodoHandlerSuite) TestOperationCounters() {
	form := url.Values{}
	form.Set("title", "Counted")

	rr := s.do("POST", "/todos", s.AliceToken, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	Expect(rr.Code).To(Equal(http.StatusOK))

	todo := s.aliceTodo("Fetched")

	rr = s.do("GET", fmt.Sprintf("/todos/%d", todo.ID), s.AliceToken, nil, "")
	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.do("DELETE", fmt.Sprintf("/todos/%d", todo.ID), s.BobToken, nil, "")
	Expect(rr.Code).To(Equal(http.StatusForbidden))

	Expect(counterValue(s.Registry, "todo_operations_total", map[string]string{"operation": "create"})).To(Equal(1.0))
	Expect(counterValue(s.Registry, "todo_operations_total", map[string]string{"operation": "get"})).To(Equal(1.0))
	Expect(counterValue(s.Registry, "todo_operations_total", map[string]string{"operation": "delete"})).To(Equal(0.0))
}
