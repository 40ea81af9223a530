package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/domain/mocks"
	apphttp "github.com/campaignbridge/campaignbridge/internal/http"
	"github.com/campaignbridge/campaignbridge/pkg/blocks"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

// recordingLogger captures log output for handler tests
type recordingLogger struct {
	LoggedMessages []string
}

func (l *recordingLogger) Info(message string) {
	l.LoggedMessages = append(l.LoggedMessages, "INFO: "+message)
}

func (l *recordingLogger) Error(message string) {
	l.LoggedMessages = append(l.LoggedMessages, "ERROR: "+message)
}

func (l *recordingLogger) Debug(message string) {
	l.LoggedMessages = append(l.LoggedMessages, "DEBUG: "+message)
}

func (l *recordingLogger) Warn(message string) {
	l.LoggedMessages = append(l.LoggedMessages, "WARN: "+message)
}

func (l *recordingLogger) WithField(key string, value interface{}) logger.Logger {
	return l
}

func (l *recordingLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return l
}

func (l *recordingLogger) Fatal(message string) {
	l.LoggedMessages = append(l.LoggedMessages, "FATAL: "+message)
}

func setupTemplateHandlerTest(t *testing.T) (*mocks.MockTemplateService, string) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockService := mocks.NewMockTemplateService(ctrl)
	handler := apphttp.NewTemplateHandler(mockService, &recordingLogger{})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return mockService, server.URL
}

// sendRequest marshals body (or passes a raw string through) and issues
// the request against the test server.
func sendRequest(t *testing.T, method, urlStr string, body interface{}) *http.Response {
	var reqBody *bytes.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reqBody = bytes.NewReader([]byte(raw))
		} else {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			reqBody = bytes.NewReader(encoded)
		}
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, urlStr, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func handlerTestTemplate() *domain.Template {
	return &domain.Template{
		ID:      "weekly-digest",
		Name:    "Weekly Digest",
		Version: 1,
		Subject: "This week",
		Content: `<!-- wp:campaignbridge/email-post-slot {"slotId":"feat"} /-->`,
	}
}

func TestTemplateHandler_List(t *testing.T) {
	mockService, baseURL := setupTemplateHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().GetTemplates(gomock.Any(), false).
			Return([]*domain.Template{handlerTestTemplate()}, nil)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.list", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		templates := body["templates"].([]interface{})
		assert.Len(t, templates, 1)
	})

	t.Run("with deleted", func(t *testing.T) {
		mockService.EXPECT().GetTemplates(gomock.Any(), true).
			Return([]*domain.Template{}, nil)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.list?with_deleted=true", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("invalid with_deleted", func(t *testing.T) {
		resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.list?with_deleted=nope", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.list", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("service error", func(t *testing.T) {
		mockService.EXPECT().GetTemplates(gomock.Any(), false).
			Return(nil, errors.New("db down"))

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.list", nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestTemplateHandler_Get(t *testing.T) {
	mockService, baseURL := setupTemplateHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		tpl := handlerTestTemplate()
		mockService.EXPECT().GetTemplateByID(gomock.Any(), tpl.ID, int64(0)).
			Return(tpl, nil)

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.get?id="+tpl.ID, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		template := body["template"].(map[string]interface{})
		assert.Equal(t, tpl.ID, template["id"])
	})

	t.Run("specific version", func(t *testing.T) {
		tpl := handlerTestTemplate()
		tpl.Version = 3
		mockService.EXPECT().GetTemplateByID(gomock.Any(), tpl.ID, int64(3)).
			Return(tpl, nil)

		resp := sendRequest(t, http.MethodGet, fmt.Sprintf("%s/api/templates.get?id=%s&version=3", baseURL, tpl.ID), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("missing id", func(t *testing.T) {
		resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.get", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("not found", func(t *testing.T) {
		mockService.EXPECT().GetTemplateByID(gomock.Any(), "missing", int64(0)).
			Return(nil, &domain.ErrTemplateNotFound{Message: "template not found"})

		resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.get?id=missing", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestTemplateHandler_Create(t *testing.T) {
	mockService, baseURL := setupTemplateHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().CreateTemplate(gomock.Any(), gomock.Any()).Return(nil)

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.create", domain.CreateTemplateRequest{
			ID:      "weekly-digest",
			Name:    "Weekly Digest",
			Subject: "This week",
			Content: `<!-- wp:paragraph --><p>hi</p><!-- /wp:paragraph -->`,
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.create", "{not json")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("validation failure", func(t *testing.T) {
		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.create", domain.CreateTemplateRequest{
			ID: "weekly-digest",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestTemplateHandler_Update(t *testing.T) {
	mockService, baseURL := setupTemplateHandlerTest(t)

	t.Run("not found", func(t *testing.T) {
		mockService.EXPECT().UpdateTemplate(gomock.Any(), gomock.Any()).
			Return(&domain.ErrTemplateNotFound{Message: "template not found"})

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.update", domain.UpdateTemplateRequest{
			ID:      "missing",
			Name:    "Missing",
			Subject: "s",
			Content: "c",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestTemplateHandler_Delete(t *testing.T) {
	mockService, baseURL := setupTemplateHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().DeleteTemplate(gomock.Any(), "weekly-digest").Return(nil)

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.delete", domain.DeleteTemplateRequest{ID: "weekly-digest"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
	})

	t.Run("not found", func(t *testing.T) {
		mockService.EXPECT().DeleteTemplate(gomock.Any(), "missing").
			Return(&domain.ErrTemplateNotFound{Message: "template not found"})

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.delete", domain.DeleteTemplateRequest{ID: "missing"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestTemplateHandler_Slots(t *testing.T) {
	mockService, baseURL := setupTemplateHandlerTest(t)

	mockService.EXPECT().DiscoverSlots(gomock.Any(), "weekly-digest", int64(0)).
		Return([]blocks.SlotDescriptor{{Key: "feat", ShowImage: true, ShowExcerpt: true}}, nil)

	params := url.Values{"id": {"weekly-digest"}}
	resp := sendRequest(t, http.MethodGet, baseURL+"/api/templates.slots?"+params.Encode(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	slots := body["slots"].([]interface{})
	require.Len(t, slots, 1)
	slot := slots[0].(map[string]interface{})
	assert.Equal(t, "feat", slot["key"])
}

func TestTemplateHandler_Compile(t *testing.T) {
	mockService, baseURL := setupTemplateHandlerTest(t)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().CompileTemplate(gomock.Any(), gomock.Any()).
			Return(&domain.CompileTemplateResponse{
				Subject: "This week",
				HTML:    "<!DOCTYPE html><html></html>",
				Text:    "This week",
			}, nil)

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.compile", domain.CompileTemplateRequest{
			TemplateID:      "weekly-digest",
			SlotAssignments: domain.SlotAssignments{"feat": 42},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "This week", body["subject"])
		assert.Contains(t, body["html"], "<!DOCTYPE html>")
	})

	t.Run("missing template_id", func(t *testing.T) {
		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.compile", domain.CompileTemplateRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("not found", func(t *testing.T) {
		mockService.EXPECT().CompileTemplate(gomock.Any(), gomock.Any()).
			Return(nil, &domain.ErrTemplateNotFound{Message: "template not found"})

		resp := sendRequest(t, http.MethodPost, baseURL+"/api/templates.compile", domain.CompileTemplateRequest{
			TemplateID: "missing",
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})
}
