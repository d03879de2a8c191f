package webflow

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"

	"story_sync/internal/domain"
)

type ClientTestSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
	client  *Client
}

func (s *ClientTestSuite) SetupTest() {
	s.handler = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handler(w, r)
	}))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.client = New(Config{
		BaseURL:      s.server.URL,
		Token:        "secret",
		CollectionID: "col1",
	}, logger)
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestCreateItem() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/collections/col1/items", r.URL.Path)
		s.Equal("Bearer secret", r.Header.Get("Authorization"))
		s.Equal("application/json", r.Header.Get("Content-Type"))

		var req itemRequest
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
		s.Equal("Hello", req.FieldData["name"])
		s.Equal(false, req.FieldData["_archived"])

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"id":"item-1","fieldData":{"name":"Hello"}}`))
	}

	id, err := s.client.CreateItem(context.Background(), domain.FieldData{"name": "Hello", "_archived": false})

	s.NoError(err)
	s.Equal("item-1", id)
}

func (s *ClientTestSuite) TestUpdateItem() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPatch, r.Method)
		s.Equal("/collections/col1/items/item-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"item-9"}`))
	}

	id, err := s.client.UpdateItem(context.Background(), "item-9", domain.FieldData{"name": "x"})

	s.NoError(err)
	s.Equal("item-9", id)
}

func (s *ClientTestSuite) TestWrite_ErrorMessage() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"validation_error","message":"Validation Error: slug taken"}`))
	}

	_, err := s.client.CreateItem(context.Background(), domain.FieldData{})

	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusBadRequest, apiErr.StatusCode)
	s.Equal("validation_error", apiErr.Code)
	s.Equal("Validation Error: slug taken", apiErr.APIMessage())
	s.False(apiErr.Unauthorized())
}

func (s *ClientTestSuite) TestWrite_UnknownError() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`not json`))
	}

	_, err := s.client.CreateItem(context.Background(), domain.FieldData{})

	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(UnknownError, apiErr.Message)
}

func (s *ClientTestSuite) TestWrite_MissingID() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"queued"}`))
	}

	_, err := s.client.CreateItem(context.Background(), domain.FieldData{})

	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.Equal(http.StatusOK, apiErr.StatusCode)
	s.Equal("queued", apiErr.Message)
}

func (s *ClientTestSuite) TestWrite_EmptySuccessBody() {
	for _, body := range []string{"", "accepted", `["item-1"]`} {
		s.handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(body))
		}

		_, err := s.client.CreateItem(context.Background(), domain.FieldData{})

		var apiErr *APIError
		s.Require().True(errors.As(err, &apiErr), "body %q", body)
		s.Equal(http.StatusAccepted, apiErr.StatusCode)
		s.Equal(UnknownError, apiErr.APIMessage())
	}
}

func (s *ClientTestSuite) TestWrite_Unauthorized() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}

	_, err := s.client.UpdateItem(context.Background(), "item-1", domain.FieldData{})

	var apiErr *APIError
	s.Require().True(errors.As(err, &apiErr))
	s.True(apiErr.Unauthorized())
}

func (s *ClientTestSuite) TestListItems_Paginates() {
	var offsets []string
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodGet, r.Method)
		s.Equal("100", r.URL.Query().Get("limit"))
		offset := r.URL.Query().Get("offset")
		offsets = append(offsets, offset)

		n := 100
		if offset == "100" {
			n = 3
		}
		resp := listResponse{}
		for i := 0; i < n; i++ {
			resp.Items = append(resp.Items, Item{ID: offset + "-" + strconv.Itoa(i)})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}

	items, err := s.client.ListItems(context.Background())

	s.NoError(err)
	s.Len(items, 103)
	s.Equal([]string{"0", "100"}, offsets)
}

func (s *ClientTestSuite) TestListItems_Error() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}

	_, err := s.client.ListItems(context.Background())

	s.Error(err)
	s.Contains(err.Error(), "list items at offset 0")
}
