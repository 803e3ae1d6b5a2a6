package zanata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/p-blackswan/zanatactl/internal/errors"
	"github.com/p-blackswan/zanatactl/internal/requestid"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := NewClient(server.URL+"/zanata/rest", zerolog.Nop())
	client.SetHTTPClient(server.Client())
	return client, server
}

var testCreds = &Credentials{Username: "u", Token: "t"}

func TestClient_CreateProject(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/zanata/rest/projects/p/ZNTAPRJID", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "u", r.Header.Get(HeaderAuthUser))
		assert.Equal(t, "t", r.Header.Get(HeaderAuthToken))

		var got map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, map[string]string{
			"name":        "PROJECT NAME",
			"id":          "ZNTAPRJID",
			"description": "Created using zanatactl",
			"type":        "gettext",
		}, got)
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	reply, err := client.CreateProject(context.Background(), testCreds, Project{
		Name:        "PROJECT NAME",
		ID:          "ZNTAPRJID",
		Description: "Created using zanatactl",
		Type:        TypeGettext,
	})
	require.NoError(t, err)
	assert.Equal(t, MsgCreated, reply.Message)
}

func TestClient_ModifyProject(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/zanata/rest/projects/p/P", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	reply, err := client.ModifyProject(context.Background(), testCreds, Project{ID: "P", Type: TypeFile})
	require.NoError(t, err)
	assert.Equal(t, MsgModified, reply.Message)
}

func TestClient_ModifyProject_CreatedIsNotModification(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	reply, err := client.Do(context.Background(), Call{
		Method: http.MethodPut,
		Path:   "/projects/p/P",
		Body:   Project{ID: "P"},
		Auth:   testCreds,
		Intent: IntentModify,
	})
	require.NoError(t, err)
	assert.Empty(t, reply.Message)
	assert.Equal(t, map[string]interface{}{}, reply.Data)
}

func TestClient_CreateVersion(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/zanata/rest/project/P/version/V", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"id":"V"}`, string(body))
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	reply, err := client.CreateVersion(context.Background(), testCreds, "P", "V")
	require.NoError(t, err)
	assert.Equal(t, MsgCreated, reply.Message)
}

func TestClient_GetStats(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/zanata/rest/stats/proj/ZNTAPRJID/iter/ZNTAPRJVER", r.URL.Path)
		assert.Empty(t, r.Header.Get(HeaderAuthUser))
		w.Write([]byte(`{"total":100}`))
	})
	defer server.Close()

	data, err := client.GetStats(context.Background(), "ZNTAPRJID", "ZNTAPRJVER")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"total": float64(100)}, data)
}

func TestClient_GetProject_NotFound(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`not json at all`))
	})
	defer server.Close()

	_, err := client.GetProject(context.Background(), "NOPE")
	require.Error(t, err)

	var re *perrors.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusNotFound, re.StatusCode)
	assert.Equal(t, "HTTP Error 404: Not Found", err.Error())
	assert.Equal(t, "not json at all", re.Body)
}

func TestClient_GetProject_NoContent(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	defer server.Close()

	data, err := client.GetProject(context.Background(), "P")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{}, data)
}

func TestClient_GetConfig(t *testing.T) {
	const xml = `<?xml version="1.0"?><config xmlns="http://zanata.org/namespace/config/"><project>P</project></config>`
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/zanata/rest/project/P/version/V/config", r.URL.Path)
		assert.Equal(t, "application/xml", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(xml))
	})
	defer server.Close()

	data, err := client.GetConfig(context.Background(), "P", "V")
	require.NoError(t, err)
	assert.Equal(t, xml, data)
}

func TestClient_MalformedJSON(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total":`))
	})
	defer server.Close()

	_, err := client.GetProject(context.Background(), "P")
	require.Error(t, err)
	assert.Equal(t, perrors.KindUnexpected, perrors.Kind(err))
	assert.Contains(t, err.Error(), "decoding response")
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(server.URL+"/rest", zerolog.Nop())
	server.Close()

	_, err := client.GetProject(context.Background(), "P")
	require.Error(t, err)
	assert.Equal(t, perrors.KindTransport, perrors.Kind(err))
}

func TestClient_PartialCredentialsOmitted(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(HeaderAuthUser))
		assert.Empty(t, r.Header.Get(HeaderAuthToken))
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	_, err := client.CreateVersion(context.Background(), &Credentials{Username: "u"}, "P", "V")
	require.NoError(t, err)
}

func TestClient_RequestIDAndUserAgent(t *testing.T) {
	client, server := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "inv-42", r.Header.Get(requestid.Header))
		assert.Equal(t, "zanatactl/test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{}`))
	})
	defer server.Close()
	WithUserAgent("zanatactl/test")(client)

	ctx := requestid.WithRequestID(context.Background(), "inv-42")
	_, err := client.GetProject(ctx, "P")
	require.NoError(t, err)
}

func TestClient_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old/rest/projects/p/P", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new/rest/projects/p/P", http.StatusFound)
	})
	mux.HandleFunc("/new/rest/projects/p/P", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"P"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL+"/old/rest", zerolog.Nop())
	data, err := client.GetProject(context.Background(), "P")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": "P"}, data)
}

func TestParseProjectType(t *testing.T) {
	pt, err := ParseProjectType("utf8properties")
	require.NoError(t, err)
	assert.Equal(t, TypeUTF8Properties, pt)

	_, err = ParseProjectType("po")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file, gettext, podir, properties, utf8properties, xliff, xml")
}

func TestCredentials_Valid(t *testing.T) {
	var nilCreds *Credentials
	assert.False(t, nilCreds.Valid())
	assert.False(t, (&Credentials{Token: "t"}).Valid())
	assert.True(t, testCreds.Valid())
}
