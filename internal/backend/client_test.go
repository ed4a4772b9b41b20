package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, zerolog.Nop())
}

func TestClient_ListPorts(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []string
		wantErr bool
	}{
		{name: "two ports", status: http.StatusOK, body: `["COM3","COM4"]`, want: []string{"COM3", "COM4"}},
		{name: "null becomes empty", status: http.StatusOK, body: `null`, want: []string{}},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`, wantErr: true},
		{name: "malformed body", status: http.StatusOK, body: `{`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/ports", r.URL.Path)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			got, err := client.ListPorts(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsTransport(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Status(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"conectado":true}`)
	})

	connected, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestClient_ConnectSendsPortAndRequestID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/connect", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		var req ConnectRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "COM4", req.Port)
		io.WriteString(w, `{"ok":false,"msg":"Failed to open port COM4: port busy"}`)
	})

	ack, err := client.Connect(context.Background(), "COM4")
	require.NoError(t, err)
	assert.False(t, ack.OK)
	assert.Equal(t, "Failed to open port COM4: port busy", ack.Msg)
}

func TestClient_AckDecodedFromErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"msg":"Empty command."}`)
	})

	ack, err := client.Send(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ack.OK)
	assert.Equal(t, "Empty command.", ack.Msg)
}

func TestClient_GenerateChartBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/grafico", r.URL.Path)
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]int{"deslocamento": 2}, body)
		io.WriteString(w, `{"ok":true,"msg":"grafico_ensaio_x.png"}`)
	})

	ack, err := client.GenerateChart(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, ack.OK)
}

func TestClient_DisconnectIgnoresBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/disconnect", r.URL.Path)
		io.WriteString(w, `not json`)
	})

	require.NoError(t, client.Disconnect(context.Background()))
}

func TestClient_Log(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("desde"))
		io.WriteString(w, `{"linhas":["a","b"],"proximo":7}`)
	})

	resp, err := client.Log(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, resp.Lines)
	require.NotNil(t, resp.Next)
	assert.Equal(t, 7, *resp.Next)
}

func TestClient_LogMissingNext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"linhas":["a"]}`)
	})

	resp, err := client.Log(context.Background(), 0)
	require.NoError(t, err)
	assert.Nil(t, resp.Next)
}

func TestClient_Listing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"graficos_ensaio":[],"graficos_analise":["a.png","b.png"]}`)
	})

	listing, err := client.Listing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, listing.For(CategoryAnalysis))
	assert.Empty(t, listing.For(CategoryTrial))
	assert.NotNil(t, listing.For(CategorySummary))
	_, ok := listing[CategorySummary]
	assert.False(t, ok)
}

func TestClient_FetchFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/b.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	data, err := client.FetchFile(context.Background(), "b.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	_, err = client.FetchFile(context.Background(), "missing.png")
	require.Error(t, err)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)

	_, err = client.FetchFile(context.Background(), "  ")
	assert.ErrorIs(t, err, errEmptyFileName)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, zerolog.Nop())
	_, err := client.Status(context.Background())
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.Equal(t, "/api/status", te.Endpoint)
}

func TestIgnorable(t *testing.T) {
	assert.NoError(t, Ignorable(nil))

	base := &TransportError{Method: http.MethodGet, Endpoint: "/api/log", Err: io.ErrUnexpectedEOF}
	err := Ignorable(base)
	assert.True(t, IsIgnorable(err))
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.False(t, IsIgnorable(base))
}
