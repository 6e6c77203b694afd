package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/gridrecon/internal/pipeline"
	"github.com/rustyeddy/gridrecon/recon"
)

const gridlogCSV = "Message,Option Portfolio,Timestamp,UserID\n" +
	"Combined SL: 100 hit,P1,14:30:45,U1\n" +
	"Combined SL: 100 hit,P1,14:30:46,U2\n" +
	"Order placed,P2,09:00:00,U1\n"

func summaryXLSX(t *testing.T) []byte {
	t.Helper()

	fx := excelize.NewFile()
	defer fx.Close()
	fx.SetSheetName("Sheet1", "Legs")
	require.NoError(t, fx.SetSheetRow("Legs", "A1", &[]interface{}{"Portfolio Name", "Status", "Exit Type", "Exit Time"}))
	require.NoError(t, fx.SetSheetRow("Legs", "A2", &[]interface{}{"P1", "completed", "SL", "14:30:46"}))
	require.NoError(t, fx.SetSheetRow("Legs", "A3", &[]interface{}{"P2", "completed", "OnSqOffTime", "15:20:00"}))

	buf, err := fx.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

type upload struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = w.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newTestServer() *Server {
	p := pipeline.New(nil)
	return New(Config{Addr: ":0", MaxUploadMB: 4, Defaults: recon.Config{MinUsers: 1}}, p)
}

func TestHealth(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProcessUpload(t *testing.T) {
	s := newTestServer()

	req := multipartRequest(t, map[string]string{"min_users": "1"},
		upload{"gridlog", "gridlog 5 Jan 2024.csv", []byte(gridlogCSV)},
		upload{"summary", "SUMMARY.xlsx", summaryXLSX(t)},
	)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="completed portfolio of 5 jan.csv"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get(HeaderRunID))
	assert.Empty(t, rec.Header().Get(HeaderWarnings))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Option Portfolio,Reason,Time\n"+
		"P1,Combined SL: 100 hit,14:30:46\n"+
		"P2,OnSqOffTime,15:20:00\n", string(body))
}

func TestProcessUploadMinUsersFiltersAll(t *testing.T) {
	s := newTestServer()

	req := multipartRequest(t, map[string]string{"min_users": "3"},
		upload{"gridlog", "gridlog.csv", []byte(gridlogCSV)},
		upload{"summary", "SUMMARY.xlsx", summaryXLSX(t)},
	)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="completed portfolio of unknown_date.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Option Portfolio,Reason,Time\n", rec.Body.String())
}

func TestProcessUploadErrors(t *testing.T) {
	xlsx := summaryXLSX(t)

	tests := []struct {
		name   string
		fields map[string]string
		files  []upload
		code   string
	}{
		{
			name:  "missing summary",
			files: []upload{{"gridlog", "g.csv", []byte(gridlogCSV)}},
			code:  "missing_upload",
		},
		{
			name: "missing columns",
			files: []upload{
				{"gridlog", "g.csv", []byte("Message,UserID\nhi,U1\n")},
				{"summary", "s.xlsx", xlsx},
			},
			code: "missing_column",
		},
		{
			name: "unreadable workbook",
			files: []upload{
				{"gridlog", "g.csv", []byte(gridlogCSV)},
				{"summary", "s.xlsx", []byte("not a workbook")},
			},
			code: "unreadable_input",
		},
		{
			name:   "min users out of range",
			fields: map[string]string{"min_users": "99"},
			files: []upload{
				{"gridlog", "g.csv", []byte(gridlogCSV)},
				{"summary", "s.xlsx", xlsx},
			},
			code: "bad_min_users",
		},
		{
			name:   "min users not a number",
			fields: map[string]string{"min_users": "lots"},
			code:   "bad_min_users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, multipartRequest(t, tt.fields, tt.files...))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
