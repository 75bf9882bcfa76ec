package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superai/ai"
	"superai/config"
	"superai/db"
	"superai/models"
	"superai/session"
)

// scriptedBackend replays canned chat outputs in order, repeating the last
// one when the script runs out.
type scriptedBackend struct {
	outputs []string
	calls   int
}

func (b *scriptedBackend) Chat(context.Context, []ai.Message, ai.ChatOptions) (string, error) {
	b.calls++
	i := b.calls - 1
	if i >= len(b.outputs) {
		i = len(b.outputs) - 1
	}
	return b.outputs[i], nil
}

func (b *scriptedBackend) Embed(_ context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i := range vecs {
		vecs[i] = []float64{1, 0, 0}
	}
	return vecs, nil
}

type fixture struct {
	router      *gin.Engine
	store       *session.Store
	db          *db.DB
	productsDir string
}

func newFixture(t *testing.T, backend ai.Backend) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	log := zap.NewNop().Sugar()
	store := session.NewStore(models.ModelConfig{
		Model:        config.DefaultModel,
		Temperature:  config.DefaultTemperature,
		MaxTokens:    config.DefaultMaxTokens,
		SystemPrompt: ai.DefaultSystemPrompt,
	}, ai.Greeting)

	productsDir := t.TempDir()
	h := New(database, store, ai.NewRouter(backend, log), productsDir, log)

	r := gin.New()
	r.GET("/health", h.HealthHandler)
	r.POST("/api/chat", h.ChatHandler)
	r.POST("/api/files", h.UploadHandler)
	r.POST("/api/files/sheet", h.SelectSheetHandler)
	r.DELETE("/api/files", h.RemoveFileHandler)
	r.GET("/api/session", h.SessionStateHandler)
	r.GET("/api/session/config", h.GetConfigHandler)
	r.PUT("/api/session/config", h.UpdateConfigHandler)
	r.POST("/api/session/reset", h.ResetMemoryHandler)
	r.POST("/api/sessions/archive", h.ArchiveSessionHandler)
	r.GET("/api/sessions", h.ListSessionsHandler)
	r.GET("/api/sessions/:id", h.GetSessionHandler)
	r.DELETE("/api/sessions/:id", h.DeleteSessionHandler)
	r.GET("/api/charts", h.ListChartsHandler)
	r.GET("/api/charts/:filename", h.ServeChartHandler)

	return &fixture{router: r, store: store, db: database, productsDir: productsDir}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) upload(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func monthlySalesCSV() []byte {
	var b strings.Builder
	b.WriteString("月份,销售额\n")
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&b, "%d月,%d\n", i, 1000+i*100)
	}
	return []byte(b.String())
}

func TestHealth(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})
	w := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestPlainChatTurn(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"很高兴认识你！"}})

	w := f.do(t, http.MethodPost, "/api/chat", models.ChatRequest{Message: "你好"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "很高兴认识你！", resp.Response)
	assert.Equal(t, models.ModeChat, resp.Mode)
	assert.Empty(t, resp.ChartFiles)

	// Greeting, human turn, assistant turn.
	sess := f.store.Get("admin")
	require.Len(t, sess.Messages, 3)
	assert.Equal(t, models.RoleHuman, sess.Messages[1].Role)
	assert.Equal(t, "很高兴认识你！", sess.Messages[2].Content)
	require.Len(t, sess.Memory, 2)
}

func TestChatValidation(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})

	w := f.do(t, http.MethodPost, "/api/chat", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/chat", models.ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadCSVAndLineChart(t *testing.T) {
	reply := `{
		"answer": "销售额稳步上升",
		"charts": [{
			"type": "line",
			"data": {
				"columns": ["月份", "销售额"],
				"data": [["1月", 1100], ["2月", 1200], ["3月", 1300]]
			},
			"title": "月度销售额趋势"
		}]
	}`
	f := newFixture(t, &scriptedBackend{outputs: []string{reply}})

	w := f.upload(t, "sales.csv", monthlySalesCSV())
	require.Equal(t, http.StatusOK, w.Code)

	var up models.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	assert.Equal(t, models.ModeDataAnalysis, up.Mode)
	assert.Equal(t, "sales.csv", up.FileName)
	assert.Equal(t, 12, up.Rows)
	assert.Equal(t, []string{"月份", "销售额"}, up.ColumnNames)
	assert.Contains(t, up.Preview, "1月")

	w = f.do(t, http.MethodPost, "/api/chat",
		models.ChatRequest{Message: "用折线图展示月度销售趋势"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "销售额稳步上升", resp.Response)
	assert.Equal(t, models.ModeDataAnalysis, resp.Mode)
	require.Len(t, resp.ChartFiles, 1)
	assert.True(t, strings.HasPrefix(resp.ChartFiles[0], "chart_line_"))

	// The honored chart instruction rides along with the artifact name.
	require.Len(t, resp.Charts, 1)
	assert.Equal(t, "line", resp.Charts[0].Type)
	assert.Equal(t, "月度销售额趋势", resp.Charts[0].Title)

	// The artifact exists and is served back.
	_, err := os.Stat(filepath.Join(f.productsDir, resp.ChartFiles[0]))
	require.NoError(t, err)
	w = f.do(t, http.MethodGet, "/api/charts/"+resp.ChartFiles[0], nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "echarts")

	// And the conversation recorded the answer.
	sess := f.store.Get("admin")
	assert.Equal(t, "销售额稳步上升", sess.Messages[len(sess.Messages)-1].Content)
}

func TestChartGateRequiresKeyword(t *testing.T) {
	reply := `{
		"answer": "三月最高",
		"charts": [{
			"type": "bar",
			"data": {"columns": ["月份", "销售额"], "data": [["3月", 1300]]}
		}]
	}`
	f := newFixture(t, &scriptedBackend{outputs: []string{reply}})
	f.upload(t, "sales.csv", monthlySalesCSV())

	// No chart keyword in the message, so the instruction is ignored.
	w := f.do(t, http.MethodPost, "/api/chat",
		models.ChatRequest{Message: "哪个月销售额最高？"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.ChartFiles)
	assert.Empty(t, resp.Charts)

	entries, err := os.ReadDir(f.productsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadUnsupportedExtension(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})

	w := f.upload(t, "payload.bin", []byte{0x00, 0x01})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "不支持的文件格式")

	// The session was not touched.
	sess := f.store.Get("admin")
	assert.Equal(t, models.ModeChat, sess.Mode)
	assert.Nil(t, sess.Frame)
}

func TestUploadInvalidUTF8Text(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})

	w := f.upload(t, "notes.txt", []byte{0xff, 0xfe, 0xfd})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.store.Get("admin").DocumentText)
}

func TestUploadBadCSVLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})

	w := f.upload(t, "broken.csv", []byte(`"unterminated`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, f.store.Get("admin").Frame)
}

func TestUploadCaseInsensitiveExtension(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})
	w := f.upload(t, "DATA.CSV", monthlySalesCSV())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadTextSwitchesToDocumentMode(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})

	w := f.upload(t, "report.txt", []byte("第一季度销售增长了两成。"))
	require.Equal(t, http.StatusOK, w.Code)

	sess := f.store.Get("admin")
	assert.Equal(t, models.ModeDocumentQA, sess.Mode)
	assert.NotEmpty(t, sess.DocumentText)

	// The document text was cached under its data identifier.
	text, err := f.db.GetDocumentText(sess.DataID)
	require.NoError(t, err)
	assert.Equal(t, "第一季度销售增长了两成。", text)
}

func TestRemoveFile(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})
	f.upload(t, "sales.csv", monthlySalesCSV())

	w := f.do(t, http.MethodDelete, "/api/files", nil)
	require.Equal(t, http.StatusOK, w.Code)

	sess := f.store.Get("admin")
	assert.Equal(t, models.ModeChat, sess.Mode)
	assert.Nil(t, sess.Frame)
	// A notice message was appended for the user.
	assert.Contains(t, sess.Messages[len(sess.Messages)-1].Content, "已移除")
}

func TestSelectSheetWithoutWorkbook(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})
	w := f.do(t, http.MethodPost, "/api/files/sheet", gin.H{"sheet": "Sheet2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionStateEndpoint(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})
	f.upload(t, "sales.csv", monthlySalesCSV())

	w := f.do(t, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var st models.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, models.ModeDataAnalysis, st.Mode)
	assert.True(t, st.HasFrame)
	assert.Equal(t, 12, st.Rows)
}

func TestConfigRoundTrip(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})

	w := f.do(t, http.MethodGet, "/api/session/config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), config.DefaultModel)

	update := models.ModelConfig{
		Model: "gpt-4o", Temperature: 0.3, MaxTokens: 2000, SystemPrompt: "简洁回答",
	}
	w = f.do(t, http.MethodPut, "/api/session/config", update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, update, f.store.Get("admin").Config)

	// Out-of-range updates are rejected and leave the config alone.
	bad := update
	bad.Temperature = 2.0
	w = f.do(t, http.MethodPut, "/api/session/config", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, update, f.store.Get("admin").Config)

	bad = update
	bad.Model = "llama-7b"
	w = f.do(t, http.MethodPut, "/api/session/config", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetKeepsDataAndConfig(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"回答"}})
	f.upload(t, "sales.csv", monthlySalesCSV())
	f.do(t, http.MethodPost, "/api/chat", models.ChatRequest{Message: "总和？"})

	w := f.do(t, http.MethodPost, "/api/session/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)

	sess := f.store.Get("admin")
	assert.Empty(t, sess.Memory)
	require.Len(t, sess.Messages, 1)
	assert.NotNil(t, sess.Frame)
}

func TestArchiveFlow(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"你好！"}})
	f.do(t, http.MethodPost, "/api/chat", models.ChatRequest{Message: "在吗"})

	w := f.do(t, http.MethodPost, "/api/sessions/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var archived map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &archived))
	id := archived["archived_id"]
	require.NotEmpty(t, id)

	// The live session was reset.
	require.Len(t, f.store.Get("admin").Messages, 1)

	w = f.do(t, http.MethodGet, "/api/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.HistorySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	w = f.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.HistorySession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "在吗", got.Messages[1].Content)

	w = f.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchiveTrivialConversation(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})
	w := f.do(t, http.MethodPost, "/api/sessions/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"archived_id":""`)
}

func TestServeChartRejectsTraversal(t *testing.T) {
	f := newFixture(t, &scriptedBackend{outputs: []string{"ok"}})

	// However the router decodes the traversal attempt, it must not serve.
	w := f.do(t, http.MethodGet, "/api/charts/..%2Fsecret.html", nil)
	assert.NotEqual(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/charts/notes.txt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/charts/missing.html", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClassifyExt(t *testing.T) {
	for _, tc := range []struct {
		name string
		kind string
		ok   bool
	}{
		{"data.csv", FileKindTabularCSV, true},
		{"DATA.CSV", FileKindTabularCSV, true},
		{"book.xlsx", FileKindTabularXLSX, true},
		{"Book.XLSX", FileKindTabularXLSX, true},
		{"notes.txt", FileKindText, true},
		{"notes.TXT", FileKindText, true},
		{"notes.md", "", false},
		{"archive.xls", "", false},
		{"noext", "", false},
	} {
		kind, ok := ClassifyExt(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.kind, kind, tc.name)
	}
}
