package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"superai/dataframe"
	"superai/models"
	"superai/session"
)

const previewRows = 5

// File kinds recognized by the upload endpoint.
const (
	FileKindTabularCSV  = "csv"
	FileKindTabularXLSX = "xlsx"
	FileKindText        = "txt"
)

// ClassifyExt maps a filename to its handling kind by extension,
// case-insensitively. ok is false for anything outside the supported set.
func ClassifyExt(filename string) (kind string, ok bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FileKindTabularCSV, true
	case ".xlsx":
		return FileKindTabularXLSX, true
	case ".txt":
		return FileKindText, true
	}
	return "", false
}

// UploadHandler ingests a data file into the session
// @Summary      Upload a data file
// @Description  Accepts CSV/XLSX (tabular analysis) or TXT (document Q&A). The session switches mode to match the file
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "csv, xlsx or txt file"
// @Success      200   {object}  models.UploadResponse  "Upload result"
// @Failure      400   {object}  map[string]string      "Unsupported file type or processing error"
// @Router       /api/files [post]
func (h *Handlers) UploadHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	kind, ok := ClassifyExt(fileHeader.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的文件格式，请上传 CSV、XLSX 或 TXT 文件"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	uid := userID(c)
	sess := h.store.Get(uid)
	sess.Lock()
	defer sess.Unlock()

	// Parse before touching the session so a bad file leaves it untouched.
	switch kind {
	case FileKindTabularCSV:
		frame, err := dataframe.ParseCSV(bytes.NewReader(data))
		if err != nil {
			h.log.Warnw("csv parse failed", "user", uid, "file", fileHeader.Filename, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "文件处理失败: " + err.Error()})
			return
		}
		sess.SetFrame(frame, fileHeader.Filename, nil)

	case FileKindTabularXLSX:
		frame, err := dataframe.ParseXLSX(data, "")
		if err != nil {
			h.log.Warnw("xlsx parse failed", "user", uid, "file", fileHeader.Filename, "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "文件处理失败: " + err.Error()})
			return
		}
		sess.SetFrame(frame, fileHeader.Filename, data)

	case FileKindText:
		if !utf8.Valid(data) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "文件处理失败: 文本不是有效的 UTF-8 编码"})
			return
		}
		text := string(data)
		if strings.TrimSpace(text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "文件处理失败: 文本内容为空"})
			return
		}
		dataID := sess.SetDocument(text, fileHeader.Filename)
		if err := h.db.StoreDocumentText(dataID, text); err != nil {
			h.log.Warnw("document cache write failed", "user", uid, "data_id", dataID, "error", err)
		}
	}

	h.log.Infow("file uploaded", "user", uid, "file", fileHeader.Filename, "kind", kind)
	c.JSON(http.StatusOK, h.uploadResponse(sess, "文件上传成功"))
}

type sheetRequest struct {
	Sheet string `json:"sheet" binding:"required"`
}

// SelectSheetHandler switches the active worksheet
// @Summary      Select a worksheet
// @Description  Re-parses the uploaded XLSX workbook with the chosen sheet active
// @Tags         Files
// @Accept       json
// @Produce      json
// @Param        request  body      sheetRequest           true  "Sheet name"
// @Success      200      {object}  models.UploadResponse  "Updated state"
// @Failure      400      {object}  map[string]string      "No workbook or unknown sheet"
// @Router       /api/files/sheet [post]
func (h *Handlers) SelectSheetHandler(c *gin.Context) {
	var req sheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet is required"})
		return
	}

	uid := userID(c)
	sess := h.store.Get(uid)
	sess.Lock()
	defer sess.Unlock()

	if sess.RawWorkbook == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "当前会话没有已上传的工作簿"})
		return
	}

	frame, err := dataframe.ParseXLSX(sess.RawWorkbook, req.Sheet)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "工作表切换失败: " + err.Error()})
		return
	}
	sess.SetFrame(frame, sess.FileName, sess.RawWorkbook)

	c.JSON(http.StatusOK, h.uploadResponse(sess, "工作表已切换"))
}

// RemoveFileHandler clears the session's data source
// @Summary      Remove the uploaded file
// @Description  Drops tabular and document state and returns the session to plain chat mode
// @Tags         Files
// @Produce      json
// @Success      200  {object}  models.UploadResponse  "Cleared state"
// @Router       /api/files [delete]
func (h *Handlers) RemoveFileHandler(c *gin.Context) {
	uid := userID(c)
	sess := h.store.Get(uid)
	sess.Lock()
	defer sess.Unlock()

	if sess.DocumentText != "" && sess.DataID != "" {
		if err := h.db.DeleteDocumentText(sess.DataID); err != nil {
			h.log.Warnw("document cache delete failed", "user", uid, "data_id", sess.DataID, "error", err)
		}
	}
	sess.ClearData()
	sess.Append(models.RoleAI, "文件已移除，已切换回普通对话模式。")

	h.log.Infow("file removed", "user", uid)
	c.JSON(http.StatusOK, models.UploadResponse{
		Message: "文件已移除",
		Mode:    sess.Mode,
	})
}

func (h *Handlers) uploadResponse(sess *session.Session, message string) models.UploadResponse {
	state := sess.State()
	resp := models.UploadResponse{
		Message:     message,
		Mode:        state.Mode,
		FileName:    state.FileName,
		SheetNames:  state.SheetNames,
		ActiveSheet: state.ActiveSheet,
		Rows:        state.Rows,
		ColumnNames: state.ColumnNames,
	}
	if sess.Frame != nil {
		resp.Preview = sess.Frame.Head(previewRows)
	}
	return resp
}
