package models

// Mode identifies which assistant backend handles a turn.
type Mode string

const (
	ModeChat         Mode = "chat"
	ModeDocumentQA   Mode = "document_qa"
	ModeDataAnalysis Mode = "data_analysis"
)

// Chat message roles as stored in history and memory.
const (
	RoleHuman = "human"
	RoleAI    = "ai"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is one assistant turn. Charts holds the parsed instructions
// that were honored; ChartFiles the artifact filenames rendered from them.
type ChatResponse struct {
	Response   string      `json:"response"`
	Mode       Mode        `json:"mode"`
	Charts     []ChartSpec `json:"charts,omitempty"`
	ChartFiles []string    `json:"chart_files,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// AgentResult is the structured reply recovered from a backend agent.
// Error being set means Answer carries the degraded user-visible text, never
// the raw failure.
type AgentResult struct {
	Answer string      `json:"answer"`
	Charts []ChartSpec `json:"charts,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ChartSpec is one chart instruction inside an agent reply.
type ChartSpec struct {
	Type  string    `json:"type"`
	Data  ChartData `json:"data"`
	Title string    `json:"title,omitempty"`
}

// ChartData carries two column headers and the series values. Data elements
// are either [category, value] pairs (canonical) or two parallel flat
// sequences (a legacy producer shape); decoding into []any keeps both
// representable until the chart renderer normalizes them. Headers may arrive
// as non-strings and are coerced to text at render time.
type ChartData struct {
	Columns []any `json:"columns"`
	Data    []any `json:"data"`
}

// ModelConfig is the per-session configuration surface.
type ModelConfig struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
	SystemPrompt string  `json:"system_prompt"`
}

// HistorySession is an archived conversation. Immutable after creation.
type HistorySession struct {
	ID        string        `json:"id"`
	Messages  []ChatMessage `json:"messages"`
	Timestamp string        `json:"timestamp"`
}

// SessionState is the summary returned to the UI.
type SessionState struct {
	Mode         Mode     `json:"mode"`
	HasFrame     bool     `json:"has_frame"`
	HasDocument  bool     `json:"has_document"`
	FileName     string   `json:"file_name,omitempty"`
	SheetNames   []string `json:"sheet_names,omitempty"`
	ActiveSheet  string   `json:"active_sheet,omitempty"`
	Rows         int      `json:"rows,omitempty"`
	ColumnNames  []string `json:"column_names,omitempty"`
	MessageCount int      `json:"message_count"`
}

type UploadResponse struct {
	Message     string   `json:"message"`
	Mode        Mode     `json:"mode"`
	FileName    string   `json:"file_name"`
	SheetNames  []string `json:"sheet_names,omitempty"`
	ActiveSheet string   `json:"active_sheet,omitempty"`
	Rows        int      `json:"rows,omitempty"`
	ColumnNames []string `json:"column_names,omitempty"`
	Preview     string   `json:"preview,omitempty"`
}
