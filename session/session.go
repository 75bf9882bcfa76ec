package session

import (
	"sync"
	"time"

	"superai/dataframe"
	"superai/index"
	"superai/models"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Session is the mutable per-user conversation state. At most one of Frame /
// DocumentText is populated at a time; the mutators below enforce that.
// Callers serialize whole turns through Lock/Unlock.
type Session struct {
	mu sync.Mutex

	UserID string
	DataID string // fresh per document upload, names the doc cache entry
	Mode   models.Mode

	FileName     string
	Frame        *dataframe.Frame
	RawWorkbook  []byte // original XLSX bytes, kept for sheet re-parse
	DocumentText string
	IsNewFile    bool
	Index        *index.Index

	Messages []models.ChatMessage // display history, starts with the greeting
	Memory   []models.ChatMessage // transcript used as model context
	Config   models.ModelConfig
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// SetFrame installs a tabular data source and drops any document state.
func (s *Session) SetFrame(f *dataframe.Frame, fileName string, raw []byte) {
	s.Frame = f
	s.FileName = fileName
	s.RawWorkbook = raw
	s.DocumentText = ""
	s.Index = nil
	s.IsNewFile = true
	s.Mode = models.ModeDataAnalysis
}

// SetDocument installs a text data source and drops any tabular state.
// Returns the fresh data identifier assigned to this document.
func (s *Session) SetDocument(text, fileName string) string {
	s.DocumentText = text
	s.FileName = fileName
	s.Frame = nil
	s.RawWorkbook = nil
	s.Index = nil
	s.IsNewFile = true
	s.DataID = uuid.New().String()
	s.Mode = models.ModeDocumentQA
	return s.DataID
}

// ClearData removes the active data source (file removed by the user).
func (s *Session) ClearData() {
	s.Frame = nil
	s.RawWorkbook = nil
	s.DocumentText = ""
	s.FileName = ""
	s.Index = nil
	s.IsNewFile = true
	s.Mode = models.ModeChat
}

// Append adds one message to the display history.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, models.ChatMessage{Role: role, Content: content})
}

// Remember extends the conversation memory with one exchange.
func (s *Session) Remember(human, ai string) {
	s.Memory = append(s.Memory,
		models.ChatMessage{Role: models.RoleHuman, Content: human},
		models.ChatMessage{Role: models.RoleAI, Content: ai},
	)
}

// State summarizes the session for the UI.
func (s *Session) State() models.SessionState {
	st := models.SessionState{
		Mode:         s.Mode,
		HasFrame:     s.Frame != nil,
		HasDocument:  s.DocumentText != "",
		FileName:     s.FileName,
		MessageCount: len(s.Messages),
	}
	if s.Frame != nil {
		st.SheetNames = s.Frame.SheetNames
		st.ActiveSheet = s.Frame.Sheet
		st.Rows = s.Frame.Rows()
		st.ColumnNames = s.Frame.ColumnNames()
	}
	return st
}

// Store holds all live sessions, keyed by user. Sessions live for the process
// lifetime; go-cache is used for its keyed map with no expiration.
type Store struct {
	mu       sync.Mutex
	sessions *cache.Cache
	defaults models.ModelConfig
	greeting string
}

func NewStore(defaults models.ModelConfig, greeting string) *Store {
	return &Store{
		sessions: cache.New(cache.NoExpiration, 10*time.Minute),
		defaults: defaults,
		greeting: greeting,
	}
}

// Greeting returns the assistant message every fresh conversation opens with.
func (st *Store) Greeting() string { return st.greeting }

// Get returns the user's session, creating it on first interaction.
func (st *Store) Get(userID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if v, found := st.sessions.Get(userID); found {
		return v.(*Session)
	}
	s := &Session{
		UserID:    userID,
		DataID:    uuid.New().String(),
		Mode:      models.ModeChat,
		IsNewFile: true,
		Messages:  []models.ChatMessage{{Role: models.RoleAI, Content: st.greeting}},
		Config:    st.defaults,
	}
	st.sessions.Set(userID, s, cache.NoExpiration)
	return s
}

// Archive snapshots the current conversation as a HistorySession and resets
// the session for a new conversation. Returns nil when the conversation is
// trivial (nothing beyond the greeting), in which case only the reset happens.
func (s *Session) Archive(greeting string) *models.HistorySession {
	var archived *models.HistorySession
	if len(s.Messages) > 1 {
		snapshot := make([]models.ChatMessage, len(s.Messages))
		copy(snapshot, s.Messages)
		archived = &models.HistorySession{
			ID:        uuid.New().String(),
			Messages:  snapshot,
			Timestamp: time.Now().Format("2006-01-02 15:04"),
		}
	}

	s.Messages = []models.ChatMessage{{Role: models.RoleAI, Content: greeting}}
	s.Memory = nil
	s.ClearData()
	s.DataID = uuid.New().String()
	return archived
}

// ResetMemory clears the conversation memory and display history for the
// current mode, keeping data sources and configuration.
func (s *Session) ResetMemory(greeting string) {
	s.Memory = nil
	s.Messages = []models.ChatMessage{{Role: models.RoleAI, Content: greeting}}
}
