package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/analyzer"
	"github.com/finsight-ai/finsight/internal/domain"
	"github.com/finsight-ai/finsight/internal/export"
	"github.com/finsight-ai/finsight/internal/ingest"
)

// maxUploadBytes caps one whole multipart upload.
const maxUploadBytes = 64 << 20

// Service is the slice of the analyzer the HTTP layer needs.
type Service interface {
	Upload(ctx context.Context, files []ingest.File) (*analyzer.UploadResult, error)
	Chat(ctx context.Context, sessionID, prompt string) (*domain.Answer, error)
	Sessions() []domain.Session
	Session(id string) (*domain.Session, error)
	Documents(sessionID string) ([]domain.StoredChunk, error)
	Delete(id string) error
	Discard()
}

type APIHandler struct {
	service Service
	logger  *zap.Logger
}

func NewAPIHandler(service Service, logger *zap.Logger) *APIHandler {
	return &APIHandler{service: service, logger: logger}
}

func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"message": "FinSight backend is running"})
}

type SessionInfo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *APIHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions := h.service.Sessions()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt})
	}
	json.NewEncoder(w).Encode(infos)
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.service.Session(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("getting session failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "Failed to get session", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(sess)
}

// DocumentsHandler lists every indexed chunk of a session, for inspecting
// what retrieval actually sees.
func (h *APIHandler) DocumentsHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	docs, err := h.service.Documents(sessionID)
	if err != nil {
		h.writeServiceError(w, "list documents", err)
		return
	}
	if docs == nil {
		docs = []domain.StoredChunk{}
	}
	json.NewEncoder(w).Encode(docs)
}

func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.service.Delete(sessionID); err != nil {
		h.logger.Error("deleting session failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Session deleted"})
}

type UploadResponse struct {
	SessionID     string         `json:"session_id"`
	InitialCharts []domain.Chart `json:"initial_charts"`
	Message       string         `json:"message"`
}

func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			http.Error(w, "Could not read uploaded file "+fh.Filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			http.Error(w, "Could not read uploaded file "+fh.Filename, http.StatusBadRequest)
			return
		}
		files = append(files, ingest.File{Name: fh.Filename, Data: data})
	}

	res, err := h.service.Upload(r.Context(), files)
	if err != nil {
		h.writeServiceError(w, "process upload", err)
		return
	}

	json.NewEncoder(w).Encode(UploadResponse{
		SessionID:     res.SessionID,
		InitialCharts: res.InitialCharts,
		Message:       "Files processed successfully",
	})
}

type ChatRequest struct {
	Prompt string `json:"prompt"`
}

type ChatResponse struct {
	Answer  string         `json:"answer"`
	Sources []string       `json:"sources"`
	Charts  []domain.Chart `json:"charts"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, "Prompt cannot be empty", http.StatusBadRequest)
		return
	}

	ans, err := h.service.Chat(r.Context(), sessionID, req.Prompt)
	if err != nil {
		h.writeServiceError(w, "answer chat", err)
		return
	}

	resp := ChatResponse{Answer: ans.Text, Sources: ans.Sources, Charts: ans.Charts}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}
	if resp.Charts == nil {
		resp.Charts = []domain.Chart{}
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *APIHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	h.service.Discard()
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) ExportSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "markdown"
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := h.service.Session(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("exporting session failed", zap.String("session", sessionID), zap.Error(err))
		http.Error(w, "Failed to export session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="session_`+sessionID+`.`+exporter.Extension()+`"`)
	if err := exporter.Export(sess, w); err != nil {
		h.logger.Error("writing export failed", zap.String("session", sessionID), zap.Error(err))
	}
}

// writeServiceError maps analyzer errors onto HTTP statuses: missing things
// are 404, unusable input is 400, provider trouble is 502, configuration
// trouble and everything unexpected is 500.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrIndexNotFound):
		http.Error(w, "Index not found for this session", http.StatusNotFound)
	case errors.Is(err, domain.ErrNoExtractableText):
		http.Error(w, "No text extracted from PDFs", http.StatusBadRequest)
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		h.logger.Error("embeddings unavailable", zap.String("op", op), zap.Error(err))
		http.Error(w, "Embedding model unavailable, check GEMINI_API_KEY", http.StatusInternalServerError)
	default:
		var pe *domain.ProviderError
		if errors.As(err, &pe) {
			h.logger.Error("model provider call failed", zap.String("op", op), zap.Error(err))
			http.Error(w, "Model provider error: "+pe.Error(), http.StatusBadGateway)
			return
		}
		h.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		http.Error(w, "Failed to "+op, http.StatusInternalServerError)
	}
}
