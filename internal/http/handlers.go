package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"monetraq/internal/core"
	"monetraq/internal/format"
	"monetraq/internal/ledger"
)

type addRequest struct {
	Type      string   `json:"type"`
	Amount    *float64 `json:"amount"`
	Category  string   `json:"category"`
	Note      string   `json:"note"`
	Timestamp string   `json:"timestamp"`
}

type patchRequest struct {
	Type      *string  `json:"type"`
	Amount    *float64 `json:"amount"`
	Category  *string  `json:"category"`
	Note      *string  `json:"note"`
	Timestamp *string  `json:"timestamp"`
}

type categoryRequest struct {
	Category string `json:"category"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
		"entries":   len(s.store.Entries()),
	})
}

// handleListTransactions returns the sorted view, optionally narrowed to
// a date range. from/to are inclusive calendar dates; to alone means
// "everything up to that day" and from alone "everything since".
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	entries := s.store.Sorted()

	fromParam := r.URL.Query().Get("from")
	toParam := r.URL.Query().Get("to")
	if fromParam != "" || toParam != "" {
		start := time.Time{}
		end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)
		if fromParam != "" {
			parsed, err := core.ParseTimestamp(fromParam)
			if err != nil {
				writeError(w, http.StatusBadRequest, "from is not a valid date")
				return
			}
			start = format.StartOfDay(parsed)
		}
		if toParam != "" {
			parsed, err := core.ParseTimestamp(toParam)
			if err != nil {
				writeError(w, http.StatusBadRequest, "to is not a valid date")
				return
			}
			end = format.EndOfDay(parsed)
		}
		filtered := make([]core.Entry, 0, len(entries))
		for _, e := range entries {
			if format.WithinRange(e.Timestamp, start, end) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if entries == nil {
		entries = []core.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleAddTransaction accepts the same shape the normalizer accepts: a
// type, a numeric amount and an optional timestamp. Amount sign is not
// policed here; the sign of an entry is implied by its type.
func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	if !core.EntryType(req.Type).IsValid() {
		writeError(w, http.StatusBadRequest, "type must be income or expense")
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	var ts time.Time
	if req.Timestamp != "" {
		parsed, err := core.ParseTimestamp(req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "timestamp is not a valid datetime")
			return
		}
		ts = parsed
	}

	entry := s.store.Add(r.Context(), ledger.AddPayload{
		Type:      core.EntryType(req.Type),
		Amount:    *req.Amount,
		Category:  req.Category,
		Note:      req.Note,
		Timestamp: ts,
	})
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := ledger.Patch{
		Amount: req.Amount,
		Note:   req.Note,
	}
	if req.Type != nil {
		t := core.EntryType(*req.Type)
		if !t.IsValid() {
			writeError(w, http.StatusBadRequest, "type must be income or expense")
			return
		}
		patch.Type = &t
	}
	if req.Category != nil {
		patch.Category = req.Category
	}
	if req.Timestamp != nil {
		parsed, err := core.ParseTimestamp(*req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "timestamp is not a valid datetime")
			return
		}
		patch.Timestamp = &parsed
	}

	entry, found := s.store.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if !found {
		// Unknown ids are tolerated: the edit raced a deletion.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	s.store.Remove(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	s.store.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type totalsFormatted struct {
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

type totalsResponse struct {
	core.Totals
	Formatted totalsFormatted `json:"formatted"`
}

type monthResponse struct {
	core.MonthSummary
	Label     string `json:"label"`
	IsCurrent bool   `json:"isCurrent"`
}

type dayResponse struct {
	core.DayGroup
	Label   string `json:"label"`
	IsToday bool   `json:"isToday"`
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	totals := s.store.Totals()
	writeJSON(w, http.StatusOK, totalsResponse{
		Totals: totals,
		Formatted: totalsFormatted{
			Income:   format.FormatCurrency(totals.Income, s.currency, s.locale),
			Expenses: format.FormatCurrency(totals.Expenses, s.currency, s.locale),
			Net:      format.FormatSignedCurrency(totals.Net, s.currency, s.locale),
		},
	})
}

func (s *Server) handleMonthlySummaries(w http.ResponseWriter, r *http.Request) {
	summaries := s.store.MonthlySummaries()
	now := time.Now()
	out := make([]monthResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp := monthResponse{MonthSummary: summary}
		if month, err := time.ParseInLocation("2006-01", summary.MonthKey, time.Local); err == nil {
			resp.Label = format.FormatMonth(month)
			resp.IsCurrent = format.IsSameMonth(month, now)
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGroupedByDay(w http.ResponseWriter, r *http.Request) {
	groups := s.store.GroupedByDay()
	now := time.Now()
	out := make([]dayResponse, 0, len(groups))
	for _, group := range groups {
		resp := dayResponse{DayGroup: group}
		if day, err := time.ParseInLocation("2006-01-02", group.DayKey, time.Local); err == nil {
			resp.Label = format.FormatDay(day)
			resp.IsToday = format.IsSameDay(day, now)
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleRegisterCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.store.RegisterCategory(r.Context(), req.Category)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
