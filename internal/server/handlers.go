package server

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/chrisdamba/menusight/internal/analytics"
	"github.com/chrisdamba/menusight/internal/models"
	"github.com/chrisdamba/menusight/internal/upload"
	"github.com/go-chi/chi/v5"
)

// uploadOverhead leaves room for JSON or multipart framing around the file.
const uploadOverhead = 64 << 10

type stateResponse struct {
	MenuItems         []models.MenuItem         `json:"menuItems"`
	Recommendations   []models.Recommendation   `json:"recommendations"`
	DashboardStats    models.DashboardStats     `json:"dashboardStats"`
	RevenueData       []models.RevenueDataPoint `json:"revenueData"`
	CategoryData      []models.CategoryDatum    `json:"categoryData"`
	WasteData         []models.WasteDatum       `json:"wasteData"`
	Notifications     []models.Notification     `json:"notifications"`
	UnreadCount       int                       `json:"unreadCount"`
	LastUpdated       *time.Time                `json:"lastUpdated"`
	RevenueProvenance models.Provenance         `json:"revenueProvenance"`
}

type replaceRequest struct {
	MenuItems []models.RawMenuItem `json:"menuItems"`
}

type chatRequest struct {
	Message string               `json:"message"`
	History []models.ChatMessage `json:"conversationHistory"`
}

func lastUpdated(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) stateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		st := s.store.Snapshot()
		s.writeJSON(w, http.StatusOK, stateResponse{
			MenuItems:         st.MenuItems,
			Recommendations:   st.Recommendations,
			DashboardStats:    st.DashboardStats,
			RevenueData:       st.RevenueData,
			CategoryData:      st.CategoryData,
			WasteData:         st.WasteData,
			Notifications:     st.Notifications,
			UnreadCount:       st.UnreadNotifications(),
			LastUpdated:       lastUpdated(st.LastUpdated),
			RevenueProvenance: st.RevenueProvenance,
		})
	}
}

func (s *Server) resetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.ResetAll(r.Context()); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) listItemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{"menuItems": s.store.Snapshot().MenuItems})
	}
}

func (s *Server) addItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw models.RawMenuItem
		if err := decodeJSON(w, r, jsonBodyLimit, &raw); err != nil {
			s.writeError(w, err)
			return
		}
		item, err := s.store.AddItem(r.Context(), raw)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, item)
	}
}

func (s *Server) replaceItemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req replaceRequest
		if err := decodeJSON(w, r, s.store.Intake().MaxBytes()+uploadOverhead, &req); err != nil {
			s.writeError(w, err)
			return
		}
		items, err := s.store.ReplaceAll(r.Context(), req.MenuItems)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"menuItems": items})
	}
}

func (s *Server) updateItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.MenuItemPatch
		if err := decodeJSON(w, r, jsonBodyLimit, &patch); err != nil {
			s.writeError(w, err)
			return
		}
		item, err := s.store.UpdateItem(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, item)
	}
}

func (s *Server) deleteItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadHandler accepts either a multipart form with a "file" part or a JSON
// body of {filename, format, data}.
func (s *Server) uploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := s.store.Intake().MaxBytes() + uploadOverhead
		payload, err := readPayload(w, r, limit)
		if err != nil {
			s.writeError(w, err)
			return
		}
		res, err := s.store.Upload(r.Context(), payload)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, res)
	}
}

func readPayload(w http.ResponseWriter, r *http.Request, limit int64) (upload.Payload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var p upload.Payload
		err := decodeJSON(w, r, limit, &p)
		return p, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		if strings.Contains(err.Error(), "too large") {
			return upload.Payload{}, fmt.Errorf("%w: %v", models.ErrUploadTooLarge, err)
		}
		return upload.Payload{}, models.NewValidationError("file", err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return upload.Payload{}, models.NewValidationError("file", "is required")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return upload.Payload{}, fmt.Errorf("reading upload: %w", err)
	}
	return upload.Payload{
		Filename: header.Filename,
		Format:   r.FormValue("format"),
		Data:     string(data),
	}, nil
}

func (s *Server) dashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		st := s.store.Snapshot()
		s.writeJSON(w, http.StatusOK, map[string]any{
			"dashboardStats":    st.DashboardStats,
			"revenueProvenance": st.RevenueProvenance,
			"lastUpdated":       lastUpdated(st.LastUpdated),
		})
	}
}

func (s *Server) revenueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			period = models.PeriodAllTime
		}
		if !analytics.ValidPeriod(period) {
			s.writeError(w, models.NewValidationError("period", fmt.Sprintf("unknown period %q", period)))
			return
		}
		st := s.store.Snapshot()
		s.writeJSON(w, http.StatusOK, map[string]any{
			"period":      period,
			"revenueData": analytics.FilterRevenue(st.RevenueData, period, time.Now()),
			"provenance":  st.RevenueProvenance,
		})
	}
}

func (s *Server) categoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{"categoryData": s.store.Snapshot().CategoryData})
	}
}

func (s *Server) wasteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{"wasteData": s.store.Snapshot().WasteData})
	}
}

func (s *Server) recommendationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]any{"recommendations": s.store.Snapshot().Recommendations})
	}
}

func (s *Server) refreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.store.RefreshAnalysis(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) implementHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := s.store.ImplementRecommendation(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) insightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		insights, err := s.store.GenerateInsights(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
	}
}

func (s *Server) chatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := decodeJSON(w, r, jsonBodyLimit, &req); err != nil {
			s.writeError(w, err)
			return
		}
		reply, err := s.store.Chat(r.Context(), req.Message, req.History)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"response": reply})
	}
}

func (s *Server) notificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		st := s.store.Snapshot()
		s.writeJSON(w, http.StatusOK, map[string]any{
			"notifications": st.Notifications,
			"unreadCount":   st.UnreadNotifications(),
		})
	}
}

func (s *Server) readHandler() http.HandlerFunc {
	return s.notificationAction(func(ctx context.Context, r *http.Request) error {
		return s.store.MarkNotificationRead(ctx, chi.URLParam(r, "id"))
	})
}

func (s *Server) readAllHandler() http.HandlerFunc {
	return s.notificationAction(func(ctx context.Context, _ *http.Request) error {
		return s.store.MarkAllNotificationsRead(ctx)
	})
}

func (s *Server) notificationAction(fn func(context.Context, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(r.Context(), r); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
