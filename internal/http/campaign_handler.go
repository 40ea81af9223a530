package http

import (
	"encoding/json"
	"net/http"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/pkg/logger"
)

type CampaignHandler struct {
	service domain.CampaignService
	logger  logger.Logger
}

func NewCampaignHandler(service domain.CampaignService, logger logger.Logger) *CampaignHandler {
	return &CampaignHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CampaignHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/campaigns.list", http.HandlerFunc(h.handleList))
	mux.Handle("/api/campaigns.get", http.HandlerFunc(h.handleGet))
	mux.Handle("/api/campaigns.create", http.HandlerFunc(h.handleCreate))
	mux.Handle("/api/campaigns.update", http.HandlerFunc(h.handleUpdate))
	mux.Handle("/api/campaigns.delete", http.HandlerFunc(h.handleDelete))
	mux.Handle("/api/campaigns.compile", http.HandlerFunc(h.handleCompile))
	mux.Handle("/api/campaigns.send", http.HandlerFunc(h.handleSend))
}

func (h *CampaignHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	campaigns, err := h.service.ListCampaigns(r.Context())
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list campaigns")
		WriteJSONError(w, "Failed to list campaigns", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": campaigns,
	})
}

func (h *CampaignHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	campaign, err := h.service.GetCampaignByID(r.Context(), id)
	if err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get campaign")
		WriteJSONError(w, "Failed to get campaign", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	campaign, err := h.service.CreateCampaign(r.Context(), req)
	if err != nil {
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			WriteJSONError(w, "Template not found", http.StatusNotFound)
			return
		}
		if _, ok := err.(domain.ValidationError); ok {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to create campaign")
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	campaign, err := h.service.UpdateCampaign(r.Context(), req)
	if err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		if _, ok := err.(domain.ValidationError); ok {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to update campaign")
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"campaign": campaign,
	})
}

func (h *CampaignHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteCampaign(r.Context(), req.ID); err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to delete campaign")
		WriteJSONError(w, "Failed to delete campaign", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *CampaignHandler) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ID            string          `json:"id"`
		RecipientData domain.MapOfAny `json:"recipient_data,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode compile request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.service.CompileCampaign(r.Context(), req.ID, req.RecipientData)
	if err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		if _, ok := err.(*domain.ErrTemplateNotFound); ok {
			WriteJSONError(w, "Template not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to compile campaign")
		WriteJSONError(w, "Failed to compile campaign", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CampaignHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SendCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to decode send request body")
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.service.SendCampaign(r.Context(), req)
	if err != nil {
		if _, ok := err.(*domain.ErrCampaignNotFound); ok {
			WriteJSONError(w, "Campaign not found", http.StatusNotFound)
			return
		}
		if _, ok := err.(domain.ValidationError); ok {
			WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to send campaign")
		WriteJSONError(w, "Failed to send campaign", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
