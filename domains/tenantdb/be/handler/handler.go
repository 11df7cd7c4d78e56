package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/zenGate-Global/palmyra-pool-provisioner/domains/tenantdb/be/service"
	"github.com/zenGate-Global/palmyra-pool-provisioner/platform/go/logging"
)

const (
	problemTypeValidation = "https://palmyra.pro/problems/validation-error"
	problemTypeNotFound   = "https://palmyra.pro/problems/not-found"
	problemTypeInternal   = "https://palmyra.pro/problems/internal-error"
)

// Handler exposes the provisioning operation over HTTP.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// New constructs a Handler instance.
func New(svc *service.Service, logger *zap.Logger) *Handler {
	if svc == nil {
		panic("tenantdb service is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{svc: svc, logger: logger}
}

type provisionRequest struct {
	TenantID   int64  `json:"tenantId"`
	TenantName string `json:"tenantName"`
}

type provisionResponse struct {
	DatabaseName       string `json:"databaseName"`
	Created            bool   `json:"created"`
	PoolName           string `json:"poolName,omitempty"`
	Login              string `json:"login,omitempty"`
	ConnectionString   string `json:"connectionString,omitempty"`
	AlreadyProvisioned bool   `json:"alreadyProvisioned,omitempty"`
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}

// ProvisionTenantDatabase implements POST /tenant-databases.
func (h *Handler) ProvisionTenantDatabase(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromRequest(r, h.logger)

	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeProblem(w, problem{
			Type:   problemTypeValidation,
			Title:  "Invalid request body",
			Detail: err.Error(),
			Status: http.StatusBadRequest,
		})
		return
	}
	if req.TenantID <= 0 || strings.TrimSpace(req.TenantName) == "" {
		h.writeProblem(w, problem{
			Type:   problemTypeValidation,
			Title:  "Invalid tenant",
			Detail: "tenantId must be positive and tenantName must not be blank",
			Status: http.StatusBadRequest,
		})
		return
	}

	result, err := h.svc.ProvisionTenantDatabase(r.Context(), service.Tenant{ID: req.TenantID, Name: req.TenantName})
	if err != nil {
		logger.Error("provisioning failed", zap.Int64("tenant_id", req.TenantID), zap.Error(err))
		h.writeProblem(w, h.problemForError(err))
		return
	}

	resp := provisionResponse{
		DatabaseName: result.DatabaseName,
		Created:      result.Created,
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
		if result.Pool != nil {
			resp.PoolName = result.Pool.Name
		}
		if result.Credential != nil {
			resp.Login = result.Credential.Login
			resp.ConnectionString = result.Credential.ConnectionString
		}
	} else {
		resp.AlreadyProvisioned = true
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) problemForError(err error) problem {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		return problem{
			Type:   problemTypeNotFound,
			Title:  "Cloud resource not found",
			Detail: err.Error(),
			Status: http.StatusConflict,
		}
	case errors.Is(err, service.ErrConfiguration):
		return problem{
			Type:   problemTypeInternal,
			Title:  "Provisioner misconfigured",
			Detail: err.Error(),
			Status: http.StatusInternalServerError,
		}
	default:
		return problem{
			Type:   problemTypeInternal,
			Title:  "Provisioning failed",
			Detail: err.Error(),
			Status: http.StatusInternalServerError,
		}
	}
}

func (h *Handler) writeProblem(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
