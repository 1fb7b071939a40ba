package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/willfong/riskgen/internal/generator"
	"github.com/willfong/riskgen/internal/models"
)

const maxBodyBytes = 1 << 20

// tenantKeys are the accepted spellings of the tenant id, in priority order
var tenantKeys = []string{"tenantId", "TenantID", "lenderId", "LenderID"}

type generateResponse struct {
	Message           string `json:"message"`
	BorrowersCount    int    `json:"borrowersCount"`
	LoansCount        int    `json:"loansCount"`
	TransactionsCount int    `json:"transactionsCount"`
}

type borrowersResponse struct {
	TenantID  string                     `json:"tenantId"`
	Count     int                        `json:"count"`
	Borrowers []models.BorrowerPortfolio `json:"borrowers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	tenantID, err := decodeTenantID(body)
	if err != nil {
		writeError(w, StatusCode(err), err.Error())
		return
	}
	if err := authorizeTenant(r, tenantID); err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	result, err := s.gen.GenerateForTenant(r.Context(), tenantID)
	if err != nil {
		status := StatusCode(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("generation failed", zap.String("tenant_id", tenantID), zap.Error(err))
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Message:           "Mock data generated successfully",
		BorrowersCount:    result.BorrowerCount,
		LoansCount:        result.LoanCount,
		TransactionsCount: result.TransactionCount,
	})
}

func (s *Server) handleListBorrowers(w http.ResponseWriter, r *http.Request) {
	tenantID := mux.Vars(r)["tenantID"]
	if err := authorizeTenant(r, tenantID); err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	portfolios, err := s.borrowers.ListBorrowers(r.Context(), tenantID)
	if err != nil {
		s.logger.Error("failed to list borrowers", zap.String("tenant_id", tenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list borrowers")
		return
	}
	if portfolios == nil {
		portfolios = []models.BorrowerPortfolio{}
	}

	writeJSON(w, http.StatusOK, borrowersResponse{
		TenantID:  tenantID,
		Count:     len(portfolios),
		Borrowers: portfolios,
	})
}

// decodeTenantID extracts the tenant id from a JSON object body. Keys are
// matched exactly; the first present key in tenantKeys wins.
func decodeTenantID(body []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("%w: malformed JSON body", generator.ErrInvalidInput)
	}

	for _, key := range tenantKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var id string
		if err := json.Unmarshal(raw, &id); err != nil || id == "" {
			return "", fmt.Errorf("%w: %s must be a non-empty string", generator.ErrInvalidInput, key)
		}
		return id, nil
	}
	return "", fmt.Errorf("%w: missing tenantId in request body", generator.ErrInvalidInput)
}

// StatusCode maps a generation error to its HTTP status
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, generator.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, generator.ErrTenantNotFound):
		return http.StatusNotFound
	case errors.Is(err, generator.ErrGenerationInProgress):
		return http.StatusConflict
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
