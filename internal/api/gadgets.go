package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghostlab/gadgetry/internal/gadget"
)

// updateGadgetRequest is the request body for PATCH /gadgets.
//
// status and success are decoded as loose JSON values because clients
// send success either as a number or a digits-only string; both forms
// are accepted.
type updateGadgetRequest struct {
	Name    string  `json:"name"`
	Status  *string `json:"status"`
	Success any     `json:"success"`
}

// decommissionRequest is the request body for DELETE /gadgets.
type decommissionRequest struct {
	Name string `json:"name"`
}

// selfDestructRequest is the request body for POST /gadgets/{id}/self-destruct.
type selfDestructRequest struct {
	ConfirmationCode any `json:"confirmationCode"`
}

// handleListGadgets returns gadget views, optionally filtered by status.
//
// GET /gadgets?status=
// Success: 200 {success:true, data:[{id, gadget}]}
// Failure: 400 (bad status filter), 500 (storage)
func (s *Server) handleListGadgets(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	views, err := s.gadgets.List(r.Context(), statusFilter)
	if err != nil {
		if errors.Is(err, gadget.ErrInvalidFilter) {
			writeFail(w, http.StatusBadRequest, "status is an enum(Available, Deployed, Destroyed, Decommissioned)")
			return
		}
		s.logger.Error("listing gadgets", "error", err)
		writeFail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    views,
	})
}

// handleCreateGadget mints a new gadget with generated codename and
// success probability.
//
// POST /gadgets
// Success: 201 {success:true, message:Gadget}
// Failure: 500 (storage, including codename collisions)
func (s *Server) handleCreateGadget(w http.ResponseWriter, r *http.Request) {
	g, err := s.gadgets.Create(r.Context())
	if err != nil {
		s.logger.Error("creating gadget", "error", err)
		writeFail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": g,
	})
}

// handleUpdateGadget applies a partial update to a gadget looked up by codename.
//
// PATCH /gadgets
// Body: {name, status?, success?}
// Success: 201 {success:true, message:Gadget}
// Failure: 422 (missing name), 400 (validation, not found, storage)
func (s *Server) handleUpdateGadget(w http.ResponseWriter, r *http.Request) {
	var req updateGadgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeFail(w, http.StatusUnprocessableEntity, "name field is required")
		return
	}

	success, ok := looseString(req.Success)
	if !ok {
		writeFail(w, http.StatusBadRequest, "success must be a number between 0-100")
		return
	}

	g, err := s.gadgets.Update(r.Context(), req.Name, req.Status, success)
	if err != nil {
		switch {
		case errors.Is(err, gadget.ErrNoFieldsProvided):
			writeFail(w, http.StatusBadRequest, "either success or status must be defined")
		case errors.Is(err, gadget.ErrInvalidStatus):
			writeFail(w, http.StatusBadRequest, "Status is an enum(Available, Deployed, Destroyed, Decommissioned)")
		case errors.Is(err, gadget.ErrInvalidSuccessValue):
			writeFail(w, http.StatusBadRequest, "success must be a number between 0-100")
		default:
			s.logger.Error("updating gadget", "name", req.Name, "error", err)
			writeFail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": g,
	})
}

// handleDecommissionGadget forces a gadget into the Decommissioned status.
//
// DELETE /gadgets
// Body: {name}
// Success: 201 {success:true, message:Gadget}
// Failure: 400 (missing name, not found, storage)
func (s *Server) handleDecommissionGadget(w http.ResponseWriter, r *http.Request) {
	var req decommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "name required in request body")
		return
	}

	if req.Name == "" {
		writeFail(w, http.StatusBadRequest, "name required in request body")
		return
	}

	g, err := s.gadgets.Decommission(r.Context(), req.Name)
	if err != nil {
		s.logger.Error("decommissioning gadget", "name", req.Name, "error", err)
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": g,
	})
}

// handleSelfDestruct forces a gadget into the Destroyed status.
//
// POST /gadgets/{id}/self-destruct
// Body: {confirmationCode}
// Success: 201 {success:true, message:Gadget}
// Failure: 400 (missing code), 500 (not found, storage)
//
// The confirmation code is checked for presence only; its value is
// never validated against anything.
func (s *Server) handleSelfDestruct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req selfDestructRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "confirmationCode field is mandatory")
		return
	}

	if req.ConfirmationCode == nil {
		writeFail(w, http.StatusBadRequest, "confirmationCode field is mandatory")
		return
	}

	code, ok := looseString(req.ConfirmationCode)
	if !ok || code == nil || *code == "" {
		writeFail(w, http.StatusBadRequest, "confirmationCode field is mandatory")
		return
	}

	g, err := s.gadgets.SelfDestruct(r.Context(), id, *code)
	if err != nil {
		if errors.Is(err, gadget.ErrMissingConfirmationCode) {
			writeFail(w, http.StatusBadRequest, "confirmationCode field is mandatory")
			return
		}
		s.logger.Error("self-destructing gadget", "id", id, "error", err)
		writeFail(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": g,
	})
}

// looseString converts a loosely-typed JSON value into an optional
// string. JSON strings pass through; JSON numbers are rendered in
// decimal. Anything else (objects, arrays, booleans) is rejected.
func looseString(v any) (*string, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case string:
		return &val, true
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s, true
	default:
		return nil, false
	}
}
