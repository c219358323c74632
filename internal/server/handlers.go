package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apidocpdf "github.com/porticus-lab/go-apidoc-pdf"
	"github.com/porticus-lab/go-apidoc-pdf/describe"
	"github.com/porticus-lab/go-apidoc-pdf/internal/htmlview"
	"github.com/porticus-lab/go-apidoc-pdf/model"
	"github.com/porticus-lab/go-apidoc-pdf/postman"
)

const exportFailed = "Error generating PDF"

type exportRequest struct {
	ResponseData *model.Document `json:"responseData"`
}

func (s *Server) exportError(status int, cause error) *statusError {
	msg := cause.Error()
	if errors.Is(cause, apidocpdf.ErrRender) {
		msg = apidocpdf.ErrRender.Error()
	}
	return &statusError{
		Status: status,
		Body:   exportErrorBody{Message: exportFailed, Error: msg},
		Cause:  cause,
	}
}

// readExport decodes the export body. A missing document is left nil and
// rejected by validation like an empty one.
func (s *Server) readExport(r *http.Request) (*model.Document, error) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, s.exportError(bodyStatus(err), errors.New("invalid request body"))
	}
	if err := req.ResponseData.Validate(); err != nil {
		return nil, s.exportError(s.cfg.EmptyItemsStatus, err)
	}
	return req.ResponseData, nil
}

func (s *Server) engine(r *http.Request) (apidocpdf.Engine, error) {
	switch name := r.URL.Query().Get("engine"); name {
	case "", "native":
		return s.native, nil
	case "browser":
		if s.browser == nil {
			return nil, s.exportError(http.StatusBadRequest, errors.New("browser engine is not enabled"))
		}
		return s.browser, nil
	default:
		return nil, s.exportError(http.StatusBadRequest, errors.New("unknown engine "+name))
	}
}

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) error {
	eng, err := s.engine(r)
	if err != nil {
		return err
	}
	doc, err := s.readExport(r)
	if err != nil {
		return err
	}

	res, err := eng.Export(r.Context(), doc)
	switch {
	case errors.Is(err, apidocpdf.ErrNoItems):
		return s.exportError(s.cfg.EmptyItemsStatus, err)
	case err != nil:
		return s.exportError(http.StatusInternalServerError, err)
	}

	s.writePDF(r.Context(), w, res.Bytes())

	if s.archive != nil {
		ctx := context.WithoutCancel(r.Context())
		data := res.Bytes()
		s.background.Go(func() {
			s.archive.Store(ctx, data)
		})
	}
	return nil
}

func (s *Server) exportHTML(w http.ResponseWriter, r *http.Request) error {
	doc, err := s.readExport(r)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := htmlview.Render(&buf, doc, htmlview.Options{Heading: s.cfg.Heading}); err != nil {
		return s.exportError(http.StatusInternalServerError, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.ErrorContext(r.Context(), "writing HTML response", slog.Any("error", err))
	}
	return nil
}

type importRequest struct {
	Type          string          `json:"type"`
	JSON          json.RawMessage `json:"json"`
	CollectionUID string          `json:"collectionUid"`
}

type importResponse struct {
	Doc *model.Document `json:"doc"`
}

func (s *Server) importPostman(w http.ResponseWriter, r *http.Request) error {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		return newError(bodyStatus(err), "Invalid request body", err)
	}

	var c *postman.Collection
	switch req.Type {
	case "remote":
		if s.fetcher == nil {
			return newError(http.StatusInternalServerError, "POSTMAN_API_KEY missing on server", postman.ErrMissingAPIKey)
		}
		var err error
		c, err = s.fetcher.Fetch(r.Context(), req.CollectionUID)
		if err != nil {
			return fetchError(err)
		}
	case "upload":
		if len(req.JSON) == 0 || string(req.JSON) == "null" {
			return newError(http.StatusBadRequest, "json missing", nil)
		}
		var err error
		c, err = postman.Parse(req.JSON)
		if err != nil {
			return newError(http.StatusBadRequest, "Invalid collection JSON", err)
		}
	default:
		return newError(http.StatusBadRequest, "invalid type", nil)
	}

	writeJSON(r.Context(), s.log, w, http.StatusOK, importResponse{Doc: postman.FromCollection(c)})
	return nil
}

func fetchError(err error) error {
	var apiErr *postman.APIError
	switch {
	case errors.Is(err, postman.ErrMissingAPIKey):
		return newError(http.StatusInternalServerError, "POSTMAN_API_KEY missing on server", err)
	case errors.Is(err, postman.ErrMissingUID):
		return newError(http.StatusBadRequest, "collectionUid missing", err)
	case errors.As(err, &apiErr):
		return newError(http.StatusBadRequest, apiErr.Error(), err)
	case errors.Is(err, postman.ErrInvalidJSON):
		return newError(http.StatusBadGateway, "Invalid JSON from Postman", err)
	}
	return newError(http.StatusInternalServerError, err.Error(), err)
}

type describeResponse struct {
	Description string `json:"description"`
}

func (s *Server) generateDescription(w http.ResponseWriter, r *http.Request) error {
	var in describe.Input
	if err := decodeJSON(r, &in); err != nil {
		return newError(bodyStatus(err), "Invalid request body", err)
	}
	if s.describer == nil {
		return describeError(describe.ErrNotConfigured)
	}
	text, err := s.describer.Describe(r.Context(), in)
	if err != nil {
		return describeError(err)
	}
	writeJSON(r.Context(), s.log, w, http.StatusOK, describeResponse{Description: text})
	return nil
}

func describeError(err error) error {
	switch {
	case errors.Is(err, describe.ErrNotConfigured):
		return newError(http.StatusInternalServerError, "OpenAI API key not configured", err)
	case errors.Is(err, describe.ErrRateLimited):
		return newError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", err)
	case errors.Is(err, describe.ErrUnauthorized):
		return newError(http.StatusUnauthorized, "Invalid API key configuration", err)
	}
	return newError(http.StatusInternalServerError, "Failed to generate description. Please try again.", err)
}

// bodyStatus is 413 for bodies over the limit and 400 otherwise.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
