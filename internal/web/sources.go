package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (s *Server) handleListSources() echo.HandlerFunc {
	return func(c echo.Context) error {
		sources, err := s.store.GetAllSources(c.Request().Context())
		if err != nil {
			return s.fail(c, err)
		}
		if sources == nil {
			sources = []domain.Source{}
		}
		return c.JSON(http.StatusOK, sources)
	}
}

var errSourceExists = errors.New("source already exists")

type createSourceRequest struct {
	Path   string `json:"path" validate:"required"`
	DeckID string `json:"deck_id" validate:"required"`
}

func (s *Server) handleCreateSource() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createSourceRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()
		if _, err := s.store.FindDeck(ctx, req.DeckID); err != nil {
			return s.fail(c, err)
		}
		switch _, err := s.store.FindSourceByPath(ctx, req.Path); {
		case err == nil:
			return s.fail(c, fmt.Errorf("%w: %s", errSourceExists, req.Path))
		case !errors.Is(err, domain.ErrSourceNotFound):
			return s.fail(c, err)
		}
		src, err := s.store.InsertSource(ctx, req.Path, domain.KindOf(req.Path), req.DeckID)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusCreated, src)
	}
}

func (s *Server) handleDeleteSource() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.store.DeleteSource(c.Request().Context(), c.Param("id")); err != nil {
			return s.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

type syncReport struct {
	SourceID string   `json:"source_id"`
	Parsed   int      `json:"parsed"`
	Inserted int      `json:"inserted"`
	Deleted  int      `json:"deleted"`
	Errors   []string `json:"errors,omitempty"`
}

type syncResponse struct {
	Reports []syncReport `json:"reports"`
	Error   string       `json:"error,omitempty"`
}

// handleSync runs a sync in the foreground. Per-source failures are
// reported in the body; the request itself succeeds.
func (s *Server) handleSync() echo.HandlerFunc {
	return func(c echo.Context) error {
		reports, err := s.syncer.RunAll(c.Request().Context())

		resp := syncResponse{Reports: make([]syncReport, 0, len(reports))}
		for _, r := range reports {
			sr := syncReport{SourceID: r.SourceID, Parsed: r.Parsed, Inserted: r.Inserted, Deleted: r.Deleted}
			for _, e := range r.Errors {
				sr.Errors = append(sr.Errors, e.Error())
			}
			resp.Reports = append(resp.Reports, sr)
		}
		if err != nil {
			s.logger.Warn("manual sync finished with errors", zap.Error(err))
			resp.Error = err.Error()
		}
		return c.JSON(http.StatusOK, resp)
	}
}
