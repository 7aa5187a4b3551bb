package web

import (
	"fmt"
	"net/http"

	"github.com/Nati35/NEMO/internal/progress"
	"github.com/labstack/echo/v4"
)

func (s *Server) handleGetProgress() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := s.store.LoadUserProgress(c.Request().Context(), c.Param("id"))
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, p)
	}
}

// handleGetStats reports review totals, accuracy and recent daily activity.
func (s *Server) handleGetStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		logs, err := s.store.ReviewLogs(c.Request().Context(), c.Param("id"))
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, progress.Summarize(logs, s.now(), s.location))
	}
}

func (s *Server) handleDueCount() echo.HandlerFunc {
	return func(c echo.Context) error {
		n, err := s.store.CountDueCards(c.Request().Context(), c.Param("id"), s.now())
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, map[string]int{"due": n})
	}
}

// handleExport returns a downloadable backup of everything the user owns.
func (s *Server) handleExport() echo.HandlerFunc {
	return func(c echo.Context) error {
		userID := c.Param("id")
		out, err := s.store.ExportUserData(c.Request().Context(), userID)
		if err != nil {
			return s.fail(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", "nemo-"+userID+".json"))
		return c.JSON(http.StatusOK, out)
	}
}

// handleResetUser wipes a user's review history, card schedules and
// progress in one transaction.
func (s *Server) handleResetUser() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.store.ResetUserProgress(c.Request().Context(), c.Param("id")); err != nil {
			return s.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
