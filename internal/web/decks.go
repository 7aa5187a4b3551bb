package web

import (
	"net/http"

	"github.com/Nati35/NEMO/internal/domain"
	"github.com/Nati35/NEMO/internal/knol"
	"github.com/labstack/echo/v4"
)

type createDeckRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

func (s *Server) handleCreateDeck() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createDeckRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		deck, err := s.store.CreateDeck(c.Request().Context(), req.UserID, req.Name)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusCreated, deck)
	}
}

func (s *Server) handleListDecks() echo.HandlerFunc {
	return func(c echo.Context) error {
		decks, err := s.store.ListDecks(c.Request().Context(), c.Param("id"))
		if err != nil {
			return s.fail(c, err)
		}
		if decks == nil {
			decks = []domain.Deck{}
		}
		return c.JSON(http.StatusOK, decks)
	}
}

type updateDeckRequest struct {
	Name string `json:"name" validate:"required"`
}

func (s *Server) handleUpdateDeck() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateDeckRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		deck, err := s.store.UpdateDeck(c.Request().Context(), c.Param("deckID"), req.Name)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, deck)
	}
}

// handleDeleteDeck removes a deck with its cards, history and sources.
// Running sessions over the deck fail on their next rating.
func (s *Server) handleDeleteDeck() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.store.DeleteDeck(c.Request().Context(), c.Param("deckID")); err != nil {
			return s.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Server) handleListCards() echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		deckID := c.Param("deckID")
		if _, err := s.store.FindDeck(ctx, deckID); err != nil {
			return s.fail(c, err)
		}
		cards, err := s.store.ListCards(ctx, deckID)
		if err != nil {
			return s.fail(c, err)
		}
		if cards == nil {
			cards = []domain.Card{}
		}
		return c.JSON(http.StatusOK, cards)
	}
}

type createCardRequest struct {
	Front     string   `json:"front" validate:"required"`
	Back      string   `json:"back"`
	ImageRefs []string `json:"image_refs"`
	AudioRef  string   `json:"audio_ref"`
}

// handleCreateCard adds a card due immediately. Cards added to a deck fed
// by a source are removed on the next sync unless the source has them too.
func (s *Server) handleCreateCard() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createCardRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()
		deckID := c.Param("deckID")
		if _, err := s.store.FindDeck(ctx, deckID); err != nil {
			return s.fail(c, err)
		}

		card := domain.Card{
			DeckID:    deckID,
			Front:     req.Front,
			Back:      req.Back,
			ImageRefs: req.ImageRefs,
			AudioRef:  req.AudioRef,
		}
		card.ContentHash = knol.Hash(card)

		created, err := s.store.CreateCard(ctx, card)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusCreated, created)
	}
}

// handleUpdateCard replaces a card's content. The schedule is kept.
func (s *Server) handleUpdateCard() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createCardRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		card, err := s.store.UpdateCard(c.Request().Context(), c.Param("id"), req.Front, req.Back, req.ImageRefs, req.AudioRef)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, card)
	}
}

type suspensionRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}

func (s *Server) handleSetSuspended() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req suspensionRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		if err := s.store.SetSuspended(c.Request().Context(), c.Param("id"), *req.Suspended); err != nil {
			return s.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Server) handleDeleteCard() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.store.DeleteCard(c.Request().Context(), c.Param("id")); err != nil {
			return s.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (s *Server) handleResetDeck() echo.HandlerFunc {
	return func(c echo.Context) error {
		n, err := s.store.ResetDeck(c.Request().Context(), c.Param("deckID"))
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, map[string]int64{"cards_reset": n})
	}
}
