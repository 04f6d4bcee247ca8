package handlers

import (
	"net/http"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
	"github.com/Lecon-a/Coffee-Shop/internal/interfaces/http/dto"
	"github.com/Lecon-a/Coffee-Shop/internal/interfaces/http/errors"
	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type DrinkHandler struct {
	service domain.DrinkService
	logger  *zap.Logger
}

func NewDrinkHandler(service domain.DrinkService, logger *zap.Logger) *DrinkHandler {
	return &DrinkHandler{
		service: service,
		logger:  logger,
	}
}

// GetDrinks godoc
// @Summary      List drinks
// @Description  Public list of drinks without ingredient names
// @Tags         drinks
// @Produce      json
// @Success      200  {object}  dto.DrinksResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /drinks [get]
func (h *DrinkHandler) GetDrinks(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.service.ListDrinks(r.Context())
	if err != nil {
		errors.HandleError(w, err)
		return
	}
	errors.RespondJSON(w, http.StatusOK, dto.NewShortDrinksResponse(drinks))
}

// GetDrinksDetail godoc
// @Summary      List drinks with recipes
// @Tags         drinks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DrinksResponse
// @Failure      401  {object}  errors.ErrorResponse
// @Failure      403  {object}  errors.ErrorResponse
// @Router       /drinks-detail [get]
func (h *DrinkHandler) GetDrinksDetail(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.service.ListDrinks(r.Context())
	if err != nil {
		errors.HandleError(w, err)
		return
	}
	errors.RespondJSON(w, http.StatusOK, dto.NewLongDrinksResponse(drinks...))
}

// CreateDrink godoc
// @Summary      Create a drink
// @Tags         drinks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        drink  body      dto.CreateDrinkRequest  true  "Drink"
// @Success      200    {object}  dto.DrinksResponse
// @Failure      409    {object}  errors.ErrorResponse
// @Failure      422    {object}  errors.ErrorResponse
// @Router       /drinks [post]
func (h *DrinkHandler) CreateDrink(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDrinkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	drink, err := h.service.CreateDrink(r.Context(), req.Title, dto.ToIngredients(req.Recipe))
	if err != nil {
		errors.HandleError(w, err)
		return
	}

	if subject, ok := domain.GetSubject(r.Context()); ok {
		h.logger.Info("Drink created by caller", zap.String("sub", subject), zap.String("id", drink.ID.String()))
	}
	errors.RespondJSON(w, http.StatusOK, dto.NewLongDrinksResponse(drink))
}

// UpdateDrink godoc
// @Summary      Update a drink
// @Tags         drinks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string                  true  "Drink ID"
// @Param        drink  body      dto.UpdateDrinkRequest  true  "Fields to change"
// @Success      200    {object}  dto.DrinksResponse
// @Failure      404    {object}  errors.ErrorResponse
// @Failure      422    {object}  errors.ErrorResponse
// @Router       /drinks/{id} [patch]
func (h *DrinkHandler) UpdateDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateDrinkRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	drink, err := h.service.UpdateDrink(r.Context(), id, req.ToUpdate())
	if err != nil {
		errors.HandleError(w, err)
		return
	}
	errors.RespondJSON(w, http.StatusOK, dto.NewLongDrinksResponse(drink))
}

// DeleteDrink godoc
// @Summary      Delete a drink
// @Tags         drinks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Drink ID"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  errors.ErrorResponse
// @Router       /drinks/{id} [delete]
func (h *DrinkHandler) DeleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := drinkID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDrink(r.Context(), id); err != nil {
		errors.HandleError(w, err)
		return
	}
	errors.RespondJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, Delete: id.String()})
}

// drinkID parses the {id} path parameter. An ID that cannot name a drink is
// reported as not found.
func drinkID(w http.ResponseWriter, r *http.Request) (ulid.ULID, bool) {
	id, err := domain.ParseULID(chi.URLParam(r, "id"))
	if err != nil {
		errors.HandleError(w, apperrors.NewNotFoundError(errors.MsgNotFound))
		return ulid.ULID{}, false
	}
	return id, true
}
