package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salespring-checkout/internal/domain"
	"salespring-checkout/internal/service/checkout"
)

type cartService interface {
	Items(ctx context.Context, cartID string) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (*domain.CartItem, error)
}

type selectionService interface {
	Toggle(ctx context.Context, cartID, itemID string, selected bool) error
	SelectAll(ctx context.Context, cartID string, items []domain.CartItem, selected bool) error
}

type checkoutService interface {
	BuildQuote(ctx context.Context, cartID, code string, pointsToRedeem int64) (*checkout.Quote, error)
	CompleteOrder(ctx context.Context, cartID, code string, pointsToRedeem, quotedPointsToEarn int64, orderID string) (*checkout.Completion, error)
}

type rewardsService interface {
	Account(ctx context.Context, cartID string) (*domain.RewardsAccount, error)
	Transactions(ctx context.Context, cartID string, limit int) ([]domain.PointsTransaction, error)
}

type cartResponse struct {
	Items  []domain.CartItem     `json:"items"`
	Totals domain.CheckoutTotals `json:"totals"`
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		quote, err := deps.CheckoutSvc.BuildQuote(c.Request.Context(), c.Param("cartId"), "", 0)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse{Items: quote.Items, Totals: quote.Totals})
	}
}

type updateItemRequest struct {
	Quantity *int  `json:"quantity"`
	Selected *bool `json:"selected"`
}

func updateItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
			return
		}
		if req.Quantity == nil && req.Selected == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": "quantity or selected required"})
			return
		}

		cartID := c.Param("cartId")
		itemID := c.Param("itemId")
		ctx := c.Request.Context()

		if req.Quantity != nil {
			if _, err := deps.CartSvc.UpdateQuantity(ctx, cartID, itemID, *req.Quantity); err != nil {
				writeError(c, err)
				return
			}
		}
		if req.Selected != nil {
			if err := deps.SelectionSvc.Toggle(ctx, cartID, itemID, *req.Selected); err != nil {
				writeError(c, err)
				return
			}
		}

		quote, err := deps.CheckoutSvc.BuildQuote(ctx, cartID, "", 0)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse{Items: quote.Items, Totals: quote.Totals})
	}
}

type selectAllRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

func selectAllHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectAllRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
			return
		}

		cartID := c.Param("cartId")
		ctx := c.Request.Context()

		items, err := deps.CartSvc.Items(ctx, cartID)
		if err != nil {
			writeError(c, err)
			return
		}
		if err := deps.SelectionSvc.SelectAll(ctx, cartID, items, *req.Selected); err != nil {
			writeError(c, err)
			return
		}

		quote, err := deps.CheckoutSvc.BuildQuote(ctx, cartID, "", 0)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse{Items: quote.Items, Totals: quote.Totals})
	}
}

// writeError maps the engine's recoverable conditions onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var minErr *domain.MinimumOrderError
	switch {
	case errors.As(err, &minErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "below_minimum",
			"message":        minErr.Error(),
			"minOrderAmount": minErr.MinOrderAmount,
		})
	case errors.Is(err, domain.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "code_not_found", "message": "discount code is invalid or expired"})
	case errors.Is(err, domain.ErrInsufficientPoints):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "insufficient_points", "message": "not enough reward points"})
	case errors.Is(err, domain.ErrOrderAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "order_already_completed", "message": "this order was already completed"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "resource not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal server error"})
	}
}
