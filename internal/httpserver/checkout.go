package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salespring-checkout/internal/domain"
)

type quoteRequest struct {
	DiscountCode   string `json:"discountCode"`
	PointsToRedeem int64  `json:"pointsToRedeem"`
}

type quoteResponse struct {
	Items           []domain.CartItem       `json:"items"`
	Totals          domain.CheckoutTotals   `json:"totals"`
	AppliedDiscount *domain.AppliedDiscount `json:"appliedDiscount,omitempty"`
	Account         *domain.RewardsAccount  `json:"account"`
}

func quoteHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
			return
		}

		quote, err := deps.CheckoutSvc.BuildQuote(c.Request.Context(), c.Param("cartId"), req.DiscountCode, req.PointsToRedeem)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, quoteResponse{
			Items:           quote.Items,
			Totals:          quote.Totals,
			AppliedDiscount: quote.Applied,
			Account:         quote.Account,
		})
	}
}

type checkoutRequest struct {
	DiscountCode   string `json:"discountCode"`
	PointsToRedeem int64  `json:"pointsToRedeem"`
	PointsToEarn   int64  `json:"pointsToEarn"`
	OrderID        string `json:"orderId"`
}

type checkoutResponse struct {
	OrderID        string                 `json:"orderId"`
	Totals         domain.CheckoutTotals  `json:"totals"`
	Account        *domain.RewardsAccount `json:"account"`
	PointsRedeemed int64                  `json:"pointsRedeemed"`
	PointsEarned   int64                  `json:"pointsEarned"`
}

func checkoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body", "message": err.Error()})
			return
		}

		done, err := deps.CheckoutSvc.CompleteOrder(
			c.Request.Context(),
			c.Param("cartId"),
			req.DiscountCode,
			req.PointsToRedeem,
			req.PointsToEarn,
			req.OrderID,
		)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, checkoutResponse{
			OrderID:        done.OrderID,
			Totals:         done.Totals,
			Account:        done.Account,
			PointsRedeemed: done.PointsRedeemed,
			PointsEarned:   done.PointsEarned,
		})
	}
}
