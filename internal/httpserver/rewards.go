package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salespring-checkout/internal/domain"
)

type rewardsResponse struct {
	Account      *domain.RewardsAccount     `json:"account"`
	Transactions []domain.PointsTransaction `json:"transactions"`
}

func rewardsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID := c.Param("cartId")
		ctx := c.Request.Context()

		limit := 20
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		account, err := deps.RewardsSvc.Account(ctx, cartID)
		if err != nil {
			writeError(c, err)
			return
		}
		transactions, err := deps.RewardsSvc.Transactions(ctx, cartID, limit)
		if err != nil {
			writeError(c, err)
			return
		}
		if transactions == nil {
			transactions = []domain.PointsTransaction{}
		}

		c.JSON(http.StatusOK, rewardsResponse{Account: account, Transactions: transactions})
	}
}
