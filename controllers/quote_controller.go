package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/services"
	"github.com/cppla/consigliere/utils"
)

type QuoteController struct {
	quotes *services.QuoteService
	clock  services.Clock
}

func NewQuoteController(quotes *services.QuoteService, clock services.Clock) *QuoteController {
	return &QuoteController{quotes: quotes, clock: clock}
}

// Today returns the quote of the day. The endpoint is public.
func (q *QuoteController) Today(ctx *gin.Context) {
	quote, err := q.quotes.GetDailyQuote(ctx.Request.Context(), q.clock.Today())
	if err != nil {
		respondServiceError(ctx, err, 50050, "failed to load quote")
		return
	}
	utils.Success(ctx, quote)
}
