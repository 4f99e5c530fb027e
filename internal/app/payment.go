package app

import (
	"net/http"

	"github.com/seatwise/cinegate/api"
)

func (app *application) GetPaymentCards(w http.ResponseWriter, r *http.Request) {
	client := app.cinemaClient(app.upstreamSession(r))

	cards, err := client.PaymentCards(r.Context())
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := api.PaymentCardsResponse{Cards: make([]api.PaymentCard, 0, len(cards))}
	for _, card := range cards {
		resp.Cards = append(resp.Cards, api.PaymentCard{
			Id:           card.ID,
			NumberMasked: card.NumberMasked,
			HolderName:   card.HolderName,
			ExpiryMonth:  card.ExpiryMonth,
			ExpiryYear:   card.ExpiryYear,
			IsDefault:    card.IsDefault,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
