package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Movie struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Genre      string     `json:"genre"`
	Rating     string     `json:"rating"`
	PosterURL  string     `json:"movie_poster_URL"`
	TrailerURL string     `json:"trailer_url"`
	Duration   int        `json:"duration"`
	Category   string     `json:"category"`
	Showtimes  []Showtime `json:"showtimes"`
}

// ShowtimeByID resolves a showtime identifier against the movie's showtime
// list. A missing id is not an error; callers degrade to "not selected".
func (m *Movie) ShowtimeByID(id int) (Showtime, bool) {
	for _, st := range m.Showtimes {
		if st.ID == id {
			return st, true
		}
	}

	return Showtime{}, false
}

type Showtime struct {
	ID        int             `json:"id"`
	StartsAt  time.Time       `json:"starts_at"`
	Format    string          `json:"format"`
	BasePrice decimal.Decimal `json:"base_price"`
	RoomID    int             `json:"movie_room"`
	RoomName  string          `json:"movie_room_name"`
}
