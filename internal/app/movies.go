package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/seatwise/cinegate/api"
	"github.com/seatwise/cinegate/internal/domain"
)

func (app *application) GetMovies(w http.ResponseWriter, r *http.Request) {
	client := app.cinemaClient(app.upstreamSession(r))

	movies, err := client.Movies(r.Context())
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{Movies: make([]api.MovieSummary, 0, len(movies))}
	for i := range movies {
		resp.Movies = append(resp.Movies, toMovieSummary(&movies[i]))
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetMovieBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	client := app.cinemaClient(app.upstreamSession(r))

	movie, err := client.MovieBySlug(r.Context(), slug)
	if err != nil {
		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := api.MovieResponse{Movie: toMovieSummary(movie)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieSummary(movie *domain.Movie) api.MovieSummary {
	summary := api.MovieSummary{
		Id:        movie.ID,
		Title:     movie.Title,
		Slug:      movie.Slug,
		Genre:     movie.Genre,
		Rating:    movie.Rating,
		PosterUrl: movie.PosterURL,
		Category:  movie.Category,
		Showtimes: make([]api.Showtime, 0, len(movie.Showtimes)),
	}

	for _, st := range movie.Showtimes {
		summary.Showtimes = append(summary.Showtimes, toShowtime(st))
	}

	return summary
}

func toShowtime(st domain.Showtime) api.Showtime {
	return api.Showtime{
		Id:        st.ID,
		StartsAt:  st.StartsAt,
		Format:    st.Format,
		BasePrice: st.BasePrice,
		RoomName:  st.RoomName,
	}
}
