package handler

import (
	"net/http"
	"time"

	"github.com/la-clef-asso/laclef-news/backend/internal/calendar"
	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

// Les dates calendaires traversent l'API au format 2006-01-02, interprétées
// dans le fuseau local du serveur puis ramenées à minuit.
const dateLayout = "2006-01-02"

func parseDateParam(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.Local)
}

// GetPosts renvoie le flux trié par création décroissante, éventuellement
// restreint par un filtre (?filter=today|sinceYesterday|sinceWeek|onDate&date=...).
func (h *Handler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.FetchPosts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	posts = calendar.SortByCreatedDesc(posts)

	mode := calendar.FilterAll
	if s := r.URL.Query().Get("filter"); s != "" {
		mode, err = calendar.ParseFilterMode(s)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
	}

	var target time.Time
	if mode == calendar.FilterOnDate {
		target, err = parseDateParam(r.URL.Query().Get("date"))
		if err != nil {
			h.errorResponse(w, r, "date de filtre invalide")
			return
		}
	}

	posts = calendar.Filter(posts, mode, target, time.Now())

	h.successResponse(w, r, "publications récupérées", posts)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post := r.Context().Value(PostCtx).(*domain.Post)
	h.successResponse(w, r, "publication récupérée", post)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Type        string `json:"type" validate:"required,oneof=A_LA_UNE INFO ABSENCE EVENT RETARD REMPLACEMENT"`
		StartAt     string `json:"startAt" validate:"required"`
		EndAt       string `json:"endAt"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startAt, err := parseDateParam(req.StartAt)
	if err != nil {
		h.errorResponse(w, r, "date de début invalide")
		return
	}

	var endAt *time.Time
	if req.EndAt != "" {
		end, err := parseDateParam(req.EndAt)
		if err != nil {
			h.errorResponse(w, r, "date de fin invalide")
			return
		}
		end = calendar.StartOfDay(end)
		endAt = &end
	}

	post := &domain.Post{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.PostType(req.Type),
		StartAt:     calendar.StartOfDay(startAt),
		EndAt:       endAt,
		AuthorName:  myInfo.DisplayName,
		AuthorEmail: myInfo.Email,
	}

	// Les invariants sont contrôlés avant tout appel au stockage
	if err := post.Validate(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.posts.CreatePost(post); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "publication créée", post)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	post := r.Context().Value(PostCtx).(*domain.Post)

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Type        *string `json:"type" validate:"omitempty,oneof=A_LA_UNE INFO ABSENCE EVENT RETARD REMPLACEMENT"`
		StartAt     *string `json:"startAt"`
		// Chaîne vide : la date de fin est effacée et la publication
		// redevient "jour J"
		EndAt *string `json:"endAt"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Description != nil {
		post.Description = *req.Description
	}
	if req.Type != nil {
		post.Type = domain.PostType(*req.Type)
	}
	if req.StartAt != nil {
		startAt, err := parseDateParam(*req.StartAt)
		if err != nil {
			h.errorResponse(w, r, "date de début invalide")
			return
		}
		post.StartAt = calendar.StartOfDay(startAt)
	}
	if req.EndAt != nil {
		if *req.EndAt == "" {
			post.EndAt = nil
		} else {
			end, err := parseDateParam(*req.EndAt)
			if err != nil {
				h.errorResponse(w, r, "date de fin invalide")
				return
			}
			end = calendar.StartOfDay(end)
			post.EndAt = &end
		}
	}

	if err := post.Validate(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.posts.UpdatePost(post); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "publication mise à jour", post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	post := r.Context().Value(PostCtx).(*domain.Post)

	if err := h.posts.DeletePost(post.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "publication supprimée", nil)
}

type calendarDay struct {
	Day   string        `json:"day"`
	Label string        `json:"label"`
	Posts []domain.Post `json:"posts"`
}

type calendarData struct {
	Mode        calendar.Mode `json:"mode"`
	PeriodStart string        `json:"periodStart"`
	PeriodEnd   string        `json:"periodEnd"`
	PrevCursor  string        `json:"prevCursor"`
	NextCursor  string        `json:"nextCursor"`
	Days        []calendarDay `json:"days"`
}

// GetCalendar calcule la période visible (?mode=&cursor=) et répartit les
// publications dans chaque jour de la période.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	mode := calendar.ModeDay
	if s := r.URL.Query().Get("mode"); s != "" {
		var err error
		mode, err = calendar.ParseMode(s)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
	}

	// Sans curseur on se cale sur aujourd'hui, comme après un changement de mode
	cursor := calendar.StartOfDay(time.Now())
	if s := r.URL.Query().Get("cursor"); s != "" {
		var err error
		cursor, err = parseDateParam(s)
		if err != nil {
			h.errorResponse(w, r, "curseur invalide")
			return
		}
	}

	posts, err := h.posts.FetchPosts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	posts = calendar.SortByCreatedDesc(posts)

	period := calendar.Resolve(mode, cursor)

	days := period.Days()
	data := calendarData{
		Mode:        mode,
		PeriodStart: period.Start.Format(dateLayout),
		PeriodEnd:   period.End.Format(dateLayout),
		PrevCursor:  calendar.PrevCursor(mode, cursor).Format(dateLayout),
		NextCursor:  calendar.NextCursor(mode, cursor).Format(dateLayout),
		Days:        make([]calendarDay, 0, len(days)),
	}

	for _, day := range days {
		data.Days = append(data.Days, calendarDay{
			Day:   day.Format(dateLayout),
			Label: calendar.FormatDayLabelFR(day),
			Posts: calendar.PostsForDay(posts, day),
		})
	}

	h.successResponse(w, r, "calendrier récupéré", data)
}

type featuredPost struct {
	domain.Post
	RemainingLabel string `json:"remainingLabel"`
}

// GetFeaturedPosts renvoie les publications à la une dont la période couvre
// aujourd'hui, avec le libellé de jours restants affiché dans l'encart.
func (h *Handler) GetFeaturedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.FetchPosts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	today := time.Now()
	featured := calendar.Featured(calendar.SortByCreatedDesc(posts), today)

	data := make([]featuredPost, 0, len(featured))
	for _, post := range featured {
		data = append(data, featuredPost{
			Post:           post,
			RemainingLabel: calendar.FormatRemainingDays(post.StartAt, post.EndAt, today),
		})
	}

	h.successResponse(w, r, "publications à la une récupérées", data)
}

// GetMyPosts renvoie l'historique des publications du compte connecté,
// filtrable en passées / programmées (?filter=all|past|scheduled).
func (h *Handler) GetMyPosts(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	mode := calendar.ArchiveAll
	if s := r.URL.Query().Get("filter"); s != "" {
		var err error
		mode, err = calendar.ParseArchiveFilterMode(s)
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}
	}

	posts, err := h.posts.FetchPosts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	mine := calendar.OwnPosts(calendar.SortByCreatedDesc(posts), myInfo.Email, myInfo.DisplayName)
	mine = calendar.ArchiveFilter(mine, mode, time.Now())

	h.successResponse(w, r, "historique récupéré", mine)
}
