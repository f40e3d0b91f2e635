package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nguyenvuong1309/glow/internal/auth"
	"github.com/nguyenvuong1309/glow/internal/domain"
	"github.com/nguyenvuong1309/glow/internal/service/bookings"
	"github.com/nguyenvuong1309/glow/internal/service/catalog"
	"github.com/nguyenvuong1309/glow/internal/store"
	"github.com/nguyenvuong1309/glow/internal/transport/wire"
)

type handlers struct {
	catalog            catalogService
	bookings           bookingsService
	log                *slog.Logger
	allowRequestUserID bool
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.fail(c, "categories list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": wire.Categories(categories)})
}

func (h *handlers) listServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.fail(c, "services list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": wire.Services(services)})
}

// filterServices accepts categories either comma separated or repeated.
func (h *handlers) filterServices(c *gin.Context) {
	var categories []string
	for _, v := range c.QueryArray("categories") {
		categories = append(categories, strings.Split(v, ",")...)
	}

	services, err := h.catalog.FilterAvailable(c.Request.Context(), catalog.FilterInput{
		Categories: categories,
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
		TimeFrom:   c.Query("time_from"),
		TimeTo:     c.Query("time_to"),
	}, c.Query("category"))
	if err != nil {
		h.fail(c, "services filter", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": wire.Services(services)})
}

func (h *handlers) getService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}
	svc, err := h.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "service get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": wire.FromService(svc)})
}

func (h *handlers) listSlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}
	from, err := domain.ParseDate(c.Query("date_from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be YYYY-MM-DD"})
		return
	}
	to := from
	if raw := c.Query("date_to"); raw != "" {
		if to, err = domain.ParseDate(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be YYYY-MM-DD"})
			return
		}
	}

	slots, err := h.catalog.ListSlots(c.Request.Context(), id, from, to)
	if err != nil {
		h.fail(c, "slots list", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": wire.Slots(slots)})
}

type createBookingBody struct {
	UserID    string `json:"user_id"`
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Notes     string `json:"notes"`
}

func (h *handlers) createBooking(c *gin.Context) {
	var body createBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	userID, ok := h.userID(c, body.UserID)
	if !ok {
		return
	}
	serviceID, err := uuid.Parse(body.ServiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_id must be a UUID"})
		return
	}

	b, err := h.bookings.Create(c.Request.Context(), bookings.CreateInput{
		UserID:         userID,
		ServiceID:      serviceID,
		Date:           body.Date,
		TimeSlot:       body.TimeSlot,
		Notes:          body.Notes,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.fail(c, "booking create", err, slog.String("user_id", userID))
		return
	}

	h.log.Info("booking created", slog.String("booking_id", b.ID.String()), slog.String("user_id", userID))
	c.JSON(http.StatusCreated, gin.H{"booking": wire.FromBooking(b)})
}

func (h *handlers) listBookings(c *gin.Context) {
	userID, ok := h.userID(c, c.Query("user_id"))
	if !ok {
		return
	}
	list, err := h.bookings.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "bookings list", err, slog.String("user_id", userID))
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": wire.Bookings(list)})
}

func (h *handlers) cancelBooking(c *gin.Context) {
	userID, ok := h.userID(c, c.Query("user_id"))
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	b, err := h.bookings.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, "booking cancel", err, slog.String("user_id", userID), slog.String("booking_id", id.String()))
		return
	}

	h.log.Info("booking cancelled", slog.String("booking_id", b.ID.String()), slog.String("user_id", userID))
	c.JSON(http.StatusOK, gin.H{"booking": wire.FromBooking(b)})
}

func (h *handlers) userID(c *gin.Context, fromRequest string) (string, bool) {
	if id, ok := auth.UserIDFrom(c.Request.Context()); ok {
		return id, true
	}
	fromRequest = strings.TrimSpace(fromRequest)
	if h.allowRequestUserID && fromRequest != "" {
		return fromRequest, true
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	return "", false
}

func (h *handlers) fail(c *gin.Context, op string, err error, attrs ...any) {
	var catalogErr *catalog.ValidationError
	var bookingErr *bookings.ValidationError
	switch {
	case errors.As(err, &catalogErr), errors.As(err, &bookingErr):
		h.log.Warn("invalid request", append([]any{slog.String("op", op), slog.Any("err", err)}, attrs...)...)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrIdempotencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "idempotency key was already used for a different booking"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "booking is already in that state"})
	default:
		h.log.Error(op+" failed", append([]any{slog.Any("err", err)}, attrs...)...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
