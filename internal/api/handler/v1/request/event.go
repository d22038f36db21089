package request

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/unidrl/campus-connect/internal/domain"
)

var (
	eventIDExp   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	eventDateExp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Points      int    `json:"points"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	TotalSeats  int    `json:"total_seats"`
}

func (req *EventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Length(0, 2000)),
		validation.Field(&req.Status, validation.In("upcoming", "ongoing", "finished", "cancelled")),
		validation.Field(&req.Points, validation.Min(0)),
		validation.Field(&req.Date, validation.Match(eventDateExp)),
		validation.Field(&req.TotalSeats, validation.Min(0)),
	)
}

func (req *EventRequest) ToDomain(id string) domain.Event {
	status := req.Status
	if status == "" {
		status = "upcoming"
	}

	return domain.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      status,
		Points:      req.Points,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Seats:       domain.Seats{Total: req.TotalSeats},
	}
}

type CreateEventRequest struct {
	ID string `json:"id"`
	EventRequest
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.ID, validation.Required, validation.Length(1, 100), validation.Match(eventIDExp)),
	)
	if err != nil {
		return err
	}

	return req.EventRequest.Validate()
}
