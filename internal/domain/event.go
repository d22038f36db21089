package domain

type Seats struct {
	Total int `json:"total"`
	Left  int `json:"left"`
}

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Points      int    `json:"points"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Seats       Seats  `json:"seats"`
}

func (e Event) HasSeatsLeft() bool {
	return e.Seats.Total == 0 || e.Seats.Left > 0
}
