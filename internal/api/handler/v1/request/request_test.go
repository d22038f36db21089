package request

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unidrl/campus-connect/internal/domain"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := func() SignupRequest {
		return SignupRequest{
			Email:           "an.nguyen@vnuk.edu.vn",
			Password:        "secret123",
			ConfirmPassword: "secret123",
			Name:            "Nguyen Van An",
			MSSV:            "20230592",
			Class:           "22CE",
		}
	}

	req := valid()
	assert.NoError(t, req.Validate())

	tests := []struct {
		name   string
		mutate func(r *SignupRequest)
	}{
		{"bad email", func(r *SignupRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "ab1", "ab1" }},
		{"password without digit", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "abcdefgh", "abcdefgh" }},
		{"password without letter", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "12345678", "12345678" }},
		{"confirm mismatch", func(r *SignupRequest) { r.ConfirmPassword = "secret124" }},
		{"missing mssv", func(r *SignupRequest) { r.MSSV = "" }},
		{"mssv with spaces", func(r *SignupRequest) { r.MSSV = "2023 0592" }},
		{"missing name", func(r *SignupRequest) { r.Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestCreateEventRequest_Validate(t *testing.T) {
	req := CreateEventRequest{
		ID:           "robotics-day",
		EventRequest: EventRequest{Title: "Robotics Day", Date: "2025-03-01", TotalSeats: 40},
	}
	assert.NoError(t, req.Validate())
	assert.Equal(t, "upcoming", req.ToDomain(req.ID).Status)

	req.ID = "Robotics Day"
	assert.Error(t, req.Validate())

	req.ID = "robotics-day"
	req.Date = "01/03/2025"
	assert.Error(t, req.Validate())

	req.Date = ""
	req.TotalSeats = -1
	assert.Error(t, req.Validate())
}

func TestBadgeConfigRequest_Validate(t *testing.T) {
	req := BadgeConfigRequest{
		IsClaimable: true,
		Rules:       domain.BadgeRules{Bronze: 1, Silver: 2, Gold: 3},
		QAPairs:     []QAPairRequest{{Question: "Where?", Answer: "Hall A"}},
	}
	assert.NoError(t, req.Validate())
	assert.Equal(t, []domain.QAPair{{Question: "Where?", Answer: "Hall A"}}, req.ToDomain().QAPairs)

	req.QAPairs = append(req.QAPairs, QAPairRequest{Question: "When?"})
	assert.Error(t, req.Validate())

	req.QAPairs = nil
	req.Rules = domain.BadgeRules{Bronze: 3, Silver: 2, Gold: 1}
	assert.Error(t, req.Validate())
}

func TestIssueQRRequest_Validate(t *testing.T) {
	assert.NoError(t, (&IssueQRRequest{}).Validate())
	assert.NoError(t, (&IssueQRRequest{ValidMinutes: 30}).Validate())
	assert.Error(t, (&IssueQRRequest{ValidMinutes: -1}).Validate())
	assert.Error(t, (&IssueQRRequest{ValidMinutes: maxValidMinutes + 1}).Validate())
}
