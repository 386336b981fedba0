package crm

import (
	"time"

	"github.com/nudgecrm/nudge/pkg/models"
)

// Seed loads a small sample dataset, useful for demos and local
// development. Due dates and last-contact times are relative to the
// store's clock so the scanners have something to find.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()

	s.contacts = []*models.Contact{
		{
			ID:          "c-john-doe",
			Name:        "John Doe",
			Email:       "john@techcorp.com",
			Phone:       "123-456-7890",
			Company:     "Tech Corp",
			Status:      models.ContactStatusActive,
			Region:      "North America",
			LastContact: now.AddDate(0, 0, -2),
			CreatedAt:   now.AddDate(0, -3, 0),
			UpdatedAt:   now.AddDate(0, 0, -2),
		},
		{
			ID:          "c-jane-smith",
			Name:        "Jane Smith",
			Email:       "jane@designco.com",
			Phone:       "098-765-4321",
			Company:     "Design Co",
			Status:      models.ContactStatusActive,
			Region:      "Europe",
			LastContact: now.AddDate(0, 0, -45),
			CreatedAt:   now.AddDate(0, -6, 0),
			UpdatedAt:   now.AddDate(0, 0, -45),
		},
		{
			ID:          "c-mike-johnson",
			Name:        "Mike Johnson",
			Email:       "mike@innovate.com",
			Phone:       "555-123-4567",
			Company:     "Innovate Inc",
			Status:      models.ContactStatusLead,
			Region:      "North America",
			LastContact: now.AddDate(0, 0, -7),
			CreatedAt:   now.AddDate(0, -1, 0),
			UpdatedAt:   now.AddDate(0, 0, -7),
		},
	}

	s.deals = []*models.Deal{
		{
			ID:          "d-enterprise-license",
			Title:       "Enterprise Software License",
			Value:       50000,
			Stage:       models.DealStageProposal,
			ContactID:   "c-john-doe",
			Description: "Annual enterprise license renewal",
			CreatedAt:   now.AddDate(0, -2, 0),
			UpdatedAt:   now.AddDate(0, 0, -10),
		},
		{
			ID:          "d-consulting",
			Title:       "Consulting Project",
			Value:       25000,
			Stage:       models.DealStageNegotiation,
			ContactID:   "c-jane-smith",
			Description: "Digital transformation consulting",
			CreatedAt:   now.AddDate(0, -2, 0),
			UpdatedAt:   now.AddDate(0, 0, -5),
		},
		{
			ID:          "d-ai-implementation",
			Title:       "AI Implementation",
			Value:       120000,
			Stage:       models.DealStageLead,
			ContactID:   "c-mike-johnson",
			Description: "Potential AI platform build-out",
			CreatedAt:   now.AddDate(0, 0, -14),
			UpdatedAt:   now.AddDate(0, 0, -14),
		},
	}

	s.tasks = []*models.Task{
		{
			ID:          "t-follow-up-proposal",
			Title:       "Follow up on proposal",
			Description: "Send follow-up email regarding the enterprise software proposal",
			DueDate:     now.Add(-2 * time.Hour),
			Status:      models.TaskStatusPending,
			Priority:    models.TaskPriorityHigh,
			ContactID:   "c-john-doe",
			DealID:      "d-enterprise-license",
			CreatedAt:   now.AddDate(0, 0, -7),
			UpdatedAt:   now.AddDate(0, 0, -7),
		},
		{
			ID:          "t-schedule-demo",
			Title:       "Schedule demo",
			Description: "Arrange product demonstration for potential client",
			DueDate:     now.AddDate(0, 0, 3),
			Status:      models.TaskStatusPending,
			Priority:    models.TaskPriorityMedium,
			ContactID:   "c-mike-johnson",
			DealID:      "d-ai-implementation",
			CreatedAt:   now.AddDate(0, 0, -2),
			UpdatedAt:   now.AddDate(0, 0, -2),
		},
		{
			ID:          "t-send-contract",
			Title:       "Send contract draft",
			Description: "Prepare and send contract for consulting project",
			DueDate:     now.AddDate(0, 0, -1),
			Status:      models.TaskStatusCompleted,
			Priority:    models.TaskPriorityMedium,
			ContactID:   "c-jane-smith",
			DealID:      "d-consulting",
			CreatedAt:   now.AddDate(0, 0, -5),
			UpdatedAt:   now.AddDate(0, 0, -1),
		},
	}

	s.activities = []*models.Activity{
		{
			ID:          "a-discovery-call",
			Type:        models.ActivityCall,
			Description: "Initial discovery call about enterprise software needs",
			Date:        now.AddDate(0, 0, -2),
			ContactID:   "c-john-doe",
			DealID:      "d-enterprise-license",
			CreatedAt:   now.AddDate(0, 0, -2),
		},
		{
			ID:          "a-sent-proposal",
			Type:        models.ActivityEmail,
			Description: "Sent proposal and pricing details",
			Date:        now.AddDate(0, 0, -45),
			ContactID:   "c-jane-smith",
			DealID:      "d-consulting",
			CreatedAt:   now.AddDate(0, 0, -45),
		},
	}
}
