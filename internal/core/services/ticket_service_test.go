package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"
)

func TestOpenTicketForcesKioskUnderMaintenance(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	tech := seedUser(t, db, "tech@gbh.test", domain.RoleTechnician)

	for _, prior := range []domain.KioskStatus{
		domain.KioskAvailable, domain.KioskInUse,
		domain.KioskUnderMaintenance, domain.KioskClosed,
	} {
		kiosk := seedKiosk(t, db, "KSK-"+string(prior), prior)

		ticket, err := svc.Open(context.Background(), &OpenTicketInput{
			KioskID:            kiosk.ID,
			TechnicianIDs:      []uint{tech.ID},
			ProblemDescription: "Climatisation en panne",
		}, tech.ID)
		require.NoError(t, err, "prior status %s", prior)
		assert.Equal(t, domain.TicketOpen, ticket.Status)
		assert.Equal(t, domain.PriorityNormal, ticket.Priority)

		var reloaded models.Kiosk
		require.NoError(t, db.First(&reloaded, kiosk.ID).Error)
		assert.Equal(t, domain.KioskUnderMaintenance, reloaded.Status, "prior status %s", prior)
	}
}

func TestOpenTicketValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)

	_, err := svc.Open(context.Background(), &OpenTicketInput{KioskID: kiosk.ID}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            999,
		ProblemDescription: "Porte cassée",
	}, 1)
	assert.ErrorIs(t, err, ErrKioskNotFound)

	_, err = svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		TechnicianIDs:      []uint{999},
		ProblemDescription: "Porte cassée",
	}, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCloseTicketKeepsKioskInMaintenanceByDefault(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)

	ticket, err := svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		ProblemDescription: "Vitrine fissurée",
	}, 1)
	require.NoError(t, err)

	closed, err := svc.Close(context.Background(), ticket.ID, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketClosed, closed.Status)
	require.NotNil(t, closed.ResolvedDate)

	// Auto-release is off: the kiosk stays where the open left it.
	var reloaded models.Kiosk
	require.NoError(t, db.First(&reloaded, kiosk.ID).Error)
	assert.Equal(t, domain.KioskUnderMaintenance, reloaded.Status)
}

func TestCloseTicketAutoReleaseOnLastTicket(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, true)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)

	first, err := svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		ProblemDescription: "Serrure bloquée",
	}, 1)
	require.NoError(t, err)
	second, err := svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		ProblemDescription: "Fuite de toiture",
	}, 1)
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), first.ID, time.Now())
	require.NoError(t, err)

	// One ticket still open: no release yet.
	var reloaded models.Kiosk
	require.NoError(t, db.First(&reloaded, kiosk.ID).Error)
	assert.Equal(t, domain.KioskUnderMaintenance, reloaded.Status)

	_, err = svc.Close(context.Background(), second.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, kiosk.ID).Error)
	assert.Equal(t, domain.KioskAvailable, reloaded.Status)
}

func TestCloseTicketTwiceFails(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)

	ticket, err := svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		ProblemDescription: "Écran HS",
	}, 1)
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), ticket.ID, time.Now())
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), ticket.ID, time.Now())
	assert.ErrorIs(t, err, ErrTicketAlreadyClosed)
}

func TestListTicketsSearchAndFilters(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)
	other := seedKiosk(t, db, "KSK-002", domain.KioskAvailable)
	tech := seedUser(t, db, "tech@gbh.test", domain.RoleTechnician)

	_, err := svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		TechnicianIDs:      []uint{tech.ID},
		ProblemDescription: "Climatisation en panne",
	}, 1)
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            other.ID,
		ProblemDescription: "Peinture à refaire",
	}, 1)
	require.NoError(t, err)

	// Case-insensitive search on the problem description.
	out, err := svc.ListPaged(context.Background(), &ListTicketsInput{Search: "CLIMATISATION"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)

	// Filter by kiosk.
	out, err = svc.ListPaged(context.Background(), &ListTicketsInput{KioskID: &other.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)

	// Filter by technician.
	out, err = svc.ListPaged(context.Background(), &ListTicketsInput{TechnicianID: &tech.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)

	// No filters: everything, newest first.
	out, err = svc.ListPaged(context.Background(), &ListTicketsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, out.Total)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)
}

func TestListTicketsFilterByCreator(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)
	agent := seedUser(t, db, "agent@gbh.test", domain.RoleTechnician)
	supervisor := seedUser(t, db, "responsable@gbh.test", domain.RoleSupervisor)

	_, err := svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		ProblemDescription: "Rideau métallique coincé",
	}, agent.ID)
	require.NoError(t, err)
	_, err = svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		ProblemDescription: "Enseigne lumineuse éteinte",
	}, supervisor.ID)
	require.NoError(t, err)

	out, err := svc.ListPaged(context.Background(), &ListTicketsInput{CreatedByID: &agent.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)
	require.Len(t, out.Tickets, 1)
	require.NotNil(t, out.Tickets[0].CreatedByID)
	assert.Equal(t, agent.ID, *out.Tickets[0].CreatedByID)
}

func TestListTicketsSecondPage(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)

	base := time.Now().Add(-25 * time.Hour)
	for i := 0; i < 25; i++ {
		ticket := &models.ServiceRequest{
			KioskID:            kiosk.ID,
			ProblemDescription: fmt.Sprintf("Panne %02d", i),
			Priority:           domain.PriorityNormal,
			Status:             domain.TicketOpen,
			CreatedAt:          base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(ticket).Error)
	}

	// Newest first: page 2 holds items [10..19] of the descending order,
	// i.e. Panne 14 down to Panne 05.
	out, err := svc.ListPaged(context.Background(), &ListTicketsInput{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, out.Total)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 3, out.TotalPages)
	require.Len(t, out.Tickets, 10)
	assert.Equal(t, "Panne 14", out.Tickets[0].ProblemDescription)
	assert.Equal(t, "Panne 05", out.Tickets[9].ProblemDescription)

	// The last page carries the remainder.
	out, err = svc.ListPaged(context.Background(), &ListTicketsInput{Page: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, out.Tickets, 5)
	assert.Equal(t, "Panne 04", out.Tickets[0].ProblemDescription)
	assert.Equal(t, "Panne 00", out.Tickets[4].ProblemDescription)
}

func TestBulkDeleteTickets(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)

	var ids []uint
	for _, desc := range []string{"Un", "Deux", "Trois"} {
		ticket, err := svc.Open(context.Background(), &OpenTicketInput{
			KioskID:            kiosk.ID,
			ProblemDescription: desc,
		}, 1)
		require.NoError(t, err)
		ids = append(ids, ticket.ID)
	}

	deleted, err := svc.BulkDelete(context.Background(), ids[:2])
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	_, err = svc.BulkDelete(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMaintenanceMetrics(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newTicketService(db, false)
	kiosk := seedKiosk(t, db, "KSK-001", domain.KioskAvailable)
	seedKiosk(t, db, "KSK-002", domain.KioskAvailable)

	ticket, err := svc.Open(context.Background(), &OpenTicketInput{
		KioskID:            kiosk.ID,
		ProblemDescription: "Volet roulant bloqué",
	}, 1)
	require.NoError(t, err)
	_, err = svc.Close(context.Background(), ticket.ID, time.Now())
	require.NoError(t, err)

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, metrics.KiosksInMaintenance)
	assert.EqualValues(t, 1, metrics.TotalTickets)
	assert.EqualValues(t, 1, metrics.OpenedThisMonth)
	assert.EqualValues(t, 1, metrics.ClosedThisMonth)
}
