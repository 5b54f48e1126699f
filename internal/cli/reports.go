package cli

import "github.com/medidesk/clinic-records/internal/scheduling"

var statusOrder = []scheduling.Status{
	scheduling.StatusScheduled,
	scheduling.StatusConfirmed,
	scheduling.StatusInProgress,
	scheduling.StatusCompleted,
	scheduling.StatusCancelled,
	scheduling.StatusNoShow,
}

func (a *App) reportsMenu() {
	a.println("")
	a.println("-- Reports --")

	a.printf("Active patients: %d\n", len(a.patients.ListActive()))
	a.printf("Doctors: %d\n", len(a.staff.ListDoctors()))

	counts := a.schedule.Counts()
	a.println("Appointments by status:")
	for _, status := range statusOrder {
		if n := counts[status]; n > 0 {
			a.printf("  %-12s %d\n", status, n)
		}
	}

	a.printf("Unpaid bills: %d\n", len(a.billing.Unpaid()))
	a.printf("Overdue bills: %d\n", len(a.billing.Overdue()))
	a.printf("Inventory value: %s\n", a.inventory.StockValue().StringFixed(2))
	a.printf("Inventory alerts: %d\n", len(a.inventory.Alerts()))
	a.printf("Follow-ups due: %d\n", len(a.records.FollowUpsDue()))
}
