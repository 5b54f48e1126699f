package cli

import (
	"context"

	"github.com/medidesk/clinic-records/internal/scheduling"
)

func (a *App) appointmentMenu(ctx context.Context) {
	for {
		a.println("")
		a.println("-- Appointments --")
		a.println("1. Schedule appointment")
		a.println("2. Confirm appointment")
		a.println("3. Cancel appointment")
		a.println("4. Complete appointment")
		a.println("5. Reschedule appointment")
		a.println("6. Appointments for a patient")
		a.println("7. Appointments for a doctor")
		a.println("8. Today's appointments")
		a.println("9. Upcoming appointments")
		a.println("0. Back")

		choice, ok := a.promptInt("Select")
		if !ok {
			return
		}
		switch choice {
		case 0:
			return
		case 1:
			a.scheduleAppointment(ctx)
		case 2:
			a.confirmAppointment(ctx)
		case 3:
			a.cancelAppointment(ctx)
		case 4:
			a.completeAppointment(ctx)
		case 5:
			a.rescheduleAppointment(ctx)
		case 6:
			a.appointmentsByPatient()
		case 7:
			a.appointmentsByDoctor()
		case 8:
			a.listAppointments(a.schedule.Today())
		case 9:
			a.listAppointments(a.schedule.Upcoming())
		default:
			a.println("Unknown option.")
		}
	}
}

func (a *App) scheduleAppointment(ctx context.Context) {
	var appt scheduling.Appointment
	var ok bool
	if appt.PatientID, ok = a.prompt("Patient ID"); !ok {
		return
	}
	if appt.DoctorID, ok = a.prompt("Doctor ID"); !ok {
		return
	}
	if appt.StartTime, ok = a.promptDateTime("Start time"); !ok {
		return
	}
	if appt.Reason, ok = a.prompt("Reason"); !ok {
		return
	}

	created, err := a.schedule.Schedule(ctx, appt)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Scheduled %s at %s (fee %s)\n", created.ID, created.StartTime.Format(dateTimeLayout), created.ConsultationFee.StringFixed(2))
}

func (a *App) confirmAppointment(ctx context.Context) {
	id, ok := a.prompt("Appointment ID")
	if !ok {
		return
	}
	if err := a.schedule.Confirm(ctx, id); err != nil {
		a.fail(err)
		return
	}
	a.println("Confirmed.")
}

func (a *App) cancelAppointment(ctx context.Context) {
	id, ok := a.prompt("Appointment ID")
	if !ok {
		return
	}
	if err := a.schedule.Cancel(ctx, id); err != nil {
		a.fail(err)
		return
	}
	a.println("Cancelled; the slot is free again.")
}

func (a *App) completeAppointment(ctx context.Context) {
	id, ok := a.prompt("Appointment ID")
	if !ok {
		return
	}
	notes, ok := a.prompt("Visit notes")
	if !ok {
		return
	}
	if err := a.schedule.Complete(ctx, id, notes); err != nil {
		a.fail(err)
		return
	}
	a.println("Completed.")

	answer, ok := a.prompt("Create bill for this visit? (y/n)")
	if !ok || (answer != "y" && answer != "Y") {
		return
	}
	bill, err := a.billing.CreateFromAppointment(ctx, id)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Created bill %s for %s\n", bill.ID, bill.Total.StringFixed(2))
}

func (a *App) rescheduleAppointment(ctx context.Context) {
	id, ok := a.prompt("Appointment ID")
	if !ok {
		return
	}
	appt, found := a.schedule.FindAppointment(id)
	if !found {
		a.println("No such appointment.")
		return
	}
	if appt.StartTime, ok = a.promptDateTime("New start time"); !ok {
		return
	}
	updated, err := a.schedule.Update(ctx, appt)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Moved %s to %s\n", updated.ID, updated.StartTime.Format(dateTimeLayout))
}

func (a *App) appointmentsByPatient() {
	id, ok := a.prompt("Patient ID")
	if !ok {
		return
	}
	a.listAppointments(a.schedule.ByPatient(id))
}

func (a *App) appointmentsByDoctor() {
	id, ok := a.prompt("Doctor ID")
	if !ok {
		return
	}
	a.listAppointments(a.schedule.ByDoctor(id))
}

func (a *App) listAppointments(appts []scheduling.Appointment) {
	if len(appts) == 0 {
		a.println("No appointments.")
		return
	}
	for _, appt := range appts {
		a.printf("%s  %s  patient %s  doctor %s  %-12s %s\n",
			appt.ID, appt.StartTime.Format(dateTimeLayout), appt.PatientID, appt.DoctorID, appt.Status, appt.Reason)
	}
}
