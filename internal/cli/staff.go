package cli

import (
	"context"

	"github.com/medidesk/clinic-records/internal/staff"
)

func (a *App) staffMenu(ctx context.Context) {
	for {
		a.println("")
		a.println("-- Doctors & staff --")
		a.println("1. Add doctor")
		a.println("2. List doctors")
		a.println("3. Doctors by specialization")
		a.println("4. Set doctor availability")
		a.println("5. Add staff member")
		a.println("6. List staff")
		a.println("0. Back")

		choice, ok := a.promptInt("Select")
		if !ok {
			return
		}
		switch choice {
		case 0:
			return
		case 1:
			a.addDoctor(ctx)
		case 2:
			a.listDoctors()
		case 3:
			a.doctorsBySpecialization()
		case 4:
			a.setDoctorAvailability(ctx)
		case 5:
			a.addStaff(ctx)
		case 6:
			a.listStaff()
		default:
			a.println("Unknown option.")
		}
	}
}

func (a *App) addDoctor(ctx context.Context) {
	var d staff.Doctor
	var ok bool
	if d.FirstName, ok = a.prompt("First name"); !ok {
		return
	}
	if d.LastName, ok = a.prompt("Last name"); !ok {
		return
	}
	if d.Specialization, ok = a.prompt("Specialization"); !ok {
		return
	}
	if d.Qualification, ok = a.prompt("Qualification"); !ok {
		return
	}
	if d.Department, ok = a.prompt("Department"); !ok {
		return
	}
	if d.Phone, ok = a.prompt("Phone"); !ok {
		return
	}
	if d.ConsultationFee, ok = a.promptDecimal("Consultation fee"); !ok {
		return
	}

	created, err := a.staff.AddDoctor(ctx, d)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Added Dr. %s as %s\n", created.FullName(), created.ID)
}

func (a *App) listDoctors() {
	for _, d := range a.staff.ListDoctors() {
		status := "available"
		if !d.Available {
			status = "unavailable"
		}
		a.printf("%s  %-24s %-20s fee %s  %s\n", d.ID, d.FullName(), d.Specialization, d.ConsultationFee.StringFixed(2), status)
	}
}

func (a *App) doctorsBySpecialization() {
	spec, ok := a.prompt("Specialization")
	if !ok {
		return
	}
	results := a.staff.DoctorsBySpecialization(spec)
	if len(results) == 0 {
		a.println("No available doctors for that specialization.")
		return
	}
	for _, d := range results {
		a.printf("%s  %-24s fee %s\n", d.ID, d.FullName(), d.ConsultationFee.StringFixed(2))
	}
}

func (a *App) setDoctorAvailability(ctx context.Context) {
	id, ok := a.prompt("Doctor ID")
	if !ok {
		return
	}
	answer, ok := a.prompt("Available? (y/n)")
	if !ok {
		return
	}
	if err := a.staff.SetDoctorAvailability(ctx, id, answer == "y" || answer == "Y"); err != nil {
		a.fail(err)
		return
	}
	a.println("Updated.")
}

func (a *App) addStaff(ctx context.Context) {
	var m staff.Staff
	var ok bool
	if m.FirstName, ok = a.prompt("First name"); !ok {
		return
	}
	if m.LastName, ok = a.prompt("Last name"); !ok {
		return
	}
	if m.Role, ok = a.prompt("Role"); !ok {
		return
	}
	if m.Department, ok = a.prompt("Department"); !ok {
		return
	}
	if m.Phone, ok = a.prompt("Phone"); !ok {
		return
	}
	if m.Salary, ok = a.promptDecimal("Salary"); !ok {
		return
	}

	created, err := a.staff.AddStaff(ctx, m)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Added %s as %s\n", created.FullName(), created.ID)
}

func (a *App) listStaff() {
	for _, m := range a.staff.ListStaff() {
		a.printf("%s  %-24s %-16s %s\n", m.ID, m.FullName(), m.Role, m.Department)
	}
}
