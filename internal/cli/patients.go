package cli

import (
	"context"

	"github.com/medidesk/clinic-records/internal/patient"
)

func (a *App) patientMenu(ctx context.Context) {
	for {
		a.println("")
		a.println("-- Patients --")
		a.println("1. Register patient")
		a.println("2. Find patient")
		a.println("3. Search by name")
		a.println("4. List active patients")
		a.println("5. Update patient")
		a.println("6. Deactivate patient")
		a.println("0. Back")

		choice, ok := a.promptInt("Select")
		if !ok {
			return
		}
		switch choice {
		case 0:
			return
		case 1:
			a.registerPatient(ctx)
		case 2:
			a.findPatient()
		case 3:
			a.searchPatients()
		case 4:
			a.listPatients()
		case 5:
			a.updatePatient(ctx)
		case 6:
			a.deactivatePatient(ctx)
		default:
			a.println("Unknown option.")
		}
	}
}

func (a *App) registerPatient(ctx context.Context) {
	var p patient.Patient
	var ok bool
	if p.FirstName, ok = a.prompt("First name"); !ok {
		return
	}
	if p.LastName, ok = a.prompt("Last name"); !ok {
		return
	}
	if p.DateOfBirth, ok = a.promptDate("Date of birth"); !ok {
		return
	}
	if p.Gender, ok = a.prompt("Gender"); !ok {
		return
	}
	if p.Phone, ok = a.prompt("Phone"); !ok {
		return
	}
	if p.Email, ok = a.prompt("Email"); !ok {
		return
	}
	if p.Address, ok = a.prompt("Address"); !ok {
		return
	}
	if p.BloodGroup, ok = a.prompt("Blood group"); !ok {
		return
	}
	allergies, ok := a.prompt("Allergies (comma separated)")
	if !ok {
		return
	}
	p.Allergies = splitList(allergies)

	created, err := a.patients.Register(ctx, p)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Registered %s as %s\n", created.FullName(), created.ID)
}

func (a *App) findPatient() {
	id, ok := a.prompt("Patient ID")
	if !ok {
		return
	}
	p, found := a.patients.FindPatient(id)
	if !found {
		a.println("No such patient.")
		return
	}
	a.showPatient(p)
}

func (a *App) searchPatients() {
	q, ok := a.prompt("Name contains")
	if !ok {
		return
	}
	results := a.patients.SearchByName(q)
	if len(results) == 0 {
		a.println("No matches.")
		return
	}
	for _, p := range results {
		a.printf("%s  %-24s %s\n", p.ID, p.FullName(), p.Phone)
	}
}

func (a *App) listPatients() {
	for _, p := range a.patients.ListActive() {
		a.printf("%s  %-24s %s\n", p.ID, p.FullName(), p.Phone)
	}
}

func (a *App) updatePatient(ctx context.Context) {
	id, ok := a.prompt("Patient ID")
	if !ok {
		return
	}
	p, found := a.patients.FindPatient(id)
	if !found {
		a.println("No such patient.")
		return
	}

	// Blank answers keep the current value.
	if v, ok := a.prompt("Phone [" + p.Phone + "]"); !ok {
		return
	} else if v != "" {
		p.Phone = v
	}
	if v, ok := a.prompt("Email [" + p.Email + "]"); !ok {
		return
	} else if v != "" {
		p.Email = v
	}
	if v, ok := a.prompt("Address [" + p.Address + "]"); !ok {
		return
	} else if v != "" {
		p.Address = v
	}

	if err := a.patients.Update(ctx, p); err != nil {
		a.fail(err)
		return
	}
	a.println("Updated.")
}

func (a *App) deactivatePatient(ctx context.Context) {
	id, ok := a.prompt("Patient ID")
	if !ok {
		return
	}
	if err := a.patients.Deactivate(ctx, id); err != nil {
		a.fail(err)
		return
	}
	a.println("Deactivated.")
}

func (a *App) showPatient(p patient.Patient) {
	a.printf("%s  %s\n", p.ID, p.FullName())
	if !p.DateOfBirth.IsZero() {
		a.printf("  Born: %s\n", p.DateOfBirth.Format(dateLayout))
	}
	if p.Phone != "" {
		a.printf("  Phone: %s\n", p.Phone)
	}
	if p.Email != "" {
		a.printf("  Email: %s\n", p.Email)
	}
	if p.BloodGroup != "" {
		a.printf("  Blood group: %s\n", p.BloodGroup)
	}
	for _, allergy := range p.Allergies {
		a.printf("  Allergy: %s\n", allergy)
	}
}
