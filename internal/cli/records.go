package cli

import (
	"context"

	"github.com/medidesk/clinic-records/internal/ehr"
)

func (a *App) recordMenu(ctx context.Context) {
	for {
		a.println("")
		a.println("-- Health records --")
		a.println("1. Add visit record")
		a.println("2. Patient history")
		a.println("3. Records for a doctor")
		a.println("4. Search by diagnosis")
		a.println("5. Follow-ups due")
		a.println("0. Back")

		choice, ok := a.promptInt("Select")
		if !ok {
			return
		}
		switch choice {
		case 0:
			return
		case 1:
			a.addRecord(ctx)
		case 2:
			a.patientHistory()
		case 3:
			a.recordsByDoctor()
		case 4:
			a.searchDiagnosis()
		case 5:
			a.followUpsDue()
		default:
			a.println("Unknown option.")
		}
	}
}

func (a *App) addRecord(ctx context.Context) {
	var r ehr.HealthRecord
	var ok bool
	if r.PatientID, ok = a.prompt("Patient ID"); !ok {
		return
	}
	if r.DoctorID, ok = a.prompt("Doctor ID"); !ok {
		return
	}
	if r.VisitDate, ok = a.promptDate("Visit date"); !ok {
		return
	}
	if r.ChiefComplaint, ok = a.prompt("Chief complaint"); !ok {
		return
	}
	symptoms, ok := a.prompt("Symptoms (comma separated)")
	if !ok {
		return
	}
	r.Symptoms = splitList(symptoms)
	if r.Diagnosis, ok = a.prompt("Diagnosis"); !ok {
		return
	}
	if r.Treatment, ok = a.prompt("Treatment"); !ok {
		return
	}

	for {
		med, ok := a.prompt("Prescription medication (blank to finish)")
		if !ok {
			return
		}
		if med == "" {
			break
		}
		dosage, ok := a.prompt("Dosage")
		if !ok {
			return
		}
		freq, ok := a.prompt("Frequency")
		if !ok {
			return
		}
		r.Prescriptions = append(r.Prescriptions, ehr.Prescription{Medication: med, Dosage: dosage, Frequency: freq})
	}

	answer, ok := a.prompt("Follow-up needed? (y/n)")
	if !ok {
		return
	}
	if answer == "y" || answer == "Y" {
		r.FollowUp = true
		next, ok := a.promptDate("Next visit date")
		if !ok {
			return
		}
		if !next.IsZero() {
			r.NextVisitDate = &next
		}
	}

	created, err := a.records.Add(ctx, r)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Recorded visit %s\n", created.ID)
}

func (a *App) patientHistory() {
	id, ok := a.prompt("Patient ID")
	if !ok {
		return
	}
	text, err := a.records.HistorySummary(id)
	if err != nil {
		a.fail(err)
		return
	}
	a.println(text)
}

func (a *App) recordsByDoctor() {
	id, ok := a.prompt("Doctor ID")
	if !ok {
		return
	}
	a.listRecords(a.records.ByDoctor(id))
}

func (a *App) searchDiagnosis() {
	q, ok := a.prompt("Diagnosis contains")
	if !ok {
		return
	}
	a.listRecords(a.records.SearchByDiagnosis(q))
}

func (a *App) followUpsDue() {
	a.listRecords(a.records.FollowUpsDue())
}

func (a *App) listRecords(records []ehr.HealthRecord) {
	if len(records) == 0 {
		a.println("No records.")
		return
	}
	for _, r := range records {
		a.printf("%s  %s  patient %s  doctor %s  %s\n",
			r.ID, r.VisitDate.Format(dateLayout), r.PatientID, r.DoctorID, r.Diagnosis)
	}
}
