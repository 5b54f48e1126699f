package cli

import (
	"context"

	"github.com/medidesk/clinic-records/internal/billing"
)

func (a *App) billingMenu(ctx context.Context) {
	for {
		a.println("")
		a.println("-- Billing --")
		a.println("1. Create bill")
		a.println("2. Bill from appointment")
		a.println("3. Process payment")
		a.println("4. Show invoice")
		a.println("5. Bills for a patient")
		a.println("6. Unpaid bills")
		a.println("7. Overdue bills")
		a.println("8. Cancel bill")
		a.println("0. Back")

		choice, ok := a.promptInt("Select")
		if !ok {
			return
		}
		switch choice {
		case 0:
			return
		case 1:
			a.createBill(ctx)
		case 2:
			a.billFromAppointment(ctx)
		case 3:
			a.processPayment(ctx)
		case 4:
			a.showInvoice()
		case 5:
			a.billsByPatient()
		case 6:
			a.listBills(a.billing.Unpaid())
		case 7:
			a.listBills(a.billing.Overdue())
		case 8:
			a.cancelBill(ctx)
		default:
			a.println("Unknown option.")
		}
	}
}

func (a *App) createBill(ctx context.Context) {
	var bill billing.Bill
	var ok bool
	if bill.PatientID, ok = a.prompt("Patient ID"); !ok {
		return
	}

	for {
		desc, ok := a.prompt("Item description (blank to finish)")
		if !ok {
			return
		}
		if desc == "" {
			break
		}
		qty, ok := a.promptInt("Quantity")
		if !ok {
			return
		}
		price, ok := a.promptDecimal("Unit price")
		if !ok {
			return
		}
		bill.AddItem(desc, qty, price)
	}

	if bill.Tax, ok = a.promptDecimal("Tax"); !ok {
		return
	}
	if bill.Discount, ok = a.promptDecimal("Discount"); !ok {
		return
	}

	created, err := a.billing.Create(ctx, bill)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Created %s  total %s  due %s\n", created.ID, created.Total.StringFixed(2), created.DueAt.Format(dateLayout))
}

func (a *App) billFromAppointment(ctx context.Context) {
	id, ok := a.prompt("Appointment ID")
	if !ok {
		return
	}
	bill, err := a.billing.CreateFromAppointment(ctx, id)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Created %s  total %s\n", bill.ID, bill.Total.StringFixed(2))
}

func (a *App) processPayment(ctx context.Context) {
	id, ok := a.prompt("Bill ID")
	if !ok {
		return
	}
	amount, ok := a.promptDecimal("Amount")
	if !ok {
		return
	}
	method, ok := a.prompt("Payment method")
	if !ok {
		return
	}
	bill, err := a.billing.ProcessPayment(ctx, id, amount, method)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Payment accepted. Status %s, balance %s\n", bill.Status, bill.Balance.StringFixed(2))
}

func (a *App) showInvoice() {
	id, ok := a.prompt("Bill ID")
	if !ok {
		return
	}
	text, err := a.billing.Invoice(id)
	if err != nil {
		a.fail(err)
		return
	}
	a.println(text)
}

func (a *App) billsByPatient() {
	id, ok := a.prompt("Patient ID")
	if !ok {
		return
	}
	a.listBills(a.billing.ByPatient(id))
}

func (a *App) cancelBill(ctx context.Context) {
	id, ok := a.prompt("Bill ID")
	if !ok {
		return
	}
	if err := a.billing.Cancel(ctx, id); err != nil {
		a.fail(err)
		return
	}
	a.println("Cancelled.")
}

func (a *App) listBills(bills []billing.Bill) {
	if len(bills) == 0 {
		a.println("No bills.")
		return
	}
	for _, b := range bills {
		a.printf("%s  patient %s  total %10s  balance %10s  %-9s due %s\n",
			b.ID, b.PatientID, b.Total.StringFixed(2), b.Balance.StringFixed(2), b.Status, b.DueAt.Format(dateLayout))
	}
}
