// Package cli implements the interactive console for the clinic. Each
// top-level menu entry maps onto one of the domain services; all input
// handling and rendering lives here so the services stay plain Go APIs.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/medidesk/clinic-records/internal/billing"
	"github.com/medidesk/clinic-records/internal/ehr"
	"github.com/medidesk/clinic-records/internal/inventory"
	"github.com/medidesk/clinic-records/internal/patient"
	"github.com/medidesk/clinic-records/internal/scheduling"
	"github.com/medidesk/clinic-records/internal/staff"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

type App struct {
	patients  *patient.Service
	staff     *staff.Service
	schedule  *scheduling.Service
	billing   *billing.Service
	records   *ehr.Service
	inventory *inventory.Service
	log       zerolog.Logger

	in  *bufio.Scanner
	out io.Writer
}

func New(
	patients *patient.Service,
	staffSvc *staff.Service,
	schedule *scheduling.Service,
	billingSvc *billing.Service,
	records *ehr.Service,
	inventorySvc *inventory.Service,
	log zerolog.Logger,
	in io.Reader,
	out io.Writer,
) *App {
	return &App{
		patients:  patients,
		staff:     staffSvc,
		schedule:  schedule,
		billing:   billingSvc,
		records:   records,
		inventory: inventorySvc,
		log:       log,
		in:        bufio.NewScanner(in),
		out:       out,
	}
}

// Run drives the main menu until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	for {
		a.println("")
		a.println("=== Clinic Records ===")
		a.println("1. Patients")
		a.println("2. Doctors & staff")
		a.println("3. Appointments")
		a.println("4. Billing")
		a.println("5. Health records")
		a.println("6. Inventory")
		a.println("7. Reports")
		a.println("0. Exit")

		choice, ok := a.promptInt("Select")
		if !ok {
			return nil
		}
		switch choice {
		case 0:
			a.println("Goodbye.")
			return nil
		case 1:
			a.patientMenu(ctx)
		case 2:
			a.staffMenu(ctx)
		case 3:
			a.appointmentMenu(ctx)
		case 4:
			a.billingMenu(ctx)
		case 5:
			a.recordMenu(ctx)
		case 6:
			a.inventoryMenu(ctx)
		case 7:
			a.reportsMenu()
		default:
			a.println("Unknown option.")
		}
	}
}

func (a *App) println(s string)                   { fmt.Fprintln(a.out, s) }
func (a *App) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

// fail reports a service error to the user and the log.
func (a *App) fail(err error) {
	a.printf("Error: %v\n", err)
	a.log.Debug().Err(err).Msg("operation failed")
}

// prompt reads one trimmed line. ok is false once input is exhausted.
func (a *App) prompt(label string) (string, bool) {
	a.printf("%s: ", label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// promptInt keeps asking until it gets a valid integer or input ends.
func (a *App) promptInt(label string) (int, bool) {
	for {
		s, ok := a.prompt(label)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			a.println("Please enter a number.")
			continue
		}
		return n, true
	}
}

// promptDecimal keeps asking until it gets a valid amount or input ends.
func (a *App) promptDecimal(label string) (decimal.Decimal, bool) {
	for {
		s, ok := a.prompt(label)
		if !ok {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			a.println("Please enter an amount like 125.50.")
			continue
		}
		return d, true
	}
}

// promptDate keeps asking for a YYYY-MM-DD date. A blank entry returns
// the zero time, letting callers treat the field as optional.
func (a *App) promptDate(label string) (time.Time, bool) {
	for {
		s, ok := a.prompt(label + " (YYYY-MM-DD)")
		if !ok {
			return time.Time{}, false
		}
		if s == "" {
			return time.Time{}, true
		}
		t, err := parseDate(s)
		if err != nil {
			a.println("Please use YYYY-MM-DD.")
			continue
		}
		return t, true
	}
}

// promptDateTime keeps asking for a YYYY-MM-DD HH:MM timestamp.
func (a *App) promptDateTime(label string) (time.Time, bool) {
	for {
		s, ok := a.prompt(label + " (YYYY-MM-DD HH:MM)")
		if !ok {
			return time.Time{}, false
		}
		t, err := parseDateTime(s)
		if err != nil {
			a.println("Please use YYYY-MM-DD HH:MM.")
			continue
		}
		return t, true
	}
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
}

func parseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(dateTimeLayout, strings.TrimSpace(s), time.Local)
}

// splitList turns "a, b, c" into its non-empty parts.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
