package cli

import (
	"context"

	"github.com/medidesk/clinic-records/internal/inventory"
)

func (a *App) inventoryMenu(ctx context.Context) {
	for {
		a.println("")
		a.println("-- Inventory --")
		a.println("1. Add supply")
		a.println("2. Add stock")
		a.println("3. Remove stock")
		a.println("4. Search by name")
		a.println("5. Low stock")
		a.println("6. Expired")
		a.println("7. Expiring soon")
		a.println("8. Alerts")
		a.println("0. Back")

		choice, ok := a.promptInt("Select")
		if !ok {
			return
		}
		switch choice {
		case 0:
			return
		case 1:
			a.addSupply(ctx)
		case 2:
			a.addStock(ctx)
		case 3:
			a.removeStock(ctx)
		case 4:
			a.searchSupplies()
		case 5:
			a.listSupplies(a.inventory.LowStock())
		case 6:
			a.listSupplies(a.inventory.Expired())
		case 7:
			a.listSupplies(a.inventory.ExpiringSoon())
		case 8:
			a.showAlerts()
		default:
			a.println("Unknown option.")
		}
	}
}

func (a *App) addSupply(ctx context.Context) {
	var sup inventory.Supply
	var ok bool
	if sup.Name, ok = a.prompt("Name"); !ok {
		return
	}
	category, ok := a.prompt("Category")
	if !ok {
		return
	}
	sup.Category = inventory.Category(category)
	if sup.CurrentStock, ok = a.promptInt("Current stock"); !ok {
		return
	}
	if sup.MinimumStock, ok = a.promptInt("Minimum stock"); !ok {
		return
	}
	if sup.UnitPrice, ok = a.promptDecimal("Unit price"); !ok {
		return
	}
	expiry, ok := a.promptDate("Expiry date (blank for none)")
	if !ok {
		return
	}
	if !expiry.IsZero() {
		sup.ExpiryDate = &expiry
	}
	if sup.Supplier, ok = a.prompt("Supplier"); !ok {
		return
	}

	created, err := a.inventory.Add(ctx, sup)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("Added %s as %s (%s)\n", created.Name, created.ID, created.Status)
}

func (a *App) addStock(ctx context.Context) {
	id, ok := a.prompt("Supply ID")
	if !ok {
		return
	}
	qty, ok := a.promptInt("Quantity")
	if !ok {
		return
	}
	sup, err := a.inventory.AddStock(ctx, id, qty)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("%s now at %d (%s)\n", sup.ID, sup.CurrentStock, sup.Status)
}

func (a *App) removeStock(ctx context.Context) {
	id, ok := a.prompt("Supply ID")
	if !ok {
		return
	}
	qty, ok := a.promptInt("Quantity")
	if !ok {
		return
	}
	sup, err := a.inventory.RemoveStock(ctx, id, qty)
	if err != nil {
		a.fail(err)
		return
	}
	a.printf("%s now at %d (%s)\n", sup.ID, sup.CurrentStock, sup.Status)
}

func (a *App) searchSupplies() {
	q, ok := a.prompt("Name contains")
	if !ok {
		return
	}
	a.listSupplies(a.inventory.SearchByName(q))
}

func (a *App) showAlerts() {
	alerts := a.inventory.Alerts()
	if len(alerts) == 0 {
		a.println("Nothing needs attention.")
		return
	}
	for _, alert := range alerts {
		a.println(alert)
	}
}

func (a *App) listSupplies(supplies []inventory.Supply) {
	if len(supplies) == 0 {
		a.println("No supplies.")
		return
	}
	for _, sup := range supplies {
		expiry := "-"
		if sup.ExpiryDate != nil {
			expiry = sup.ExpiryDate.Format(dateLayout)
		}
		a.printf("%s  %-28s stock %5d (min %d)  %-12s expires %s\n",
			sup.ID, sup.Name, sup.CurrentStock, sup.MinimumStock, sup.Status, expiry)
	}
}
