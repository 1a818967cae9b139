package main

import (
	"fmt"

	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
)

// dueAlerts refreshes every dependent's due-date status and alerts the owning
// guardian when a plan has slipped to Due Soon or Overdue. Intended to run
// from cron once a day.
func (cli *commandLine) dueAlerts() error {
	changed, err := cli.depSvc.RefreshStatuses()
	if err != nil {
		return err
	}

	var alerted int
	for _, dep := range changed {
		if dep.Status != dependent.StatusDueSoon && dep.Status != dependent.StatusOverdue {
			continue
		}
		if _, err = cli.notifSvc.DueAlert(notification.DueAlert{
			OwnerID:       dep.OwnerID,
			DependentName: dep.Name,
			Amount:        dep.NextInstallmentAmount,
			DueDate:       dep.NextDueDate,
			Overdue:       dep.Status == dependent.StatusOverdue,
		}); err != nil {
			return err
		}
		alerted++
	}
	fmt.Printf("%d status change(s), %d alert(s) sent\n", len(changed), alerted)
	return nil
}
