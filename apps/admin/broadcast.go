package main

import (
	"github.com/lopay/lopay/core/user"
)

// broadcast sends a platform-wide announcement, untargeted so every account
// sees it.
func (cli *commandLine) broadcast(title, message string) error {
	_, err := cli.notifSvc.Broadcast(user.Identity{Role: user.RoleAdministrator}, title, message)
	return err
}
