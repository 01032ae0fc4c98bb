package main

import (
	"context"
	"fmt"

	"github.com/mhue26/Sample-sub000/core"
)

func (cli *commandLine) sendDigest(from core.Date) error {
	n, err := cli.digestSvc.SendWeekly(context.Background(), from)
	if err != nil {
		return err
	}
	fmt.Printf("%d digest(s) sent for the week of %s\n", n, from)
	return nil
}
