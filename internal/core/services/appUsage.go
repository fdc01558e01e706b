package services

import "fmt"

var appUsage string = `Usage:
  ./brew-and-board [--mode <S>] [options]
  ./brew-and-board --help

Options:
  --help       Show this screen.
  --mode S     Required. Working mode. Possible mode options (S): "checkout-service", "reconcile-audit".

'Checkout-service' mode Options:
  --port N     Default: 3000. Port number. Port number 'N' must be between 1024 and 49151 inclusively.

'Reconcile-audit' mode Options:
  --order N    Optional. Single order id to reconcile. If omitted, recent orders are audited.
  --limit N    Default: 100. Maximum number of recent orders to audit in one run (1 - 1000).
`

func AppUsage() {
	fmt.Print(appUsage)
}
