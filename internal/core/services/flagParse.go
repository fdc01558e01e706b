package services

import (
	"flag"
	"os"
)

type CheckoutFlags struct {
	Port int
}
type AuditFlags struct {
	OrderID int
	Limit   int
}
type Flags struct {
	Mode     string
	Checkout CheckoutFlags
	Audit    AuditFlags
}

func FlagParse() (Flags, error) {
	help := flag.Bool("help", false, "Shows usage to the screen")

	// checkout-service, reconcile-audit
	mode := flag.String("mode", "", "Establishing the working mode for the app.")
	port := flag.Int("port", 0, "The HTTP port for the API.")

	// reconcile-audit
	order := flag.Int("order", 0, "Optional. Single order id to reconcile. If omitted, recent orders are audited.")
	limit := flag.Int("limit", 100, "Maximum number of recent orders to audit in one run.")

	flag.Parse()

	isSetByUser := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "port" {
			isSetByUser = true
		}
	})

	if *help {
		AppUsage()
		os.Exit(0)
	}

	// Checking for flag values
	err := CheckFlags(*mode, *port, *order, *limit, isSetByUser)
	if err != nil {
		return Flags{}, err
	}

	// Return 'Flags' struct
	switch *mode {
	case "checkout-service":
		if !isSetByUser {
			*port = 3000
		}
		return Flags{Mode: *mode, Checkout: CheckoutFlags{Port: *port}}, nil
	case "reconcile-audit":
		return Flags{Mode: *mode, Audit: AuditFlags{OrderID: *order, Limit: *limit}}, nil
	}
	return Flags{Mode: *mode}, nil
}
