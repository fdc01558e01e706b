package services

import (
	"errors"
	"fmt"

	"brew-and-board/internal/core/utils"
)

func CheckFlags(mode string, port, orderID, limit int, isSetByUser bool) error {
	switch mode {
	case "checkout-service":
		if err := utils.CheckPort(port, isSetByUser); err != nil {
			return err
		}
	case "reconcile-audit":
		if orderID < 0 {
			errMessage := fmt.Sprintf("invalid 'order' value: %d", orderID)
			return errors.New(errMessage)
		}
		if limit <= 0 || limit > 1000 {
			errMessage := fmt.Sprintf("invalid 'limit' value: %d", limit)
			return errors.New(errMessage)
		}
	default:
		errMessage := fmt.Sprintf("invalid 'mode' value: %s", mode)
		return errors.New(errMessage)
	}
	return nil
}
