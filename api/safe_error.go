package api

import (
	"github.com/hornetmadness/MyBudget/config"
)

// SafeErrorMessage keeps internal error details out of release-mode
// responses.
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
