// Package guard switches the process into test mode when imported, so
// entry points exercised from tests skip their runtime side effects.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("BAKERY_TEST_MODE") == "" {
			_ = os.Setenv("BAKERY_TEST_MODE", "1")
		}
	})
}
