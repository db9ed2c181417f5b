// Command mng runs maintenance tasks against the shop database.
package main

import (
	"os"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/config"
)

func main() {
	config.LoadDotenv()
	if err := newRootCmd(openEnv).Execute(); err != nil {
		os.Exit(1)
	}
}
