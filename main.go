// Command job-matcher scores résumés against job postings from the command
// line or as a RabbitMQ worker.
package main

import (
	"os"

	"github.com/spigell/job-matcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
