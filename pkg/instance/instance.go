package instance

import "github.com/angelmondragon/timbermill-backend/pkg/env"

// GetID returns the dyno, worker, or host identifier used to tag log lines.
func GetID() string {
	if id := env.First("DYNO", "WORKER_ID", "HOSTNAME"); id != "" {
		return id
	}
	return "local"
}
