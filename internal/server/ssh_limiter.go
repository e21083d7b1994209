package server

import (
	"time"

	"github.com/gliderlabs/ssh"
	"golang.org/x/time/rate"
)

// SSHRateLimit allows a burst of numberOfRequests sessions across all clients,
// refilling one per hour.
func SSHRateLimit(numberOfRequests int, handler ssh.Handler) ssh.Handler {
	limiter := rate.NewLimiter(rate.Every(time.Hour), numberOfRequests)
	return func(s ssh.Session) {
		if limiter.Allow() {
			handler(s)
		} else {
			s.Write([]byte("rate limited, try again later\n"))
			s.Exit(1)
		}
	}
}
