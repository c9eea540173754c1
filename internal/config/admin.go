package config

type Admin struct {
	Password string `env:"ADMIN_PASSWORD,required,notEmpty"`

	// FailedAttemptsPerMinute bounds wrong-password guesses per client. Zero disables throttling.
	FailedAttemptsPerMinute int `env:"ADMIN_FAILED_ATTEMPTS_PER_MINUTE" envDefault:"10"`
	// TrackedClients caps how many clients the throttle remembers.
	TrackedClients          int `env:"ADMIN_TRACKED_CLIENTS" envDefault:"4096"`
}
