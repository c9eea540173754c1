package config

type HTTP struct {
	Port             uint32   `env:"HTTP_PORT" envDefault:"8000"`
	Swagger          bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	ValidateRequests bool     `env:"HTTP_VALIDATE_REQUESTS" envDefault:"true"`
	CorsOrigins      []string `env:"HTTP_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxUploadBytes   int64    `env:"HTTP_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}
