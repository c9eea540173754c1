package config

import (
	"fmt"
	"strings"
	"time"
)

type Media struct {
	Driver        MediaDriver   `env:"MEDIA_DRIVER" envDefault:"CLOUDINARY"`
	UploadTimeout time.Duration `env:"MEDIA_UPLOAD_TIMEOUT" envDefault:"30s"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `env:"CLOUDINARY_FOLDER" envDefault:"ecommerce"`

	LocalDir        string `env:"MEDIA_LOCAL_DIR" envDefault:"./uploads"`
	LocalPublicPath string `env:"MEDIA_LOCAL_PUBLIC_PATH" envDefault:"/uploads"`
	LocalBaseURL    string `env:"MEDIA_LOCAL_BASE_URL" envDefault:"http://localhost:8000"`
}

// MediaDriver selects where uploaded images are hosted.
type MediaDriver uint8

const (
	MediaDriverCloudinary MediaDriver = iota
	MediaDriverLocal
)

func (d MediaDriver) String() string {
	return []string{"CLOUDINARY", "LOCAL"}[d]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *MediaDriver) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "CLOUDINARY":
		*d = MediaDriverCloudinary
	case "LOCAL":
		*d = MediaDriverLocal
	default:
		return fmt.Errorf("unknown media driver: %s", text)
	}
	return nil
}

func (d MediaDriver) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
