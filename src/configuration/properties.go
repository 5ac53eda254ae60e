package configuration

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type (
	Properties struct {
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

		Server  HttpServerProperties `envPrefix:"HTTP_"`
		Model   ModelProperties      `envPrefix:"MODEL_"`
		S3      S3Properties         `envPrefix:"S3_"`
		Mail    MailProperties
		Storage StorageProperties
	}

	HttpServerProperties struct {
		Name        string        `env:"NAME" envDefault:"potholeserv"`
		Port        string        `env:"PORT" envDefault:"8000"`
		ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	}

	ModelProperties struct {
		Path       string  `env:"PATH" envDefault:"models/pothole-yolov8.onnx"`
		InputSize  int     `env:"INPUT_SIZE" envDefault:"640"`
		Confidence float32 `env:"CONFIDENCE" envDefault:"0.05"`
		NMS        float32 `env:"NMS" envDefault:"0.45"`
	}

	// S3Properties configures the optional bucket the model weights are
	// fetched from when MODEL_PATH does not exist locally.
	S3Properties struct {
		Host      string        `env:"HOST"`
		AccessKey string        `env:"ACCESS_KEY"`
		SecretKey string        `env:"SECRET_KEY"`
		Bucket    string        `env:"BUCKET" envDefault:"models"`
		ModelKey  string        `env:"MODEL_KEY" envDefault:"pothole-yolov8.onnx"`
		UseSSL    bool          `env:"USE_SSL" envDefault:"true"`
		Timeout   time.Duration `env:"TIMEOUT" envDefault:"60s"`
	}

	// MailProperties keeps the original env names so existing deployments
	// do not need new variables.
	MailProperties struct {
		Host     string `env:"SMTP_HOST"`
		Port     int    `env:"SMTP_PORT" envDefault:"587"`
		Username string `env:"SMTP_USERNAME"`
		Password string `env:"SMTP_PASSWORD"`
		From     string `env:"FROM_EMAIL"`
	}

	StorageProperties struct {
		SaveOutputs bool   `env:"SAVE_OUTPUTS" envDefault:"false"`
		StaticDir   string `env:"STATIC_DIR" envDefault:"static"`
		FrontendDir string `env:"FRONTEND_DIR" envDefault:"frontend"`
	}
)

func ReadProperties() *Properties {
	config := &Properties{}

	if err := env.Parse(config); err != nil {
		panic(fmt.Errorf("read config error: %w", err))
	}
	return config
}

// FromAddress resolves the sender address: explicit FROM_EMAIL first,
// then the relay username, then a placeholder.
func (m MailProperties) FromAddress() string {
	if m.From != "" {
		return m.From
	}
	if m.Username != "" {
		return m.Username
	}
	return "no-reply@example.com"
}
