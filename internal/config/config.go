package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Storage       StorageConfig
	Pipeline      PipelineConfig
	Workers       WorkerConfig
	Kubernetes    KubernetesConfig
	ModelEndpoint ModelEndpointConfig
	Logger        LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN builds the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type StorageConfig struct {
	Bucket      string
	Region      string
	Endpoint    string
	VideoPrefix string
}

type PipelineConfig struct {
	DetectionConfidence   float64
	RecognitionConfidence float64
	IoUThreshold          float64
	MinTrackSeconds       float64
	BandEnabled           bool
	BandMin               float64
	BandMax               float64
	TempDir               string
	FFmpegPath            string
	FFprobePath           string
}

type WorkerConfig struct {
	Count          int
	QueueSize      int
	StartedTimeout time.Duration
}

type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	DefaultNS      string
	StorageURI     string
}

type ModelEndpointConfig struct {
	DetectURL    string
	RecognizeURL string
	Timeout      time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "plates")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("S3_BUCKET", "plate-artifacts")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_VIDEO_PREFIX", "mesos")

	v.SetDefault("DETECTION_CONFIDENCE", 0.95)
	v.SetDefault("RECOGNITION_CONFIDENCE", 0.95)
	v.SetDefault("IOU_THRESHOLD", 0.5)
	v.SetDefault("MIN_TRACK_SECONDS", 30.0)
	v.SetDefault("DETECTION_BAND_ENABLED", true)
	v.SetDefault("DETECTION_BAND_MIN", 0.25)
	v.SetDefault("DETECTION_BAND_MAX", 0.75)
	v.SetDefault("TEMP_DIR", "temp/videos")
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("FFPROBE_PATH", "ffprobe")

	v.SetDefault("WORKER_COUNT", 2)
	v.SetDefault("JOB_QUEUE_SIZE", 32)
	v.SetDefault("JOB_STARTED_TIMEOUT", "0s")

	v.SetDefault("KSERVE_ENABLED", false)
	v.SetDefault("KSERVE_IN_CLUSTER", false)
	v.SetDefault("KSERVE_KUBECONFIG", "")
	v.SetDefault("KSERVE_NAMESPACE", "model-serving")
	v.SetDefault("KSERVE_STORAGE_URI", "s3://plate-artifacts")

	v.SetDefault("MODEL_ENDPOINT_DETECT_URL", "http://localhost:8501/detect")
	v.SetDefault("MODEL_ENDPOINT_RECOGNIZE_URL", "http://localhost:8501/recognize")
	v.SetDefault("MODEL_ENDPOINT_TIMEOUT", "30s")

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	startedTimeout, err := time.ParseDuration(v.GetString("JOB_STARTED_TIMEOUT"))
	if err != nil {
		startedTimeout = 0
	}
	endpointTimeout, err := time.ParseDuration(v.GetString("MODEL_ENDPOINT_TIMEOUT"))
	if err != nil {
		endpointTimeout = 30 * time.Second
	}
	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Storage: StorageConfig{
			Bucket:      v.GetString("S3_BUCKET"),
			Region:      v.GetString("S3_REGION"),
			Endpoint:    v.GetString("S3_ENDPOINT"),
			VideoPrefix: v.GetString("S3_VIDEO_PREFIX"),
		},
		Pipeline: PipelineConfig{
			DetectionConfidence:   v.GetFloat64("DETECTION_CONFIDENCE"),
			RecognitionConfidence: v.GetFloat64("RECOGNITION_CONFIDENCE"),
			IoUThreshold:          v.GetFloat64("IOU_THRESHOLD"),
			MinTrackSeconds:       v.GetFloat64("MIN_TRACK_SECONDS"),
			BandEnabled:           v.GetBool("DETECTION_BAND_ENABLED"),
			BandMin:               v.GetFloat64("DETECTION_BAND_MIN"),
			BandMax:               v.GetFloat64("DETECTION_BAND_MAX"),
			TempDir:               v.GetString("TEMP_DIR"),
			FFmpegPath:            v.GetString("FFMPEG_PATH"),
			FFprobePath:           v.GetString("FFPROBE_PATH"),
		},
		Workers: WorkerConfig{
			Count:          v.GetInt("WORKER_COUNT"),
			QueueSize:      v.GetInt("JOB_QUEUE_SIZE"),
			StartedTimeout: startedTimeout,
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("KSERVE_ENABLED"),
			InCluster:      v.GetBool("KSERVE_IN_CLUSTER"),
			KubeConfigPath: v.GetString("KSERVE_KUBECONFIG"),
			DefaultNS:      v.GetString("KSERVE_NAMESPACE"),
			StorageURI:     v.GetString("KSERVE_STORAGE_URI"),
		},
		ModelEndpoint: ModelEndpointConfig{
			DetectURL:    v.GetString("MODEL_ENDPOINT_DETECT_URL"),
			RecognizeURL: v.GetString("MODEL_ENDPOINT_RECOGNIZE_URL"),
			Timeout:      endpointTimeout,
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
