package config // import "github.com/tetherhq/tether-read/config"

const (
	defaultLogFile           = "tether-read.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultMongoURI          = "mongodb://127.0.0.1:27017"
	defaultMongoDatabase     = "tetherread"
	defaultBucketName        = "tether-read"
	defaultStorageEndpoint   = "127.0.0.1:9000"
	defaultStorageUseSSL     = false
	defaultMaxUploadSize     = 5
	defaultPresignTTL        = 15
	defaultSupportedType     = "application/epub+zip"
	defaultAuthJWKSURL       = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// Why use mapstructure instead of json: viper unmarshals through
// mapstructure, json field tags are not recognized.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// MongoURI is the connection string of the record store
	MongoURI string `mapstructure:"mongo_uri"`
	// MongoDatabase is the database holding the books collection
	MongoDatabase string `mapstructure:"mongo_database"`
	// StorageEndpoint is the S3-compatible endpoint holding book files
	StorageEndpoint string `mapstructure:"storage_endpoint"`
	// StorageAccessKey and StorageSecretKey authenticate against the endpoint
	StorageAccessKey string `mapstructure:"storage_access_key"`
	StorageSecretKey string `mapstructure:"storage_secret_key"`
	// StorageBucket is the bucket book files are stored in
	StorageBucket string `mapstructure:"storage_bucket"`
	// StorageUseSSL is whether to talk TLS to the storage endpoint
	StorageUseSSL bool `mapstructure:"storage_use_ssl"`
	// MaxUploadSize is the maximum size of an upload, in MiB
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
	// PresignTTL is how long issued read links stay valid, in minutes
	PresignTTL int `mapstructure:"presign_ttl"`
	// SupportedTypes is the accepted MIME types for uploads
	SupportedTypes []string `mapstructure:"supported_types"`
	// AuthJWKSURL is the identity provider's key set endpoint
	AuthJWKSURL string `mapstructure:"auth_jwks_url"`
	// AuthProjectID is the identity provider project. Tokens must carry
	// issuer https://securetoken.google.com/<project> and matching audience.
	AuthProjectID string `mapstructure:"auth_project_id"`
}

var Opts *Options

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		Host:              defaultHost,
		Port:              defaultPort,
		MongoURI:          defaultMongoURI,
		MongoDatabase:     defaultMongoDatabase,
		StorageEndpoint:   defaultStorageEndpoint,
		StorageBucket:     defaultBucketName,
		StorageUseSSL:     defaultStorageUseSSL,
		MaxUploadSize:     defaultMaxUploadSize,
		PresignTTL:        defaultPresignTTL,
		SupportedTypes:    []string{defaultSupportedType, "application/octet-stream"},
		AuthJWKSURL:       defaultAuthJWKSURL,
	}
	return Opts
}
