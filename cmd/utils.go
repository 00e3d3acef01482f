package cmd

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"nn-visualizer/internal/storage"

	"github.com/joho/godotenv"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// ModelSource resolves a model path to the provider, bucket and key it can be
// read from. Paths of the form s3://bucket/key are read through S3, anything
// else from the local filesystem.
func ModelSource(path string, s3Cfg storage.S3ClientConfig) (storage.Provider, string, string, error) {
	if storage.IsS3URI(path) {
		bucket, key, err := storage.ParseS3URI(path)
		if err != nil {
			return nil, "", "", err
		}
		provider, err := storage.NewS3Provider(s3Cfg)
		if err != nil {
			return nil, "", "", fmt.Errorf("error creating s3 provider: %w", err)
		}
		return provider, bucket, key, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", "", fmt.Errorf("invalid model path '%s': %w", path, err)
	}
	return storage.NewLocalProvider(filepath.Dir(abs)), "", filepath.Base(abs), nil
}
